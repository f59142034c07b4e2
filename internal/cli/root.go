package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/sst/internal/logging"
	"github.com/ppiankov/sst/internal/model"
)

// Version is the sst release, overridden at build time with -ldflags
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool

	// cfg is loaded before every command runs
	cfg *model.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sst",
	Short: "SST - Socratic Stress Test for claims (FACT / HYP / UNK)",
	Long: `SST runs a claim through a seven-stage Socratic Stress Test and labels it
FACT, HYP (hypothesis) or UNK (unknown) with a confidence score.

The stages formulate the statement, extract its assumptions, identify
sources, test coherence, quantify confidence, classify and report.

Classification is heuristic. SST questions a claim; it does not verify it.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of SST.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sst %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.sst/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringP("mode", "m", "", "operating mode: basic, guided, automated")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text, json")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	setDefaults(viper.GetViper(), model.DefaultConfig())

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// setDefaults registers every built-in default so env vars and empty flags
// fall back to them
func setDefaults(v *viper.Viper, d *model.Config) {
	v.SetDefault("mode", d.Mode)
	v.SetDefault("coherence_score", d.CoherenceScore)
	v.SetDefault("initial_confidence", d.InitialConfidence)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.verbose", d.Output.Verbose)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("batch.workers", d.Batch.Workers)
	v.SetDefault("batch.cache_ttl", d.Batch.CacheTTL)
}

// configDir returns $HOME/.sst
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".sst"), nil
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match SST_*
	viper.SetEnvPrefix("SST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setup loads the effective configuration and configures logging
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = loaded

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrConfiguration, err)
	}
	if cfg.Output.Verbose && level > slog.LevelInfo {
		level = slog.LevelInfo
	}
	logging.Init(level, cfg.Log.Format, cmd.ErrOrStderr())

	return nil
}

// loadConfig merges defaults, config file, env and flags into a Config
func loadConfig(v *viper.Viper) (*model.Config, error) {
	c := model.DefaultConfig()
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("%w: decode config: %v", model.ErrConfiguration, err)
	}

	mode, err := model.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	c.Mode = string(mode)

	if c.CoherenceScore < 0 || c.CoherenceScore > 100 {
		return nil, fmt.Errorf("%w: coherence_score %v outside 0-100", model.ErrConfiguration, c.CoherenceScore)
	}

	return c, nil
}
