package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/sst/internal/model"
)

// Output formats accepted by --output
const (
	formatText     = "text"
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatTable    = "table"
	formatMarkdown = "markdown"
)

// outputFormat returns the --output flag when set, else the configured format
func outputFormat(flag string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	return strings.ToLower(cfg.Output.Format)
}

// writeResult writes text as-is, or v encoded as JSON or YAML
func writeResult(w io.Writer, format, text string, v interface{}) error {
	switch format {
	case formatText, "":
		_, err := fmt.Fprintln(w, strings.TrimRight(text, "\n"))
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: unknown output format %q (choose from text, json, yaml)", model.ErrConfiguration, format)
}

// scoreFlag returns the named 0-100 flag when it was given on the command
// line, else fallback. Given values outside 0-100 are configuration errors.
func scoreFlag(cmd *cobra.Command, name string, value, fallback float64) (float64, error) {
	if !cmd.Flags().Changed(name) {
		return fallback, nil
	}
	if value < 0 || value > 100 {
		return 0, fmt.Errorf("%w: --%s %v outside 0-100", model.ErrConfiguration, name, value)
	}
	return value, nil
}
