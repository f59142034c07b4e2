package model

import "time"

// Config holds every tunable of the sst command line
type Config struct {
	Mode              string  `yaml:"mode" mapstructure:"mode"`                             // basic, guided, automated
	CoherenceScore    float64 `yaml:"coherence_score" mapstructure:"coherence_score"`       // Default initial coherence (0-100)
	InitialConfidence float64 `yaml:"initial_confidence" mapstructure:"initial_confidence"` // Default for selftest (0-100)

	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
}

// OutputConfig controls how reports are written
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // text, json, yaml
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// BatchConfig controls batch evaluation
type BatchConfig struct {
	Workers  int           `yaml:"workers" mapstructure:"workers"`
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"` // Memo lifetime for identical claims, 0 disables
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:              string(ModeBasic),
		CoherenceScore:    75,
		InitialConfidence: 75,
		Output: OutputConfig{
			Format: "text",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Batch: BatchConfig{
			Workers:  4,
			CacheTTL: 10 * time.Minute,
		},
	}
}
