package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// JSONLibrary selects the encoder used for result files
type JSONLibrary string

const (
	JSONLibraryStandard JSONLibrary = "standard"
	JSONLibrarySonic    JSONLibrary = "sonic"
)

// RunnerConfig holds timing settings
type RunnerConfig struct {
	Warmups int           `mapstructure:"warmups" yaml:"warmups" json:"warmups"`
	Samples int           `mapstructure:"samples" yaml:"samples" json:"samples"`
	MinTime time.Duration `mapstructure:"min_time" yaml:"min_time" json:"min_time"` // 0 keeps the testing default of 1s
}

// OutputConfig holds result file settings
type OutputConfig struct {
	Path        string      `mapstructure:"path" yaml:"path" json:"path"`
	JSONLibrary JSONLibrary `mapstructure:"json_library" yaml:"json_library" json:"json_library"`
	Compact     bool        `mapstructure:"compact" yaml:"compact" json:"compact"`
	EscapeHTML  bool        `mapstructure:"escape_html" yaml:"escape_html" json:"escape_html"`
}

// MetricsConfig holds prometheus export settings
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace" yaml:"namespace" json:"namespace"`
	Textfile  string `mapstructure:"textfile" yaml:"textfile" json:"textfile"`
	Listen    string `mapstructure:"listen" yaml:"listen" json:"listen"` // serve /metrics here after the run until interrupted
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	Output string `mapstructure:"output" yaml:"output" json:"output"`
}

// Config represents the main configuration structure
type Config struct {
	Runner  RunnerConfig  `mapstructure:"runner" yaml:"runner" json:"runner"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output" json:"output"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Runner: RunnerConfig{
			Warmups: 1,
			Samples: 20,
		},
		Output: OutputConfig{
			JSONLibrary: JSONLibraryStandard,
			Compact:     false,
			EscapeHTML:  false,
		},
		Metrics: MetricsConfig{
			Namespace: "numbench",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// LoadConfig loads configuration from file and NUMBENCH_* environment
// variables. A nil v uses a fresh viper instance.
func LoadConfig(v *viper.Viper, configPath string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	config := DefaultConfig()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("numbench")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/numbench")
	}

	v.SetEnvPrefix("NUMBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// AutomaticEnv only applies to keys viper already knows about, so every
// key is registered up front.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"runner.warmups", "runner.samples", "runner.min_time",
		"output.path", "output.json_library", "output.compact", "output.escape_html",
		"metrics.namespace", "metrics.textfile", "metrics.listen",
		"logging.level", "logging.format", "logging.output",
	} {
		_ = v.BindEnv(key)
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Runner.Warmups < 0 {
		return fmt.Errorf("warmups must not be negative: %d", c.Runner.Warmups)
	}

	if c.Runner.Samples <= 0 {
		return fmt.Errorf("samples must be greater than 0")
	}

	if c.Runner.MinTime < 0 {
		return fmt.Errorf("min time must not be negative: %s", c.Runner.MinTime)
	}

	switch c.Output.JSONLibrary {
	case JSONLibraryStandard, JSONLibrarySonic:
		// Valid
	default:
		return fmt.Errorf("invalid json library: %s", c.Output.JSONLibrary)
	}

	if c.Metrics.Namespace == "" {
		return fmt.Errorf("metrics namespace must not be empty")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	switch c.Logging.Output {
	case "stdout", "stderr":
		// Valid
	default:
		return fmt.Errorf("invalid log output: %s", c.Logging.Output)
	}

	return nil
}
