package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/ctsort/internal/logging"
	"github.com/Iron-Ham/ctsort/internal/orientation"
	"github.com/Iron-Ham/ctsort/internal/recording"
)

// EnvPrefix is prepended to environment overrides, e.g. CTSORT_LOGGING_LEVEL.
const EnvPrefix = "CTSORT"

// Config represents the complete ctsort configuration
type Config struct {
	Recordings map[string]int   `mapstructure:"recordings" yaml:"recordings"`
	Paths      PathsConfig      `mapstructure:"paths" yaml:"paths"`
	Input      InputConfig      `mapstructure:"input" yaml:"input"`
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier"`
	Categorize CategorizeConfig `mapstructure:"categorize" yaml:"categorize"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics" yaml:"metrics"`
}

// PathsConfig controls where recordings are read from and written to
type PathsConfig struct {
	// InputRoot holds <set>/recording<N>/ directories of raw slices
	InputRoot string `mapstructure:"input_root" yaml:"input_root"`
	// OutputRoot receives the categorized tree and the debug log
	OutputRoot string `mapstructure:"output_root" yaml:"output_root"`
	// LogName is the per-recording log artifact (default: "log.txt")
	LogName string `mapstructure:"log_name" yaml:"log_name"`
}

// InputConfig controls slice discovery
type InputConfig struct {
	// Pattern is a doublestar glob relative to the recording directory
	// (default: "*.dcm"). Use "**/*.dcm" to descend into series folders.
	Pattern string `mapstructure:"pattern" yaml:"pattern"`
}

// ClassifierConfig selects the geometric plane classifier
type ClassifierConfig struct {
	// Strategy is "cross_product" or "rounded_pattern" (default: "cross_product")
	Strategy string `mapstructure:"strategy" yaml:"strategy"`
	// CrossCheck runs the other strategy on every slice and logs disagreements
	CrossCheck bool `mapstructure:"cross_check" yaml:"cross_check"`
}

// CategorizeConfig controls the categorization stage
type CategorizeConfig struct {
	// Clean empties the plane directories before categorizing
	Clean bool `mapstructure:"clean" yaml:"clean"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether the debug log is written (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// Compress gzips rotated backups
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// MetricsConfig controls the Prometheus textfile export
type MetricsConfig struct {
	// Textfile is written after every run when non-empty. Point it at a
	// node_exporter textfile collector directory to scrape run statistics.
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Recordings: map[string]int{
			"MD1": 24,
			"MD2": 19,
		},
		Paths: PathsConfig{
			InputRoot:  "recordings",
			OutputRoot: "categorized_ct_slices",
			LogName:    recording.DefaultLogName,
		},
		Input: InputConfig{
			Pattern: recording.DefaultPattern,
		},
		Classifier: ClassifierConfig{
			Strategy:   string(orientation.StrategyCrossProduct),
			CrossCheck: false,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      logging.LevelInfo,
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   false,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// recordings has no viper default: viper flattens map defaults into
	// per-key entries, which would merge the default sets into any
	// configured mapping. Load fills it in instead.

	viper.SetDefault("paths.input_root", defaults.Paths.InputRoot)
	viper.SetDefault("paths.output_root", defaults.Paths.OutputRoot)
	viper.SetDefault("paths.log_name", defaults.Paths.LogName)

	viper.SetDefault("input.pattern", defaults.Input.Pattern)

	viper.SetDefault("classifier.strategy", defaults.Classifier.Strategy)
	viper.SetDefault("classifier.cross_check", defaults.Classifier.CrossCheck)

	viper.SetDefault("categorize.clean", defaults.Categorize.Clean)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	viper.SetDefault("metrics.textfile", defaults.Metrics.Textfile)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Recordings = normalizeSets(cfg.Recordings)
	if len(cfg.Recordings) == 0 {
		cfg.Recordings = Default().Recordings
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// normalizeSets upper-cases set names. Viper folds map keys to lower case,
// while recording sets are named MD1, MD2 on disk.
func normalizeSets(sets map[string]int) map[string]int {
	if sets == nil {
		return nil
	}
	out := make(map[string]int, len(sets))
	for name, n := range sets {
		out[strings.ToUpper(name)] = n
	}
	return out
}

// Layout returns the directory layout described by the paths section.
func (c *Config) Layout() recording.Layout {
	return recording.Layout{
		InputRoot:  c.Paths.InputRoot,
		OutputRoot: c.Paths.OutputRoot,
		LogName:    c.Paths.LogName,
	}
}

// RecordingIDs lists every configured recording in processing order.
func (c *Config) RecordingIDs() []recording.ID {
	return recording.IDs(c.Recordings)
}

// RotationConfig returns the log rotation settings.
func (c *Config) RotationConfig() logging.RotationConfig {
	return logging.RotationConfig{
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		Compress:   c.Logging.Compress,
	}
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ctsort")
	}
	// Fall back to ~/.config/ctsort
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ctsort"
	}
	return filepath.Join(home, ".config", "ctsort")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// SearchPaths returns the directories searched for config.yaml, in order.
func SearchPaths() []string {
	paths := []string{ConfigDir()}
	if home, err := os.UserHomeDir(); err == nil {
		if p := filepath.Join(home, ".config", "ctsort"); p != paths[0] {
			paths = append(paths, p)
		}
	}
	return append(paths, ".")
}
