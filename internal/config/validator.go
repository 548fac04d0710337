package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Iron-Ham/ctsort/internal/logging"
	"github.com/Iron-Ham/ctsort/internal/orientation"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "input.pattern")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// setNameRegex matches recording set names, which become directory names.
var setNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// maxRecordingsPerSet bounds a single set's count to catch typos.
const maxRecordingsPerSet = 10000

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateRecordings()...)
	errors = append(errors, c.validatePaths()...)
	errors = append(errors, c.validateInput()...)
	errors = append(errors, c.validateClassifier()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateMetrics()...)

	return errors
}

// validateRecordings validates the set → count mapping
func (c *Config) validateRecordings() []ValidationError {
	var errors []ValidationError

	if len(c.Recordings) == 0 {
		errors = append(errors, ValidationError{
			Field:   "recordings",
			Value:   c.Recordings,
			Message: "at least one recording set is required",
		})
		return errors
	}

	// Sorted so the error order is stable
	names := make([]string, 0, len(c.Recordings))
	for name := range c.Recordings {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		field := "recordings." + name
		if !setNameRegex.MatchString(name) {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   name,
				Message: "set name must start with a letter or digit and contain only letters, digits, hyphens, or underscores",
			})
		}
		count := c.Recordings[name]
		if count <= 0 {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   count,
				Message: "recording count must be positive",
			})
		}
		if count > maxRecordingsPerSet {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   count,
				Message: fmt.Sprintf("exceeds maximum of %d recordings", maxRecordingsPerSet),
			})
		}
	}

	return errors
}

// validatePaths validates the PathsConfig
func (c *Config) validatePaths() []ValidationError {
	var errors []ValidationError

	if c.Paths.InputRoot == "" {
		errors = append(errors, ValidationError{
			Field:   "paths.input_root",
			Value:   c.Paths.InputRoot,
			Message: "must not be empty",
		})
	}
	if c.Paths.OutputRoot == "" {
		errors = append(errors, ValidationError{
			Field:   "paths.output_root",
			Value:   c.Paths.OutputRoot,
			Message: "must not be empty",
		})
	}

	if c.Paths.InputRoot != "" && c.Paths.OutputRoot != "" &&
		filepath.Clean(c.Paths.InputRoot) == filepath.Clean(c.Paths.OutputRoot) {
		errors = append(errors, ValidationError{
			Field:   "paths.output_root",
			Value:   c.Paths.OutputRoot,
			Message: "must differ from paths.input_root",
		})
	}

	// The log artifact sits next to the plane directories, never inside them
	if name := c.Paths.LogName; name != "" && (filepath.Base(name) != name || name == "." || name == "..") {
		errors = append(errors, ValidationError{
			Field:   "paths.log_name",
			Value:   name,
			Message: "must be a plain file name",
		})
	}

	return errors
}

// validateInput validates the InputConfig
func (c *Config) validateInput() []ValidationError {
	var errors []ValidationError

	if c.Input.Pattern != "" && !doublestar.ValidatePattern(c.Input.Pattern) {
		errors = append(errors, ValidationError{
			Field:   "input.pattern",
			Value:   c.Input.Pattern,
			Message: "is not a valid glob pattern",
		})
	}

	return errors
}

// validateClassifier validates the ClassifierConfig
func (c *Config) validateClassifier() []ValidationError {
	var errors []ValidationError

	if c.Classifier.Strategy != "" {
		if _, err := orientation.New(orientation.Strategy(c.Classifier.Strategy)); err != nil {
			errors = append(errors, ValidationError{
				Field:   "classifier.strategy",
				Value:   c.Classifier.Strategy,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(orientation.ValidStrategies(), ", ")),
			})
		}
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(logging.ValidLevels(), strings.ToUpper(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.ToLower(strings.Join(logging.ValidLevels(), ", "))),
		})
	}

	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative",
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateMetrics validates the MetricsConfig
func (c *Config) validateMetrics() []ValidationError {
	var errors []ValidationError

	if c.Metrics.Textfile != "" && !strings.HasSuffix(c.Metrics.Textfile, ".prom") {
		errors = append(errors, ValidationError{
			Field:   "metrics.textfile",
			Value:   c.Metrics.Textfile,
			Message: "must end in .prom for the textfile collector to read it",
		})
	}

	return errors
}
