package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	errs := cfg.Validate()
	if len(errs) != 0 {
		t.Errorf("Default config should be valid, got errors: %v", errs)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string // empty means the config must be valid
	}{
		{
			name:      "no recordings",
			modify:    func(c *Config) { c.Recordings = nil },
			wantField: "recordings",
		},
		{
			name:      "zero recordings in set",
			modify:    func(c *Config) { c.Recordings["MD1"] = 0 },
			wantField: "recordings.MD1",
		},
		{
			name:      "negative recordings in set",
			modify:    func(c *Config) { c.Recordings["MD2"] = -4 },
			wantField: "recordings.MD2",
		},
		{
			name:      "too many recordings",
			modify:    func(c *Config) { c.Recordings["MD1"] = maxRecordingsPerSet + 1 },
			wantField: "recordings.MD1",
		},
		{
			name:      "set name with path separator",
			modify:    func(c *Config) { c.Recordings["MD1/../x"] = 1 },
			wantField: "recordings.MD1/../x",
		},
		{
			name:      "empty input root",
			modify:    func(c *Config) { c.Paths.InputRoot = "" },
			wantField: "paths.input_root",
		},
		{
			name:      "empty output root",
			modify:    func(c *Config) { c.Paths.OutputRoot = "" },
			wantField: "paths.output_root",
		},
		{
			name:      "output root equals input root",
			modify:    func(c *Config) { c.Paths.OutputRoot = "./recordings/" },
			wantField: "paths.output_root",
		},
		{
			name:      "log name with directory",
			modify:    func(c *Config) { c.Paths.LogName = "axial/log.txt" },
			wantField: "paths.log_name",
		},
		{
			name:      "bad pattern",
			modify:    func(c *Config) { c.Input.Pattern = "[*.dcm" },
			wantField: "input.pattern",
		},
		{
			name:   "recursive pattern",
			modify: func(c *Config) { c.Input.Pattern = "**/*.dcm" },
		},
		{
			name:      "unknown strategy",
			modify:    func(c *Config) { c.Classifier.Strategy = "gpt_version" },
			wantField: "classifier.strategy",
		},
		{
			name:   "strategy is case insensitive",
			modify: func(c *Config) { c.Classifier.Strategy = "Rounded_Pattern" },
		},
		{
			name:      "bad log level",
			modify:    func(c *Config) { c.Logging.Level = "verbose" },
			wantField: "logging.level",
		},
		{
			name:   "lower case log level",
			modify: func(c *Config) { c.Logging.Level = "warn" },
		},
		{
			name:      "negative max size",
			modify:    func(c *Config) { c.Logging.MaxSizeMB = -1 },
			wantField: "logging.max_size_mb",
		},
		{
			name:      "negative backups",
			modify:    func(c *Config) { c.Logging.MaxBackups = -1 },
			wantField: "logging.max_backups",
		},
		{
			name:      "textfile without prom suffix",
			modify:    func(c *Config) { c.Metrics.Textfile = "/tmp/ctsort.txt" },
			wantField: "metrics.textfile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := cfg.Validate()

			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Errorf("expected valid config, got %v", errs)
				}
				return
			}

			found := false
			for _, e := range errs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %q, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestConfig_Validate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Classifier.Strategy = "bogus"
	cfg.Logging.Level = "loud"
	cfg.Logging.MaxBackups = -2

	if errs := cfg.Validate(); len(errs) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(errs), errs)
	}
}
