package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/ctsort/internal/recording"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if diff := cmp.Diff(map[string]int{"MD1": 24, "MD2": 19}, cfg.Recordings); diff != "" {
		t.Errorf("Recordings mismatch (-want +got):\n%s", diff)
	}
	if cfg.Input.Pattern != "*.dcm" {
		t.Errorf("Input.Pattern = %q, want %q", cfg.Input.Pattern, "*.dcm")
	}
	if cfg.Classifier.Strategy != "cross_product" {
		t.Errorf("Classifier.Strategy = %q, want cross_product", cfg.Classifier.Strategy)
	}
	if cfg.Classifier.CrossCheck {
		t.Error("Classifier.CrossCheck should be false by default")
	}
	if cfg.Paths.LogName != "log.txt" {
		t.Errorf("Paths.LogName = %q, want log.txt", cfg.Paths.LogName)
	}

	// Verify default logging config
	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be true by default")
	}
	if cfg.Logging.MaxSizeMB != 10 {
		t.Errorf("Logging.MaxSizeMB = %d, want 10", cfg.Logging.MaxSizeMB)
	}
	if cfg.Logging.MaxBackups != 3 {
		t.Errorf("Logging.MaxBackups = %d, want 3", cfg.Logging.MaxBackups)
	}
}

func TestConfig_RecordingIDs(t *testing.T) {
	cfg := Default()
	ids := cfg.RecordingIDs()
	if len(ids) != 43 {
		t.Fatalf("len(ids) = %d, want 43", len(ids))
	}
	if ids[0] != (recording.ID{Set: "MD1", Number: 1}) {
		t.Errorf("first = %v", ids[0])
	}
	if ids[24] != (recording.ID{Set: "MD2", Number: 1}) {
		t.Errorf("ids[24] = %v, want MD2/recording1", ids[24])
	}
}

func TestConfig_Layout(t *testing.T) {
	cfg := Default()
	layout := cfg.Layout()
	id := recording.ID{Set: "MD1", Number: 3}
	want := filepath.Join("categorized_ct_slices", "MD1", "recording3", "log.txt")
	if got := layout.LogPath(id); got != want {
		t.Errorf("LogPath = %q, want %q", got, want)
	}
}

func loadYAML(t *testing.T, doc string) (*Config, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	if doc == "" {
		return Load()
	}
	viper.SetConfigType("yaml")
	if err := viper.ReadConfig(strings.NewReader(doc)); err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}
	return Load()
}

func TestLoad(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		cfg, err := loadYAML(t, "")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if diff := cmp.Diff(Default(), cfg); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("recordings replace defaults", func(t *testing.T) {
		cfg, err := loadYAML(t, "recordings:\n  MD3: 2\n")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		// Viper lower-cases keys; Load restores the on-disk set names
		if diff := cmp.Diff(map[string]int{"MD3": 2}, cfg.Recordings); diff != "" {
			t.Errorf("Recordings mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nested values", func(t *testing.T) {
		doc := `
input:
  pattern: "**/*.dcm"
classifier:
  strategy: rounded_pattern
  cross_check: true
logging:
  level: debug
metrics:
  textfile: /var/lib/node_exporter/ctsort.prom
`
		cfg, err := loadYAML(t, doc)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Input.Pattern != "**/*.dcm" {
			t.Errorf("Input.Pattern = %q", cfg.Input.Pattern)
		}
		if cfg.Classifier.Strategy != "rounded_pattern" || !cfg.Classifier.CrossCheck {
			t.Errorf("Classifier = %+v", cfg.Classifier)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("Logging.Level = %q", cfg.Logging.Level)
		}
		// Untouched sections keep their defaults
		if cfg.Paths.OutputRoot != "categorized_ct_slices" {
			t.Errorf("Paths.OutputRoot = %q", cfg.Paths.OutputRoot)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := loadYAML(t, "classifier:\n  strategy: gpt\nrecordings:\n  MD1: 0\n")
		if err == nil {
			t.Fatal("expected validation error")
		}
		verrs, ok := err.(ValidationErrors)
		if !ok || len(verrs) != 2 {
			t.Errorf("error = %v, want 2 validation errors", err)
		}
	})
}

func TestGet_FallsBackToDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("logging.level", "verbose")

	cfg := Get()
	if cfg.Logging.Level != Default().Logging.Level {
		t.Errorf("Get().Logging.Level = %q, want default", cfg.Logging.Level)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != filepath.Join("/custom/config", "ctsort") {
			t.Errorf("ConfigDir() = %q", got)
		}
		if got := ConfigFile(); got != "/custom/config/ctsort/config.yaml" {
			t.Errorf("ConfigFile() = %q", got)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		if got := ConfigDir(); got != filepath.Join(home, ".config", "ctsort") {
			t.Errorf("ConfigDir() = %q", got)
		}
	})
}

func TestSearchPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	paths := SearchPaths()
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v", paths)
	}
	if paths[0] != filepath.Join("/custom/config", "ctsort") {
		t.Errorf("first search path = %q", paths[0])
	}
	if paths[len(paths)-1] != "." {
		t.Errorf("last search path = %q, want .", paths[len(paths)-1])
	}
}
