package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestConfig_WorkingDirFor(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		path     string
		expected string
	}{
		{
			name:     "file inside root",
			config:   &Config{Roots: []string{"/project"}},
			path:     "/project/tests/load.test.js",
			expected: "/project",
		},
		{
			name:     "deepest root wins",
			config:   &Config{Roots: []string{"/project", "/project/services/api"}},
			path:     "/project/services/api/spike.test.js",
			expected: "/project/services/api",
		},
		{
			name:     "outside every root falls back to file directory",
			config:   &Config{Roots: []string{"/project"}},
			path:     "/elsewhere/scripts/basic.test.js",
			expected: "/elsewhere/scripts",
		},
		{
			name:     "sibling with shared prefix is not inside",
			config:   &Config{Roots: []string{"/project"}},
			path:     "/project-two/basic.test.js",
			expected: "/project-two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.WorkingDirFor(tt.path)
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if len(cfg.Roots) != 1 || cfg.Roots[0] != DefaultRoot {
		t.Errorf("expected Roots [%s], got %v", DefaultRoot, cfg.Roots)
	}

	if cfg.TestFilePattern != DefaultTestFilePattern {
		t.Errorf("expected TestFilePattern %s, got %s", DefaultTestFilePattern, cfg.TestFilePattern)
	}

	if cfg.EngineExecutablePath != "k6" {
		t.Errorf("expected engine k6, got %s", cfg.EngineExecutablePath)
	}

	if cfg.VersionTimeout != DefaultVersionTimeout {
		t.Errorf("expected VersionTimeout %s, got %s", DefaultVersionTimeout, cfg.VersionTimeout)
	}

	if len(cfg.PathsToIgnore) != len(DefaultPathsToIgnore) {
		t.Errorf("expected %d paths to ignore, got %d", len(DefaultPathsToIgnore), len(cfg.PathsToIgnore))
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing settings file uses defaults", func(t *testing.T) {
		root := t.TempDir()
		cfg, err := Load(Flags{Roots: []string{root}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SecretsFilePath != "" {
			t.Errorf("expected no secrets file, got %s", cfg.SecretsFilePath)
		}
		if len(cfg.DefaultEngineArgs) != 0 {
			t.Errorf("expected no default args, got %v", cfg.DefaultEngineArgs)
		}
	})

	t.Run("settings file is applied", func(t *testing.T) {
		root := t.TempDir()
		content := "K6X_ENGINE_PATH=/opt/k6/bin/k6\nK6X_DEFAULT_ARGS=\"--quiet --no-color\"\nK6X_SECRETS_FILE=secrets.env\nK6X_TEST_PATTERN=perf/**/*.js\n"
		if err := os.WriteFile(filepath.Join(root, DefaultSettingsFile), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write settings file: %v", err)
		}

		cfg, err := Load(Flags{Roots: []string{root}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.EngineExecutablePath != "/opt/k6/bin/k6" {
			t.Errorf("unexpected engine path %s", cfg.EngineExecutablePath)
		}
		if !reflect.DeepEqual(cfg.DefaultEngineArgs, []string{"--quiet", "--no-color"}) {
			t.Errorf("unexpected default args %v", cfg.DefaultEngineArgs)
		}
		if cfg.SecretsFilePath != "secrets.env" {
			t.Errorf("unexpected secrets file %s", cfg.SecretsFilePath)
		}
		if cfg.TestFilePattern != "perf/**/*.js" {
			t.Errorf("unexpected pattern %s", cfg.TestFilePattern)
		}
	})

	t.Run("flags override settings file", func(t *testing.T) {
		root := t.TempDir()
		content := "K6X_SECRETS_FILE=secrets.env\n"
		if err := os.WriteFile(filepath.Join(root, DefaultSettingsFile), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write settings file: %v", err)
		}

		cfg, err := Load(Flags{Roots: []string{root}, SecretsFile: "other.env", EngineArgs: []string{"--vus=2"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SecretsFilePath != "other.env" {
			t.Errorf("expected flag to win, got %s", cfg.SecretsFilePath)
		}
		if !reflect.DeepEqual(cfg.DefaultEngineArgs, []string{"--vus=2"}) {
			t.Errorf("unexpected default args %v", cfg.DefaultEngineArgs)
		}
	})

	t.Run("invalid pattern is rejected", func(t *testing.T) {
		root := t.TempDir()
		_, err := Load(Flags{Roots: []string{root}, Pattern: "**/*.{js"})
		if err == nil {
			t.Error("expected error for invalid pattern")
		}
	})
}

func TestConfig_GetOutputPath(t *testing.T) {
	cfg := New()
	cfg.Roots = []string{"/project"}

	expected := filepath.Join("/project", DefaultOutputJSONDir, DefaultOutputJSONFile)
	if got := cfg.GetOutputPath(); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
}
