package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Workspace roots, discovery walks each of them
	Roots []string

	// Discovery settings
	TestFilePattern string
	PathsToIgnore   []string

	// Engine settings
	EngineExecutablePath string
	DefaultEngineArgs    []string
	SecretsFilePath      string
	VersionTimeout       time.Duration

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	LogLevel string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Roots        []string
	Pattern      string
	EnginePath   string
	EngineArgs   []string
	SecretsFile  string
	LogLevel     string
	NameFilter   string
	ShowTests    bool
	FailFast     bool
	OnlyFailed   bool
	RunOnChange  bool
	Progress     bool
	OpenFaills   bool
	SettingsFile string
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		Roots:                []string{DefaultRoot},
		TestFilePattern:      DefaultTestFilePattern,
		EngineExecutablePath: DefaultEngineExecutablePath,
		VersionTimeout:       DefaultVersionTimeout,
		OutputJSONFile:       DefaultOutputJSONFile,
		OutputJSONDir:        DefaultOutputJSONDir,
		LogLevel:             DefaultLogLevel,
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config from defaults, the project settings file and flags, in that order
func Load(flags Flags) (*Config, error) {
	cfg := New()
	cfg.Flags = flags

	if len(flags.Roots) > 0 {
		cfg.Roots = append([]string(nil), flags.Roots...)
	}

	settings := flags.SettingsFile
	if settings == "" {
		settings = filepath.Join(cfg.Roots[0], DefaultSettingsFile)
	}
	if err := cfg.applySettingsFile(settings); err != nil {
		return nil, err
	}

	// Apply flag overrides
	if flags.Pattern != "" {
		cfg.TestFilePattern = flags.Pattern
	}
	if flags.EnginePath != "" {
		cfg.EngineExecutablePath = flags.EnginePath
	}
	if len(flags.EngineArgs) > 0 {
		cfg.DefaultEngineArgs = append([]string(nil), flags.EngineArgs...)
	}
	if flags.SecretsFile != "" {
		cfg.SecretsFilePath = flags.SecretsFile
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySettingsFile reads KEY=VALUE pairs without touching the process environment.
// A missing file is fine.
func (c *Config) applySettingsFile(path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading settings file %s: %w", path, err)
	}

	if v := values[EnvTestPattern]; v != "" {
		c.TestFilePattern = v
	}
	if v := values[EnvEnginePath]; v != "" {
		c.EngineExecutablePath = v
	}
	if v := values[EnvDefaultArgs]; v != "" {
		c.DefaultEngineArgs = strings.Fields(v)
	}
	if v := values[EnvSecretsFile]; v != "" {
		c.SecretsFilePath = v
	}
	return nil
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		return fmt.Errorf("at least one workspace root must be configured")
	}
	if c.TestFilePattern == "" {
		return fmt.Errorf("test file pattern must not be empty")
	}
	if !doublestar.ValidatePattern(c.TestFilePattern) {
		return fmt.Errorf("invalid test file pattern %q", c.TestFilePattern)
	}
	if c.EngineExecutablePath == "" {
		return fmt.Errorf("engine executable path must not be empty")
	}
	return nil
}

// AbsRoots returns the workspace roots as absolute, cleaned paths
func (c *Config) AbsRoots() []string {
	roots := make([]string, 0, len(c.Roots))
	for _, root := range c.Roots {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
		roots = append(roots, filepath.Clean(root))
	}
	return roots
}

// WorkingDirFor returns the deepest workspace root containing path,
// falling back to the file's own directory.
func (c *Config) WorkingDirFor(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	best := ""
	for _, root := range c.AbsRoots() {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if len(root) > len(best) {
			best = root
		}
	}
	if best != "" {
		return best
	}
	return filepath.Dir(path)
}

// GetOutputPath returns the full path to the output JSON file under the first root.
// Resolves to an absolute path so run and faills always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.Roots[0], c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
