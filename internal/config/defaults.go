package config

import "time"

const (
	// DefaultRoot is the default workspace root
	DefaultRoot = "."
	// DefaultTestFilePattern matches *.test.js and *.test.ts anywhere under a root
	DefaultTestFilePattern = "**/*.test.{js,ts}"
	// DefaultEngineExecutablePath is resolved through PATH
	DefaultEngineExecutablePath = "k6"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "last-run.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".k6x"
	// DefaultSettingsFile is the optional per-project settings file
	DefaultSettingsFile = "k6x.env"
	// DefaultVersionTimeout bounds the engine version check
	DefaultVersionTimeout = 5 * time.Second
	// DefaultLogLevel is the default logging level
	DefaultLogLevel = "info"
)

// Settings file keys
const (
	EnvTestPattern = "K6X_TEST_PATTERN"
	EnvEnginePath  = "K6X_ENGINE_PATH"
	EnvDefaultArgs = "K6X_DEFAULT_ARGS"
	EnvSecretsFile = "K6X_SECRETS_FILE"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for tests
var DefaultPathsToIgnore = []string{
	"node_modules",
	"vendor",
	"dist",
	"build",
	"coverage",
}
