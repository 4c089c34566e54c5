package cli

import "k6x/internal/config"

// Flags holds command-line flags
type Flags struct {
	Roots        []string
	Pattern      string
	EnginePath   string
	EngineArgs   []string
	SecretsFile  string
	LogLevel     string
	SettingsFile string
	NameFilter   string
	ShowTests    bool
	FailFast     bool
	OnlyFailed   bool
	RunOnChange  bool
	Progress     bool
	OpenFaills   bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Roots:        f.Roots,
		Pattern:      f.Pattern,
		EnginePath:   f.EnginePath,
		EngineArgs:   f.EngineArgs,
		SecretsFile:  f.SecretsFile,
		LogLevel:     f.LogLevel,
		SettingsFile: f.SettingsFile,
		NameFilter:   f.NameFilter,
		ShowTests:    f.ShowTests,
		FailFast:     f.FailFast,
		OnlyFailed:   f.OnlyFailed,
		RunOnChange:  f.RunOnChange,
		Progress:     f.Progress,
		OpenFaills:   f.OpenFaills,
	}
}
