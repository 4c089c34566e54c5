package commands

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"k6x/internal/cli"
	"k6x/internal/config"
	"k6x/internal/discovery"
	"k6x/internal/execution"
	"k6x/internal/parser"
	"k6x/internal/storage"
	"k6x/internal/tree"
	"k6x/internal/ui"
)

// Deps holds the services shared by all commands
type Deps struct {
	Config      *config.Config
	Log         logrus.FieldLogger
	Tree        *tree.Tree
	Discovery   *discovery.Service
	Filter      *discovery.Filter
	Runner      *execution.Runner
	Coordinator *execution.Coordinator
	Storage     storage.Storage
	Formatter   *ui.Formatter
	Viewer      ui.Viewer
}

// NewDeps wires the services for cfg
func NewDeps(cfg *config.Config, log logrus.FieldLogger) *Deps {
	roots := cfg.AbsRoots()
	base := roots[0]

	t := tree.New(base)
	scanner := discovery.NewScanner(cfg.TestFilePattern, cfg.PathsToIgnore)
	svc := discovery.NewService(roots, scanner, discovery.NewParser(log), t, log)
	runner := execution.NewRunner(cfg, log)
	jsonStorage := storage.NewJSONStorage(cfg)

	return &Deps{
		Config:      cfg,
		Log:         log,
		Tree:        t,
		Discovery:   svc,
		Filter:      discovery.NewFilter(),
		Runner:      runner,
		Coordinator: execution.NewCoordinator(t, runner, parser.NewK6Parser(), log),
		Storage:     jsonStorage,
		Formatter:   ui.NewFormatter(os.Stdout, base),
		Viewer:      ui.NewFailureViewer(jsonStorage, base),
	}
}

// Commands holds all CLI commands
type Commands struct {
	log   *logrus.Logger
	flags *cli.Flags

	Run    *RunCommand
	List   *ListCommand
	Watch  *WatchCommand
	Check  *CheckCommand
	Faills *FaillsCommand
}

// NewCommands creates the command set; dependencies are wired by Load once flags are parsed
func NewCommands(log *logrus.Logger, flags *cli.Flags) *Commands {
	return &Commands{log: log, flags: flags}
}

// Load builds the configuration from the parsed flags and wires every command
func (c *Commands) Load() error {
	cfg, err := config.Load(c.flags.ToConfigFlags())
	if err != nil {
		return err
	}

	deps := NewDeps(cfg, c.log)
	c.Run = NewRunCommand(deps)
	c.List = NewListCommand(deps)
	c.Watch = NewWatchCommand(deps)
	c.Check = NewCheckCommand(deps)
	c.Faills = NewFaillsCommand(deps)
	return nil
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command) {
	flags := c.flags

	pf := rootCmd.PersistentFlags()
	pf.StringArrayVarP(&flags.Roots, "root", "r", nil, "Workspace root to discover tests in (repeatable, defaults to the current directory)")
	pf.StringVar(&flags.Pattern, "pattern", "", "Glob selecting test files relative to each root (default \""+config.DefaultTestFilePattern+"\")")
	pf.StringVar(&flags.EnginePath, "k6", "", "Path to the k6 executable (default \""+config.DefaultEngineExecutablePath+"\")")
	pf.StringArrayVar(&flags.EngineArgs, "arg", nil, "Extra argument passed to k6 run before the script (repeatable)")
	pf.StringVar(&flags.SecretsFile, "secrets", "", "Secrets file passed to k6 as --secret-source=file=<path>")
	pf.StringVar(&flags.SettingsFile, "settings", "", "Settings file (default <first root>/"+config.DefaultSettingsFile+")")

	// Run command
	runCmd := &cobra.Command{
		Use:   "run [test-id|path...]",
		Short: "Run k6 tests one after another",
		Long:  "Discover k6 test scripts and execute the selected tests sequentially. Arguments select tests by identifier, file or directory; no arguments run everything.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run.Execute(cmd, args)
		},
	}
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter test files by name pattern (supports wildcards, e.g., '*spike*')")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first test failure")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only tests that failed in the last run")
	runCmd.Flags().BoolVar(&flags.Progress, "progress", false, "Show a progress bar instead of one line per test")
	runCmd.Flags().BoolVar(&flags.OpenFaills, "open-faills", false, "Open the faills viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered tests",
		Long:  "Scan the workspace roots and list k6 test scripts without executing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.List.Execute(cmd, args)
		},
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter test files by name pattern (supports wildcards, e.g., '*spike*')")
	listCmd.Flags().BoolVarP(&flags.ShowTests, "tests", "t", false, "Show the tests inside each file")
	rootCmd.AddCommand(listCmd)

	// Watch command
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the test tree in sync with file changes",
		Long:  "Discover tests, then watch the workspace roots and rediscover scripts as they are created, changed or deleted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Watch.Execute(cmd, args)
		},
	}
	watchCmd.Flags().BoolVar(&flags.RunOnChange, "run", false, "Run the tests of a file whenever it changes")
	rootCmd.AddCommand(watchCmd)

	// Check command
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the k6 executable is available",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Check.Execute(cmd, args)
		},
	}
	rootCmd.AddCommand(checkCmd)

	// Faills command
	faillsCmd := &cobra.Command{
		Use:   "faills",
		Short: "View test failures interactively",
		Long:  "Display test failures from the last run in an interactive viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Faills.Execute(cmd, args)
		},
	}
	rootCmd.AddCommand(faillsCmd)
}
