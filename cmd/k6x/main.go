package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"k6x/internal/cli"
	"k6x/internal/cli/commands"
	"k6x/internal/config"
)

var version = "dev"

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	var flags cli.Flags
	cmds := commands.NewCommands(log, &flags)

	rootCmd := &cobra.Command{
		Use:   "k6x",
		Short: "Discover and run k6 load tests",
		Long: `k6x discovers k6 test scripts in one or more workspace roots, keeps the
test tree in sync with file changes and runs the selected tests one after
another through the k6 executable.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(flags.LogLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", flags.LogLevel, err)
			}
			log.SetLevel(level)

			return cmds.Load()
		},
	}
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", config.DefaultLogLevel,
		"log level ("+strings.Join(logLevels(), ", ")+")")

	cmds.Register(rootCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// Failed tests were already reported
		if !errors.Is(err, commands.ErrTestsFailed) {
			log.WithError(err).Error("Command failed")
		}
		os.Exit(1)
	}
}

func logLevels() []string {
	levels := make([]string, 0, len(logrus.AllLevels))
	for _, level := range logrus.AllLevels {
		levels = append(levels, level.String())
	}

	return levels
}
