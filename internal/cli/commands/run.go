package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"k6x/internal/domain"
	"k6x/internal/execution"
	"k6x/internal/ui"
)

// ErrTestsFailed is returned when a run finished with failed tests
var ErrTestsFailed = errors.New("some k6 tests failed")

// RunCommand handles the run command
type RunCommand struct {
	deps *Deps
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(deps *Deps) *RunCommand {
	return &RunCommand{deps: deps}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx, stop := withSignals(cmd.Context(), rc.deps.Log)
	defer stop()

	if err := rc.deps.Discovery.Refresh(ctx); err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	req, ok, err := rc.request(args)
	if err != nil {
		return err
	}
	if !ok {
		color.Yellow("No tests to execute")
		return nil
	}

	report, err := rc.execute(ctx, req)
	if err != nil {
		return err
	}

	rc.deps.Formatter.PrintRunSummary(report)

	if report.Meta.FailedTests == 0 {
		return nil
	}
	if rc.deps.Config.Flags.OpenFaills && !report.Meta.Cancelled {
		if err := rc.deps.Viewer.View(report); err != nil {
			return err
		}
	}
	return ErrTestsFailed
}

// request builds the run selection from arguments and flags.
// ok is false when the selection is empty.
func (rc *RunCommand) request(args []string) (domain.RunRequest, bool, error) {
	flags := rc.deps.Config.Flags
	t := rc.deps.Tree

	var include []string
	switch {
	case flags.OnlyFailed:
		last, err := rc.deps.Storage.Load()
		if err != nil {
			return domain.RunRequest{}, false, fmt.Errorf("no previous run to take failures from: %w", err)
		}
		include = failedIDs(last)
		if len(include) == 0 {
			color.Green("✓ No failed tests in the last run")
			return domain.RunRequest{}, false, nil
		}
	case len(args) > 0:
		include = selectIDs(t, args, rc.deps.Log)
		if len(include) == 0 {
			return domain.RunRequest{}, false, nil
		}
	}

	if flags.NameFilter != "" {
		files := filterFiles(t, rc.deps.Filter, flags.NameFilter)
		include = intersect(t.ResolveLeaves(include), files)
		if len(include) == 0 {
			return domain.RunRequest{}, false, nil
		}
	}

	req := domain.RunRequest{Include: include}
	return req, len(rc.deps.Coordinator.Leaves(req)) > 0, nil
}

// execute runs req, stores the outcome and returns the stored report
func (rc *RunCommand) execute(ctx context.Context, req domain.RunRequest) (*domain.RunReport, error) {
	flags := rc.deps.Config.Flags

	var reporter execution.Reporter = ui.NewConsoleReporter(os.Stdout, rc.deps.Tree.Base())
	if flags.Progress {
		rc.deps.Coordinator.SetProgress(ui.NewProgressBar(os.Stderr, len(rc.deps.Coordinator.Leaves(req)), rc.deps.Tree.Base()))
		reporter = execution.MultiReporter{}
	}

	start := time.Now()
	records := rc.deps.Coordinator.Execute(ctx, req, reporter, execution.ExecuteOptions{FailFast: flags.FailFast})
	duration := time.Since(start)

	report, err := rc.deps.Storage.Save(records, duration, ctx.Err() != nil)
	if err != nil {
		return nil, fmt.Errorf("failed to save test results: %w", err)
	}
	return report, nil
}

// withSignals returns a context cancelled on SIGINT or SIGTERM
func withSignals(parent context.Context, log logrus.FieldLogger) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			log.WithField("signal", sig).Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}
