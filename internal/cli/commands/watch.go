package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"k6x/internal/domain"
	"k6x/internal/execution"
	"k6x/internal/ui"
	"k6x/internal/watch"
)

// WatchCommand handles the watch command
type WatchCommand struct {
	deps *Deps
}

// NewWatchCommand creates a new WatchCommand
func NewWatchCommand(deps *Deps) *WatchCommand {
	return &WatchCommand{deps: deps}
}

// Execute runs the command
func (wc *WatchCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx, stop := withSignals(cmd.Context(), wc.deps.Log)
	defer stop()

	if err := wc.deps.Discovery.Refresh(ctx); err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	reconciler := watch.NewReconciler(wc.deps.Discovery, wc.deps.Tree, wc.deps.Log)
	watcher, err := watch.NewWatcher(wc.deps.Discovery.Roots(), wc.deps.Discovery.Scanner(), reconciler, wc.deps.Log)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	watcher.OnEvent(func(ev domain.FileEvent, node *domain.TestNode) {
		wc.handle(ctx, ev, node)
	})

	color.Cyan("Watching %d k6 test file(s), press Ctrl+C to stop", wc.deps.Tree.Len())
	return watcher.Run(ctx)
}

func (wc *WatchCommand) handle(ctx context.Context, ev domain.FileEvent, node *domain.TestNode) {
	tests := 0
	if node != nil {
		tests = len(node.Children)
	}
	wc.deps.Log.WithFields(logrus.Fields{
		"event": ev.Kind.String(),
		"file":  ev.Path,
		"tests": tests,
	}).Info("Test file changed")

	if !wc.deps.Config.Flags.RunOnChange || node == nil || ctx.Err() != nil {
		return
	}

	reporter := ui.NewConsoleReporter(os.Stdout, wc.deps.Tree.Base())
	req := domain.RunRequest{Include: []string{node.ID}}
	start := time.Now()
	records := wc.deps.Coordinator.Execute(ctx, req, reporter, execution.ExecuteOptions{})

	if _, err := wc.deps.Storage.Save(records, time.Since(start), ctx.Err() != nil); err != nil {
		wc.deps.Log.WithError(err).Warn("Failed to save test results")
	}
}
