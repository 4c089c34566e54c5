package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"k6x/internal/domain"
)

// ListCommand handles the list command
type ListCommand struct {
	deps *Deps
}

// NewListCommand creates a new ListCommand
func NewListCommand(deps *Deps) *ListCommand {
	return &ListCommand{deps: deps}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	if err := lc.deps.Discovery.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	files := filterFiles(lc.deps.Tree, lc.deps.Filter, lc.deps.Config.Flags.NameFilter)

	// A missing last run just means nothing is marked
	var last *domain.RunReport
	if report, err := lc.deps.Storage.Load(); err == nil {
		last = report
	}

	lc.deps.Formatter.PrintTree(files, lc.deps.Tree, lc.deps.Config.Flags.ShowTests, failedSet(last))
	return nil
}
