package commands

import (
	"github.com/spf13/cobra"
)

// FaillsCommand handles the faills command
type FaillsCommand struct {
	deps *Deps
}

// NewFaillsCommand creates a new FaillsCommand
func NewFaillsCommand(deps *Deps) *FaillsCommand {
	return &FaillsCommand{deps: deps}
}

// Execute runs the command
func (fc *FaillsCommand) Execute(cmd *cobra.Command, args []string) error {
	report, err := fc.deps.Storage.Load()
	if err != nil {
		return err
	}

	return fc.deps.Viewer.View(report)
}
