package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CheckCommand handles the check command
type CheckCommand struct {
	deps *Deps
}

// NewCheckCommand creates a new CheckCommand
func NewCheckCommand(deps *Deps) *CheckCommand {
	return &CheckCommand{deps: deps}
}

// Execute runs the command
func (cc *CheckCommand) Execute(cmd *cobra.Command, args []string) error {
	status := cc.deps.Runner.CheckEngineAvailable(cmd.Context())
	cc.deps.Formatter.PrintEngineStatus(cc.deps.Config.EngineExecutablePath, status)
	if !status.Available {
		return fmt.Errorf("k6 executable %q is not usable", cc.deps.Config.EngineExecutablePath)
	}
	return nil
}
