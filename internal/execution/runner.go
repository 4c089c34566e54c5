package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"

	"k6x/internal/config"
	"k6x/internal/domain"
)

const (
	// RunSubcommand is the engine subcommand that executes a script
	RunSubcommand = "run"
	// SecretSourceFlag injects a file secret source
	SecretSourceFlag = "--secret-source=file="
	// CancelledMessage is reported for a leaf whose run was cancelled
	CancelledMessage = "run cancelled"
	// waitDelay bounds how long output pipes are drained after the engine is killed
	waitDelay = 2 * time.Second
)

// ErrNoPath is returned for a leaf that has no associated file
var ErrNoPath = errors.New("test item has no associated file")

// CommandFunc builds the command for one engine invocation
type CommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// ArgsOptions are the settings that shape the engine argument vector
type ArgsOptions struct {
	DefaultArgs []string
	SecretsFile string
}

// BuildArgs returns `run [default args...] [--secret-source=file=<secrets>] <target>`.
// The target is always last.
func BuildArgs(opts ArgsOptions, target string) []string {
	args := make([]string, 0, len(opts.DefaultArgs)+3)
	args = append(args, RunSubcommand)
	args = append(args, opts.DefaultArgs...)
	if opts.SecretsFile != "" {
		args = append(args, SecretSourceFlag+opts.SecretsFile)
	}
	return append(args, target)
}

// Runner spawns the engine for one leaf at a time
type Runner struct {
	config  *config.Config
	command CommandFunc
	log     logrus.FieldLogger
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config, log logrus.FieldLogger) *Runner {
	return &Runner{
		config:  cfg,
		command: exec.CommandContext,
		log:     log.WithField("component", "runner"),
	}
}

// SetCommandFunc replaces how engine commands are built
func (r *Runner) SetCommandFunc(fn CommandFunc) {
	r.command = fn
}

// ArgsOptions returns the argument settings taken from the configuration
func (r *Runner) ArgsOptions() ArgsOptions {
	return ArgsOptions{
		DefaultArgs: r.config.DefaultEngineArgs,
		SecretsFile: r.config.SecretsFilePath,
	}
}

// Run executes the engine against the leaf's file. Exactly one process is
// spawned and it is killed if ctx is cancelled. Failures are reported in the
// result; the error is only set when the leaf cannot be run at all.
func (r *Runner) Run(ctx context.Context, leaf *domain.TestNode) (domain.RunResult, error) {
	if leaf == nil || leaf.Path == "" {
		return domain.RunResult{}, ErrNoPath
	}
	if ctx.Err() != nil {
		return domain.RunResult{Error: CancelledMessage, Cancelled: true}, nil
	}

	args := BuildArgs(r.ArgsOptions(), leaf.Path)
	cmd := r.command(ctx, r.config.EngineExecutablePath, args...)
	cmd.Dir = r.config.WorkingDirFor(leaf.Path)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := r.log.WithFields(logrus.Fields{
		"test": leaf.ID,
		"dir":  cmd.Dir,
	})
	log.WithField("args", args).Debug("Starting engine")

	startTime := time.Now()
	if err := cmd.Start(); err != nil {
		log.WithError(err).Warn("Failed to start engine")
		return domain.RunResult{Error: err.Error()}, nil
	}

	runErr := cmd.Wait()
	duration := time.Since(startTime)

	result := domain.RunResult{
		Duration: &duration,
		Output:   stdout.String(),
	}

	// An engine that exited cleanly passed even if ctx was cancelled just after
	switch {
	case runErr == nil:
		result.Success = true
	case ctx.Err() != nil:
		result.Cancelled = true
		result.Error = CancelledMessage
	default:
		result.Error = failureMessage(runErr, stderr.String())
	}

	log.WithFields(logrus.Fields{
		"success":  result.Success,
		"duration": duration,
	}).Debug("Engine finished")

	return result, nil
}

// failureMessage prefers what the engine wrote to stderr
func failureMessage(err error, stderr string) string {
	if stderr != "" {
		return stderr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("process exited with code %d", exitErr.ExitCode())
	}
	return err.Error()
}
