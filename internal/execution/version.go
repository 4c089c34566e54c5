package execution

import (
	"bytes"
	"context"
	"errors"
	"regexp"
)

// VersionSubcommand asks the engine for its version
const VersionSubcommand = "version"

var versionPattern = regexp.MustCompile(`k6 v([\d.]+)`)

// EngineStatus is the outcome of an engine availability check
type EngineStatus struct {
	Available bool
	Version   string
	Error     string
}

// CheckEngineAvailable runs `<engine> version` under the configured timeout.
// The process is killed when the timeout expires.
func (r *Runner) CheckEngineAvailable(ctx context.Context) EngineStatus {
	ctx, cancel := context.WithTimeout(ctx, r.config.VersionTimeout)
	defer cancel()

	cmd := r.command(ctx, r.config.EngineExecutablePath, VersionSubcommand)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return EngineStatus{Error: err.Error()}
	}
	err := cmd.Wait()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return EngineStatus{Error: "timeout waiting for k6 version check"}
	}
	if ctx.Err() != nil {
		return EngineStatus{Error: ctx.Err().Error()}
	}
	if err != nil {
		return EngineStatus{Error: failureMessage(err, stderr.String())}
	}

	version := ParseVersion(stdout.String())
	if version == "" {
		version = "unknown"
	}
	return EngineStatus{Available: true, Version: version}
}

// ParseVersion extracts the dotted version from `k6 v1.2.3 ...` output
func ParseVersion(output string) string {
	match := versionPattern.FindStringSubmatch(output)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}
