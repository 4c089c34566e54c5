package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"k6x/internal/domain"
)

// ConsoleReporter prints one line per state transition
type ConsoleReporter struct {
	out  io.Writer
	base string
}

// NewConsoleReporter creates a reporter writing to out; paths are shown relative to base
func NewConsoleReporter(out io.Writer, base string) *ConsoleReporter {
	return &ConsoleReporter{out: out, base: base}
}

func (r *ConsoleReporter) Started(leaf *domain.TestNode) {
	fmt.Fprintf(r.out, "%s %s\n", color.CyanString("▶ RUN "), r.name(leaf))
}

func (r *ConsoleReporter) Passed(leaf *domain.TestNode, duration time.Duration) {
	fmt.Fprintf(r.out, "%s %s (%s)\n", color.GreenString("✓ PASS"), r.name(leaf), formatDuration(duration))
}

func (r *ConsoleReporter) Failed(leaf *domain.TestNode, message string, duration *time.Duration) {
	took := ""
	if duration != nil {
		took = fmt.Sprintf(" (%s)", formatDuration(*duration))
	}
	fmt.Fprintf(r.out, "%s %s%s\n", color.RedString("✗ FAIL"), r.name(leaf), took)

	message = strings.TrimRight(message, "\n")
	for _, line := range strings.Split(message, "\n") {
		fmt.Fprintf(r.out, "    %s\n", color.RedString(line))
	}
}

func (r *ConsoleReporter) name(leaf *domain.TestNode) string {
	return relPath(r.base, leaf.Path) + "::" + leaf.Label
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
