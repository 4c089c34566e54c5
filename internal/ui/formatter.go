package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"k6x/internal/domain"
	"k6x/internal/execution"
	"k6x/internal/tree"
)

// Formatter formats and displays output
type Formatter struct {
	out  io.Writer
	base string
}

// NewFormatter creates a new Formatter; paths are shown relative to base
func NewFormatter(out io.Writer, base string) *Formatter {
	return &Formatter{out: out, base: base}
}

// PrintTree prints discovered file nodes, optionally with their tests.
// failed marks leaf IDs that failed in the last run with [F].
func (f *Formatter) PrintTree(files []*domain.TestNode, t *tree.Tree, showTests bool, failed map[string]bool) {
	if len(files) == 0 {
		fmt.Fprintln(f.out, color.YellowString("No k6 tests found"))
		return
	}

	fmt.Fprintln(f.out, color.GreenString("Found %d k6 test file(s):\n", len(files)))

	for i, file := range files {
		isLastFile := i == len(files)-1
		connector := "├── "
		if isLastFile {
			connector = "└── "
		}

		children := t.Children(file.ID)
		marker := ""
		for _, child := range children {
			if failed[child.ID] {
				marker = " " + color.RedString("[F]")
				break
			}
		}
		fmt.Fprintf(f.out, "%s%s%s\n", connector, color.CyanString(relPath(f.base, file.Path)), marker)

		if !showTests {
			continue
		}

		for j, child := range children {
			prefix := "│   "
			if isLastFile {
				prefix = "    "
			}
			if j == len(children)-1 {
				prefix += "└── "
			} else {
				prefix += "├── "
			}

			location := ""
			if child.Range != nil {
				location = color.HiBlackString(" (line %d)", child.Range.Start.Line+1)
			}
			fmt.Fprintf(f.out, "%s%s%s\n", prefix, color.YellowString(child.Label), location)
		}
	}
}

// PrintRunSummary prints the statistics of a finished run and its failures
func (f *Formatter) PrintRunSummary(report *domain.RunReport) {
	meta := report.Meta

	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, color.CyanString("╔═══════════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(f.out, color.CyanString("║                    k6 Test Run Statistics                     ║"))
	fmt.Fprintln(f.out, color.CyanString("╚═══════════════════════════════════════════════════════════════╝"))

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	f.row("Total Tests", fmt.Sprint(meta.TotalTests), color.WhiteString)
	f.row("Passed", fmt.Sprint(meta.PassedTests), color.GreenString)
	f.row("Failed", fmt.Sprint(meta.FailedTests), color.RedString)
	f.row("Not Run", fmt.Sprint(meta.NotRun), color.YellowString)
	f.row("Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), color.WhiteString)
	fmt.Fprintf(f.out, "│ %-31s │ %s │\n", "Timestamp", color.WhiteString("%-27s", meta.Timestamp))
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	switch {
	case meta.Cancelled:
		fmt.Fprintln(f.out, color.YellowString("⚠ Run cancelled, %d test(s) not started", meta.NotRun))
	case meta.FailedTests == 0:
		fmt.Fprintln(f.out, color.GreenString("✓ All tests passed!"))
	}

	failures := report.Failures()
	if len(failures) > 0 {
		fmt.Fprintln(f.out, color.RedString("✗ %d test(s) failed", len(failures)))
		for _, rec := range failures {
			fmt.Fprintf(f.out, "  |_ %s\n", color.YellowString("%s::%s", relPath(f.base, rec.FilePath), rec.Name))
			for _, check := range rec.FailedChecks {
				fmt.Fprintf(f.out, "        |_ %s\n", color.RedString("check: %s", check))
			}
			for _, threshold := range rec.CrossedThresholds {
				fmt.Fprintf(f.out, "        |_ %s\n", color.RedString("threshold: %s", threshold))
			}
		}
	}
}

func (f *Formatter) row(label, value string, paint func(string, ...interface{}) string) {
	fmt.Fprintf(f.out, "│ %-31s │ %s │\n", label, paint("%-27s", value))
	fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
}

// PrintEngineStatus prints the outcome of an engine check
func (f *Formatter) PrintEngineStatus(enginePath string, status execution.EngineStatus) {
	if status.Available {
		fmt.Fprintf(f.out, "%s %s (version %s)\n", color.GreenString("✓"), enginePath, status.Version)
		return
	}
	fmt.Fprintf(f.out, "%s %s is not available: %s\n", color.RedString("✗"), enginePath, strings.TrimSpace(status.Error))
}

// relPath returns path relative to base when it lies below it
func relPath(base, path string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
