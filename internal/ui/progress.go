package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"k6x/internal/domain"
)

// ProgressBar shows how far a run is, its pass/fail counts and the test in flight
type ProgressBar struct {
	bar     *progressbar.ProgressBar
	base    string
	passed  int
	failed  int
	current string
}

// NewProgressBar creates a progress bar over count tests writing to out.
// Test names are shown relative to base.
func NewProgressBar(out io.Writer, count int, base string) *ProgressBar {
	p := &ProgressBar{base: base}
	p.bar = progressbar.NewOptions(count,
		progressbar.OptionSetDescription(p.describe()),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return p
}

// Start shows leaf as the test in flight
func (p *ProgressBar) Start(leaf *domain.TestNode) {
	p.current = relPath(p.base, leaf.Path) + "::" + leaf.Label
	p.bar.Describe(p.describe())
}

// Update records the counts after a test finished
func (p *ProgressBar) Update(passed, failed int) {
	p.passed, p.failed = passed, failed
	p.current = ""
	p.bar.Set(passed + failed)
	p.bar.Describe(p.describe())
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.bar.Finish()
}

func (p *ProgressBar) describe() string {
	desc := color.CyanString("k6 ") +
		color.GreenString("[passed: %d", p.passed) +
		" | " +
		color.RedString("failed: %d]", p.failed)
	if p.current != "" {
		desc += " " + color.YellowString(p.current)
	}
	return desc
}
