package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"k6x/internal/domain"
	"k6x/internal/storage"
)

// maxOutputLines caps the engine output shown for one failure
const maxOutputLines = 40

// FailureViewer displays failed tests of the last run in an interactive TUI
type FailureViewer struct {
	storage storage.Storage
	base    string
}

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer(st storage.Storage, base string) *FailureViewer {
	return &FailureViewer{
		storage: st,
		base:    base,
	}
}

// View displays failed tests; `r` toggles resolved and is persisted to the report
func (fv *FailureViewer) View(report *domain.RunReport) error {
	// Indexes into report.Details of the failed records
	var failed []int
	for i, rec := range report.Details {
		if rec.State == domain.StateFailed {
			failed = append(failed, i)
		}
	}
	if len(failed) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	itemText := func(n int) string {
		rec := report.Details[failed[n]]
		name := relPath(fv.base, rec.FilePath) + "::" + rec.Name
		if rec.Resolved {
			return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", n+1, name)
		}
		return fmt.Sprintf("[yellow]%d.[white] %s", n+1, name)
	}

	for n := range failed {
		list.AddItem(itemText(n), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsView, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		unresolved := 0
		for _, i := range failed {
			if !report.Details[i].Resolved {
				unresolved++
			}
		}
		headerView.SetText(fmt.Sprintf(" Failed k6 tests (%d total, %d unresolved) | ↑↓ navigate, [yellow]R[white] mark resolved, → details, ← back, Ctrl+C exit ", len(failed), unresolved))
	}

	updateDetails := func() {
		n := list.GetCurrentItem()
		if n < 0 || n >= len(failed) {
			return
		}
		rec := report.Details[failed[n]]
		statsView.SetText(fmt.Sprintf("[cyan]path:[white] [yellow]%s[white]::[yellow]%s[white]\n", relPath(fv.base, rec.FilePath), rec.Name))
		detailsView.SetText(FormatFailureDetails(rec))
		detailsView.ScrollToBeginning()
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				n := list.GetCurrentItem()
				if n >= 0 && n < len(failed) {
					rec := &report.Details[failed[n]]
					rec.Resolved = !rec.Resolved
					list.SetItemText(n, itemText(n), "")
					updateHeader()
					if err := fv.storage.SaveReport(report); err != nil {
						statsView.SetText(fmt.Sprintf("[red]failed to save: %v[white]", err))
					}
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})

	updateHeader()
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// FormatFailureDetails formats a failed record using tview color tags
func FormatFailureDetails(rec domain.RunRecord) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "[red]✗ Test: %s[white]\n\n", rec.Name)
	fmt.Fprintf(w, "[cyan]File: %s[white]\n", rec.FilePath)
	if rec.DurationSeconds > 0 {
		fmt.Fprintf(w, "[cyan]Duration: %.2fs[white]\n", rec.DurationSeconds)
	}
	if rec.Cancelled {
		fmt.Fprintf(w, "[yellow]Cancelled before completion[white]\n")
	}
	fmt.Fprintf(w, "\n")

	if rec.Message != "" {
		fmt.Fprintf(w, "[yellow]Message:[white]\n%s\n\n", tview.Escape(strings.TrimRight(rec.Message, "\n")))
	}

	if rec.ChecksPassed > 0 || rec.ChecksFailed > 0 {
		fmt.Fprintf(w, "[yellow]Checks:[white] [green]%d passed[white], [red]%d failed[white]\n", rec.ChecksPassed, rec.ChecksFailed)
	}
	for _, check := range rec.FailedChecks {
		fmt.Fprintf(w, "  [red]✗ %s[white]\n", tview.Escape(check))
	}
	if len(rec.CrossedThresholds) > 0 {
		fmt.Fprintf(w, "\n[yellow]Crossed thresholds:[white]\n")
		for _, threshold := range rec.CrossedThresholds {
			fmt.Fprintf(w, "  [red]✗ %s[white]\n", tview.Escape(threshold))
		}
	}

	if rec.Output != "" {
		lines := strings.Split(strings.TrimRight(rec.Output, "\n"), "\n")
		fmt.Fprintf(w, "\n[yellow]Output:[white]\n")
		start := 0
		if len(lines) > maxOutputLines {
			start = len(lines) - maxOutputLines
			fmt.Fprintf(w, "  [gray]... %d earlier lines[white]\n", start)
		}
		for _, line := range lines[start:] {
			fmt.Fprintf(w, "  %s\n", tview.Escape(line))
		}
	}

	w.Flush()
	return builder.String()
}
