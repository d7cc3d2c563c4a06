package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/contre95/shadowbox/src/features/downloading"
	"github.com/contre95/shadowbox/src/music"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)
)

// printReport prints every item followed by the batch summary.
func printReport(w io.Writer, report downloading.BatchReport) {
	for _, item := range report.Items {
		printItem(w, item)
	}
	style := successStyle
	if report.Succeeded() < report.Total() {
		style = warningStyle
	}
	fmt.Fprintln(w, boxStyle.Render(style.Render(report.Summary())))
}

// printItem prints one input with its placed tracks, or why it failed.
func printItem(w io.Writer, item downloading.ItemResult) {
	if item.OK() {
		fmt.Fprintln(w, successStyle.Render("✓ "+item.Input))
	} else {
		fmt.Fprintln(w, errorStyle.Render("✗ "+item.Input))
	}
	for _, t := range item.Tracks {
		if t.OK() {
			fmt.Fprintf(w, "  %s %s\n", t.Identity.Pretty(), dimStyle.Render("→ "+t.Placement.FinalPath))
		} else {
			fmt.Fprintln(w, errorStyle.Render("  "+t.Identity.Pretty()+": "+errText(t.Err)))
		}
	}
	if item.OK() {
		return
	}
	if len(item.Tracks) == 0 {
		fmt.Fprintln(w, errorStyle.Render("  "+errText(item.Err)))
	}
	for _, d := range item.Diagnostics {
		fmt.Fprintln(w, dimStyle.Render("  "+d))
	}
	for _, h := range item.Hints {
		fmt.Fprintln(w, warningStyle.Render("  hint: "+h))
	}
}

func printHistory(w io.Writer, entries []music.HistoryEntry, counts map[string]int) {
	if len(entries) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No downloads yet"))
		return
	}
	fmt.Fprintln(w, titleStyle.Render("Recent downloads"))
	for _, e := range entries {
		when := e.CreatedAt.Local().Format("2006-01-02 15:04")
		label := e.Input
		if e.Title != "" {
			label = fmt.Sprintf("%s - %s", e.Artist, e.Title)
		}
		status := successStyle.Render("✓")
		if e.Status != "success" {
			status = errorStyle.Render("✗")
		}
		fmt.Fprintf(w, "%s %s %s\n", dimStyle.Render(when), status, label)
		if e.Path != "" {
			fmt.Fprintln(w, dimStyle.Render("    "+e.Path))
		}
	}

	statuses := make([]string, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		parts = append(parts, fmt.Sprintf("%s: %d", s, counts[s]))
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(parts, "  ")))
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
