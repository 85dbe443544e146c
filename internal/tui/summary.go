package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"smartstitch/internal/stitcher"
)

type SummaryRow struct {
	Label string
	Value string
}

// RunSummaryRows lays out the outcome of one run for RenderSummary.
func RunSummaryRows(sum stitcher.Summary) []SummaryRow {
	rows := []SummaryRow{
		{Label: "Folders stitched", Value: fmt.Sprintf("%d", sum.Folders)},
		{Label: "Folders skipped", Value: fmt.Sprintf("%d", sum.Skipped)},
		{Label: "Pages written", Value: fmt.Sprintf("%d", sum.Pages)},
		{Label: "Elapsed", Value: fmt.Sprintf("%.2fs", sum.Elapsed.Seconds())},
	}
	if len(sum.Warnings) > 0 {
		rows = append(rows, SummaryRow{Label: "Post-process warnings", Value: fmt.Sprintf("%d", len(sum.Warnings))})
	}
	for _, out := range sum.Outputs {
		rows = append(rows, SummaryRow{Label: "Output", Value: out})
	}
	return rows
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// RenderWarnings lists post-process failures below the summary table.
func RenderWarnings(warnings []string) string {
	lines := make([]string, 0, len(warnings))
	for _, w := range warnings {
		lines = append(lines, warnStyle.Render("! "+w))
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
)
