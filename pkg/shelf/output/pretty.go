package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/shelf/pkg/shelf/types"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted summary to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, s *types.Summary) error {
	w.WriteString(f.formatHeader(s))
	w.WriteString("\n")
	w.WriteString(f.formatTable(s))
	w.WriteString(f.formatFooter(s))
	return nil
}

// formatHeader builds the header box with run metadata.
func (f *PrettyFormatter) formatHeader(s *types.Summary) string {
	var lines []string

	sourceLabel := LabelStyle.Render("Source:")
	sourceValue := ValueStyle.Render(s.BaseDir)
	lines = append(lines, fmt.Sprintf("%s %s", sourceLabel, sourceValue))

	destLabel := LabelStyle.Render("Destination:")
	destValue := ValueStyle.Render(s.OutputDir)
	lines = append(lines, fmt.Sprintf("%s %s", destLabel, destValue))

	var infoParts []string
	itemsLabel := LabelStyle.Render("Processed:")
	itemsValue := ValueStyle.Render(fmt.Sprintf("%d items in %s with %d workers",
		s.Total(), formatDuration(s.Elapsed), s.Workers))
	infoParts = append(infoParts, fmt.Sprintf("%s %s", itemsLabel, itemsValue))

	if s.Simulate {
		infoParts = append(infoParts, WarningStyle.Bold(true).Render("SIMULATE"))
	}
	lines = append(lines, strings.Join(infoParts, "  "))

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatTable builds the per-item table with ACTION, NAME, and DESTINATION columns.
func (f *PrettyFormatter) formatTable(s *types.Summary) string {
	if len(s.Outcomes) == 0 {
		return MutedStyle.Render("  No items matched the filter\n")
	}

	var sb strings.Builder

	actionHeader := TableHeaderStyle.Render("ACTION")
	nameHeader := TableHeaderStyle.Render("NAME")
	destHeader := TableHeaderStyle.Render("DESTINATION")
	sb.WriteString(fmt.Sprintf("  %s  %s  %s\n", actionHeader, nameHeader, destHeader))

	maxActionWidth := len("ACTION")
	maxNameWidth := len("NAME")
	for _, o := range s.Outcomes {
		maxActionWidth = max(maxActionWidth, len(o.Action))
		maxNameWidth = max(maxNameWidth, len(o.Item.Name))
	}

	for _, o := range s.Outcomes {
		action := actionStyle(o.Action).Render(padRight(string(o.Action), maxActionWidth))
		name := PathStyle.Render(padRight(o.Item.Name, maxNameWidth))

		detail := o.Destination
		if o.Action == types.ActionFailed {
			detail = o.Error
		}
		sb.WriteString(fmt.Sprintf("  %s  %s  %s\n", action, name, MutedStyle.Render(detail)))
	}

	return sb.String()
}

// formatFooter builds the footer box with summary counters.
func (f *PrettyFormatter) formatFooter(s *types.Summary) string {
	var parts []string

	if s.Simulate {
		parts = append(parts, fmt.Sprintf("%s %s",
			LabelStyle.Render("Planned:"),
			ValueStyle.Render(fmt.Sprintf("%d", s.Simulated))))
	} else {
		parts = append(parts, fmt.Sprintf("%s %s",
			LabelStyle.Render("Succeeded:"),
			SuccessStyle.Render(fmt.Sprintf("%d", s.Succeeded))))
	}

	failedValue := ValueStyle.Render("0")
	if s.Failed > 0 {
		failedValue = ErrorStyle.Render(fmt.Sprintf("%d", s.Failed))
	}
	parts = append(parts, fmt.Sprintf("%s %s", LabelStyle.Render("Failed:"), failedValue))

	if s.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%s %s",
			LabelStyle.Render("Skipped:"),
			WarningStyle.Render(fmt.Sprintf("%d", s.Skipped))))
	}

	parts = append(parts, fmt.Sprintf("%s %s",
		LabelStyle.Render("Total:"),
		SizeStyle.Render(types.FormatSize(s.TotalBytes))))

	return FooterBox.Render(strings.Join(parts, "  "))
}

// actionStyle picks the style matching an action's severity.
func actionStyle(a types.Action) lipgloss.Style {
	switch {
	case a == types.ActionFailed:
		return ErrorStyle
	case a == types.ActionSkipped:
		return WarningStyle
	case a.Simulated():
		return MutedStyle
	default:
		return SuccessStyle
	}
}

// padRight pads a string with spaces on the right to achieve the desired width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
