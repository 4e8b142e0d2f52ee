package render

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-talkshow/internal/core/loader"
	"github.com/penwyp/go-talkshow/internal/core/model"
	"github.com/penwyp/go-talkshow/internal/presentation/layout"
	"github.com/penwyp/go-talkshow/internal/util"
)

// AxisLines renders the time axis, one string per row, each layout.AxisWidth cells wide
func AxisLines(f Frame) []string {
	cell := layout.AxisWidth - 1
	lines := make([]string, f.Height)
	for i := range lines {
		lines[i] = strings.Repeat(" ", cell) + separator
	}

	for _, m := range f.Markers {
		if m.Row >= len(lines) {
			break
		}
		label := "  " + m.Marker.TimeDisplay
		style := halfHourStyle
		if m.Marker.IsHour {
			label = "─ " + m.Marker.TimeDisplay
			style = hourStyle
		}
		if m.Highlighted {
			label = "▸ " + m.Marker.TimeDisplay
			style = highlightStyle
		}
		lines[m.Row] = style.Render(util.FitWidth(label, cell)) + separator

		if m.Marker.IsNewDay && m.Row+1 < len(lines) {
			date := util.FitWidth("  "+m.Marker.Date, cell)
			if m.Marker.ShowDate {
				date = dateStyle.Render(date)
			}
			lines[m.Row+1] = date + separator
		}
	}
	return lines
}

// ColumnLines renders one column, one string per row, each width cells wide
func ColumnLines(c ColumnView, height, width int) []string {
	cell := width - 1
	blank := strings.Repeat(" ", max(0, cell))
	lines := make([]string, max(height, 1))
	for i := range lines {
		lines[i] = blank + separator
	}

	switch c.Status {
	case loader.StatusPending:
		lines[0] = pendingStyle.Render(util.FitWidth(" loading…", cell)) + separator
	case loader.StatusFailed:
		lines[0] = failedStyle.Render(util.FitWidth(" ✗ load failed", cell)) + separator
		if c.Err != "" && len(lines) > 1 {
			lines[1] = failedStyle.Render(util.FitWidth(" "+c.Err, cell)) + separator
		}
	case loader.StatusLoaded:
		if len(c.Turns) == 0 {
			lines[0] = pendingStyle.Render(util.FitWidth(" no conversation turns", cell)) + separator
		}
		for _, turn := range c.Turns {
			if turn.Row >= len(lines) {
				break
			}
			q := questionStyle
			a := answerStyle
			if turn.Summarized {
				q = q.Inherit(summaryStyle)
				a = a.Inherit(summaryStyle)
			}
			prefix := " Q "
			if turn.Time != "" {
				prefix = " " + turn.Time + " Q "
			}
			lines[turn.Row] = q.Render(util.FitWidth(prefix+turn.Question, cell)) + separator
			if turn.Row+1 < len(lines) {
				lines[turn.Row+1] = a.Render(util.FitWidth("   A "+turn.Answer, cell)) + separator
			}
		}
	}
	return lines
}

// ContentLines renders count columns starting at first side by side
func ContentLines(f Frame, width, first, count int) []string {
	rows := make([]strings.Builder, max(f.Height, 1))
	end := min(len(f.Columns), first+count)
	for i := max(first, 0); i < end; i++ {
		for row, line := range ColumnLines(f.Columns[i], len(rows), width) {
			rows[row].WriteString(line)
		}
	}

	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return lines
}

// ColumnHeaders renders the theme row above the content pane
func ColumnHeaders(f Frame, width, first, count int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", layout.AxisWidth))

	end := min(len(f.Columns), first+count)
	for i := max(first, 0); i < end; i++ {
		c := f.Columns[i]
		title := fmt.Sprintf(" %s %s (%d)", statusGlyph(c.Status), c.Theme, c.QACount)
		b.WriteString(themeStyle.Render(util.FitWidth(title, width-1)))
		b.WriteString(separator)
	}
	return b.String()
}

func statusGlyph(status loader.ColumnStatus) string {
	switch status {
	case loader.StatusLoaded:
		return "✓"
	case loader.StatusFailed:
		return "✗"
	default:
		return "…"
	}
}

// Header renders the title, stats and filter rows
func Header(f Frame, width int) []string {
	title := fmt.Sprintf("TalkShow Timeline · %d of %d sessions", len(f.Columns), f.Total)
	filter := "Filter: " + f.Filter
	if f.Search != "" {
		filter += fmt.Sprintf(`  Search: "%s"`, f.Search)
	}
	return []string{
		titleStyle.Render(util.FitWidth(title, width)),
		StatsPanel(f.Stats, width),
		statLabelStyle.Render(util.FitWidth(filter, width)),
	}
}

// StatsPanel renders the aggregate counters in one row
func StatsPanel(stats *model.Stats, width int) string {
	if stats == nil {
		return statLabelStyle.Render(util.FitWidth("Stats unavailable", width))
	}

	items := []struct {
		label string
		value string
	}{
		{"Sessions", util.FormatNumber(stats.TotalSessions)},
		{"QA pairs", util.FormatNumber(stats.TotalQAPairs)},
		{"Summaries", fmt.Sprintf("Q %d / A %d", stats.QuestionSummaries, stats.AnswerSummaries)},
		{"Avg/session", fmt.Sprintf("%.1f", stats.AverageQAPerSession)},
		{"Storage", util.FormatFileSize(stats.StorageFileSize)},
	}

	var b strings.Builder
	used := 0
	for i, item := range items {
		plain := item.label + ": " + item.value
		if i > 0 {
			plain = "  " + plain
		}
		w := util.GetDisplayWidth(plain)
		if used+w > width {
			break
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(statLabelStyle.Render(item.label+":") + " " + statValueStyle.Render(item.value))
		used += w
	}
	return b.String()
}

// ErrorLines renders the whole-view failure page
func ErrorLines(message string, width int) []string {
	lines := []string{
		"",
		errorStyle.Render(util.CenterText("Failed to load timeline data", width)),
	}
	for _, line := range util.WrapText(message, width) {
		lines = append(lines, failedStyle.Render(line))
	}
	return append(lines, "", helpStyle.Render("Press r to retry, q to quit"))
}

// Help renders the key binding footer
func Help(width int) string {
	return helpStyle.Render(util.FitWidth("↑/↓ scroll · ←/→ columns · tab pane · / search · f filter · r refresh · e export · q quit", width))
}

// Static renders a whole frame as plain text for non-interactive output
func Static(f Frame, width int) string {
	sizer := layout.NewSizer(width, 0)
	lines := Header(f, width)

	if f.Error != "" {
		lines = append(lines, ErrorLines(f.Error, width)...)
		return strings.Join(lines, "\n") + "\n"
	}

	colWidth := sizer.ColumnWidth()
	count := sizer.VisibleColumns()
	lines = append(lines, ColumnHeaders(f, colWidth, 0, count))

	axis := AxisLines(f)
	content := ContentLines(f, colWidth, 0, count)
	for i := 0; i < f.Height; i++ {
		lines = append(lines, axis[i]+content[i])
	}
	if len(f.Columns) > count {
		lines = append(lines, helpStyle.Render(fmt.Sprintf("… %d more sessions not shown", len(f.Columns)-count)))
	}
	return strings.Join(lines, "\n") + "\n"
}
