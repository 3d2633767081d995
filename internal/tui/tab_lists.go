package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/carlog/internal/cli"
	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/pipeline"
	"github.com/theirongolddev/carlog/internal/tui/components"
	"github.com/theirongolddev/carlog/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// column is one column of a list tab. Right-aligned unless left is set.
type column struct {
	title string
	width int
	left  bool
}

// visibleWindow returns the [start, end) slice of n rows that keeps cursor
// in view within rows lines.
func visibleWindow(cursor, n, rows int) (int, int) {
	rows = max(rows, 1)
	start := max(cursor-rows+1, 0)
	return start, min(start+rows, n)
}

// renderList draws a bordered list with a header, one row per cell slice
// and a highlighted cursor row. rowColor may override a row's text color.
func renderList(title string, cols []column, cells [][]string, cursor, cw, h int,
	rowColor func(i int) (lipgloss.Color, bool)) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	// The last left-aligned column absorbs the spare width.
	used := 0
	flex := -1
	for i, c := range cols {
		used += c.width + 1
		if c.left {
			flex = i
		}
	}
	if flex >= 0 {
		cols[flex].width = max(cols[flex].width+innerW-used, cols[flex].width)
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	format := func(row []string) string {
		parts := make([]string, len(cols))
		for i, c := range cols {
			v := truncStr(row[i], c.width)
			if c.left {
				parts[i] = fmt.Sprintf("%-*s", c.width, v)
			} else {
				parts[i] = fmt.Sprintf("%*s", c.width, v)
			}
		}
		return strings.Join(parts, " ")
	}

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.title
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(format(header)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", innerW)))

	// Border, title, header and rule take 5 lines; the footer one more.
	visible := max(h-6, 1)
	start, end := visibleWindow(cursor, len(cells), visible)
	for i := start; i < end; i++ {
		b.WriteString("\n")
		line := format(cells[i])
		style := rowStyle
		if c, ok := rowColor(i); ok {
			style = style.Foreground(c)
		}
		if i == cursor {
			style = selStyle
			line = lipgloss.NewStyle().Width(innerW).Render(line)
		}
		b.WriteString(style.Render(line))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d of %d", min(cursor+1, len(cells)), len(cells))))

	return components.ContentCard(title, b.String(), cw)
}

func noColor(int) (lipgloss.Color, bool) { return "", false }

func (a App) emptyList(title, msg string, cw int) string {
	t := theme.Active
	return components.ContentCard(title,
		lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(msg), cw)
}

func (a App) renderFuelTab(cw, h int) string {
	if len(a.fuel) == 0 {
		return a.emptyList("Fuel", "No fill-ups yet. Add one with `carlog fuel add`.", cw)
	}
	s := a.data.Settings

	cols := []column{
		{title: "ID", width: 13},
		{title: "Date", width: 10, left: true},
		{title: "Odometer", width: 12},
		{title: "Volume", width: 12},
		{title: "Price", width: 11},
		{title: "Total", width: 11},
		{title: "Efficiency", width: 11},
	}
	cells := make([][]string, len(a.fuel))
	for i, e := range a.fuel {
		eff := cli.NoData
		if mpg, ok := a.efficiency[e.ID]; ok {
			eff = cli.FormatEfficiency(mpg, s)
		}
		cells[i] = []string{
			fmt.Sprint(e.ID),
			cli.FormatDateSetting(e.Date, s),
			cli.FormatOdometer(e.Odometer, s),
			cli.FormatVolume(e.Volume, s),
			cli.FormatPricePerVolume(e.PricePerVolume, s),
			cli.FormatCurrency(e.Total, s),
			eff,
		}
	}
	return renderList("Fuel", cols, cells, a.lists[0].cursor, cw, h, noColor)
}

func (a App) renderMaintenanceTab(cw, h int) string {
	if len(a.maint) == 0 {
		return a.emptyList("Maintenance", "No services yet. Add one with `carlog maint add`.", cw)
	}
	s := a.data.Settings

	cols := []column{
		{title: "ID", width: 13},
		{title: "Date", width: 10, left: true},
		{title: "Odometer", width: 12},
		{title: "Category", width: 11, left: true},
		{title: "Service", width: 16, left: true},
		{title: "Cost", width: 11},
	}
	cells := make([][]string, len(a.maint))
	for i, e := range a.maint {
		service := e.Service
		if e.Notes != "" {
			service += " · " + e.Notes
		}
		cells[i] = []string{
			fmt.Sprint(e.ID),
			cli.FormatDateSetting(e.Date, s),
			cli.FormatOdometer(e.Odometer, s),
			pipeline.Categorize(e.Service),
			service,
			cli.FormatCurrency(e.Cost, s),
		}
	}
	return renderList("Maintenance", cols, cells, a.lists[1].cursor, cw, h, noColor)
}

func (a App) renderRemindersTab(cw, h int) string {
	if len(a.reminders) == 0 {
		return a.emptyList("Reminders", "No reminders. Add one with `carlog rem add`.", cw)
	}
	s := a.data.Settings
	t := theme.Active

	counts := pipeline.CountByStatus(a.reminders)
	title := fmt.Sprintf("Reminders  %d due · %d upcoming · %d ok · %d done",
		counts[model.StatusDue], counts[model.StatusUpcoming], counts[model.StatusOK], counts[model.StatusCompleted])

	cols := []column{
		{title: "Status", width: 9, left: true},
		{title: "Service", width: 16, left: true},
		{title: "Due Date", width: 10, left: true},
		{title: "When", width: 14, left: true},
		{title: "Due At", width: 12},
	}
	cells := make([][]string, len(a.reminders))
	for i, r := range a.reminders {
		date, when := cli.NoData, ""
		if !r.DueDate.IsZero() {
			date = cli.FormatDateSetting(r.DueDate, s)
			when = cli.FormatDueIn(r.DueDate, a.now)
		}
		at := cli.NoData
		if miles, ok := r.DueMiles(); ok {
			at = cli.FormatOdometer(miles, s)
		}
		cells[i] = []string{string(r.Status), r.Service, date, when, at}
	}

	rowColor := func(i int) (lipgloss.Color, bool) {
		return t.Status(a.reminders[i].Status), true
	}
	return renderList(title, cols, cells, a.lists[2].cursor, cw, h, rowColor)
}
