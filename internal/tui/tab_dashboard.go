package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/carlog/internal/cli"
	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/tui/components"
	"github.com/theirongolddev/carlog/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	s := a.data.Settings

	var b strings.Builder

	if len(a.due) > 0 {
		warn := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
		names := make([]string, len(a.due))
		for i, r := range a.due {
			names[i] = r.Service
		}
		b.WriteString(components.ContentCard("",
			warn.Render(fmt.Sprintf("⚠ %d service(s) due: %s", len(a.due), strings.Join(names, ", "))), cw))
		b.WriteString("\n")
	}

	odometer := cli.NoData
	if a.odometer > 0 {
		odometer = cli.FormatOdometer(a.odometer, s)
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Fuel This Month", Value: cli.FormatCurrency(a.month.Fuel, s)},
		{Label: "Maintenance This Month", Value: cli.FormatCurrency(a.month.Maintenance, s)},
		{Label: "Efficiency", Value: cli.FormatRollingEfficiency(a.rolling, s), Detail: "last fill-ups"},
		{Label: "Odometer", Value: odometer},
	}, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Monthly Spend", monthChartBody(a.trailing, s, components.CardInnerWidth(halves[0])), halves[0]),
		components.ContentCard("Recent Expenses", a.recentBody(components.CardInnerWidth(halves[1])), halves[1]),
	}))

	return b.String()
}

func (a App) recentBody(innerW int) string {
	t := theme.Active
	s := a.data.Settings
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	if len(a.recent) == 0 {
		return muted.Render("No expenses yet. Add one with `carlog fuel add`.")
	}

	const dateW, amountW = 12, 12
	descW := max(innerW-dateW-amountW-4, 6)

	var b strings.Builder
	for i, e := range a.recent {
		kindColor := t.Fuel
		desc := cli.FuelDescription(e.Volume, e.PricePerVolume, s)
		if e.Kind == model.ExpenseMaintenance {
			kindColor = t.Maintenance
			desc = e.Service
		}
		marker := lipgloss.NewStyle().Foreground(kindColor).Background(t.Surface).Render("● ")

		b.WriteString(marker)
		b.WriteString(muted.Render(fmt.Sprintf("%-*s", dateW, cli.FormatDateSetting(e.Date, s))))
		b.WriteString(value.Render(fmt.Sprintf("%-*s", descW, truncStr(desc, descW))))
		b.WriteString(value.Render(fmt.Sprintf("%*s", amountW, cli.FormatCurrency(e.Amount, s))))
		if i < len(a.recent)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
