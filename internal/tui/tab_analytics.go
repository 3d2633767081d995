package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/carlog/internal/cli"
	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/pipeline"
	"github.com/theirongolddev/carlog/internal/tui/components"
	"github.com/theirongolddev/carlog/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// analytics holds the Analytics tab's values for one timeframe.
type analytics struct {
	timeframe  pipeline.Timeframe
	empty      bool
	summary    model.Summary
	efficiency []model.EfficiencyPoint
	breakdown  model.ExpenseBreakdown
	months     []model.MonthBucket
	categories []model.CategoryTotal
}

func computeAnalytics(d *model.Data, tf pipeline.Timeframe, now time.Time) analytics {
	fuel := pipeline.FilterFuel(d.FuelEntries, tf, now)
	maint := pipeline.FilterMaintenance(d.MaintenanceEntries, tf, now)
	return analytics{
		timeframe:  tf,
		empty:      len(fuel) == 0 && len(maint) == 0,
		summary:    pipeline.Summarize(fuel, maint),
		efficiency: pipeline.EfficiencyHistory(fuel),
		breakdown:  pipeline.ExpenseTotals(fuel, maint),
		months:     pipeline.MonthlyComparison(fuel, maint),
		categories: pipeline.AggregateCategories(maint),
	}
}

func (a App) renderAnalyticsTab(cw int) string {
	t := theme.Active
	s := a.data.Settings
	an := a.an

	if an.empty {
		msg := fmt.Sprintf("No entries in the selected timeframe (%s).\nPress [t] to widen it.",
			strings.ToLower(an.timeframe.Label()))
		return components.ContentCard("Analytics",
			lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(msg), cw)
	}

	var b strings.Builder

	sum := an.summary
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Total Cost", Value: cli.FormatCurrency(sum.TotalCost(), s),
			Detail: fmt.Sprintf("%d fill-ups · %d services", sum.FillUps, sum.ServiceCount)},
		{Label: "Distance", Value: cli.FormatDistance(sum.Distance, s),
			Detail: cli.FormatCostPerDistance(sum.CostPerDistance, s)},
		{Label: "Fuel Bought", Value: cli.FormatVolume(sum.TotalVolume, s),
			Detail: "avg " + avgPrice(sum.AvgPrice, s)},
	}, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Efficiency Trend", a.efficiencyBody(components.CardInnerWidth(halves[0])), halves[0]),
		components.ContentCard("Expense Breakdown", breakdownBody(an.breakdown, s, components.CardInnerWidth(halves[1])), halves[1]),
	}))
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Monthly Comparison",
		monthChartBody(an.months, s, components.CardInnerWidth(cw)), cw))
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Maintenance Categories",
		categoriesBody(an.categories, s, components.CardInnerWidth(cw)), cw))

	return b.String()
}

func avgPrice(perGallon float64, s model.Settings) string {
	if perGallon <= 0 {
		return cli.NoData
	}
	return cli.FormatPricePerVolume(perGallon, s)
}

func (a App) efficiencyBody(innerW int) string {
	t := theme.Active
	s := a.data.Settings
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	hist := a.an.efficiency
	if len(hist) == 0 {
		return muted.Render("Not enough fill-ups to compute efficiency.")
	}

	values := make([]float64, len(hist))
	lo, hi, total := hist[0].MPG, hist[0].MPG, 0.0
	for i, p := range hist {
		values[i] = p.MPG
		lo = min(lo, p.MPG)
		hi = max(hi, p.MPG)
		total += p.MPG
	}

	// Keep the most recent readings when the sparkline would overflow.
	if len(values) > innerW {
		values = values[len(values)-innerW:]
	}

	var b strings.Builder
	b.WriteString(components.Sparkline(values, t.Fuel))
	b.WriteString("\n\n")
	rows := []struct{ label, val string }{
		{"Average", cli.FormatEfficiency(total/float64(len(hist)), s)},
		{"Best", cli.FormatEfficiency(hi, s)},
		{"Worst", cli.FormatEfficiency(lo, s)},
		{"Readings", fmt.Sprintf("%d", len(hist))},
	}
	for i, r := range rows {
		b.WriteString(muted.Render(fmt.Sprintf("%-10s", r.label)))
		b.WriteString(value.Render(r.val))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func breakdownBody(bd model.ExpenseBreakdown, s model.Settings, innerW int) string {
	t := theme.Active
	total := bd.Fuel + bd.Maintenance
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if total <= 0 {
		return muted.Render("No spend recorded.")
	}

	const labelW = 12
	barW := max(innerW-labelW-9, 5)

	var b strings.Builder
	b.WriteString(components.ShareBar("Fuel", bd.Fuel/total, t.Fuel, labelW, barW))
	b.WriteString("\n")
	b.WriteString(components.ShareBar("Maintenance", bd.Maintenance/total, t.Maintenance, labelW, barW))
	b.WriteString("\n\n")
	b.WriteString(muted.Render(fmt.Sprintf("%-*s", labelW+1, "Fuel")))
	b.WriteString(muted.Render(cli.FormatCurrency(bd.Fuel, s)))
	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("%-*s", labelW+1, "Maintenance")))
	b.WriteString(muted.Render(cli.FormatCurrency(bd.Maintenance, s)))
	return b.String()
}

// monthChartBody renders one stacked bar per month, newest last.
func monthChartBody(months []model.MonthBucket, s model.Settings, innerW int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	if len(months) == 0 {
		return muted.Render("No months to compare.")
	}

	var peak float64
	for _, m := range months {
		peak = max(peak, m.Total())
	}

	const labelW, amountW, deltaW = 9, 14, 13
	barW := max(innerW-labelW-amountW-deltaW-3, 5)

	var b strings.Builder
	for i, m := range months {
		b.WriteString(muted.Render(fmt.Sprintf("%-*s", labelW, m.Key.LongLabel())))
		b.WriteString(components.StackedBar(m.Fuel, m.Maintenance, peak, barW))
		b.WriteString(value.Render(fmt.Sprintf(" %*s", amountW, cli.FormatCurrency(m.Total(), s))))
		b.WriteString(muted.Render(fmt.Sprintf(" %*s", deltaW, cli.FormatMonthDelta(months, i, s))))
		b.WriteString("\n")
	}
	b.WriteString(components.Legend())
	return b.String()
}

func categoriesBody(cats []model.CategoryTotal, s model.Settings, innerW int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if len(cats) == 0 {
		return muted.Render("No maintenance in this timeframe.")
	}

	values := make([]float64, len(cats))
	labels := make([]string, len(cats))
	for i, c := range cats {
		values[i] = c.Cost
		labels[i] = c.Category
	}
	chart := components.BarChart(values, labels, t.Maintenance, innerW, 8)

	var b strings.Builder
	b.WriteString(chart)
	b.WriteString("\n")
	for _, c := range cats {
		fmt.Fprintf(&b, "\n%s", muted.Render(fmt.Sprintf("%-12s %3d × %s", c.Category, c.Count,
			cli.FormatCurrency(c.Cost, s))))
	}
	return b.String()
}
