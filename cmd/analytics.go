package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/carlog/internal/cli"
	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagTimeframe string

var analyticsCmd = &cobra.Command{
	Use:     "analytics",
	Aliases: []string{"stats"},
	Short:   "Efficiency trend, expense breakdown and monthly comparison",
	RunE:    runAnalytics,
}

func init() {
	analyticsCmd.Flags().StringVarP(&flagTimeframe, "timeframe", "t", "", "3months, 6months, 1year or all (default from config)")
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(_ *cobra.Command, _ []string) error {
	raw := flagTimeframe
	if raw == "" {
		raw = appConfig.General.DefaultTimeframe
	}
	tf, err := pipeline.ParseTimeframe(raw)
	if err != nil {
		return err
	}

	result, err := loadData()
	if err != nil {
		return err
	}
	data := result.Data
	s := data.Settings

	t := now()
	fuel := pipeline.FilterFuel(data.FuelEntries, tf, t)
	maint := pipeline.FilterMaintenance(data.MaintenanceEntries, tf, t)

	if len(fuel) == 0 && len(maint) == 0 {
		fmt.Printf("\n  No entries in the selected timeframe (%s).\n", strings.ToLower(tf.Label()))
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("ANALYTICS  " + tf.Label()))
	fmt.Println()

	sum := pipeline.Summarize(fuel, maint)
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Fill-ups", strconv.Itoa(sum.FillUps)},
			{"Fuel Bought", cli.FormatVolume(sum.TotalVolume, s)},
			{"Avg Price", priceOrNoData(sum.AvgPrice, s)},
			{"---"},
			{"Fuel Cost", cli.FormatCurrency(sum.FuelCost, s)},
			{"Maintenance Cost", cli.FormatCurrency(sum.MaintenanceCost, s)},
			{"Services", strconv.Itoa(sum.ServiceCount)},
			{"Total Cost", cli.FormatCurrency(sum.TotalCost(), s)},
			{"---"},
			{"Distance", cli.FormatDistance(sum.Distance, s)},
			{"Cost/Distance", cli.FormatCostPerDistance(sum.CostPerDistance, s)},
		},
	}))
	fmt.Println()

	printEfficiencyTrend(fuel, s)
	printBreakdown(pipeline.ExpenseTotals(fuel, maint), s)
	printMonthChart("Monthly Comparison", pipeline.MonthlyComparison(fuel, maint), s)
	fmt.Println()
	printCategories(pipeline.AggregateCategories(maint), s)
	return nil
}

func priceOrNoData(perGallon float64, s model.Settings) string {
	if perGallon <= 0 {
		return cli.NoData
	}
	return cli.FormatPricePerVolume(perGallon, s)
}

func printEfficiencyTrend(fuel []model.FuelEntry, s model.Settings) {
	history := pipeline.EfficiencyHistory(fuel)
	if len(history) == 0 {
		fmt.Println("  Efficiency: not enough fill-ups to compute")
		fmt.Println()
		return
	}

	values := make([]float64, len(history))
	lo, hi, total := history[0].MPG, history[0].MPG, 0.0
	for i, p := range history {
		values[i] = p.MPG
		lo = min(lo, p.MPG)
		hi = max(hi, p.MPG)
		total += p.MPG
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Efficiency Trend",
		Headers: []string{"Readings", "Average", "Best", "Worst", "Trend"},
		Rows: [][]string{{
			strconv.Itoa(len(history)),
			cli.FormatEfficiency(total/float64(len(history)), s),
			cli.FormatEfficiency(hi, s),
			cli.FormatEfficiency(lo, s),
			cli.RenderSparkline(values),
		}},
		LeftAlign: []int{4},
	}))
	fmt.Println()
}

func printBreakdown(b model.ExpenseBreakdown, s model.Settings) {
	total := b.Fuel + b.Maintenance
	share := func(v float64) string {
		if total <= 0 {
			return cli.NoData
		}
		return cli.FormatPercent(v / total)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Expense Breakdown",
		Headers: []string{"Type", "Amount", "Share", ""},
		Rows: [][]string{
			{"Fuel", cli.FormatCurrency(b.Fuel, s), share(b.Fuel), cli.RenderStackedBar(b.Fuel, 0, total, 20)},
			{"Maintenance", cli.FormatCurrency(b.Maintenance, s), share(b.Maintenance), cli.RenderStackedBar(0, b.Maintenance, total, 20)},
		},
		LeftAlign: []int{3},
	}))
	fmt.Println()
}

func printCategories(cats []model.CategoryTotal, s model.Settings) {
	if len(cats) == 0 {
		fmt.Println("  No maintenance in this timeframe.")
		return
	}

	var peak float64
	for _, c := range cats {
		peak = max(peak, c.Cost)
	}
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{
			c.Category,
			strconv.Itoa(c.Count),
			cli.FormatCurrency(c.Cost, s),
			cli.RenderHorizontalBar(c.Cost, peak, 20),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:     "Maintenance Categories",
		Headers:   []string{"Category", "Services", "Cost", ""},
		Rows:      rows,
		LeftAlign: []int{3},
	}))
}
