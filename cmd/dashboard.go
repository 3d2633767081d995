package cmd

import (
	"fmt"

	"github.com/theirongolddev/carlog/internal/cli"
	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/pipeline"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "This month's spend, due reminders and recent expenses",
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	data := result.Data
	s := data.Settings

	if len(data.FuelEntries) == 0 && len(data.MaintenanceEntries) == 0 {
		fmt.Println("\n  No fuel or maintenance entries yet.")
		fmt.Println("  Add one with `carlog fuel add`, or try `carlog seed` for demo data.")
		return nil
	}

	t := now()
	month := pipeline.CurrentMonthTotals(data.FuelEntries, data.MaintenanceEntries, t)
	odo := pipeline.MaxOdometer(data.FuelEntries, data.MaintenanceEntries)
	window := appConfig.General.RollingWindow

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CARLOG  %s", model.MonthOf(model.DateOf(t)).LongLabel())))
	fmt.Println()

	for _, r := range pipeline.DueReminders(data.Reminders, t, odo) {
		msg := r.Service + " is due"
		if !r.DueDate.IsZero() {
			msg += " (" + cli.FormatDateSetting(r.DueDate, s) + ")"
		}
		fmt.Println("  " + cli.RenderWarning(msg))
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"This Month", "Value"},
		Rows: [][]string{
			{"Fuel", cli.FormatCurrency(month.Fuel, s)},
			{"Maintenance", cli.FormatCurrency(month.Maintenance, s)},
			{"Total", cli.FormatCurrency(month.Fuel+month.Maintenance, s)},
			{"---"},
			{"Efficiency", cli.FormatRollingEfficiency(pipeline.RollingEfficiency(data.FuelEntries, window), s)},
			{"Odometer", cli.FormatOdometer(odo, s)},
		},
	}))
	fmt.Println()

	months := pipeline.TrailingMonths(data.FuelEntries, data.MaintenanceEntries, t, pipeline.DefaultTrailingMonths)
	printMonthChart("Last 6 Months", months, s)
	fmt.Println()

	recent := pipeline.RecentExpenses(data.FuelEntries, data.MaintenanceEntries, appConfig.General.RecentLimit)
	rows := make([][]string, 0, len(recent))
	for _, e := range recent {
		desc := e.Service
		if e.Kind == model.ExpenseFuel {
			desc = cli.FuelDescription(e.Volume, e.PricePerVolume, s)
		}
		rows = append(rows, []string{
			cli.FormatDateSetting(e.Date, s),
			string(e.Kind),
			desc,
			cli.FormatCurrency(e.Amount, s),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:     "Recent Expenses",
		Headers:   []string{"Date", "Type", "Details", "Amount"},
		Rows:      rows,
		LeftAlign: []int{1, 2},
	}))
	return nil
}

// printMonthChart renders one stacked bar per month with the change from
// the month before.
func printMonthChart(title string, months []model.MonthBucket, s model.Settings) {
	var peak float64
	for _, m := range months {
		peak = max(peak, m.Total())
	}

	rows := make([][]string, 0, len(months))
	for i, m := range months {
		rows = append(rows, []string{
			m.Key.LongLabel(),
			cli.FormatCurrency(m.Total(), s),
			cli.FormatMonthDelta(months, i, s),
			cli.RenderStackedBar(m.Fuel, m.Maintenance, peak, 24),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:     title,
		Headers:   []string{"Month", "Spend", "vs Prev", cli.RenderLegend()},
		Rows:      rows,
		LeftAlign: []int{3},
	}))
}
