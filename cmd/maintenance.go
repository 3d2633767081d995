package cmd

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/theirongolddev/carlog/internal/cli"
	"github.com/theirongolddev/carlog/internal/ledger"
	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/pipeline"
	"github.com/theirongolddev/carlog/internal/units"

	"github.com/spf13/cobra"
)

var (
	flagMaintDate     string
	flagMaintOdometer float64
	flagMaintService  string
	flagMaintCost     float64
	flagMaintNotes    string
	flagMaintLimit    int
)

var maintenanceCmd = &cobra.Command{
	Use:     "maintenance",
	Aliases: []string{"maint"},
	Short:   "List and record service history",
	RunE:    runMaintenanceList,
}

var maintenanceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List service history",
	RunE:  runMaintenanceList,
}

var maintenanceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a service",
	RunE:  runMaintenanceAdd,
}

var maintenanceEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a service record; omitted flags keep their value",
	Args:  cobra.ExactArgs(1),
	RunE:  runMaintenanceEdit,
}

var maintenanceDeleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a service record",
	Args:    cobra.ExactArgs(1),
	RunE:    runMaintenanceDelete,
}

func init() {
	for _, c := range []*cobra.Command{maintenanceAddCmd, maintenanceEditCmd} {
		c.Flags().StringVar(&flagMaintDate, "date", "", "Service date, YYYY-MM-DD (default today)")
		c.Flags().Float64Var(&flagMaintOdometer, "odometer", 0, "Odometer reading")
		c.Flags().StringVarP(&flagMaintService, "service", "s", "", "Service performed, e.g. \"Oil Change\"")
		c.Flags().Float64Var(&flagMaintCost, "cost", 0, "Total cost")
		c.Flags().StringVar(&flagMaintNotes, "notes", "", "Free-form notes")
	}
	_ = maintenanceAddCmd.MarkFlagRequired("service")

	maintenanceListCmd.Flags().IntVarP(&flagMaintLimit, "limit", "n", 0, "Show only the newest N entries")

	maintenanceCmd.AddCommand(maintenanceListCmd, maintenanceAddCmd, maintenanceEditCmd, maintenanceDeleteCmd)
	rootCmd.AddCommand(maintenanceCmd)
}

func runMaintenanceList(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	data := result.Data
	s := data.Settings

	if len(data.MaintenanceEntries) == 0 {
		fmt.Println("\n  No services recorded.")
		return nil
	}

	entries := slices.Clone(data.MaintenanceEntries)
	slices.SortStableFunc(entries, func(a, b model.MaintenanceEntry) int { return b.Date.Compare(a.Date) })
	if flagMaintLimit > 0 && len(entries) > flagMaintLimit {
		entries = entries[:flagMaintLimit]
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			cli.FormatDateSetting(e.Date, s),
			e.Service,
			pipeline.Categorize(e.Service),
			cli.FormatOdometer(e.Odometer, s),
			cli.FormatCurrency(e.Cost, s),
			e.Notes,
			strconv.FormatInt(e.ID, 10),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:     fmt.Sprintf("Services (%d)", len(data.MaintenanceEntries)),
		Headers:   []string{"Date", "Service", "Category", "Odometer", "Cost", "Notes", "ID"},
		Rows:      rows,
		LeftAlign: []int{1, 2, 5},
	}))
	return nil
}

func runMaintenanceAdd(_ *cobra.Command, _ []string) error {
	date, err := parseDateFlag("date", flagMaintDate)
	if err != nil {
		return err
	}
	in := ledger.MaintenanceInput{
		Date:     date,
		Odometer: flagMaintOdometer,
		Service:  flagMaintService,
		Cost:     flagMaintCost,
		Notes:    flagMaintNotes,
	}

	return mutate(func(l *ledger.Ledger) error {
		e, err := l.AddMaintenance(in)
		if err != nil {
			return err
		}
		fmt.Printf("  Added service %d: %s, %s\n", e.ID, e.Service, cli.FormatCurrency(e.Cost, l.Settings()))
		return nil
	})
}

func runMaintenanceEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return mutate(func(l *ledger.Ledger) error {
		cur, err := l.Maintenance(id)
		if err != nil {
			return err
		}
		s := l.Settings()
		in := ledger.MaintenanceInput{
			Date:     cur.Date,
			Odometer: units.DistanceToDisplay(cur.Odometer, s.DistanceUnit),
			Service:  cur.Service,
			Cost:     cur.Cost,
			Notes:    cur.Notes,
		}

		flags := cmd.Flags()
		if flags.Changed("date") {
			if in.Date, err = parseDateFlag("date", flagMaintDate); err != nil {
				return err
			}
		}
		if flags.Changed("odometer") {
			in.Odometer = flagMaintOdometer
		}
		if flags.Changed("service") {
			in.Service = flagMaintService
		}
		if flags.Changed("cost") {
			in.Cost = flagMaintCost
		}
		if flags.Changed("notes") {
			in.Notes = flagMaintNotes
		}

		e, err := l.UpdateMaintenance(id, in)
		if err != nil {
			return err
		}
		fmt.Printf("  Updated service %d: %s, %s\n", e.ID, e.Service, cli.FormatCurrency(e.Cost, s))
		return nil
	})
}

func runMaintenanceDelete(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return mutate(func(l *ledger.Ledger) error {
		if err := l.DeleteMaintenance(id); err != nil {
			return err
		}
		fmt.Printf("  Deleted service %d\n", id)
		return nil
	})
}
