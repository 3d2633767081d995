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
	flagFuelDate     string
	flagFuelOdometer float64
	flagFuelVolume   float64
	flagFuelPrice    float64
	flagFuelLimit    int
)

var fuelCmd = &cobra.Command{
	Use:   "fuel",
	Short: "List and record fill-ups",
	RunE:  runFuelList,
}

var fuelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fill-ups with per-fill efficiency",
	RunE:  runFuelList,
}

var fuelAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a fill-up (values in your display units)",
	RunE:  runFuelAdd,
}

var fuelEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a fill-up; omitted flags keep their value",
	Args:  cobra.ExactArgs(1),
	RunE:  runFuelEdit,
}

var fuelDeleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a fill-up",
	Args:    cobra.ExactArgs(1),
	RunE:    runFuelDelete,
}

func init() {
	for _, c := range []*cobra.Command{fuelAddCmd, fuelEditCmd} {
		c.Flags().StringVar(&flagFuelDate, "date", "", "Fill-up date, YYYY-MM-DD (default today)")
		c.Flags().Float64Var(&flagFuelOdometer, "odometer", 0, "Odometer reading")
		c.Flags().Float64Var(&flagFuelVolume, "volume", 0, "Fuel volume")
		c.Flags().Float64Var(&flagFuelPrice, "price", 0, "Price per volume unit")
	}
	_ = fuelAddCmd.MarkFlagRequired("odometer")
	_ = fuelAddCmd.MarkFlagRequired("volume")
	_ = fuelAddCmd.MarkFlagRequired("price")

	fuelListCmd.Flags().IntVarP(&flagFuelLimit, "limit", "n", 0, "Show only the newest N entries")

	fuelCmd.AddCommand(fuelListCmd, fuelAddCmd, fuelEditCmd, fuelDeleteCmd)
	rootCmd.AddCommand(fuelCmd)
}

func runFuelList(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	data := result.Data
	s := data.Settings

	if len(data.FuelEntries) == 0 {
		fmt.Println("\n  No fill-ups recorded.")
		return nil
	}

	mpg := pipeline.EfficiencyByEntry(data.FuelEntries)
	entries := slices.Clone(data.FuelEntries)
	slices.SortStableFunc(entries, func(a, b model.FuelEntry) int { return b.Date.Compare(a.Date) })
	if flagFuelLimit > 0 && len(entries) > flagFuelLimit {
		entries = entries[:flagFuelLimit]
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		eff := cli.NoData
		if v, ok := mpg[e.ID]; ok {
			eff = cli.FormatEfficiency(v, s)
		}
		rows = append(rows, []string{
			cli.FormatDateSetting(e.Date, s),
			cli.FormatOdometer(e.Odometer, s),
			cli.FormatVolume(e.Volume, s),
			cli.FormatPricePerVolume(e.PricePerVolume, s),
			cli.FormatCurrency(e.Total, s),
			eff,
			strconv.FormatInt(e.ID, 10),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Fill-ups (%d)", len(data.FuelEntries)),
		Headers: []string{"Date", "Odometer", "Volume", "Price", "Total", "Efficiency", "ID"},
		Rows:    rows,
	}))
	return nil
}

func runFuelAdd(_ *cobra.Command, _ []string) error {
	date, err := parseDateFlag("date", flagFuelDate)
	if err != nil {
		return err
	}
	in := ledger.FuelInput{Date: date, Odometer: flagFuelOdometer, Volume: flagFuelVolume, Price: flagFuelPrice}

	return mutate(func(l *ledger.Ledger) error {
		e, err := l.AddFuel(in)
		if err != nil {
			return err
		}
		fmt.Printf("  Added fill-up %d: %s, %s\n", e.ID,
			cli.FuelDescription(e.Volume, e.PricePerVolume, l.Settings()),
			cli.FormatCurrency(e.Total, l.Settings()))
		return nil
	})
}

func runFuelEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return mutate(func(l *ledger.Ledger) error {
		cur, err := l.Fuel(id)
		if err != nil {
			return err
		}
		s := l.Settings()
		in := ledger.FuelInput{
			Date:     cur.Date,
			Odometer: units.DistanceToDisplay(cur.Odometer, s.DistanceUnit),
			Volume:   units.VolumeToDisplay(cur.Volume, s.VolumeUnit),
			Price:    units.PriceToDisplay(cur.PricePerVolume, s.VolumeUnit),
		}

		flags := cmd.Flags()
		if flags.Changed("date") {
			if in.Date, err = parseDateFlag("date", flagFuelDate); err != nil {
				return err
			}
		}
		if flags.Changed("odometer") {
			in.Odometer = flagFuelOdometer
		}
		if flags.Changed("volume") {
			in.Volume = flagFuelVolume
		}
		if flags.Changed("price") {
			in.Price = flagFuelPrice
		}

		e, err := l.UpdateFuel(id, in)
		if err != nil {
			return err
		}
		fmt.Printf("  Updated fill-up %d: %s, %s\n", e.ID,
			cli.FuelDescription(e.Volume, e.PricePerVolume, s),
			cli.FormatCurrency(e.Total, s))
		return nil
	})
}

func runFuelDelete(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return mutate(func(l *ledger.Ledger) error {
		if err := l.DeleteFuel(id); err != nil {
			return err
		}
		fmt.Printf("  Deleted fill-up %d\n", id)
		return nil
	})
}
