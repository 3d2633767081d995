package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/theirongolddev/carlog/internal/ledger"
	"github.com/theirongolddev/carlog/internal/pipeline"
	"github.com/theirongolddev/carlog/internal/source"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagForce bool

var errHasData = errors.New("the log already has entries; pass --force to replace them")

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write the whole log to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the log with a JSON export (carlog or browser app)",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the log with six months of demo fill-ups and services",
	RunE:  runSeed,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every entry and reminder, keeping settings",
	RunE:  runReset,
}

func init() {
	importCmd.Flags().BoolVar(&flagForce, "force", false, "Replace existing entries")
	seedCmd.Flags().BoolVar(&flagForce, "force", false, "Replace existing entries")
	resetCmd.Flags().BoolVar(&flagForce, "force", false, "Confirm deleting everything")
	rootCmd.AddCommand(exportCmd, importCmd, seedCmd, resetCmd)
}

func runExport(_ *cobra.Command, args []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	if err := source.WriteFile(args[0], result.Data); err != nil {
		return err
	}
	d := result.Data
	fmt.Printf("  Exported %d fill-ups, %d services and %d reminders to %s\n",
		len(d.FuelEntries), len(d.MaintenanceEntries), len(d.Reminders), args[0])
	return nil
}

func runImport(_ *cobra.Command, args []string) error {
	imported, err := source.ReadFile(args[0])
	if err != nil {
		return err
	}
	for _, w := range imported.Warnings {
		appLog.Warn("skipped record", zap.String("file", args[0]), zap.String("reason", w))
		if !flagQuiet {
			fmt.Println("  skipped " + w)
		}
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	current, err := pipeline.Load(ctx, s, appLog.Named("pipeline"))
	if err != nil {
		return err
	}
	if !current.Data.IsEmpty() && !flagForce {
		return errHasData
	}

	if err := s.Save(ctx, imported.Data); err != nil {
		return fmt.Errorf("saving: %w", err)
	}

	d := imported.Data
	fmt.Printf("  Imported %d fill-ups, %d services and %d reminders\n",
		len(d.FuelEntries), len(d.MaintenanceEntries), len(d.Reminders))
	if imported.Skipped > 0 {
		fmt.Printf("  Skipped %d invalid records\n", imported.Skipped)
	}
	if imported.Assigned > 0 {
		fmt.Printf("  Assigned IDs to %d records\n", imported.Assigned)
	}
	return nil
}

func runSeed(_ *cobra.Command, _ []string) error {
	t := now()
	rng := rand.New(rand.NewPCG(uint64(t.UnixNano()), uint64(time.Now().UnixNano())))

	var fuelN, maintN int
	if err := mutate(func(l *ledger.Ledger) error {
		d := l.Data()
		if (len(d.FuelEntries) > 0 || len(d.MaintenanceEntries) > 0) && !flagForce {
			return errHasData
		}
		fuel, maint := pipeline.SeedData(t, rng)
		l.Replace(fuel, maint)
		fuelN, maintN = len(fuel), len(maint)
		return nil
	}); err != nil {
		return err
	}

	fmt.Printf("  Seeded %d fill-ups and %d services\n", fuelN, maintN)
	return nil
}

func runReset(_ *cobra.Command, _ []string) error {
	if !flagForce {
		return errors.New("reset deletes every entry and reminder; pass --force to confirm")
	}
	if err := mutate(func(l *ledger.Ledger) error {
		l.Reset()
		return nil
	}); err != nil {
		return err
	}
	fmt.Println("  Log cleared; settings kept.")
	return nil
}
