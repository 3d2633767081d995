package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/carlog/internal/config"
	"github.com/theirongolddev/carlog/internal/ledger"
	"github.com/theirongolddev/carlog/internal/logger"
	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/pipeline"
	"github.com/theirongolddev/carlog/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagDB      string
	flagAsOf    string
	flagQuiet   bool
	flagVerbose bool
)

var (
	appConfig = config.DefaultConfig()
	appLog    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:               "carlog",
	Short:             "Vehicle expense tracker",
	Long:              "Track fill-ups, maintenance and service reminders, and see what your car really costs.",
	PersistentPreRunE: setup,
	RunE:              runDashboard,
	SilenceUsage:      true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	defer func() { _ = appLog.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (default $XDG_DATA_HOME/carlog/carlog.db)")
	rootCmd.PersistentFlags().StringVar(&flagAsOf, "as-of", "", "Treat this date (YYYY-MM-DD) as today")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug diagnostics to stderr")
}

// setup loads the app config and builds the logger before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	l, err := logger.New(flagVerbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	appLog = l

	cfg, err := config.Load()
	if err != nil {
		// A broken config file should not lock the user out of their data.
		appLog.Warn("using default config", zap.Error(err))
	}
	appConfig = cfg

	if flagAsOf != "" {
		if _, err := model.ParseDate(flagAsOf); err != nil {
			return fmt.Errorf("--as-of: %w", err)
		}
	}
	return nil
}

// now returns the wall clock, or midday of --as-of when set.
func now() time.Time {
	if flagAsOf == "" {
		return time.Now()
	}
	d, err := model.ParseDate(flagAsOf)
	if err != nil {
		return time.Now()
	}
	return d.In(time.Local).Add(12 * time.Hour)
}

func dbPath() string {
	switch {
	case flagDB != "":
		return flagDB
	case appConfig.General.DBPath != "":
		return appConfig.General.DBPath
	}
	return pipeline.DataPath()
}

func openStore() (*store.Store, error) {
	path := dbPath()
	appLog.Debug("opening data store", zap.String("path", path))
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return s, nil
}

// loadData is the shared read path used by all reporting commands.
func loadData() (*pipeline.LoadResult, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.Close() }()

	result, err := pipeline.Load(context.Background(), s, appLog.Named("pipeline"))
	if err != nil {
		return nil, err
	}
	if result.Recovered && !flagQuiet {
		fmt.Fprintln(os.Stderr, "  Stored data was unreadable; starting from an empty log")
	}
	return result, nil
}

// mutate loads the ledger, applies fn and saves the result. Nothing is
// written when fn fails.
func mutate(fn func(*ledger.Ledger) error) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	result, err := pipeline.Load(ctx, s, appLog.Named("pipeline"))
	if err != nil {
		return err
	}

	data := result.Data
	l := ledger.New(&data, time.Now)
	if err := fn(l); err != nil {
		return err
	}
	if err := s.Save(ctx, *l.Data()); err != nil {
		return fmt.Errorf("saving: %w", err)
	}
	appLog.Debug("saved snapshot",
		zap.Int("fuel", len(data.FuelEntries)),
		zap.Int("maintenance", len(data.MaintenanceEntries)),
		zap.Int("reminders", len(data.Reminders)),
	)
	return nil
}
