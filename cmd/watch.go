package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/carlog/internal/cli"
	"github.com/theirongolddev/carlog/internal/daemon"
	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/pipeline"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchState is written next to the pid file so `watch status` can report
// on a running watcher.
type watchState struct {
	PID    int            `json:"pid"`
	DB     string         `json:"db"`
	Status daemon.Status  `json:"status"`
	Recent []daemon.Event `json:"recent,omitempty"`
}

const (
	stateRefresh = 15 * time.Second
	recentEvents = 5
)

var (
	flagWatchSchedule string
	flagWatchDetach   bool
	flagWatchPIDFile  string
	flagWatchLogFile  string
	flagWatchChild    bool
	flagWatchOnce     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch reminders in the background and report when they come due",
	RunE:  runWatch,
}

var watchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show watcher process and last check",
	RunE:  runWatchStatus,
}

var watchStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running watcher",
	RunE:  runWatchStop,
}

func init() {
	defaultPID := filepath.Join(pipeline.DataDir(), "carlogd.pid")
	defaultLog := filepath.Join(pipeline.DataDir(), "carlogd.log")

	watchCmd.PersistentFlags().StringVar(&flagWatchPIDFile, "pid-file", defaultPID, "PID file path")
	watchCmd.PersistentFlags().StringVar(&flagWatchLogFile, "log-file", defaultLog, "Log file path for detached mode")

	watchCmd.Flags().StringVar(&flagWatchSchedule, "schedule", "", "Cron schedule for checks (default from config)")
	watchCmd.Flags().BoolVar(&flagWatchDetach, "detach", false, "Run the watcher as a background process")
	watchCmd.Flags().BoolVar(&flagWatchOnce, "once", false, "Check once, print events and exit")
	watchCmd.Flags().BoolVar(&flagWatchChild, "child", false, "Internal: mark detached child process")
	_ = watchCmd.Flags().MarkHidden("child")

	watchCmd.AddCommand(watchStatusCmd)
	watchCmd.AddCommand(watchStopCmd)
	rootCmd.AddCommand(watchCmd)
}

func watchConfig() daemon.Config {
	schedule := flagWatchSchedule
	if schedule == "" {
		schedule = appConfig.Reminders.Schedule
	}
	return daemon.Config{
		Schedule:     schedule,
		EventsBuffer: appConfig.Reminders.EventsBuffer,
		Now:          now,
	}
}

// loadForWatch opens the store per check so the watcher never holds the
// database open between ticks.
func loadForWatch(ctx context.Context) (model.Data, error) {
	s, err := openStore()
	if err != nil {
		return model.Data{}, err
	}
	defer func() { _ = s.Close() }()

	result, err := pipeline.Load(ctx, s, appLog.Named("pipeline"))
	if err != nil {
		return model.Data{}, err
	}
	return result.Data, nil
}

func printEvent(ev daemon.Event) {
	fmt.Printf("  %s  %-9s %s\n", ev.Timestamp.Local().Format("2006-01-02 15:04"), ev.Status, ev.Service)
}

func runWatch(_ *cobra.Command, _ []string) error {
	if flagWatchDetach && flagWatchChild {
		return errors.New("invalid watcher launch mode")
	}
	if flagWatchOnce {
		return runWatchOnce()
	}
	if flagWatchDetach {
		return startWatchDetached()
	}
	return runWatchForeground()
}

func runWatchOnce() error {
	svc := daemon.New(watchConfig(), loadForWatch, nil, appLog.Named("watch"))
	events := svc.Check(context.Background())
	if st := svc.Status(); st.LastError != "" {
		return errors.New(st.LastError)
	}
	if len(events) == 0 {
		fmt.Println("  No reminders due or upcoming.")
		return nil
	}
	for _, ev := range events {
		printEvent(ev)
	}
	return nil
}

func startWatchDetached() error {
	if err := ensureWatcherNotRunning(flagWatchPIDFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagWatchPIDFile), 0o750); err != nil {
		return fmt.Errorf("create watcher directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagWatchLogFile), 0o750); err != nil {
		return fmt.Errorf("create watcher log directory: %w", err)
	}

	//nolint:gosec // log path is configured by the local user
	logf, err := os.OpenFile(flagWatchLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open watcher log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached watcher: %w", err)
	}

	fmt.Printf("  Started watcher (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagWatchPIDFile)
	fmt.Printf("  Log: %s\n", flagWatchLogFile)
	return nil
}

func runWatchForeground() error {
	if err := ensureWatcherNotRunning(flagWatchPIDFile); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(flagWatchPIDFile), 0o750); err != nil {
		return fmt.Errorf("create watcher directory: %w", err)
	}

	pid := os.Getpid()
	if err := writePID(flagWatchPIDFile, pid); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagWatchPIDFile) }()
	defer func() { _ = os.Remove(statePath(flagWatchPIDFile)) }()

	cfg := watchConfig()
	svc := daemon.New(cfg, loadForWatch, printEvent, appLog.Named("watch"))

	fmt.Printf("  carlog watching %s\n", dbPath())
	fmt.Printf("  Checking reminders %s\n", cfg.Schedule)
	fmt.Printf("  Stop with: carlog watch stop --pid-file %s\n", flagWatchPIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		publishState(ctx, statePath(flagWatchPIDFile), stateRefresh, func() watchState {
			events := svc.Events()
			if len(events) > recentEvents {
				events = events[len(events)-recentEvents:]
			}
			return watchState{PID: pid, DB: dbPath(), Status: svc.Status(), Recent: events}
		})
	}()
	// Runs before the file removals above.
	defer func() {
		cancel()
		<-done
	}()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// publishState writes snapshot() to path every interval until ctx is done.
func publishState(ctx context.Context, path string, interval time.Duration, snapshot func() watchState) {
	write := func() {
		if err := writeState(path, snapshot()); err != nil {
			appLog.Warn("writing watcher state", zap.String("path", path), zap.Error(err))
		}
	}

	write()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			write()
		}
	}
}

func runWatchStatus(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagWatchPIDFile)
	if err != nil {
		fmt.Printf("  Watcher: not running (pid file not found)\n")
		return nil
	}
	if !processAlive(pid) {
		fmt.Printf("  Watcher: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	fmt.Printf("  Watcher PID: %d\n", pid)

	st, err := readState(statePath(flagWatchPIDFile))
	if err != nil {
		fmt.Printf("  State: unavailable (%v)\n", err)
		return nil
	}

	fmt.Printf("  Database: %s\n", st.DB)
	fmt.Printf("  Schedule: %s\n", st.Status.Schedule)
	fmt.Printf("  Started: %s\n", humanize.Time(st.Status.StartedAt))
	if st.Status.LastCheckAt.IsZero() {
		fmt.Printf("  Last check: pending\n")
	} else {
		fmt.Printf("  Last check: %s\n", humanize.Time(st.Status.LastCheckAt))
	}
	fmt.Printf("  Checks: %s\n", cli.FormatNumber(st.Status.CheckCount))
	fmt.Printf("  Due: %d  Upcoming: %d\n", st.Status.Due, st.Status.Upcoming)
	if st.Status.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.Status.LastError)
	}
	if len(st.Recent) > 0 {
		fmt.Println()
		fmt.Println("  Recent events:")
		for _, ev := range st.Recent {
			printEvent(ev)
		}
	}
	return nil
}

func runWatchStop(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagWatchPIDFile)
	if err != nil {
		return errors.New("watcher is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find watcher process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal watcher process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(flagWatchPIDFile)
			_ = os.Remove(statePath(flagWatchPIDFile))
			fmt.Printf("  Stopped watcher (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("watcher (pid %d) did not exit in time", pid)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func ensureWatcherNotRunning(pidFile string) error {
	pid, err := readPID(pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("watcher already running (pid %d)", pid)
	}
	_ = os.Remove(pidFile)
	_ = os.Remove(statePath(pidFile))
	return nil
}

func writePID(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func readPID(path string) (int, error) {
	//nolint:gosec // pid path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func statePath(pidFile string) string {
	return pidFile + ".json"
}

// writeState replaces the state file atomically so readers never see a
// partial write.
func writeState(path string, st watchState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func readState(path string) (watchState, error) {
	var st watchState
	//nolint:gosec // state path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}
