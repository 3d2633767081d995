// Package tui provides the interactive Bubble Tea dashboard for carlog.
package tui

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/theirongolddev/carlog/internal/config"
	"github.com/theirongolddev/carlog/internal/ledger"
	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/pipeline"
	"github.com/theirongolddev/carlog/internal/region"
	"github.com/theirongolddev/carlog/internal/tui/components"
	"github.com/theirongolddev/carlog/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Store is the persistence the dashboard reads from and writes to.
type Store interface {
	pipeline.Snapshotter
	Save(ctx context.Context, d model.Data) error
}

// Options configures a new App.
type Options struct {
	Store         Store
	Now           func() time.Time
	Timeframe     pipeline.Timeframe
	RollingWindow int
	RecentLimit   int
	// Lang is the user's language tag, used to preselect a region on first run.
	Lang   string
	Logger *zap.Logger
}

// DataLoadedMsg is sent when the snapshot has been read.
type DataLoadedMsg struct {
	Result   *pipeline.LoadResult
	Err      error
	LoadTime time.Duration
}

// SavedMsg reports the outcome of a background save. Superseded is set
// when a newer save had already committed and this one was skipped.
type SavedMsg struct {
	What       string
	Err        error
	Superseded bool
}

const (
	tabDashboard = iota
	tabFuel
	tabMaintenance
	tabReminders
	tabAnalytics
)

const (
	minTerminalWidth = 80
	maxContentWidth  = 160

	minContentHeight  = 5
	minHalfPageScroll = 1
	scrollOverhead    = 6
)

// listState is the cursor of one list tab.
type listState struct {
	cursor int
}

func (ls *listState) move(delta, n int) {
	ls.cursor = min(max(ls.cursor+delta, 0), max(n-1, 0))
}

// App is the root Bubble Tea model.
type App struct {
	opts  Options
	saver *saver

	// Data
	data      *model.Data
	ledger    *ledger.Ledger
	loaded    bool
	loadErr   error
	loadTime  time.Duration
	recovered bool

	// Pre-computed for the current data and timeframe
	now        time.Time
	odometer   float64
	fuel       []model.FuelEntry // newest first
	efficiency map[int64]float64
	maint      []model.MaintenanceEntry // newest first
	reminders  []pipeline.ReminderView
	due        []model.Reminder
	month      model.MonthTotals
	rolling    float64
	trailing   []model.MonthBucket
	recent     []model.Expense
	an         analytics

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	timeframe pipeline.Timeframe
	lists     [3]listState // fuel, maintenance, reminders
	scroll    int          // dashboard and analytics
	notice    string
	warn      bool

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	spinner spinner.Model
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timeframe == "" {
		opts.Timeframe = pipeline.Last6Months
	}
	if opts.Lang == "" {
		opts.Lang = os.Getenv("LANG")
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:      opts,
		saver:     newSaver(opts.Store),
		timeframe: opts.Timeframe,
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts.Store, a.opts.Logger),
		a.spinner.Tick,
	)
}

func (a *App) recompute() {
	d := a.data
	a.now = a.opts.Now()
	a.odometer = pipeline.MaxOdometer(d.FuelEntries, d.MaintenanceEntries)

	a.fuel = slices.Clone(d.FuelEntries)
	slices.SortStableFunc(a.fuel, func(x, y model.FuelEntry) int { return y.Date.Compare(x.Date) })
	a.efficiency = pipeline.EfficiencyByEntry(d.FuelEntries)

	a.maint = slices.Clone(d.MaintenanceEntries)
	slices.SortStableFunc(a.maint, func(x, y model.MaintenanceEntry) int { return y.Date.Compare(x.Date) })

	a.reminders = pipeline.SortReminders(d.Reminders, a.now, a.odometer)
	a.due = pipeline.DueReminders(d.Reminders, a.now, a.odometer)

	a.month = pipeline.CurrentMonthTotals(d.FuelEntries, d.MaintenanceEntries, a.now)
	a.rolling = pipeline.RollingEfficiency(d.FuelEntries, a.opts.RollingWindow)
	a.trailing = pipeline.TrailingMonths(d.FuelEntries, d.MaintenanceEntries, a.now, pipeline.DefaultTrailingMonths)
	a.recent = pipeline.RecentExpenses(d.FuelEntries, d.MaintenanceEntries, a.opts.RecentLimit)

	a.an = computeAnalytics(d, a.timeframe, a.now)

	// Clamp cursors to the new list bounds
	for i, n := range []int{len(a.fuel), len(a.maint), len(a.reminders)} {
		a.lists[i].move(0, n)
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.ready() {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.switchTab(tab)
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		return a.updateKeys(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			a.loadErr = msg.Err
			return a, nil
		}
		d := msg.Result.Data
		a.data = &d
		a.ledger = ledger.New(a.data, time.Now)
		a.recovered = msg.Result.Recovered
		if a.recovered {
			a.setNotice("stored data was unreadable; started empty", true)
		}
		a.recompute()

		if a.data.Settings.RegionCode == "" {
			cmd := a.startSetup()
			return a, cmd
		}
		return a, nil

	case SavedMsg:
		if msg.Superseded {
			return a, nil
		}
		if msg.Err != nil {
			a.opts.Logger.Warn("saving snapshot", zap.Error(msg.Err))
			a.setNotice("save failed: "+msg.Err.Error(), true)
		} else {
			a.setNotice(msg.What, false)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) ready() bool {
	return a.loaded && a.loadErr == nil && !a.showHelp && !(a.needSetup && a.setupForm != nil)
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}
	if key == "q" {
		return a, tea.Quit
	}
	if a.loadErr != nil {
		return a, nil
	}

	switch key {
	case "left", "shift+tab":
		a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
		return a, nil
	case "right", "tab":
		a.switchTab((a.activeTab + 1) % len(components.Tabs))
		return a, nil
	case "j", "down":
		a.moveCursor(1)
		return a, nil
	case "k", "up":
		a.moveCursor(-1)
		return a, nil
	case "g", "home":
		a.moveCursor(-1 << 30)
		return a, nil
	case "G", "end":
		a.moveCursor(1 << 30)
		return a, nil
	case "ctrl+d", "pgdown":
		a.moveCursor(a.halfPage())
		return a, nil
	case "ctrl+u", "pgup":
		a.moveCursor(-a.halfPage())
		return a, nil
	case "ctrl+r":
		a.loaded = false
		return a, tea.Batch(loadDataCmd(a.opts.Store, a.opts.Logger), a.spinner.Tick)
	case "S":
		cmd := a.startSetup()
		return a, cmd
	case "t":
		if a.activeTab == tabAnalytics {
			a.timeframe = a.timeframe.Next()
			a.an = computeAnalytics(a.data, a.timeframe, a.now)
			a.scroll = 0
		}
		return a, nil
	case " ", "space", "enter":
		if a.activeTab == tabReminders {
			return a.toggleSelectedReminder()
		}
		return a, nil
	}

	if len(key) == 1 {
		if tab := components.TabIdxByKey(rune(key[0])); tab >= 0 {
			a.switchTab(tab)
		}
	}
	return a, nil
}

func (a *App) switchTab(tab int) {
	if tab != a.activeTab {
		a.scroll = 0
	}
	a.activeTab = tab
}

func (a App) halfPage() int {
	return max((a.height-scrollOverhead)/2, minHalfPageScroll)
}

// moveCursor moves the list cursor on list tabs and scrolls the others.
func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabFuel:
		a.lists[0].move(delta, len(a.fuel))
	case tabMaintenance:
		a.lists[1].move(delta, len(a.maint))
	case tabReminders:
		a.lists[2].move(delta, len(a.reminders))
	default:
		a.scroll = min(max(a.scroll+delta, 0), 1<<20)
	}
}

func (a App) toggleSelectedReminder() (tea.Model, tea.Cmd) {
	if len(a.reminders) == 0 {
		return a, nil
	}
	sel := a.reminders[a.lists[2].cursor]
	r, err := a.ledger.ToggleReminder(sel.ID)
	if err != nil {
		a.setNotice(err.Error(), true)
		return a, nil
	}

	// Keep the cursor on the same reminder after re-sorting.
	a.recompute()
	if i := slices.IndexFunc(a.reminders, func(v pipeline.ReminderView) bool { return v.ID == r.ID }); i >= 0 {
		a.lists[2].cursor = i
	}

	what := "reopened " + r.Service
	if r.Completed {
		what = "completed " + r.Service
	}
	return a, a.saver.cmd(*a.data, what)
}

func (a *App) setNotice(msg string, warn bool) {
	a.notice = msg
	a.warn = warn
}

func (a *App) startSetup() tea.Cmd {
	code := a.data.Settings.RegionCode
	if code == "" {
		code = region.Detect(a.opts.Lang)
	}
	a.setupVals = SetupValues{Region: code, Theme: theme.Active.Name}
	a.setupForm = NewSetupForm(&a.setupVals)
	if a.width > 0 {
		a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
	}
	a.needSetup = true
	return a.setupForm.Init()
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.needSetup = false
		a.setupForm = nil
		cmd := a.finishSetup()
		return a, cmd
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// finishSetup applies the form's answers and persists them.
func (a *App) finishSetup() tea.Cmd {
	s, err := ApplySetup(a.ledger, a.setupVals)
	if err != nil {
		a.setNotice(err.Error(), true)
	}

	if a.setupVals.Theme != "" && a.setupVals.Theme != theme.Active.Name {
		theme.SetActive(a.setupVals.Theme)
		a.spinner.Style = a.spinner.Style.Foreground(theme.Active.Accent)
		if err := saveTheme(a.setupVals.Theme); err != nil {
			a.opts.Logger.Warn("saving theme", zap.Error(err))
		}
	}

	a.recompute()
	return a.saver.cmd(*a.data, "settings saved for "+s.RegionCode)
}

func saveTheme(name string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Appearance.Theme = name
	return config.Save(cfg)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  carlog needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ carlog"))
	b.WriteString(subtitleStyle.Render(" · Vehicle Expenses"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Loading your log..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"d f m r a", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move in lists, scroll pages"},
			{"g G", "Top / Bottom"},
			{"^d ^u", "Half-page"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"space", "Complete / reopen reminder"},
			{"t", "Cycle analytics timeframe"},
			{"S", "Region and units setup"},
			{"^r", "Reload data"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.name))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderFilterRow(w)
	statusBar := components.RenderStatusBar(w, a.hints(), a.notice, a.warn)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.loadErr != nil:
		content = components.ContentCard("Error",
			lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(a.loadErr.Error()), cw)
	case a.activeTab == tabDashboard:
		content = scrollLines(a.renderDashboardTab(cw), a.scroll)
	case a.activeTab == tabFuel:
		content = a.renderFuelTab(cw, contentH)
	case a.activeTab == tabMaintenance:
		content = a.renderMaintenanceTab(cw, contentH)
	case a.activeTab == tabReminders:
		content = a.renderRemindersTab(cw, contentH)
	case a.activeTab == tabAnalytics:
		content = scrollLines(a.renderAnalyticsTab(cw), a.scroll)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderFilterRow(w int) string {
	t := theme.Active
	pill := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	var parts []string
	if a.data != nil {
		s := a.data.Settings
		parts = append(parts,
			accent.Render(strings.ToUpper(s.RegionCode)),
			pill.Render(fmt.Sprintf("%s/%s · %s", s.DistanceUnit.Abbrev(), s.VolumeUnit.Abbrev(), s.Currency)),
		)
	}
	if a.activeTab == tabAnalytics {
		parts = append(parts, accent.Render(a.timeframe.Label()))
	}

	return lipgloss.NewStyle().Background(t.Surface).Width(w).
		Render(pill.Render(" ") + strings.Join(parts, pill.Render(" │ ")))
}

func (a App) hints() string {
	switch a.activeTab {
	case tabFuel, tabMaintenance:
		return "[j/k]move  [?]help  [q]uit"
	case tabReminders:
		return "[j/k]move  [space]done  [?]help  [q]uit"
	case tabAnalytics:
		return "[t]imeframe  [j/k]scroll  [?]help  [q]uit"
	}
	return "[j/k]scroll  [?]help  [q]uit"
}

// ─── Helpers ────────────────────────────────────────────────────

// loadDataCmd reads the snapshot in the background.
func loadDataCmd(store Store, logger *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		res, err := pipeline.Load(context.Background(), store, logger)
		return DataLoadedMsg{Result: res, Err: err, LoadTime: time.Since(start)}
	}
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

func scrollLines(s string, offset int) string {
	if offset <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	offset = min(offset, max(len(lines)-1, 0))
	return strings.Join(lines[offset:], "\n")
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
