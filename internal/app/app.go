// Package app is the root Bubble Tea model. It puts the pull-to-refresh
// control over a system snapshot view and connects loading episodes to the
// poller, the refresh history and the metrics recorder.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/Elpulgo/pullrefresh/internal/config"
	"github.com/Elpulgo/pullrefresh/internal/history"
	"github.com/Elpulgo/pullrefresh/internal/logging"
	"github.com/Elpulgo/pullrefresh/internal/metrics"
	"github.com/Elpulgo/pullrefresh/internal/polling"
	"github.com/Elpulgo/pullrefresh/internal/refresh"
	"github.com/Elpulgo/pullrefresh/internal/sysinfo"
	"github.com/Elpulgo/pullrefresh/internal/ui/components"
	"github.com/Elpulgo/pullrefresh/internal/ui/pullrefresh"
	"github.com/Elpulgo/pullrefresh/internal/ui/styles"
	"github.com/Elpulgo/pullrefresh/internal/ui/sysview"
)

const (
	// historyShown is how many recent refreshes the view lists.
	historyShown = 10

	storeTimeout = 2 * time.Second
)

// Options wires the model's collaborators. Nil fields get defaults.
type Options struct {
	Config   *config.Config
	Source   sysinfo.Source
	Store    history.Store
	Recorder *metrics.Recorder
	Logger   *slog.Logger
	Session  string
}

// episode is the loading episode in flight.
type episode struct {
	number  uint64
	trigger metrics.Trigger
	started time.Time
	active  bool
}

// Model is the root application model for the TUI
type Model struct {
	cfg     *config.Config
	logger  *slog.Logger
	styles  *styles.Styles
	keys    KeyMap
	session string

	refresh  *pullrefresh.Model
	poller   *polling.Poller
	errors   *polling.ErrorHandler
	store    history.Store
	recorder *metrics.Recorder

	statusBar   *components.StatusBar
	loading     *components.LoadingIndicator
	help        *components.HelpModal
	errorModal  *components.ErrorModal
	themePicker components.ThemePicker

	current  episode
	pending  metrics.Trigger
	snapshot *sysinfo.Snapshot
	entries  []history.Entry

	width  int
	height int
	now    func() time.Time
}

// NewModel creates the root model. It fails when the refresh settings in
// the configuration are invalid.
func NewModel(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	source := opts.Source
	if source == nil {
		source = sysinfo.NewCollector(
			sysinfo.WithProcessCount(cfg.ProcessCount),
			sysinfo.WithDiskPath(cfg.DiskPath),
		)
	}
	store := opts.Store
	if store == nil {
		store = history.NewMemoryStore(cfg.History.Limit)
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	session := opts.Session
	if session == "" {
		session = uuid.New().String()
	}

	theme := styles.GetThemeByNameWithFallback(cfg.GetTheme())
	s := styles.NewStyles(theme)

	control, err := pullrefresh.New(cfg.PullRefresh(theme), s, logger)
	if err != nil {
		return Model{}, err
	}
	control.Observe(recorder)

	keys := DefaultKeyMap()
	help := components.NewHelpModal(s,
		components.HelpSection{Title: "Refresh", Bindings: control.Keys().Bindings()},
		components.HelpSection{Title: "General", Bindings: keys.Bindings()},
	)

	statusBar := components.NewStatusBar(s)
	statusBar.SetMode(cfg.Mode())
	statusBar.SetHelpText("? help")

	m := Model{
		cfg:         cfg,
		logger:      logger,
		styles:      s,
		keys:        keys,
		session:     session,
		refresh:     control,
		poller:      polling.NewPoller(source, cfg.AutoRefreshInterval),
		errors:      polling.NewErrorHandler(),
		store:       store,
		recorder:    recorder,
		statusBar:   statusBar,
		loading:     components.NewLoadingIndicator(s),
		help:        help,
		errorModal:  components.NewErrorModal(s),
		themePicker: components.NewThemePicker(s, styles.ListAvailableThemes(), theme.Name),
		now:         time.Now,
	}
	m.render()
	return m, nil
}

// Init starts the first load and the auto-refresh timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refresh.Init(),
		func() tea.Msg { return initialLoadMsg{} },
		m.poller.StartPolling(),
	)
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	case tea.MouseMsg:
		if m.modalOpen() {
			return m, nil
		}

	case initialLoadMsg:
		return m, m.trigger(metrics.TriggerAuto)

	case polling.TickMsg:
		if m.poller.Interval() == 0 {
			return m, nil
		}
		return m, tea.Batch(m.trigger(metrics.TriggerAuto), m.poller.StartPolling())

	case pullrefresh.LoadStartedMsg:
		return m, m.loadStarted(msg)

	case pullrefresh.LoadCancelledMsg:
		return m, m.loadCancelled(msg)

	case pullrefresh.StateChangedMsg:
		m.statusBar.SetState(msg.To)
		return m, nil

	case polling.SnapshotUpdated:
		return m, m.snapshotUpdated(msg)

	case historyLoadedMsg:
		if msg.Err != nil {
			m.logger.Warn("refresh history unavailable", "err", msg.Err)
			return m, nil
		}
		m.entries = msg.Entries
		m.render()
		return m, nil

	case components.CriticalErrorMsg:
		m.errorModal.Show(msg.Info)
		return m, nil

	case components.ThemeSelectedMsg:
		m.applyTheme(msg.ThemeName)
		if err := m.cfg.UpdateTheme(msg.ThemeName); err != nil {
			m.logger.Warn("failed to save theme", "theme", msg.ThemeName, "err", err)
		}
		return m, nil

	case ConfigReloadedMsg:
		return m, m.configReloaded(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loading, cmd = m.loading.Update(msg)
		return m, cmd
	}

	// Mouse input and the control's own timers.
	return m, m.updateRefresh(msg, metrics.TriggerGesture)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		return tea.Quit
	}

	// An open modal takes all keys.
	switch {
	case m.errorModal.IsVisible():
		m.errorModal.Update(msg)
		return nil
	case m.help.IsVisible():
		m.help.Update(msg)
		return nil
	case m.themePicker.IsVisible():
		var cmd tea.Cmd
		m.themePicker, cmd = m.themePicker.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.Toggle()
		return nil
	case key.Matches(msg, m.keys.Theme):
		m.themePicker.SetCurrent(m.styles.Theme.Name)
		m.themePicker.Show()
		return nil
	case key.Matches(msg, m.refresh.Keys().Refresh):
		return m.updateRefresh(msg, metrics.TriggerKey)
	}
	return m.updateRefresh(msg, metrics.TriggerGesture)
}

// updateRefresh forwards msg to the control. A release it causes is
// attributed to trigger.
func (m *Model) updateRefresh(msg tea.Msg, trigger metrics.Trigger) tea.Cmd {
	state, ep := m.refresh.State(), m.refresh.Episode()
	_, cmd := m.refresh.Update(msg)
	m.track(state, ep, trigger)
	return cmd
}

// trigger starts an episode programmatically. Nothing happens when the
// control is busy.
func (m *Model) trigger(trigger metrics.Trigger) tea.Cmd {
	state, ep := m.refresh.State(), m.refresh.Episode()
	cmd := m.refresh.Trigger()
	m.track(state, ep, trigger)
	return cmd
}

// track remembers what released the control, since the episode itself only
// starts once the release animation completes.
func (m *Model) track(state refresh.State, ep uint64, trigger metrics.Trigger) {
	if now := m.refresh.State(); now == refresh.ReleasedAboveThreshold && state != now {
		m.pending = trigger
	}
	if n := m.refresh.Episode(); n != ep {
		if m.pending == "" {
			m.pending = metrics.TriggerGesture
		}
		m.current = episode{number: n, trigger: m.pending, started: m.now(), active: true}
		m.pending = ""
	}
}

func (m *Model) loadStarted(msg pullrefresh.LoadStartedMsg) tea.Cmd {
	if msg.Episode != m.current.number {
		m.current = episode{number: msg.Episode, trigger: metrics.TriggerGesture, started: m.now(), active: true}
	}

	m.logger.Debug("collecting snapshot", "episode", msg.Episode, "trigger", m.current.trigger)
	m.recorder.LoadStarted(msg.Episode, m.current.trigger)
	m.recorder.SourceChanged(polling.StateLoading.String())
	m.statusBar.SetSource(polling.StateLoading)

	return tea.Batch(m.poller.Fetch(msg.Episode), m.loading.SetVisible(true))
}

func (m *Model) loadCancelled(msg pullrefresh.LoadCancelledMsg) tea.Cmd {
	m.poller.Cancel(msg.Episode)
	m.recorder.LoadCancelled()
	m.loading.SetVisible(false)
	m.statusBar.SetSource(m.errors.State())

	if !m.current.active || msg.Episode != m.current.number {
		return nil
	}
	m.current.active = false

	now := m.now()
	return m.record(history.Entry{
		Session:    m.session,
		Episode:    msg.Episode,
		Trigger:    string(m.current.trigger),
		Outcome:    history.OutcomeCancelled,
		StartedAt:  m.current.started,
		FinishedAt: now,
		Duration:   now.Sub(m.current.started),
	})
}

// snapshotUpdated ends the episode the snapshot was collected for. Results
// for cancelled or superseded episodes are dropped.
func (m *Model) snapshotUpdated(msg polling.SnapshotUpdated) tea.Cmd {
	if !m.current.active || msg.Episode != m.current.number {
		m.logger.Debug("dropping stale snapshot", "episode", msg.Episode, "current", m.current.number)
		return nil
	}
	m.current.active = false

	now := m.now()
	snap, ok, failed := m.errors.ProcessUpdate(msg)
	source := m.errors.State()

	m.recorder.FetchCompleted(msg.Duration, msg.Err, now)
	m.recorder.SourceChanged(source.String())
	m.statusBar.SetSource(source)
	m.statusBar.SetMessage(m.errors.RecoveryMessage())

	entry := history.Entry{
		Session:    m.session,
		Episode:    msg.Episode,
		Trigger:    string(m.current.trigger),
		Outcome:    history.OutcomeOK,
		StartedAt:  m.current.started,
		FinishedAt: now,
		Duration:   now.Sub(m.current.started),
	}

	if failed {
		m.logger.Warn("refresh failed",
			"episode", msg.Episode,
			"err", msg.Err,
			"consecutive", m.errors.ConsecutiveErrors())
		entry.Outcome = history.OutcomeError
		entry.Error = msg.Err.Error()
	} else {
		m.logger.Info("refresh finished", "episode", msg.Episode, "duration", msg.Duration)
		entry.CPUPercent = snap.CPU.Percent
		entry.MemPercent = snap.Memory.UsedPercent
		m.statusBar.SetLastRefresh(snap.CollectedAt)
	}
	if ok {
		m.snapshot = &snap
		m.statusBar.SetHost(snap.Host.Hostname)
	}
	m.render()

	_, finish := m.refresh.Update(pullrefresh.LoadFinishedMsg{Episode: msg.Episode})
	cmds := []tea.Cmd{finish, m.loading.SetVisible(false), m.record(entry)}
	if failed && (!m.errors.IsRecoverable() || source == polling.StateError) {
		cmds = append(cmds, components.NewCriticalErrorCmd(msg.Err))
	}
	return tea.Batch(cmds...)
}

// record appends e to the history and reloads the recent entries.
func (m *Model) record(e history.Entry) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		if err := store.Append(ctx, e); err != nil {
			return historyLoadedMsg{Err: fmt.Errorf("failed to record refresh: %w", err)}
		}
		entries, err := store.Recent(ctx, historyShown)
		if err != nil {
			return historyLoadedMsg{Err: fmt.Errorf("failed to load refresh history: %w", err)}
		}
		return historyLoadedMsg{Entries: entries}
	}
}

// configReloaded applies the settings that can change while running: the
// theme, the indicator palette and the auto-refresh interval. The remaining
// settings take effect on the next start.
func (m *Model) configReloaded(msg ConfigReloadedMsg) tea.Cmd {
	if msg.Err != nil {
		m.logger.Warn("ignoring config change", "err", msg.Err)
		m.statusBar.SetMessage("Config reload failed. Keeping the previous settings.")
		return nil
	}

	m.logger.Info("config reloaded", "path", msg.Config.Path())
	wasPolling := m.poller.Interval() > 0
	m.cfg = msg.Config
	m.poller.SetInterval(msg.Config.AutoRefreshInterval)
	m.applyTheme(msg.Config.GetTheme())

	if !wasPolling {
		return m.poller.StartPolling()
	}
	return nil
}

// applyTheme restyles every component. The indicator follows the theme's
// palette unless the configuration sets its own.
func (m *Model) applyTheme(name string) {
	theme, err := styles.GetThemeByName(name)
	if err != nil {
		m.logger.Warn("unknown theme", "theme", name)
		return
	}

	m.styles = styles.NewStyles(theme)
	m.refresh.SetStyles(m.styles)
	m.statusBar.SetStyles(m.styles)
	m.loading.SetStyles(m.styles)
	m.help.SetStyles(m.styles)
	m.errorModal.SetStyles(m.styles)
	m.themePicker.SetStyles(m.styles)
	m.themePicker.SetCurrent(theme.Name)

	if err := m.refresh.SetPalette(m.cfg.PullRefresh(theme).Moon.Palette); err != nil {
		m.logger.Warn("invalid indicator palette", "theme", theme.Name, "err", err)
	}
	m.render()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	// One row for the status bar.
	m.refresh.SetSize(width, max(height-1, 0))
	m.statusBar.SetWidth(width)
	m.help.SetSize(width, height)
	m.errorModal.SetSize(width, height)
	m.themePicker.SetSize(width, height)
	m.render()
}

// render rebuilds the scrollable content.
func (m *Model) render() {
	m.refresh.SetContent(sysview.Render(sysview.Content{
		Snapshot: m.snapshot,
		History:  m.entries,
		Now:      m.now(),
	}, m.styles, m.width))
}

func (m Model) modalOpen() bool {
	return m.errorModal.IsVisible() || m.help.IsVisible() || m.themePicker.IsVisible()
}

// View renders the application UI
func (m Model) View() string {
	switch {
	case m.errorModal.IsVisible():
		return m.errorModal.View()
	case m.help.IsVisible():
		return m.help.View()
	case m.themePicker.IsVisible():
		return m.themePicker.View()
	}

	m.statusBar.SetLoading(m.loading.View())
	return lipgloss.JoinVertical(lipgloss.Left, m.refresh.View(), m.statusBar.View())
}
