// Package pullrefresh is a Bubble Tea component that puts a pull-to-refresh
// control above a scrollable viewport. Mouse drags and wheel bursts pull the
// indicator down; releasing past the threshold starts a loading episode that
// the host ends with Finish or a LoadFinishedMsg.
package pullrefresh

import (
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Elpulgo/pullrefresh/internal/logging"
	"github.com/Elpulgo/pullrefresh/internal/moon"
	"github.com/Elpulgo/pullrefresh/internal/refresh"
	"github.com/Elpulgo/pullrefresh/internal/ui/styles"
)

// tweenInterval is the frame delay of position animations.
const tweenInterval = time.Second / 60

var lastID atomic.Int64

// tween animates the displayed position towards a target.
type tween struct {
	active   bool
	started  bool
	gen      int
	epoch    uint64
	from     float64
	to       float64
	start    time.Time
	duration time.Duration
}

// drag tracks a mouse gesture. The normalizer is only engaged on the first
// motion so that a plain click never becomes a gesture.
type drag struct {
	pressed bool
	begun   bool
	originY int
	start   time.Time
}

// wheel tracks a burst of wheel events treated as one gesture.
type wheel struct {
	active      bool
	gen         int
	translation float64
}

// Model is the pull-to-refresh component.
type Model struct {
	cfg    Config
	styles *styles.Styles
	logger *slog.Logger
	keys   KeyMap
	id     int

	machine    *refresh.Machine
	normalizer *refresh.Normalizer
	animator   *moon.Animator
	viewport   viewport.Model

	width  int
	height int

	// position is the displayed displacement. It follows the machine's
	// distance, through a tween while an animation is running.
	position float64
	tween    tween
	drag     drag
	wheel    wheel
	episode  uint64

	// outbox collects notifications raised while the machine runs.
	outbox []tea.Msg
}

// New creates the component. The configuration is validated here so that a
// bad configuration fails before the program starts.
func New(cfg Config, s *styles.Styles, logger *slog.Logger) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create pull-to-refresh component: %w", err)
	}
	machine, err := refresh.NewMachine(cfg.Refresh)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = styles.DefaultStyles()
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = false

	m := &Model{
		cfg:        cfg,
		styles:     s,
		logger:     logger,
		keys:       DefaultKeyMap(),
		id:         int(lastID.Add(1)),
		machine:    machine,
		normalizer: refresh.NewNormalizer(cfg.Refresh),
		animator:   moon.NewAnimator(cfg.Moon),
		viewport:   vp,
	}
	machine.Observe(refresh.ObserverFunc(m.stateChanged))
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// SetSize sets the component's outer size in cells.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// SetContent replaces the content of the scrollable area.
func (m *Model) SetContent(content string) {
	m.viewport.SetContent(content)
}

// Reattach replaces the content, scrolls to the top and recalibrates, which
// resets the control to idle.
func (m *Model) Reattach(content string) tea.Cmd {
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
	return m.Calibrate()
}

// Update handles input and the component's own timers.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tweenFrameMsg:
		return m, m.handleTweenFrame(msg)

	case wheelIdleMsg:
		if msg.id != m.id || msg.gen != m.wheel.gen || !m.wheel.active {
			return m, nil
		}
		return m, m.endWheel()

	case moon.FrameMsg:
		return m, m.animator.Update(msg)

	case LoadFinishedMsg:
		if msg.Episode != m.episode {
			m.logger.Debug("dropping stale load result", "episode", msg.Episode, "current", m.episode)
			return m, nil
		}
		return m, m.Finish()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m.Trigger()
	case key.Matches(msg, m.keys.Calibrate):
		return m.Calibrate()
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.wheelStep(1)
	case tea.MouseButtonWheelDown:
		return m.wheelStep(-1)
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		var cmd tea.Cmd
		if m.wheel.active {
			cmd = m.endWheel()
		}
		m.drag = drag{pressed: true, originY: msg.Y, start: time.Now()}
		return cmd

	case tea.MouseActionMotion:
		if !m.drag.pressed {
			return nil
		}
		if !m.drag.begun {
			m.normalizer.Begin(m.position)
			m.drag.begun = true
		}
		translation := float64(msg.Y-m.drag.originY) * m.cfg.UnitsPerRow
		return m.sample(translation, time.Since(m.drag.start))

	case tea.MouseActionRelease:
		if !m.drag.pressed {
			return nil
		}
		begun := m.drag.begun
		m.drag = drag{}
		if !begun {
			return nil
		}
		m.normalizer.End()
		return m.apply(refresh.DragEnded())
	}

	return nil
}

// wheelStep feeds one wheel notch into the current burst, starting one if
// needed. Direction is +1 for pulling down (wheel up) and -1 for pushing up.
func (m *Model) wheelStep(direction float64) tea.Cmd {
	if m.drag.pressed {
		return nil
	}

	if !m.wheel.active {
		// In plain mode the wheel only pulls when the content is at the top
		// and the notch points down, or when the overlay is already out.
		if m.cfg.Refresh.Mode == refresh.ModePlain && m.position == 0 &&
			(direction < 0 || !m.viewport.AtTop()) {
			if direction > 0 {
				m.viewport.LineUp(1)
			} else {
				m.viewport.LineDown(1)
			}
			return nil
		}
		m.wheel.active = true
		m.wheel.translation = 0
		m.normalizer.Begin(m.position)
	}

	m.wheel.gen++
	m.wheel.translation += direction * m.cfg.UnitsPerRow

	id, gen := m.id, m.wheel.gen
	idle := tea.Tick(m.cfg.WheelIdle, func(time.Time) tea.Msg {
		return wheelIdleMsg{id: id, gen: gen}
	})
	return tea.Batch(m.sample(m.wheel.translation, 0), idle)
}

func (m *Model) endWheel() tea.Cmd {
	m.wheel.active = false
	m.wheel.gen++
	m.normalizer.End()
	return m.apply(refresh.DragEnded())
}

// sample runs a translation through the normalizer and the machine.
func (m *Model) sample(translation float64, elapsed time.Duration) tea.Cmd {
	reading := m.normalizer.Update(refresh.Sample{
		Elapsed:         elapsed,
		Translation:     translation,
		ContainerOffset: float64(m.viewport.YOffset) * m.cfg.UnitsPerRow,
	})
	if m.cfg.Refresh.Mode == refresh.ModeScrollable {
		m.viewport.SetYOffset(int(math.Round(reading.ContainerOffset / m.cfg.UnitsPerRow)))
	}
	return m.apply(refresh.DragUpdate(reading.Distance))
}

// Trigger simulates a full pull past the threshold followed by a release.
// It only acts while the control is idle and no gesture is in progress.
func (m *Model) Trigger() tea.Cmd {
	if m.machine.State() != refresh.Idle || m.drag.pressed || m.wheel.active {
		return nil
	}
	m.normalizer.Begin(0)
	m.normalizer.End()
	return tea.Batch(
		m.apply(refresh.DragUpdate(m.cfg.Refresh.TriggerThreshold)),
		m.apply(refresh.DragEnded()),
	)
}

// Finish ends the current loading episode. It is a no-op outside loading.
func (m *Model) Finish() tea.Cmd {
	return m.run(m.machine.Finish())
}

// Calibrate records the current scroll offset as the resting position and
// forces the control back to idle, cancelling any loading episode.
func (m *Model) Calibrate() tea.Cmd {
	m.drag = drag{}
	m.wheel.active = false
	m.wheel.gen++
	m.normalizer.Calibrate(float64(m.viewport.YOffset) * m.cfg.UnitsPerRow)
	return m.run(m.machine.Calibrate())
}

func (m *Model) apply(ev refresh.Event) tea.Cmd {
	return m.run(m.machine.Apply(ev))
}

// run executes effects returned by the machine, together with any
// notifications raised while it ran.
func (m *Model) run(effects []refresh.Effect) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.outbox)+len(effects))
	for _, msg := range m.outbox {
		cmds = append(cmds, emit(msg))
	}
	m.outbox = m.outbox[:0]

	for _, e := range effects {
		if cmd := m.execute(e); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) execute(e refresh.Effect) tea.Cmd {
	switch e.Kind {
	case refresh.EffectReposition:
		m.stopTween()
		m.position = e.Position
	case refresh.EffectAnimate:
		return m.startTween(e.Position, e.Duration, e.Epoch)
	case refresh.EffectStartAnimator:
		return m.animator.Start()
	case refresh.EffectStopAnimator:
		m.animator.Stop()
	case refresh.EffectFlushGesture:
		m.drag = drag{}
		if m.wheel.active {
			m.wheel.active = false
			m.wheel.gen++
		}
		m.normalizer.Begin(0)
		m.normalizer.End()
	case refresh.EffectLoadStarted:
		m.episode++
		m.logger.Info("refresh started", "episode", m.episode)
		return emit(LoadStartedMsg{Episode: m.episode})
	case refresh.EffectLoadCancelled:
		m.logger.Info("refresh cancelled", "episode", m.episode)
		return emit(LoadCancelledMsg{Episode: m.episode})
	case refresh.EffectValueChanged:
		return emit(ValueChangedMsg{})
	}
	return nil
}

func (m *Model) stateChanged(from, to refresh.State, distance float64) {
	m.logger.Debug("refresh state changed", "from", from, "to", to, "distance", distance)
	m.outbox = append(m.outbox, StateChangedMsg{From: from, To: to, Distance: distance})
}

func (m *Model) startTween(to float64, d time.Duration, epoch uint64) tea.Cmd {
	m.tween = tween{
		active:   true,
		gen:      m.tween.gen + 1,
		epoch:    epoch,
		from:     m.position,
		to:       to,
		duration: d,
	}
	return m.tweenTick()
}

func (m *Model) stopTween() {
	m.tween.active = false
	m.tween.gen++
}

func (m *Model) tweenTick() tea.Cmd {
	id, gen := m.id, m.tween.gen
	return tea.Tick(tweenInterval, func(t time.Time) tea.Msg {
		return tweenFrameMsg{id: id, gen: gen, time: t}
	})
}

// handleTweenFrame moves the position along an ease-out curve and reports
// completion to the machine.
func (m *Model) handleTweenFrame(msg tweenFrameMsg) tea.Cmd {
	if msg.id != m.id || msg.gen != m.tween.gen || !m.tween.active {
		return nil
	}
	if !m.tween.started {
		m.tween.start = msg.time
		m.tween.started = true
	}

	progress := 1.0
	if m.tween.duration > 0 {
		progress = float64(msg.time.Sub(m.tween.start)) / float64(m.tween.duration)
	}
	if progress < 1 {
		eased := 1 - math.Pow(1-progress, 3)
		m.position = m.tween.from + (m.tween.to-m.tween.from)*eased
		return m.tweenTick()
	}

	m.position = m.tween.to
	m.tween.active = false
	return m.apply(refresh.AnimationCompleted(m.tween.epoch))
}

// State returns the control's state.
func (m *Model) State() refresh.State {
	return m.machine.State()
}

// Distance returns the machine's distance.
func (m *Model) Distance() float64 {
	return m.machine.Distance()
}

// Position returns the displayed displacement.
func (m *Model) Position() float64 {
	return m.position
}

// Episode returns the number of the latest loading episode.
func (m *Model) Episode() uint64 {
	return m.episode
}

// Animating reports whether the loading indicator is running.
func (m *Model) Animating() bool {
	return m.animator.Running()
}

// Keys returns the component's key bindings.
func (m *Model) Keys() KeyMap {
	return m.keys
}

// Observe registers an additional observer of state changes.
func (m *Model) Observe(o refresh.Observer) {
	m.machine.Observe(o)
}

// SetStyles replaces the styles used for the indicator label.
func (m *Model) SetStyles(s *styles.Styles) {
	if s != nil {
		m.styles = s
	}
}

// SetPalette changes the indicator colours. The fill background follows
// the last palette colour.
func (m *Model) SetPalette(palette []lipgloss.Color) error {
	cfg := m.cfg.Moon
	cfg.Palette = append([]lipgloss.Color(nil), palette...)
	if n := len(cfg.Palette); n > 0 {
		cfg.Background = cfg.Palette[n-1]
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.cfg.Moon = cfg
	m.animator.SetConfig(cfg)
	return nil
}

// Config returns the component configuration.
func (m *Model) Config() Config {
	return m.cfg
}

// ScrollOffset returns the viewport's vertical offset in rows.
func (m *Model) ScrollOffset() int {
	return m.viewport.YOffset
}
