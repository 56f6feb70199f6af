package moon

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameInterval is the delay between animation frames.
const FrameInterval = time.Second / 30

var lastID atomic.Int64

func nextID() int {
	return int(lastID.Add(1))
}

// FrameMsg advances a running Animator. Messages from another animator or
// from a stopped run are ignored.
type FrameMsg struct {
	ID   int
	gen  int
	Time time.Time
}

// Animator drives Frames from wall-clock ticks. The first tick after Start
// fixes the start time; every later frame is computed from the time elapsed
// since then.
type Animator struct {
	cfg     Config
	id      int
	gen     int
	running bool
	started bool
	start   time.Time
	frame   Frame
}

// NewAnimator creates a stopped animator showing the frame at elapsed 0.
func NewAnimator(cfg Config) *Animator {
	return &Animator{
		cfg:   cfg,
		id:    nextID(),
		frame: cfg.FrameAt(0),
	}
}

// ID identifies this animator's frame messages.
func (a *Animator) ID() int {
	return a.id
}

// Start begins ticking. Starting a running animator is a no-op.
func (a *Animator) Start() tea.Cmd {
	if a.running {
		return nil
	}
	a.running = true
	a.started = false
	a.gen++
	a.frame = a.cfg.FrameAt(0)
	return a.tick()
}

// Stop halts the animation and resets it to its first frame. Ticks already
// scheduled are discarded when they arrive.
func (a *Animator) Stop() {
	if !a.running {
		return
	}
	a.running = false
	a.gen++
	a.frame = a.cfg.FrameAt(0)
}

// Running reports whether frames are being produced.
func (a *Animator) Running() bool {
	return a.running
}

// Update advances the animation on a matching FrameMsg and schedules the
// next tick.
func (a *Animator) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(FrameMsg)
	if !ok || m.ID != a.id || m.gen != a.gen || !a.running {
		return nil
	}

	if !a.started {
		a.start = m.Time
		a.started = true
	}
	a.frame = a.cfg.FrameAt(m.Time.Sub(a.start))
	return a.tick()
}

// Frame returns the current frame.
func (a *Animator) Frame() Frame {
	return a.frame
}

// Elapsed returns the animation time of the current frame.
func (a *Animator) Elapsed() time.Duration {
	return a.frame.Elapsed
}

// Config returns the animator's configuration.
func (a *Animator) Config() Config {
	return a.cfg
}

// SetConfig replaces the configuration. A running animation keeps its
// start time, so only the look of later frames changes.
func (a *Animator) SetConfig(cfg Config) {
	a.cfg = cfg
	a.frame = cfg.FrameAt(a.frame.Elapsed)
}

func (a *Animator) tick() tea.Cmd {
	id, gen := a.id, a.gen
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg {
		return FrameMsg{ID: id, gen: gen, Time: t}
	})
}
