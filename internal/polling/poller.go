package polling

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Elpulgo/pullrefresh/internal/sysinfo"
)

const (
	// MinInterval is the minimum auto-refresh interval.
	MinInterval = 5 * time.Second
	// DefaultTimeout bounds a single snapshot collection.
	DefaultTimeout = 5 * time.Second
)

// Poller fetches snapshots from a source. Auto refresh is disabled when the
// interval is 0.
type Poller struct {
	source   sysinfo.Source
	interval time.Duration
	timeout  time.Duration
	stopped  bool
	cancel   context.CancelFunc
	inFlight uint64
	mu       sync.RWMutex
}

// NewPoller creates a Poller. A positive interval below MinInterval is
// raised to MinInterval.
func NewPoller(source sysinfo.Source, interval time.Duration) *Poller {
	return &Poller{
		source:   source,
		interval: clampInterval(interval),
		timeout:  DefaultTimeout,
	}
}

func clampInterval(interval time.Duration) time.Duration {
	if interval <= 0 {
		return 0
	}
	if interval < MinInterval {
		return MinInterval
	}
	return interval
}

// SetInterval updates the auto-refresh interval.
func (p *Poller) SetInterval(interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interval = clampInterval(interval)
}

// Interval returns the auto-refresh interval, 0 when disabled.
func (p *Poller) Interval() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.interval
}

// SetTimeout sets the collection timeout.
func (p *Poller) SetTimeout(timeout time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p.timeout = timeout
}

// Stop cancels any fetch in flight and prevents further fetches and ticks.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// IsStopped returns true if the poller has been stopped.
func (p *Poller) IsStopped() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stopped
}

// Fetch returns a tea.Cmd that collects a snapshot for the given loading
// episode. A fetch still running for an earlier episode is cancelled.
// Returns nil if the poller has been stopped.
func (p *Poller) Fetch(episode uint64) tea.Cmd {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	p.cancel = cancel
	p.inFlight = episode
	p.mu.Unlock()

	return func() tea.Msg {
		defer p.release(episode, cancel)

		start := time.Now()
		snap, err := p.source.Collect(ctx)
		return SnapshotUpdated{
			Episode:  episode,
			Snapshot: snap,
			Err:      err,
			Duration: time.Since(start),
		}
	}
}

// Cancel aborts the fetch for the given episode if it is still running.
func (p *Poller) Cancel(episode uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil && p.inFlight == episode {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Poller) release(episode uint64, cancel context.CancelFunc) {
	cancel()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight == episode {
		p.cancel = nil
	}
}

// StartPolling returns a tea.Cmd that sends a TickMsg after the interval.
// Returns nil when stopped or when auto refresh is disabled.
func (p *Poller) StartPolling() tea.Cmd {
	p.mu.RLock()
	interval, stopped := p.interval, p.stopped
	p.mu.RUnlock()

	if stopped || interval == 0 {
		return nil
	}
	return tea.Every(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
