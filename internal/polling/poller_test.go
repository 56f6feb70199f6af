package polling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Elpulgo/pullrefresh/internal/sysinfo"
)

// MockSource implements sysinfo.Source for testing
type MockSource struct {
	Snapshot  sysinfo.Snapshot
	Err       error
	Block     bool
	mu        sync.Mutex
	CallCount int
}

func (m *MockSource) Collect(ctx context.Context) (sysinfo.Snapshot, error) {
	m.mu.Lock()
	m.CallCount++
	m.mu.Unlock()

	if m.Block {
		<-ctx.Done()
		return sysinfo.Snapshot{}, ctx.Err()
	}
	return m.Snapshot, m.Err
}

// Compile-time check: the gopsutil collector must satisfy Source.
var _ sysinfo.Source = (*sysinfo.Collector)(nil)

func TestPoller_IntervalClamping(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{"disabled", 0, 0},
		{"negative disables", -time.Second, 0},
		{"too short", time.Second, MinInterval},
		{"kept", time.Minute, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPoller(&MockSource{}, tt.in)
			if p.Interval() != tt.want {
				t.Errorf("Interval() = %v, want %v", p.Interval(), tt.want)
			}
		})
	}
}

func TestPoller_Fetch_Success(t *testing.T) {
	source := &MockSource{Snapshot: sysinfo.Snapshot{Host: sysinfo.HostInfo{Hostname: "box"}}}
	p := NewPoller(source, 0)

	cmd := p.Fetch(7)
	if cmd == nil {
		t.Fatal("expected non-nil command")
	}

	msg, ok := cmd().(SnapshotUpdated)
	if !ok {
		t.Fatalf("expected SnapshotUpdated, got %T", msg)
	}
	if msg.Err != nil {
		t.Errorf("expected no error, got %v", msg.Err)
	}
	if msg.Episode != 7 {
		t.Errorf("expected episode 7, got %d", msg.Episode)
	}
	if msg.Snapshot.Host.Hostname != "box" {
		t.Errorf("expected hostname box, got %q", msg.Snapshot.Host.Hostname)
	}
	if source.CallCount != 1 {
		t.Errorf("expected 1 collection, got %d", source.CallCount)
	}
}

func TestPoller_Fetch_Error(t *testing.T) {
	p := NewPoller(&MockSource{Err: errors.New("probe failed")}, 0)

	msg := p.Fetch(1)().(SnapshotUpdated)
	if msg.Err == nil || msg.Err.Error() != "probe failed" {
		t.Errorf("expected 'probe failed', got %v", msg.Err)
	}
}

func TestPoller_Fetch_Timeout(t *testing.T) {
	p := NewPoller(&MockSource{Block: true}, 0)
	p.SetTimeout(10 * time.Millisecond)

	msg := p.Fetch(1)().(SnapshotUpdated)
	if !errors.Is(msg.Err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", msg.Err)
	}
}

func TestPoller_Cancel(t *testing.T) {
	p := NewPoller(&MockSource{Block: true}, 0)
	cmd := p.Fetch(3)

	done := make(chan SnapshotUpdated)
	go func() { done <- cmd().(SnapshotUpdated) }()

	p.Cancel(2) // other episode: no effect
	p.Cancel(3)

	select {
	case msg := <-done:
		if !errors.Is(msg.Err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", msg.Err)
		}
	case <-time.After(time.Second):
		t.Fatal("fetch was not cancelled")
	}
}

func TestPoller_NewFetchCancelsPrevious(t *testing.T) {
	p := NewPoller(&MockSource{Block: true}, 0)
	first := p.Fetch(1)

	done := make(chan SnapshotUpdated)
	go func() { done <- first().(SnapshotUpdated) }()

	p.Fetch(2)

	select {
	case msg := <-done:
		if msg.Episode != 1 || !errors.Is(msg.Err, context.Canceled) {
			t.Errorf("expected cancelled episode 1, got episode %d err %v", msg.Episode, msg.Err)
		}
	case <-time.After(time.Second):
		t.Fatal("previous fetch was not cancelled")
	}
}

func TestPoller_Stop(t *testing.T) {
	p := NewPoller(&MockSource{}, time.Minute)
	p.Stop()

	if !p.IsStopped() {
		t.Error("expected poller to be stopped")
	}
	if p.Fetch(1) != nil {
		t.Error("expected nil fetch command after Stop")
	}
	if p.StartPolling() != nil {
		t.Error("expected nil polling command after Stop")
	}
}

func TestPoller_StartPolling(t *testing.T) {
	if NewPoller(&MockSource{}, 0).StartPolling() != nil {
		t.Error("expected nil polling command when auto refresh is disabled")
	}
	if NewPoller(&MockSource{}, time.Minute).StartPolling() == nil {
		t.Error("expected polling command when auto refresh is enabled")
	}
}
