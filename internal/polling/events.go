// Package polling loads system snapshots for the refresh control, either on
// demand for a loading episode or on an auto-refresh timer, with tea.Msg
// types for Bubble Tea integration.
package polling

import (
	"time"

	"github.com/Elpulgo/pullrefresh/internal/sysinfo"
)

// SnapshotUpdated is sent when a fetch for a loading episode completes.
// It contains either the snapshot or an error.
type SnapshotUpdated struct {
	Episode  uint64
	Snapshot sysinfo.Snapshot
	Err      error
	Duration time.Duration
}

// TickMsg is sent on each auto-refresh interval tick.
type TickMsg struct {
	Time time.Time
}

// SourceState describes the freshness of the displayed data.
type SourceState int

const (
	// StateEmpty means nothing has been loaded yet.
	StateEmpty SourceState = iota
	// StateLoading means a fetch is in flight.
	StateLoading
	// StateFresh means the last fetch succeeded.
	StateFresh
	// StateStale means the last fetch failed and older data is shown.
	StateStale
	// StateError means fetches failed and there is no data to show.
	StateError
)

// String returns a human-readable string for the source state.
func (s SourceState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
