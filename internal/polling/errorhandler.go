package polling

import (
	"sync"
	"time"

	"github.com/Elpulgo/pullrefresh/internal/sysinfo"
)

// MaxRecoverableErrors is the threshold after which errors are considered non-recoverable.
const MaxRecoverableErrors = 3

// ErrorHandler keeps the last snapshot that loaded successfully so the view
// degrades to stale data instead of going blank when a refresh fails.
type ErrorHandler struct {
	currentError      error
	consecutiveErrors int
	lastErrorTime     time.Time
	lastKnownGood     *sysinfo.Snapshot
	mu                sync.RWMutex
}

// NewErrorHandler creates a new ErrorHandler.
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// SetError sets the current error and increments the consecutive error count.
func (h *ErrorHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.currentError = err
	h.consecutiveErrors++
	h.lastErrorTime = time.Now()
}

// ClearError clears the current error and resets the consecutive error count.
func (h *ErrorHandler) ClearError() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.currentError = nil
	h.consecutiveErrors = 0
}

// HasError returns true if there is a current error.
func (h *ErrorHandler) HasError() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.currentError != nil
}

// GetError returns the current error.
func (h *ErrorHandler) GetError() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.currentError
}

// ConsecutiveErrors returns the number of consecutive errors.
func (h *ErrorHandler) ConsecutiveErrors() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.consecutiveErrors
}

// LastErrorTime returns the time of the last error.
func (h *ErrorHandler) LastErrorTime() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastErrorTime
}

// LastKnownGood returns the last successful snapshot.
func (h *ErrorHandler) LastKnownGood() (sysinfo.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.lastKnownGood == nil {
		return sysinfo.Snapshot{}, false
	}
	return *h.lastKnownGood, true
}

// ProcessUpdate processes a SnapshotUpdated message.
// On success, it stores the snapshot and clears errors.
// On error, it records the error and returns the last known good snapshot.
// Returns the snapshot to display, whether there is one, and whether the
// update failed.
func (h *ErrorHandler) ProcessUpdate(msg SnapshotUpdated) (snap sysinfo.Snapshot, ok bool, failed bool) {
	if msg.Err != nil {
		h.SetError(msg.Err)
		snap, ok = h.LastKnownGood()
		return snap, ok, true
	}

	h.mu.Lock()
	stored := msg.Snapshot
	h.lastKnownGood = &stored
	h.currentError = nil
	h.consecutiveErrors = 0
	h.mu.Unlock()

	return msg.Snapshot, true, false
}

// State reports the freshness of the data, ignoring any fetch in flight.
func (h *ErrorHandler) State() SourceState {
	h.mu.RLock()
	defer h.mu.RUnlock()

	switch {
	case h.currentError != nil && h.lastKnownGood != nil:
		return StateStale
	case h.currentError != nil:
		return StateError
	case h.lastKnownGood != nil:
		return StateFresh
	default:
		return StateEmpty
	}
}

// IsRecoverable returns true if the error is likely recoverable (transient).
func (h *ErrorHandler) IsRecoverable() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.consecutiveErrors <= MaxRecoverableErrors
}

// RecoveryMessage returns a user-friendly message about the error state.
func (h *ErrorHandler) RecoveryMessage() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.currentError == nil {
		return ""
	}

	if h.consecutiveErrors <= MaxRecoverableErrors {
		if h.lastKnownGood != nil {
			return "Refresh failed. Showing the last snapshot."
		}
		return "Refresh failed. Pull down to retry."
	}
	return "Refresh keeps failing. Check the log file and press 'r' to retry."
}
