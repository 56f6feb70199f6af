package polling

import (
	"errors"
	"testing"

	"github.com/Elpulgo/pullrefresh/internal/sysinfo"
)

func TestErrorHandler_New(t *testing.T) {
	eh := NewErrorHandler()

	if eh == nil {
		t.Fatal("expected non-nil ErrorHandler")
	}
	if eh.HasError() {
		t.Error("new error handler should not have an error")
	}
	if eh.State() != StateEmpty {
		t.Errorf("expected StateEmpty, got %v", eh.State())
	}
}

func TestErrorHandler_ConsecutiveErrors(t *testing.T) {
	eh := NewErrorHandler()

	eh.SetError(errors.New("error 1"))
	eh.SetError(errors.New("error 2"))
	if eh.ConsecutiveErrors() != 2 {
		t.Errorf("expected 2 consecutive errors, got %d", eh.ConsecutiveErrors())
	}
	if eh.LastErrorTime().IsZero() {
		t.Error("expected last error time to be set")
	}

	eh.ClearError()
	if eh.ConsecutiveErrors() != 0 {
		t.Errorf("expected 0 consecutive errors after clear, got %d", eh.ConsecutiveErrors())
	}
	if eh.GetError() != nil {
		t.Error("GetError should return nil after ClearError")
	}
}

func TestErrorHandler_ProcessUpdate_Success(t *testing.T) {
	eh := NewErrorHandler()
	eh.SetError(errors.New("old failure"))

	snap := sysinfo.Snapshot{Host: sysinfo.HostInfo{Hostname: "box"}}
	got, ok, failed := eh.ProcessUpdate(SnapshotUpdated{Episode: 1, Snapshot: snap})

	if !ok || failed {
		t.Fatalf("expected ok and not failed, got ok=%v failed=%v", ok, failed)
	}
	if got.Host.Hostname != "box" {
		t.Errorf("expected hostname box, got %q", got.Host.Hostname)
	}
	if eh.HasError() {
		t.Error("success should clear the error")
	}
	if eh.State() != StateFresh {
		t.Errorf("expected StateFresh, got %v", eh.State())
	}
}

func TestErrorHandler_ProcessUpdate_ErrorKeepsLastKnownGood(t *testing.T) {
	eh := NewErrorHandler()
	eh.ProcessUpdate(SnapshotUpdated{Snapshot: sysinfo.Snapshot{Host: sysinfo.HostInfo{Hostname: "box"}}})

	got, ok, failed := eh.ProcessUpdate(SnapshotUpdated{Err: errors.New("timeout")})

	if !failed {
		t.Error("expected failed update")
	}
	if !ok || got.Host.Hostname != "box" {
		t.Errorf("expected last known good snapshot, got ok=%v host=%q", ok, got.Host.Hostname)
	}
	if eh.State() != StateStale {
		t.Errorf("expected StateStale, got %v", eh.State())
	}
	if msg := eh.RecoveryMessage(); msg != "Refresh failed. Showing the last snapshot." {
		t.Errorf("unexpected recovery message %q", msg)
	}
}

func TestErrorHandler_ProcessUpdate_ErrorWithoutData(t *testing.T) {
	eh := NewErrorHandler()

	_, ok, failed := eh.ProcessUpdate(SnapshotUpdated{Err: errors.New("boom")})
	if ok || !failed {
		t.Errorf("expected no data and failed, got ok=%v failed=%v", ok, failed)
	}
	if eh.State() != StateError {
		t.Errorf("expected StateError, got %v", eh.State())
	}
}

func TestErrorHandler_RecoveryMessage(t *testing.T) {
	eh := NewErrorHandler()
	if eh.RecoveryMessage() != "" {
		t.Error("expected empty recovery message without error")
	}

	for i := 0; i <= MaxRecoverableErrors; i++ {
		eh.SetError(errors.New("boom"))
	}
	if eh.IsRecoverable() {
		t.Error("expected non-recoverable after too many errors")
	}
	if eh.RecoveryMessage() != "Refresh keeps failing. Check the log file and press 'r' to retry." {
		t.Errorf("unexpected recovery message %q", eh.RecoveryMessage())
	}
}

func TestSourceState_String(t *testing.T) {
	tests := []struct {
		state SourceState
		want  string
	}{
		{StateEmpty, "empty"},
		{StateLoading, "loading"},
		{StateFresh, "fresh"},
		{StateStale, "stale"},
		{StateError, "error"},
		{SourceState(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("SourceState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
