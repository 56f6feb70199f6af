package pullrefresh

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Elpulgo/pullrefresh/internal/refresh"
)

// StateChangedMsg reports every state transition of the control.
type StateChangedMsg struct {
	From     refresh.State
	To       refresh.State
	Distance float64
}

// LoadStartedMsg asks the host to load. The host answers with a
// LoadFinishedMsg carrying the same Episode, or calls Finish.
type LoadStartedMsg struct {
	Episode uint64
}

// LoadCancelledMsg reports that the episode was abandoned by a calibration.
// Results for it are ignored.
type LoadCancelledMsg struct {
	Episode uint64
}

// ValueChangedMsg is sent when a pull is released above the threshold.
type ValueChangedMsg struct{}

// LoadFinishedMsg ends the loading episode with the same number.
type LoadFinishedMsg struct {
	Episode uint64
}

// tweenFrameMsg advances the position animation.
type tweenFrameMsg struct {
	id   int
	gen  int
	time time.Time
}

// wheelIdleMsg fires WheelIdle after a wheel event.
type wheelIdleMsg struct {
	id  int
	gen int
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
