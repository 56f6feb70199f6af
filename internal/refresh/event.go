package refresh

import "time"

// EventKind identifies an input to the state machine.
type EventKind int

const (
	EventDragUpdate EventKind = iota
	EventDragEnded
	EventDragCancelled
	EventAnimationCompleted
	EventLoadFinished
	EventCalibrate
)

// String returns a human-readable string for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventDragUpdate:
		return "drag-update"
	case EventDragEnded:
		return "drag-ended"
	case EventDragCancelled:
		return "drag-cancelled"
	case EventAnimationCompleted:
		return "animation-completed"
	case EventLoadFinished:
		return "load-finished"
	case EventCalibrate:
		return "calibrate"
	default:
		return "unknown"
	}
}

// Event is a single input to the state machine. Distance is only meaningful
// for drag updates and Epoch only for animation completions.
type Event struct {
	Kind     EventKind
	Distance float64
	Epoch    uint64
}

// DragUpdate reports the current normalized pull distance.
func DragUpdate(distance float64) Event {
	return Event{Kind: EventDragUpdate, Distance: distance}
}

// DragEnded reports that the finger was lifted.
func DragEnded() Event {
	return Event{Kind: EventDragEnded}
}

// DragCancelled reports that the gesture was cancelled or failed.
func DragCancelled() Event {
	return Event{Kind: EventDragCancelled}
}

// AnimationCompleted reports that the position animation issued with epoch finished.
func AnimationCompleted(epoch uint64) Event {
	return Event{Kind: EventAnimationCompleted, Epoch: epoch}
}

// LoadFinished is the external signal that the data source finished loading.
func LoadFinished() Event {
	return Event{Kind: EventLoadFinished}
}

// Calibrate resets the control after the host re-associated its content.
func Calibrate() Event {
	return Event{Kind: EventCalibrate}
}

// EffectKind identifies a side effect the host must perform.
type EffectKind int

const (
	// EffectReposition moves the overlay to Position immediately and cancels any running animation.
	EffectReposition EffectKind = iota
	// EffectAnimate animates the overlay to Position over Duration and reports
	// completion with AnimationCompleted(Epoch).
	EffectAnimate
	EffectStartAnimator
	EffectStopAnimator
	// EffectFlushGesture drops any in-flight gesture so it cannot feed stale samples.
	EffectFlushGesture
	EffectLoadStarted
	EffectLoadCancelled
	// EffectValueChanged is the legacy notification sent when a pull is released above the threshold.
	EffectValueChanged
)

// String returns a human-readable string for the effect kind.
func (k EffectKind) String() string {
	switch k {
	case EffectReposition:
		return "reposition"
	case EffectAnimate:
		return "animate"
	case EffectStartAnimator:
		return "start-animator"
	case EffectStopAnimator:
		return "stop-animator"
	case EffectFlushGesture:
		return "flush-gesture"
	case EffectLoadStarted:
		return "load-started"
	case EffectLoadCancelled:
		return "load-cancelled"
	case EffectValueChanged:
		return "value-changed"
	default:
		return "unknown"
	}
}

// Effect is a side effect returned by a transition.
type Effect struct {
	Kind     EffectKind
	Position float64
	Duration time.Duration
	Epoch    uint64
}
