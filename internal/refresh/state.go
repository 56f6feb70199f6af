// Package refresh implements the pull-to-refresh state machine and the drag
// signal normalizer that feeds it. Nothing in this package renders or
// schedules anything: transitions return effects which the host executes.
package refresh

// State is the current phase of a refresh control.
type State int

const (
	// Idle is the resting state with no visual offset.
	Idle State = iota
	// PullingBelowThreshold is an active drag whose distance is under the trigger threshold.
	PullingBelowThreshold
	// PullingAboveThreshold is an active drag at or over the trigger threshold.
	PullingAboveThreshold
	// ReleasedBelowThreshold collapses back to Idle once its animation completes.
	ReleasedBelowThreshold
	// ReleasedAboveThreshold settles at the reveal offset and then starts loading.
	ReleasedAboveThreshold
	// Loading lasts until the host reports that loading finished.
	Loading
	// LoadingAndScrolled is Loading while the content is away from the reveal offset.
	LoadingAndScrolled
)

// States returns every state in declaration order.
func States() []State {
	return []State{
		Idle,
		PullingBelowThreshold,
		PullingAboveThreshold,
		ReleasedBelowThreshold,
		ReleasedAboveThreshold,
		Loading,
		LoadingAndScrolled,
	}
}

// String returns a human-readable string for the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PullingBelowThreshold:
		return "pulling-below"
	case PullingAboveThreshold:
		return "pulling-above"
	case ReleasedBelowThreshold:
		return "released-below"
	case ReleasedAboveThreshold:
		return "released-above"
	case Loading:
		return "loading"
	case LoadingAndScrolled:
		return "loading-scrolled"
	default:
		return "unknown"
	}
}

// IsLoading reports whether a loading episode is active.
func (s State) IsLoading() bool {
	return s == Loading || s == LoadingAndScrolled
}

// IsPulling reports whether a drag is in progress outside of loading.
func (s State) IsPulling() bool {
	return s == PullingBelowThreshold || s == PullingAboveThreshold
}

// IsReleased reports whether the state is a transient release awaiting an animation.
func (s State) IsReleased() bool {
	return s == ReleasedBelowThreshold || s == ReleasedAboveThreshold
}
