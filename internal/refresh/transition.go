package refresh

// positionTolerance is how close a distance must be to the reveal offset to
// count as resting on it. Distances come from whole terminal rows, so half a
// unit is plenty.
const positionTolerance = 0.5

// Snapshot is the complete state of a refresh control.
//
// Epoch identifies the most recently issued position animation. Pending is
// true while the machine still waits for that animation's completion; a
// completion for any other epoch, or after Pending was cleared, is stale and
// ignored.
type Snapshot struct {
	State    State
	Distance float64
	Epoch    uint64
	Pending  bool
}

// Transition applies ev to s and returns the next snapshot together with the
// side effects the host must perform, in order. It is a pure function.
//
// Any drag update cancels a pending animation completion: a new gesture
// always wins over a release animation that has not finished yet.
func Transition(cfg Config, s Snapshot, ev Event) (Snapshot, []Effect) {
	switch ev.Kind {
	case EventDragUpdate:
		return dragUpdate(cfg, s, cfg.clamp(ev.Distance))
	case EventDragEnded, EventDragCancelled:
		return dragEnded(cfg, s)
	case EventAnimationCompleted:
		return animationCompleted(cfg, s, ev.Epoch)
	case EventLoadFinished:
		return loadFinished(cfg, s)
	case EventCalibrate:
		return calibrate(s)
	}
	return s, nil
}

func dragUpdate(cfg Config, s Snapshot, d float64) (Snapshot, []Effect) {
	next := s
	next.Pending = false
	next.Distance = d

	switch s.State {
	case Idle:
		if d <= 0 {
			return s, nil
		}
		next.State = pullingState(cfg, d)
	case Loading, LoadingAndScrolled:
		if atReveal(cfg, d) {
			next.State = Loading
		} else {
			next.State = LoadingAndScrolled
		}
	default:
		// Pulling, or a release whose animation is now abandoned.
		next.State = pullingState(cfg, d)
	}

	return next, []Effect{{Kind: EffectReposition, Position: d}}
}

func dragEnded(cfg Config, s Snapshot) (Snapshot, []Effect) {
	next := s

	switch s.State {
	case PullingBelowThreshold:
		next.State = ReleasedBelowThreshold
		next, anim := animate(cfg, next, 0)
		return next, []Effect{anim}

	case PullingAboveThreshold:
		next.State = ReleasedAboveThreshold
		next, anim := animate(cfg, next, cfg.RevealOffset)
		return next, []Effect{anim, {Kind: EffectValueChanged}}

	case Loading, LoadingAndScrolled:
		if s.Distance <= 0 {
			// Content was scrolled over the indicator; leave it there.
			next.State = LoadingAndScrolled
			return next, nil
		}
		if atReveal(cfg, s.Distance) {
			next.State = Loading
			next.Distance = cfg.RevealOffset
			return next, nil
		}
		next.State = LoadingAndScrolled
		next, anim := animate(cfg, next, cfg.RevealOffset)
		return next, []Effect{anim}
	}

	return s, nil
}

func animationCompleted(cfg Config, s Snapshot, epoch uint64) (Snapshot, []Effect) {
	if !s.Pending || epoch != s.Epoch {
		return s, nil
	}

	next := s
	next.Pending = false

	switch s.State {
	case ReleasedBelowThreshold:
		next.State = Idle
		next.Distance = 0
		return next, idleEffects()

	case ReleasedAboveThreshold:
		next.State = Loading
		next.Distance = cfg.RevealOffset
		return next, []Effect{
			{Kind: EffectStartAnimator},
			{Kind: EffectLoadStarted},
		}

	case LoadingAndScrolled:
		next.State = Loading
		next.Distance = cfg.RevealOffset
	}

	return next, nil
}

func loadFinished(cfg Config, s Snapshot) (Snapshot, []Effect) {
	if !s.State.IsLoading() {
		return s, nil
	}

	next := s
	next.State = Idle
	next, anim := animate(cfg, next, 0)
	next.Distance = 0

	return next, append(idleEffects(), anim)
}

func calibrate(s Snapshot) (Snapshot, []Effect) {
	next := Snapshot{State: Idle, Epoch: s.Epoch}

	var effects []Effect
	if s.State.IsLoading() {
		effects = append(effects, Effect{Kind: EffectLoadCancelled})
	}
	effects = append(effects, idleEffects()...)
	effects = append(effects, Effect{Kind: EffectReposition, Position: 0})

	return next, effects
}

// animate issues a new position animation, superseding any pending one.
func animate(cfg Config, s Snapshot, position float64) (Snapshot, Effect) {
	s.Epoch++
	s.Pending = true
	return s, Effect{
		Kind:     EffectAnimate,
		Position: position,
		Duration: cfg.PositionDuration,
		Epoch:    s.Epoch,
	}
}

func idleEffects() []Effect {
	return []Effect{
		{Kind: EffectStopAnimator},
		{Kind: EffectFlushGesture},
	}
}

func pullingState(cfg Config, d float64) State {
	if d >= cfg.TriggerThreshold {
		return PullingAboveThreshold
	}
	return PullingBelowThreshold
}

func atReveal(cfg Config, d float64) bool {
	diff := d - cfg.RevealOffset
	return diff > -positionTolerance && diff < positionTolerance
}
