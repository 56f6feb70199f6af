package refresh

import (
	"errors"
	"testing"
	"testing/quick"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m, err := NewMachine(DefaultConfig())
	require.NoError(t, err)
	return m
}

func effectKinds(effects []Effect) []EffectKind {
	kinds := make([]EffectKind, 0, len(effects))
	for _, e := range effects {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func findEffect(t *testing.T, effects []Effect, kind EffectKind) Effect {
	t.Helper()
	for _, e := range effects {
		if e.Kind == kind {
			return e
		}
	}
	t.Fatalf("effect %s not found in %v", kind, effectKinds(effects))
	return Effect{}
}

// startLoading drives a machine from Idle into Loading.
func startLoading(t *testing.T, m *Machine) {
	t.Helper()
	m.Apply(DragUpdate(m.Config().TriggerThreshold + 10))
	anim := findEffect(t, m.Apply(DragEnded()), EffectAnimate)
	m.Apply(AnimationCompleted(anim.Epoch))
	require.Equal(t, Loading, m.State())
}

func TestMachine_EndToEndScenario(t *testing.T) {
	m := newTestMachine(t)
	assert.Equal(t, Idle, m.State())

	effects := m.Apply(DragUpdate(40))
	assert.Equal(t, PullingBelowThreshold, m.State())
	assert.Equal(t, []Effect{{Kind: EffectReposition, Position: 40}}, effects)

	m.Apply(DragUpdate(80))
	assert.Equal(t, PullingAboveThreshold, m.State())

	effects = m.Apply(DragEnded())
	assert.Equal(t, ReleasedAboveThreshold, m.State())
	assert.Equal(t, []EffectKind{EffectAnimate, EffectValueChanged}, effectKinds(effects))
	anim := effects[0]
	assert.Equal(t, 50.0, anim.Position)
	assert.Equal(t, DefaultPositionDuration, anim.Duration)

	effects = m.Apply(AnimationCompleted(anim.Epoch))
	assert.Equal(t, Loading, m.State())
	assert.Equal(t, []EffectKind{EffectStartAnimator, EffectLoadStarted}, effectKinds(effects))
	assert.Equal(t, 50.0, m.Distance())

	effects = m.Finish()
	assert.Equal(t, Idle, m.State())
	assert.Equal(t, []EffectKind{EffectStopAnimator, EffectFlushGesture, EffectAnimate}, effectKinds(effects))
	assert.Equal(t, 0.0, effects[2].Position)
}

func TestMachine_ReleaseBelowThresholdReturnsToIdle(t *testing.T) {
	m := newTestMachine(t)

	m.Apply(DragUpdate(30))
	effects := m.Apply(DragEnded())
	require.Equal(t, ReleasedBelowThreshold, m.State())
	anim := findEffect(t, effects, EffectAnimate)
	assert.Equal(t, 0.0, anim.Position)

	effects = m.Apply(AnimationCompleted(anim.Epoch))
	assert.Equal(t, Idle, m.State())
	assert.Equal(t, []EffectKind{EffectStopAnimator, EffectFlushGesture}, effectKinds(effects))
}

func TestMachine_ReleaseAboveNeverReachesIdleDirectly(t *testing.T) {
	for _, cancel := range []bool{false, true} {
		m := newTestMachine(t)
		m.Apply(DragUpdate(120))

		var effects []Effect
		if cancel {
			effects = m.Apply(DragCancelled())
		} else {
			effects = m.Apply(DragEnded())
		}
		assert.Equal(t, ReleasedAboveThreshold, m.State())

		anim := findEffect(t, effects, EffectAnimate)
		m.Apply(AnimationCompleted(anim.Epoch))
		assert.Equal(t, Loading, m.State(), "cancel=%v", cancel)
	}
}

func TestMachine_CrossingThresholdAlternatesStates(t *testing.T) {
	m := newTestMachine(t)

	var seen []State
	m.Observe(ObserverFunc(func(from, to State, _ float64) {
		seen = append(seen, to)
	}))

	for d := 10.0; d <= 100; d += 10 {
		m.Apply(DragUpdate(d))
		assert.Equal(t, d >= 70, m.State() == PullingAboveThreshold, "distance %v", d)
	}
	for d := 90.0; d >= 10; d -= 10 {
		m.Apply(DragUpdate(d))
		assert.Equal(t, d >= 70, m.State() == PullingAboveThreshold, "distance %v", d)
	}

	assert.Equal(t, []State{PullingBelowThreshold, PullingAboveThreshold, PullingBelowThreshold}, seen)
}

func TestMachine_FinishOutsideLoadingIsNoOp(t *testing.T) {
	m := newTestMachine(t)
	assert.Empty(t, m.Finish())
	assert.Equal(t, Idle, m.State())

	m.Apply(DragUpdate(30))
	assert.Empty(t, m.Finish())
	assert.Equal(t, PullingBelowThreshold, m.State())
}

func TestMachine_IdleIgnoresZeroDistanceAndRelease(t *testing.T) {
	m := newTestMachine(t)
	assert.Empty(t, m.Apply(DragUpdate(0)))
	assert.Empty(t, m.Apply(DragUpdate(-20)))
	assert.Empty(t, m.Apply(DragEnded()))
	assert.Equal(t, Idle, m.State())
}

func TestMachine_NewDragCancelsPendingCompletion(t *testing.T) {
	m := newTestMachine(t)
	m.Apply(DragUpdate(90))
	anim := findEffect(t, m.Apply(DragEnded()), EffectAnimate)

	// The user grabs the overlay again before it settled.
	m.Apply(DragUpdate(30))
	assert.Equal(t, PullingBelowThreshold, m.State())

	assert.Empty(t, m.Apply(AnimationCompleted(anim.Epoch)))
	assert.Equal(t, PullingBelowThreshold, m.State())

	// Releasing again issues a fresh animation with a new epoch.
	next := findEffect(t, m.Apply(DragEnded()), EffectAnimate)
	assert.Greater(t, next.Epoch, anim.Epoch)
	m.Apply(AnimationCompleted(next.Epoch))
	assert.Equal(t, Idle, m.State())
}

func TestMachine_StaleEpochIsIgnored(t *testing.T) {
	m := newTestMachine(t)
	m.Apply(DragUpdate(30))
	anim := findEffect(t, m.Apply(DragEnded()), EffectAnimate)

	assert.Empty(t, m.Apply(AnimationCompleted(anim.Epoch+1)))
	assert.Equal(t, ReleasedBelowThreshold, m.State())

	m.Apply(AnimationCompleted(anim.Epoch))
	assert.Equal(t, Idle, m.State())

	// A duplicate completion does nothing.
	assert.Empty(t, m.Apply(AnimationCompleted(anim.Epoch)))
}

func TestMachine_LoadingAndScrolled(t *testing.T) {
	m := newTestMachine(t)
	startLoading(t, m)

	effects := m.Apply(DragUpdate(30))
	assert.Equal(t, LoadingAndScrolled, m.State())
	assert.Equal(t, []EffectKind{EffectReposition}, effectKinds(effects))

	// Scrolling back onto the reveal offset re-enters Loading.
	m.Apply(DragUpdate(50))
	assert.Equal(t, Loading, m.State())

	m.Apply(DragUpdate(65))
	assert.Equal(t, LoadingAndScrolled, m.State())

	anim := findEffect(t, m.Apply(DragEnded()), EffectAnimate)
	assert.Equal(t, 50.0, anim.Position)
	assert.Equal(t, LoadingAndScrolled, m.State())

	m.Apply(AnimationCompleted(anim.Epoch))
	assert.Equal(t, Loading, m.State())
}

func TestMachine_LoadingScrolledAwaySkipsReanimation(t *testing.T) {
	m := newTestMachine(t)
	startLoading(t, m)

	m.Apply(DragUpdate(0))
	effects := m.Apply(DragEnded())
	assert.Empty(t, effects)
	assert.Equal(t, LoadingAndScrolled, m.State())

	effects = m.Finish()
	assert.Equal(t, Idle, m.State())
	assert.Contains(t, effectKinds(effects), EffectStopAnimator)
}

func TestMachine_ReleaseAtRevealDoesNotAnimate(t *testing.T) {
	m := newTestMachine(t)
	startLoading(t, m)

	m.Apply(DragUpdate(50.2))
	assert.Empty(t, m.Apply(DragEnded()))
	assert.Equal(t, Loading, m.State())
}

func TestMachine_GestureNeverEndsLoading(t *testing.T) {
	property := func(distances []uint8, ends []bool) bool {
		m, err := NewMachine(DefaultConfig())
		if err != nil {
			return false
		}
		m.Apply(DragUpdate(100))
		anim := m.Apply(DragEnded())[0]
		m.Apply(AnimationCompleted(anim.Epoch))

		for i, d := range distances {
			m.Apply(DragUpdate(float64(d)))
			if i < len(ends) && ends[i] {
				for _, e := range m.Apply(DragEnded()) {
					if e.Kind == EffectAnimate {
						m.Apply(AnimationCompleted(e.Epoch))
					}
				}
			}
			if !m.State().IsLoading() {
				return false
			}
		}
		return true
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestMachine_CalibrateWhileLoading(t *testing.T) {
	m := newTestMachine(t)
	startLoading(t, m)
	before := m.Snapshot()

	effects := m.Calibrate()
	assert.Equal(t, Idle, m.State())
	assert.Equal(t,
		[]EffectKind{EffectLoadCancelled, EffectStopAnimator, EffectFlushGesture, EffectReposition},
		effectKinds(effects))
	assert.False(t, m.Snapshot().Pending)
	assert.Equal(t, before.Epoch, m.Snapshot().Epoch)

	// A finish for the cancelled episode arrives late.
	assert.Empty(t, m.Finish())
}

func TestMachine_CalibrateDropsPendingRelease(t *testing.T) {
	m := newTestMachine(t)
	m.Apply(DragUpdate(100))
	anim := findEffect(t, m.Apply(DragEnded()), EffectAnimate)

	effects := m.Calibrate()
	assert.NotContains(t, effectKinds(effects), EffectLoadCancelled)

	assert.Empty(t, m.Apply(AnimationCompleted(anim.Epoch)))
	assert.Equal(t, Idle, m.State())
}

func TestMachine_DistanceIsClamped(t *testing.T) {
	m := newTestMachine(t)
	effects := m.Apply(DragUpdate(1000))
	assert.Equal(t, DefaultMaxPull, effects[0].Position)
	assert.Equal(t, DefaultMaxPull, m.Distance())
}

func TestTransition_IsPure(t *testing.T) {
	cfg := DefaultConfig()
	s := Snapshot{State: PullingAboveThreshold, Distance: 90}

	a, ea := Transition(cfg, s, DragEnded())
	b, eb := Transition(cfg, s, DragEnded())

	assert.Equal(t, a, b)
	assert.Equal(t, ea, eb)
	assert.Equal(t, PullingAboveThreshold, s.State, "input snapshot must not change")
}

func TestNewMachine_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TriggerThreshold = -1

	m, err := NewMachine(cfg)
	assert.Nil(t, m)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"scrollable", func(c *Config) { c.Mode = ModeScrollable }, false},
		{"zero reveal", func(c *Config) { c.RevealOffset = 0 }, false},
		{"negative threshold", func(c *Config) { c.TriggerThreshold = -5 }, true},
		{"zero threshold", func(c *Config) { c.TriggerThreshold = 0 }, true},
		{"threshold above max", func(c *Config) { c.TriggerThreshold = 200 }, true},
		{"zero max pull", func(c *Config) { c.MaxPull = 0 }, true},
		{"negative reveal", func(c *Config) { c.RevealOffset = -1 }, true},
		{"reveal above max", func(c *Config) { c.RevealOffset = 170 }, true},
		{"zero duration", func(c *Config) { c.PositionDuration = 0 }, true},
		{"unknown mode", func(c *Config) { c.Mode = Mode(9) }, true},
		{"short duration", func(c *Config) { c.PositionDuration = time.Millisecond }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pulling-below", PullingBelowThreshold.String())
	assert.Equal(t, "pulling-above", PullingAboveThreshold.String())
	assert.Equal(t, "released-below", ReleasedBelowThreshold.String())
	assert.Equal(t, "released-above", ReleasedAboveThreshold.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "loading-scrolled", LoadingAndScrolled.String())
	assert.Equal(t, "unknown", State(42).String())
}
