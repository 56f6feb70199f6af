package refresh

import "fmt"

// Observer is notified after every state change.
type Observer interface {
	StateChanged(from, to State, distance float64)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(from, to State, distance float64)

// StateChanged calls f.
func (f ObserverFunc) StateChanged(from, to State, distance float64) {
	f(from, to, distance)
}

// Machine owns the snapshot of a single refresh control and applies events
// to it. A Machine is not safe for concurrent use; it is meant to be driven
// from one event loop.
type Machine struct {
	cfg       Config
	snap      Snapshot
	observers []Observer
}

// NewMachine creates a Machine in the Idle state.
func NewMachine(cfg Config) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create refresh machine: %w", err)
	}
	return &Machine{cfg: cfg}, nil
}

// Observe registers an observer for state changes.
func (m *Machine) Observe(o Observer) {
	m.observers = append(m.observers, o)
}

// Apply feeds ev into the machine and returns the effects to perform.
func (m *Machine) Apply(ev Event) []Effect {
	prev := m.snap.State
	next, effects := Transition(m.cfg, m.snap, ev)
	m.snap = next

	if next.State != prev {
		for _, o := range m.observers {
			o.StateChanged(prev, next.State, next.Distance)
		}
	}

	return effects
}

// Finish ends the current loading episode. It is a no-op outside Loading and
// LoadingAndScrolled.
func (m *Machine) Finish() []Effect {
	return m.Apply(LoadFinished())
}

// Calibrate forces the machine back to Idle, cancelling any loading episode.
func (m *Machine) Calibrate() []Effect {
	return m.Apply(Calibrate())
}

// State returns the current state.
func (m *Machine) State() State {
	return m.snap.State
}

// Distance returns the last known pull distance.
func (m *Machine) Distance() float64 {
	return m.snap.Distance
}

// Snapshot returns a copy of the full machine state.
func (m *Machine) Snapshot() Snapshot {
	return m.snap
}

// Config returns the machine configuration.
func (m *Machine) Config() Config {
	return m.cfg
}
