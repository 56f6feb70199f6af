package refresh

import (
	"errors"
	"fmt"
	"time"
)

// Default values match the second generation of the control.
const (
	DefaultTriggerThreshold = 70.0
	DefaultRevealOffset     = 50.0
	DefaultMaxPull          = 160.0
	DefaultPositionDuration = 300 * time.Millisecond
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid refresh configuration")

// Mode selects how raw drag input is turned into a pull distance.
type Mode int

const (
	// ModePlain tracks a plain view: distance follows the gesture translation.
	ModePlain Mode = iota
	// ModeScrollable tracks a scrollable container that has its own offset.
	ModeScrollable
)

// String returns a human-readable string for the mode.
func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeScrollable:
		return "scrollable"
	default:
		return "unknown"
	}
}

// Config holds the fixed per-instance parameters of a refresh control.
type Config struct {
	Mode             Mode
	Easing           bool // apply ShiftForDelta in plain mode
	TriggerThreshold float64
	RevealOffset     float64
	MaxPull          float64
	PositionDuration time.Duration
}

// DefaultConfig returns a plain-mode configuration with the default constants.
func DefaultConfig() Config {
	return Config{
		Mode:             ModePlain,
		TriggerThreshold: DefaultTriggerThreshold,
		RevealOffset:     DefaultRevealOffset,
		MaxPull:          DefaultMaxPull,
		PositionDuration: DefaultPositionDuration,
	}
}

// Validate checks the configuration. Runtime transition logic assumes a
// validated configuration and never re-checks these bounds.
func (c Config) Validate() error {
	if c.Mode != ModePlain && c.Mode != ModeScrollable {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, c.Mode)
	}
	if c.MaxPull <= 0 {
		return fmt.Errorf("%w: max pull must be greater than 0, got %v", ErrInvalidConfig, c.MaxPull)
	}
	if c.TriggerThreshold <= 0 {
		return fmt.Errorf("%w: trigger threshold must be greater than 0, got %v", ErrInvalidConfig, c.TriggerThreshold)
	}
	if c.TriggerThreshold > c.MaxPull {
		return fmt.Errorf("%w: trigger threshold %v exceeds max pull %v", ErrInvalidConfig, c.TriggerThreshold, c.MaxPull)
	}
	if c.RevealOffset < 0 || c.RevealOffset > c.MaxPull {
		return fmt.Errorf("%w: reveal offset must be within [0, %v], got %v", ErrInvalidConfig, c.MaxPull, c.RevealOffset)
	}
	if c.PositionDuration <= 0 {
		return fmt.Errorf("%w: position duration must be greater than 0, got %v", ErrInvalidConfig, c.PositionDuration)
	}
	return nil
}

func (c Config) clamp(d float64) float64 {
	if d < 0 {
		return 0
	}
	if d > c.MaxPull {
		return c.MaxPull
	}
	return d
}
