package pullrefresh

import (
	"fmt"
	"time"

	"github.com/Elpulgo/pullrefresh/internal/moon"
	"github.com/Elpulgo/pullrefresh/internal/refresh"
)

const (
	// DefaultUnitsPerRow is the pull distance covered by one terminal row.
	DefaultUnitsPerRow = 10.0

	// DefaultWheelIdle ends a wheel burst when no wheel event arrives
	// within it.
	DefaultWheelIdle = 200 * time.Millisecond
)

// Config configures the component.
type Config struct {
	Refresh     refresh.Config
	Moon        moon.Config
	UnitsPerRow float64
	WheelIdle   time.Duration
}

// DefaultConfig returns the default component configuration.
func DefaultConfig() Config {
	return Config{
		Refresh:     refresh.DefaultConfig(),
		Moon:        moon.DefaultConfig(),
		UnitsPerRow: DefaultUnitsPerRow,
		WheelIdle:   DefaultWheelIdle,
	}
}

// Validate checks the component and the nested configurations.
func (c Config) Validate() error {
	if err := c.Refresh.Validate(); err != nil {
		return err
	}
	if err := c.Moon.Validate(); err != nil {
		return err
	}
	if c.UnitsPerRow <= 0 {
		return fmt.Errorf("%w: units per row must be greater than 0, got %v", refresh.ErrInvalidConfig, c.UnitsPerRow)
	}
	if c.WheelIdle <= 0 {
		return fmt.Errorf("%w: wheel idle must be greater than 0, got %v", refresh.ErrInvalidConfig, c.WheelIdle)
	}
	return nil
}
