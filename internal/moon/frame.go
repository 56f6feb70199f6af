// Package moon derives the loading indicator's appearance from elapsed time:
// a crescent that sweeps across a disc, a colour progression through a
// palette and a steady rotation. Every value is a pure function of the
// elapsed time and the Config.
package moon

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Default timings of the indicator.
const (
	DefaultCycleDuration    = 700 * time.Millisecond
	DefaultRotationDuration = time.Second
)

// logisticSpan is the half-width of the logistic curve's input window.
const logisticSpan = 6.0

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid moon configuration")

// DefaultPalette is red, orange, yellow, green, blue.
var DefaultPalette = []lipgloss.Color{
	"#e74c3c",
	"#e67e22",
	"#f1c40f",
	"#2ecc71",
	"#3498db",
}

// Config controls the animation.
type Config struct {
	CycleDuration    time.Duration
	RotationDuration time.Duration
	BaseAngle        float64 // radians

	// Palette cycles once per CycleDuration. When empty, Fill and
	// Background are used for every frame.
	Palette    []lipgloss.Color
	Fill       lipgloss.Color
	Background lipgloss.Color
}

// DefaultConfig returns the default timings and palette.
func DefaultConfig() Config {
	palette := make([]lipgloss.Color, len(DefaultPalette))
	copy(palette, DefaultPalette)

	return Config{
		CycleDuration:    DefaultCycleDuration,
		RotationDuration: DefaultRotationDuration,
		Palette:          palette,
		Fill:             "#000000",
		Background:       palette[len(palette)-1],
	}
}

// Validate checks durations and colour syntax.
func (c Config) Validate() error {
	if c.CycleDuration <= 0 {
		return fmt.Errorf("%w: cycle duration must be greater than 0, got %v", ErrInvalidConfig, c.CycleDuration)
	}
	if c.RotationDuration <= 0 {
		return fmt.Errorf("%w: rotation duration must be greater than 0, got %v", ErrInvalidConfig, c.RotationDuration)
	}
	for i, col := range c.Palette {
		if err := validateColor(col); err != nil {
			return fmt.Errorf("%w: palette[%d]: %v", ErrInvalidConfig, i, err)
		}
	}
	if err := validateColor(c.Fill); err != nil {
		return fmt.Errorf("%w: fill: %v", ErrInvalidConfig, err)
	}
	if err := validateColor(c.Background); err != nil {
		return fmt.Errorf("%w: background: %v", ErrInvalidConfig, err)
	}
	return nil
}

// validateColor accepts "#rrggbb" hex colours and ANSI colour numbers.
// Empty colours mean "terminal default".
func validateColor(c lipgloss.Color) error {
	s := string(c)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "#") {
		if _, err := colorful.Hex(s); err != nil {
			return fmt.Errorf("invalid hex colour %q", s)
		}
		return nil
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 0 || n > 255 || fmt.Sprint(n) != s {
		return fmt.Errorf("invalid colour %q, want #rrggbb or 0-255", s)
	}
	return nil
}

// Frame is the indicator's appearance at one instant.
type Frame struct {
	Elapsed    time.Duration
	Path       float64 // sweep of the crescent in [0, 1]
	Fill       lipgloss.Color
	Background lipgloss.Color
	Angle      float64 // radians
}

// FrameAt computes the frame for the given elapsed time.
func (c Config) FrameAt(elapsed time.Duration) Frame {
	fill, bg := c.ColorsWithInterval(elapsed)
	return Frame{
		Elapsed:    elapsed,
		Path:       c.PathAtInterval(elapsed),
		Fill:       fill,
		Background: bg,
		Angle:      c.AngleAtInterval(elapsed),
	}
}

// PathAtInterval returns the crescent sweep for the elapsed time. Within a
// cycle it follows a logistic S-curve, so the sweep accelerates through the
// middle of the cycle and settles at both ends.
func (c Config) PathAtInterval(elapsed time.Duration) float64 {
	cycle := c.CycleDuration.Seconds()
	remainder := remainderOf(elapsed, c.CycleDuration).Seconds()
	return logistic(remainder, cycle, cycle) / cycle
}

// ColorsWithInterval returns the fill colour of the current cycle and, as
// background, the colour of the previous one.
func (c Config) ColorsWithInterval(elapsed time.Duration) (fill, background lipgloss.Color) {
	n := len(c.Palette)
	if n == 0 {
		return c.Fill, c.Background
	}

	cycle := int(elapsed / c.CycleDuration)
	i := cycle % n
	if i < 0 {
		i += n
	}
	return c.Palette[i], c.Palette[(i-1+n)%n]
}

// AngleAtInterval returns the rotation for the elapsed time.
func (c Config) AngleAtInterval(elapsed time.Duration) float64 {
	r := remainderOf(elapsed, c.RotationDuration)
	return c.BaseAngle + r.Seconds()*2*math.Pi/c.RotationDuration.Seconds()
}

// logistic maps x in [0, upperX] onto an S-curve in [0, upperY].
func logistic(x, upperX, upperY float64) float64 {
	scaled := 2*logisticSpan*x/upperX - logisticSpan
	return upperY / (1 + math.Exp(-scaled))
}

// remainderOf returns elapsed modulo period, always non-negative.
func remainderOf(elapsed, period time.Duration) time.Duration {
	r := elapsed % period
	if r < 0 {
		r += period
	}
	return r
}

// Blend mixes two colours; t=0 yields a, t=1 yields b. Colours that are not
// hex are returned unblended.
func Blend(a, b lipgloss.Color, t float64) lipgloss.Color {
	ca, errA := colorful.Hex(string(a))
	cb, errB := colorful.Hex(string(b))
	if errA != nil || errB != nil {
		if t < 0.5 {
			return a
		}
		return b
	}
	t = math.Max(0, math.Min(1, t))
	return lipgloss.Color(ca.BlendLab(cb, t).Clamped().Hex())
}
