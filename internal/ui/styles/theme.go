package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme defines the colours of the application. Colours are ANSI 256
// numbers (e.g. "33") or hex values (e.g. "#7c6f64").
type Theme struct {
	Name string

	// Emphasis
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Status
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Backgrounds
	Background    lipgloss.Color // main background, status bar
	BackgroundAlt lipgloss.Color // modals

	// Text
	Foreground      lipgloss.Color
	ForegroundMuted lipgloss.Color
	ForegroundBold  lipgloss.Color

	Border  lipgloss.Color
	Spinner lipgloss.Color

	// Palette is the colour progression of the refresh indicator. Entries
	// must be hex colours so they can be blended.
	Palette []lipgloss.Color
}

// Validate checks that the theme has a name and a usable palette.
func (t Theme) Validate() error {
	if t.Name == "" {
		return ErrThemeNameRequired
	}
	if len(t.Palette) == 0 {
		return ThemeError{Message: fmt.Sprintf("theme %q has an empty palette", t.Name)}
	}
	for i, c := range t.Palette {
		if _, err := colorful.Hex(string(c)); err != nil {
			return ThemeError{Message: fmt.Sprintf("theme %q palette[%d]: invalid hex colour %q", t.Name, i, c)}
		}
	}
	return nil
}

// PaletteCopy returns a copy of the palette that callers may modify.
func (t Theme) PaletteCopy() []lipgloss.Color {
	out := make([]lipgloss.Color, len(t.Palette))
	copy(out, t.Palette)
	return out
}

// ThemeError represents errors related to theme operations.
type ThemeError struct {
	Message string
}

func (e ThemeError) Error() string {
	return e.Message
}

// Common theme errors
var (
	ErrThemeNameRequired = ThemeError{Message: "theme name is required"}
	ErrThemeNotFound     = ThemeError{Message: "theme not found"}
)
