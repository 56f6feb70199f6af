package styles

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// themeRegistry holds all built-in themes
var themeRegistry = map[string]Theme{
	"dark":       darkTheme,
	"gruvbox":    gruvboxTheme,
	"nord":       nordTheme,
	"dracula":    draculaTheme,
	"catppuccin": catppuccinTheme,
}

// GetThemeByName returns a theme by name.
// Returns ErrThemeNotFound if the theme doesn't exist.
func GetThemeByName(name string) (Theme, error) {
	theme, ok := themeRegistry[name]
	if !ok {
		return Theme{}, ErrThemeNotFound
	}
	return theme, nil
}

// GetThemeByNameWithFallback returns a theme by name, falling back to the default
// theme if the requested theme doesn't exist.
func GetThemeByNameWithFallback(name string) Theme {
	theme, err := GetThemeByName(name)
	if err != nil {
		return GetDefaultTheme()
	}
	return theme
}

// GetDefaultTheme returns the default dark theme.
func GetDefaultTheme() Theme {
	return darkTheme
}

// ListAvailableThemes returns a sorted list of all available theme names.
func ListAvailableThemes() []string {
	names := make([]string, 0, len(themeRegistry))
	for name := range themeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var darkTheme = Theme{
	Name: "dark",

	Primary:   lipgloss.Color("33"),  // blue
	Secondary: lipgloss.Color("39"),  // cyan
	Accent:    lipgloss.Color("212"), // magenta

	Success: lipgloss.Color("42"),
	Warning: lipgloss.Color("214"),
	Error:   lipgloss.Color("196"),

	Background:    lipgloss.Color("236"),
	BackgroundAlt: lipgloss.Color("235"),

	Foreground:      lipgloss.Color("252"),
	ForegroundMuted: lipgloss.Color("243"),
	ForegroundBold:  lipgloss.Color("255"),

	Border:  lipgloss.Color("240"),
	Spinner: lipgloss.Color("212"),

	// red, orange, yellow, green, blue
	Palette: []lipgloss.Color{"#e74c3c", "#e67e22", "#f1c40f", "#2ecc71", "#3498db"},
}

var gruvboxTheme = Theme{
	Name: "gruvbox",

	Primary:   lipgloss.Color("#458588"),
	Secondary: lipgloss.Color("#689d6a"),
	Accent:    lipgloss.Color("#d3869b"),

	Success: lipgloss.Color("#b8bb26"),
	Warning: lipgloss.Color("#fabd2f"),
	Error:   lipgloss.Color("#fb4934"),

	Background:    lipgloss.Color("#282828"),
	BackgroundAlt: lipgloss.Color("#1d2021"),

	Foreground:      lipgloss.Color("#ebdbb2"),
	ForegroundMuted: lipgloss.Color("#928374"),
	ForegroundBold:  lipgloss.Color("#fbf1c7"),

	Border:  lipgloss.Color("#504945"),
	Spinner: lipgloss.Color("#d3869b"),

	Palette: []lipgloss.Color{"#fb4934", "#fe8019", "#fabd2f", "#b8bb26", "#83a598"},
}

var nordTheme = Theme{
	Name: "nord",

	Primary:   lipgloss.Color("#81a1c1"), // nord9
	Secondary: lipgloss.Color("#88c0d0"), // nord8
	Accent:    lipgloss.Color("#b48ead"), // nord15

	Success: lipgloss.Color("#a3be8c"),
	Warning: lipgloss.Color("#ebcb8b"),
	Error:   lipgloss.Color("#bf616a"),

	Background:    lipgloss.Color("#2e3440"),
	BackgroundAlt: lipgloss.Color("#3b4252"),

	Foreground:      lipgloss.Color("#eceff4"),
	ForegroundMuted: lipgloss.Color("#4c566a"),
	ForegroundBold:  lipgloss.Color("#eceff4"),

	Border:  lipgloss.Color("#4c566a"),
	Spinner: lipgloss.Color("#b48ead"),

	// aurora
	Palette: []lipgloss.Color{"#bf616a", "#d08770", "#ebcb8b", "#a3be8c", "#5e81ac"},
}

var draculaTheme = Theme{
	Name: "dracula",

	Primary:   lipgloss.Color("#bd93f9"),
	Secondary: lipgloss.Color("#8be9fd"),
	Accent:    lipgloss.Color("#ff79c6"),

	Success: lipgloss.Color("#50fa7b"),
	Warning: lipgloss.Color("#f1fa8c"),
	Error:   lipgloss.Color("#ff5555"),

	Background:    lipgloss.Color("#282a36"),
	BackgroundAlt: lipgloss.Color("#21222c"),

	Foreground:      lipgloss.Color("#f8f8f2"),
	ForegroundMuted: lipgloss.Color("#6272a4"),
	ForegroundBold:  lipgloss.Color("#f8f8f2"),

	Border:  lipgloss.Color("#6272a4"),
	Spinner: lipgloss.Color("#ff79c6"),

	Palette: []lipgloss.Color{"#ff5555", "#ffb86c", "#f1fa8c", "#50fa7b", "#8be9fd"},
}

// Catppuccin Mocha
var catppuccinTheme = Theme{
	Name: "catppuccin",

	Primary:   lipgloss.Color("#89b4fa"),
	Secondary: lipgloss.Color("#94e2d5"),
	Accent:    lipgloss.Color("#cba6f7"),

	Success: lipgloss.Color("#a6e3a1"),
	Warning: lipgloss.Color("#f9e2af"),
	Error:   lipgloss.Color("#f38ba8"),

	Background:    lipgloss.Color("#1e1e2e"),
	BackgroundAlt: lipgloss.Color("#181825"),

	Foreground:      lipgloss.Color("#cdd6f4"),
	ForegroundMuted: lipgloss.Color("#6c7086"),
	ForegroundBold:  lipgloss.Color("#cdd6f4"),

	Border:  lipgloss.Color("#585b70"),
	Spinner: lipgloss.Color("#f5c2e7"),

	Palette: []lipgloss.Color{"#f38ba8", "#fab387", "#f9e2af", "#a6e3a1", "#89b4fa"},
}
