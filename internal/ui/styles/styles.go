// Package styles turns a Theme into the lipgloss styles used by the UI.
package styles

import "github.com/charmbracelet/lipgloss"

// Styles holds the pre-computed lipgloss styles for a Theme.
type Styles struct {
	Theme Theme

	ModalBox lipgloss.Style

	// Text
	Header      lipgloss.Style
	Title       lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Muted       lipgloss.Style
	Bold        lipgloss.Style
	Key         lipgloss.Style
	Description lipgloss.Style

	// Status
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	Spinner    lipgloss.Style
	ScrollInfo lipgloss.Style
	StatusBar  lipgloss.Style

	// Refresh indicator
	Hint       lipgloss.Style // "pull to refresh"
	Armed      lipgloss.Style // "release to refresh"
	Refreshing lipgloss.Style
}

// NewStyles creates a new Styles instance from the given theme.
func NewStyles(theme Theme) *Styles {
	s := &Styles{
		Theme: theme,
	}

	s.ModalBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Background(theme.BackgroundAlt).
		Padding(1, 2)

	s.Header = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	s.Title = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	s.Label = lipgloss.NewStyle().
		Foreground(theme.Secondary)

	s.Value = lipgloss.NewStyle().
		Foreground(theme.Foreground)

	s.Muted = lipgloss.NewStyle().
		Foreground(theme.ForegroundMuted)

	s.Bold = lipgloss.NewStyle().
		Foreground(theme.ForegroundBold).
		Bold(true)

	s.Key = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	s.Description = lipgloss.NewStyle().
		Foreground(theme.Foreground)

	s.Success = lipgloss.NewStyle().Foreground(theme.Success)
	s.Warning = lipgloss.NewStyle().Foreground(theme.Warning)
	s.Error = lipgloss.NewStyle().Foreground(theme.Error)

	s.Spinner = lipgloss.NewStyle().
		Foreground(theme.Spinner)

	s.ScrollInfo = lipgloss.NewStyle().
		Foreground(theme.Secondary)

	s.StatusBar = lipgloss.NewStyle().
		Background(theme.Background).
		Foreground(theme.Foreground).
		Padding(0, 1)

	s.Hint = lipgloss.NewStyle().
		Foreground(theme.ForegroundMuted).
		Italic(true)

	s.Armed = lipgloss.NewStyle().
		Foreground(theme.Warning).
		Bold(true)

	s.Refreshing = lipgloss.NewStyle().
		Foreground(theme.Success)

	return s
}

// DefaultStyles returns styles using the default dark theme.
func DefaultStyles() *Styles {
	return NewStyles(GetDefaultTheme())
}
