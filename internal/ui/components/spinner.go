package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Elpulgo/pullrefresh/internal/ui/styles"
)

// LoadingIndicator shows a small moon spinner in the status bar while a
// snapshot is being collected. It wraps the bubbles spinner component.
type LoadingIndicator struct {
	styles  *styles.Styles
	spinner spinner.Model
	message string
	visible bool
}

// NewLoadingIndicator creates a hidden LoadingIndicator.
func NewLoadingIndicator(s *styles.Styles) *LoadingIndicator {
	sp := spinner.New()
	sp.Spinner = spinner.Moon
	sp.Style = s.Spinner

	return &LoadingIndicator{
		styles:  s,
		spinner: sp,
		message: "Collecting...",
	}
}

// SetStyles applies a new theme.
func (l *LoadingIndicator) SetStyles(s *styles.Styles) {
	l.styles = s
	l.spinner.Style = s.Spinner
}

// SetMessage sets the loading message to display.
func (l *LoadingIndicator) SetMessage(msg string) {
	l.message = msg
}

// SetVisible shows or hides the indicator. Showing a hidden indicator
// returns the tick that starts the spinner.
func (l *LoadingIndicator) SetVisible(visible bool) tea.Cmd {
	wasVisible := l.visible
	l.visible = visible
	if visible && !wasVisible {
		return l.spinner.Tick
	}
	return nil
}

// IsVisible returns whether the loading indicator is currently visible.
func (l *LoadingIndicator) IsVisible() bool {
	return l.visible
}

// Update advances the spinner. Ticks stop once the indicator is hidden.
func (l *LoadingIndicator) Update(msg tea.Msg) (*LoadingIndicator, tea.Cmd) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || !l.visible {
		return l, nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(tick)
	return l, cmd
}

// View renders the loading indicator.
// Returns an empty string if not visible.
func (l *LoadingIndicator) View() string {
	if !l.visible {
		return ""
	}
	return l.spinner.View() + " " + l.styles.Spinner.Render(l.message)
}
