// Package components provides the status bar, overlays and pickers that sit
// around the pull-to-refresh view.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Elpulgo/pullrefresh/internal/polling"
	"github.com/Elpulgo/pullrefresh/internal/refresh"
	"github.com/Elpulgo/pullrefresh/internal/sysinfo"
	"github.com/Elpulgo/pullrefresh/internal/ui/styles"
)

// StatusBar displays the host, refresh state, data freshness and help hints
// at the bottom of the screen.
type StatusBar struct {
	styles      *styles.Styles
	host        string
	mode        refresh.Mode
	state       refresh.State
	source      polling.SourceState
	lastRefresh time.Time
	message     string
	loading     string
	helpText    string
	width       int
	now         func() time.Time
}

// NewStatusBar creates a new StatusBar with default values.
func NewStatusBar(s *styles.Styles) *StatusBar {
	return &StatusBar{
		styles:   s,
		source:   polling.StateEmpty,
		helpText: "? help",
		now:      time.Now,
	}
}

// SetStyles applies a new theme.
func (s *StatusBar) SetStyles(st *styles.Styles) {
	s.styles = st
}

// SetHost sets the host name to display.
func (s *StatusBar) SetHost(host string) {
	s.host = host
}

// SetMode sets the refresh mode shown next to the host.
func (s *StatusBar) SetMode(mode refresh.Mode) {
	s.mode = mode
}

// SetState sets the refresh control state.
func (s *StatusBar) SetState(state refresh.State) {
	s.state = state
}

// SetSource sets the freshness of the displayed data.
func (s *StatusBar) SetSource(source polling.SourceState) {
	s.source = source
}

// SetLastRefresh sets the time of the last successful refresh.
func (s *StatusBar) SetLastRefresh(t time.Time) {
	s.lastRefresh = t
}

// SetMessage sets a transient message, e.g. a recovery hint. Empty clears it.
func (s *StatusBar) SetMessage(msg string) {
	s.message = msg
}

// SetLoading sets the rendered loading indicator. Empty hides it.
func (s *StatusBar) SetLoading(view string) {
	s.loading = view
}

// SetHelpText sets custom help text to display.
func (s *StatusBar) SetHelpText(text string) {
	s.helpText = text
}

// SetWidth sets the width of the status bar.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	left := s.renderHost()
	center := s.renderState()
	right := s.renderRight()

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	// Minimum viable width
	width := s.width
	if minWidth := leftLen + centerLen + rightLen + 4; width < minWidth {
		width = minWidth
	}

	remaining := width - leftLen - centerLen - rightLen
	if remaining < 2 {
		remaining = 2
	}
	leftPadding := remaining / 2
	rightPadding := remaining - leftPadding

	// Inline drops the padding and keeps the bar on one line.
	bar := left + strings.Repeat(" ", leftPadding) + center + strings.Repeat(" ", rightPadding) + right
	return s.styles.StatusBar.Inline(true).Render(bar)
}

func (s *StatusBar) renderHost() string {
	host := s.host
	if host == "" {
		host = "localhost"
	}
	return s.styles.Bold.Render(host) + s.styles.Muted.Render(" · "+s.mode.String())
}

func (s *StatusBar) renderState() string {
	parts := []string{s.renderRefreshState(), s.renderSource()}
	if s.loading != "" {
		parts = append(parts, s.loading)
	}
	if s.message != "" {
		parts = append(parts, s.styles.Warning.Render(s.message))
	}
	return strings.Join(parts, "  ")
}

func (s *StatusBar) renderRefreshState() string {
	switch {
	case s.state.IsLoading():
		return s.styles.Refreshing.Render("◐ refreshing")
	case s.state == refresh.PullingAboveThreshold:
		return s.styles.Armed.Render("▼ release")
	case s.state.IsPulling() || s.state.IsReleased():
		return s.styles.Hint.Render("▽ " + s.state.String())
	default:
		return s.styles.Muted.Render("○ idle")
	}
}

func (s *StatusBar) renderSource() string {
	switch s.source {
	case polling.StateFresh:
		return s.styles.Success.Render("● fresh")
	case polling.StateLoading:
		return s.styles.Warning.Render("○ loading")
	case polling.StateStale:
		return s.styles.Warning.Render("◌ stale")
	case polling.StateError:
		return s.styles.Error.Render("✗ error")
	case polling.StateEmpty:
		return s.styles.Muted.Render("○ no data")
	default:
		return s.styles.Muted.Render(fmt.Sprintf("? %s", s.source))
	}
}

func (s *StatusBar) renderRight() string {
	help := s.helpText
	if help == "" {
		help = "? help"
	}
	if s.lastRefresh.IsZero() {
		return s.styles.Muted.Render(help)
	}
	age := s.now().Sub(s.lastRefresh)
	if age < 0 {
		age = 0
	}
	updated := "updated " + sysinfo.HumanAge(age)
	return s.styles.Muted.Render(updated + "  " + help)
}
