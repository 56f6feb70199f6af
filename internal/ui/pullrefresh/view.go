package pullrefresh

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Elpulgo/pullrefresh/internal/moon"
	"github.com/Elpulgo/pullrefresh/internal/refresh"
)

// maxMoonRows caps the size of the indicator disc.
const maxMoonRows = 3

// View renders the indicator above the content. The indicator takes as many
// rows as the displayed displacement covers; the content is pushed down by
// the same amount and cut at the bottom.
func (m *Model) View() string {
	rows := m.IndicatorRows()
	content := m.viewport.View()

	if rows == 0 {
		return content
	}

	var lines []string
	lines = append(lines, strings.Split(m.renderIndicator(rows), "\n")...)
	if m.height <= 0 {
		lines = append(lines, content)
		return strings.Join(lines, "\n")
	}

	remaining := m.height - rows
	if remaining > 0 {
		contentLines := strings.Split(content, "\n")
		if len(contentLines) > remaining {
			contentLines = contentLines[:remaining]
		}
		lines = append(lines, contentLines...)
	}
	if len(lines) > m.height {
		lines = lines[:m.height]
	}
	return strings.Join(lines, "\n")
}

// IndicatorRows returns how many rows the indicator currently occupies.
func (m *Model) IndicatorRows() int {
	rows := int(math.Floor(m.position / m.cfg.UnitsPerRow))
	if m.height > 0 && rows > m.height {
		rows = m.height
	}
	if rows < 0 {
		return 0
	}
	return rows
}

func (m *Model) renderIndicator(rows int) string {
	moonRows := rows
	if moonRows > maxMoonRows {
		moonRows = maxMoonRows
	}
	disc := moon.Render(m.indicatorFrame(), moonRows*2, moonRows)

	block := disc
	if label := m.label(); label != "" {
		block = lipgloss.JoinHorizontal(lipgloss.Center, disc, "  ", label)
	}

	width := m.width
	if width <= 0 {
		width = lipgloss.Width(block)
	}
	return lipgloss.Place(width, rows, lipgloss.Center, lipgloss.Bottom, block)
}

// indicatorFrame returns the animator's frame while loading, and otherwise a
// still frame whose sweep tracks the pull progress.
func (m *Model) indicatorFrame() moon.Frame {
	if m.animator.Running() {
		return m.animator.Frame()
	}

	progress := m.position / m.cfg.Refresh.TriggerThreshold
	progress = math.Max(0, math.Min(1, progress))

	cfg := m.cfg.Moon
	frame := moon.Frame{
		Path:       progress,
		Fill:       cfg.Fill,
		Background: cfg.Background,
		Angle:      cfg.BaseAngle,
	}
	if n := len(cfg.Palette); n > 0 {
		frame.Background = cfg.Palette[n-1]
		frame.Fill = moon.Blend(cfg.Palette[n-1], cfg.Palette[0], progress)
	}
	return frame
}

func (m *Model) label() string {
	switch state := m.machine.State(); {
	case state.IsLoading() || state == refresh.ReleasedAboveThreshold:
		return m.styles.Refreshing.Render("refreshing…")
	case state == refresh.PullingAboveThreshold:
		return m.styles.Armed.Render("release to refresh")
	case state == refresh.PullingBelowThreshold:
		return m.styles.Hint.Render("pull to refresh")
	}
	return ""
}
