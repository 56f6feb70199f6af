package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Elpulgo/pullrefresh/internal/ui/styles"
)

// ThemeSelectedMsg is sent when a theme is selected
type ThemeSelectedMsg struct {
	ThemeName string
}

var (
	pickerUp     = key.NewBinding(key.WithKeys("up", "k"))
	pickerDown   = key.NewBinding(key.WithKeys("down", "j"))
	pickerSelect = key.NewBinding(key.WithKeys("enter"))
	pickerCancel = key.NewBinding(key.WithKeys("esc", "q"))
)

// ThemePicker is a modal for choosing a theme. Each entry previews the
// theme's refresh indicator palette.
type ThemePicker struct {
	styles       *styles.Styles
	visible      bool
	width        int
	height       int
	themes       []styles.Theme
	currentTheme string
	cursor       int
}

// NewThemePicker creates a theme picker over the named themes. Unknown
// names are skipped.
func NewThemePicker(appStyles *styles.Styles, names []string, currentTheme string) ThemePicker {
	t := ThemePicker{styles: appStyles}
	for _, name := range names {
		if theme, err := styles.GetThemeByName(name); err == nil {
			t.themes = append(t.themes, theme)
		}
	}
	t.SetCurrent(currentTheme)
	return t
}

// SetCurrent marks the active theme and moves the cursor to it.
func (t *ThemePicker) SetCurrent(name string) {
	t.currentTheme = name
	for i, theme := range t.themes {
		if theme.Name == name {
			t.cursor = i
			return
		}
	}
}

// SetStyles applies a new theme to the picker itself.
func (t *ThemePicker) SetStyles(s *styles.Styles) {
	t.styles = s
}

// Show makes the theme picker visible
func (t *ThemePicker) Show() {
	t.visible = true
}

// Hide makes the theme picker invisible
func (t *ThemePicker) Hide() {
	t.visible = false
}

// IsVisible returns whether the theme picker is visible
func (t ThemePicker) IsVisible() bool {
	return t.visible
}

// SetSize sets the dimensions for centering
func (t *ThemePicker) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// GetCursor returns the current cursor position
func (t ThemePicker) GetCursor() int {
	return t.cursor
}

// Update handles messages
func (t ThemePicker) Update(msg tea.Msg) (ThemePicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !t.visible || !ok {
		return t, nil
	}

	switch {
	case key.Matches(keyMsg, pickerCancel):
		t.visible = false

	case key.Matches(keyMsg, pickerUp):
		if t.cursor > 0 {
			t.cursor--
		}

	case key.Matches(keyMsg, pickerDown):
		if t.cursor < len(t.themes)-1 {
			t.cursor++
		}

	case key.Matches(keyMsg, pickerSelect):
		if len(t.themes) == 0 {
			return t, nil
		}
		selected := t.themes[t.cursor].Name
		t.visible = false
		return t, func() tea.Msg {
			return ThemeSelectedMsg{ThemeName: selected}
		}
	}
	return t, nil
}

// View renders the theme picker
func (t ThemePicker) View() string {
	if !t.visible {
		return ""
	}

	var list strings.Builder
	for i, theme := range t.themes {
		cursor := "  "
		name := t.styles.Value.Render(theme.Name)
		if i == t.cursor {
			cursor = t.styles.Key.Render("> ")
			name = t.styles.Bold.Render(theme.Name)
		}

		line := cursor + lipgloss.NewStyle().Width(14).Render(name) + swatch(theme)
		if theme.Name == t.currentTheme {
			line += t.styles.Muted.Render(" (current)")
		}
		list.WriteString(line + "\n")
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		t.styles.Title.Render("Select Theme"),
		"",
		list.String(),
		t.styles.Muted.Render("↑/↓: navigate • enter: select • esc/q: cancel"),
	)

	modal := t.styles.ModalBox.BorderForeground(t.styles.Theme.Border).Render(content)
	return placeCentered(t.width, t.height, modal)
}

// swatch renders one moon glyph per palette colour.
func swatch(theme styles.Theme) string {
	var b strings.Builder
	for _, c := range theme.Palette {
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render("●"))
	}
	return b.String()
}
