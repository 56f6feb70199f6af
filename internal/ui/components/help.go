package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Elpulgo/pullrefresh/internal/ui/styles"
)

// HelpSection represents a group of related keybindings.
type HelpSection struct {
	Title    string
	Bindings []key.Binding
}

// HelpModal is an overlay listing the key bindings. The list is written as
// markdown and rendered with glamour.
type HelpModal struct {
	styles   *styles.Styles
	visible  bool
	width    int
	height   int
	sections []HelpSection
	profile  termenv.Profile

	// rendered caches the glamour output for renderedWidth.
	rendered      string
	renderedWidth int
}

// NewHelpModal creates a hidden HelpModal.
func NewHelpModal(s *styles.Styles, sections ...HelpSection) *HelpModal {
	return &HelpModal{
		styles:   s,
		sections: sections,
		profile:  lipgloss.ColorProfile(),
	}
}

// SetStyles applies a new theme.
func (h *HelpModal) SetStyles(s *styles.Styles) {
	h.styles = s
	h.rendered = ""
}

// Show makes the help modal visible.
func (h *HelpModal) Show() {
	h.visible = true
}

// Hide hides the help modal.
func (h *HelpModal) Hide() {
	h.visible = false
}

// Toggle toggles the help modal visibility.
func (h *HelpModal) Toggle() {
	h.visible = !h.visible
}

// IsVisible returns true if the modal is visible.
func (h *HelpModal) IsVisible() bool {
	return h.visible
}

// SetSize sets the available size for the modal.
func (h *HelpModal) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// AddSection adds a section to the help modal.
func (h *HelpModal) AddSection(title string, bindings ...key.Binding) {
	h.sections = append(h.sections, HelpSection{Title: title, Bindings: bindings})
	h.rendered = ""
}

// Update handles key events for the help modal.
func (h *HelpModal) Update(msg tea.Msg) (*HelpModal, tea.Cmd) {
	if !h.visible {
		return h, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "q", "?":
			h.Hide()
		}
	}
	return h, nil
}

// Markdown returns the help text as a markdown document. Disabled bindings
// are left out.
func (h *HelpModal) Markdown() string {
	var b strings.Builder
	b.WriteString("# Keyboard shortcuts\n")

	for _, section := range h.sections {
		var rows []string
		for _, binding := range section.Bindings {
			if !binding.Enabled() {
				continue
			}
			help := binding.Help()
			rows = append(rows, fmt.Sprintf("| `%s` | %s |", help.Key, help.Desc))
		}
		if len(rows) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n## %s\n\n| Key | Action |\n| --- | --- |\n", section.Title)
		b.WriteString(strings.Join(rows, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\nPull the view down with the mouse or the wheel, past the threshold, to refresh.\n")
	return b.String()
}

// View renders the help modal overlay.
func (h *HelpModal) View() string {
	if !h.visible {
		return ""
	}

	footer := h.styles.Muted.Render("Press esc, q, or ? to close")
	modal := h.styles.ModalBox.Render(h.body() + "\n" + footer)
	return placeCentered(h.width, h.height, modal)
}

func (h *HelpModal) body() string {
	wrap := 60
	if h.width > 0 && h.width-8 < wrap {
		wrap = h.width - 8
	}
	if wrap < 20 {
		wrap = 20
	}
	if h.rendered != "" && h.renderedWidth == wrap {
		return h.rendered
	}

	style := "dark"
	if h.profile == termenv.Ascii {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithColorProfile(h.profile),
		glamour.WithWordWrap(wrap),
	)
	md := h.Markdown()
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}

	h.rendered = strings.Trim(out, "\n")
	h.renderedWidth = wrap
	return h.rendered
}
