package components

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Elpulgo/pullrefresh/internal/sysinfo"
	"github.com/Elpulgo/pullrefresh/internal/ui/styles"
)

// minErrorModalWidth is the minimum width for the error modal content.
const minErrorModalWidth = 50

// ErrorInfo holds classified error information for display in the error modal.
type ErrorInfo struct {
	Title   string
	Message string
	Hint    string
}

// ErrorModal is an overlay that displays errors the user has to act on.
type ErrorModal struct {
	styles  *styles.Styles
	visible bool
	width   int
	height  int
	info    ErrorInfo
}

// NewErrorModal creates a new ErrorModal.
func NewErrorModal(s *styles.Styles) *ErrorModal {
	return &ErrorModal{styles: s}
}

// SetStyles applies a new theme.
func (m *ErrorModal) SetStyles(s *styles.Styles) {
	m.styles = s
}

// Show makes the error modal visible with the given content.
func (m *ErrorModal) Show(info ErrorInfo) {
	m.info = info
	m.visible = true
}

// Hide hides the error modal.
func (m *ErrorModal) Hide() {
	m.visible = false
}

// IsVisible returns true if the modal is visible.
func (m *ErrorModal) IsVisible() bool {
	return m.visible
}

// Info returns the error currently shown.
func (m *ErrorModal) Info() ErrorInfo {
	return m.info
}

// SetSize sets the available size for the modal.
func (m *ErrorModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles key events for the error modal.
func (m *ErrorModal) Update(msg tea.Msg) (*ErrorModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "q", "enter":
			m.Hide()
		}
	}
	return m, nil
}

// View renders the error modal overlay.
func (m *ErrorModal) View() string {
	if !m.visible {
		return ""
	}

	contentWidth := minErrorModalWidth
	if w := lipgloss.Width(m.info.Title); w > contentWidth {
		contentWidth = w
	}
	if m.width > 0 && contentWidth > m.width-8 {
		contentWidth = max(m.width-8, 20)
	}

	theme := m.styles.Theme
	modalStyle := m.styles.ModalBox.BorderForeground(theme.Error)
	block := lipgloss.NewStyle().Width(contentWidth).Background(theme.BackgroundAlt)

	var content strings.Builder
	content.WriteString(block.Foreground(theme.Error).Bold(true).MarginBottom(1).Render(m.info.Title))
	content.WriteString("\n")
	content.WriteString(block.Foreground(theme.Foreground).Render(m.info.Message))
	content.WriteString("\n")
	if m.info.Hint != "" {
		content.WriteString(block.Foreground(theme.Accent).Bold(true).MarginTop(1).Render(m.info.Hint))
		content.WriteString("\n")
	}
	content.WriteString("\n")
	content.WriteString(block.Foreground(theme.ForegroundMuted).Render("Press esc to dismiss"))

	return placeCentered(m.width, m.height, modalStyle.Render(content.String()))
}

// CriticalErrorMsg asks the root model to show the error modal.
type CriticalErrorMsg struct {
	Info ErrorInfo
}

// NewCriticalErrorCmd returns a command emitting a CriticalErrorMsg when err
// is one the user has to act on, and nil otherwise.
func NewCriticalErrorCmd(err error) tea.Cmd {
	info := ClassifyError(err)
	if info == nil {
		return nil
	}
	return func() tea.Msg {
		return CriticalErrorMsg{Info: *info}
	}
}

// ClassifyError maps snapshot errors to a description with a hint.
// Returns nil for cancellations and unknown errors.
func ClassifyError(err error) *ErrorInfo {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return nil

	case errors.Is(err, sysinfo.ErrNoData):
		return &ErrorInfo{
			Title:   "No System Data",
			Message: "Every probe failed, so there is nothing to show.",
			Hint:    "Run with --log-file and --debug to see the individual probe errors.",
		}

	case errors.Is(err, context.DeadlineExceeded):
		return &ErrorInfo{
			Title:   "Refresh Timed Out",
			Message: "Collecting the snapshot took longer than the timeout.",
			Hint:    "Lower process_count in the config; the process probe is the slowest.",
		}

	case errors.Is(err, fs.ErrPermission):
		return &ErrorInfo{
			Title:   "Permission Denied",
			Message: "A probe was not allowed to read system information.",
			Hint:    "Run with more privileges or point disk_path at a readable mount.",
		}
	}
	return nil
}
