package components

import "github.com/charmbracelet/lipgloss"

// placeCentered centers a modal in the available area. Without a known size
// the modal is returned as is.
func placeCentered(width, height int, modal string) string {
	if width <= 0 || height <= 0 {
		return modal
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
