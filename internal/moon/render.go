package moon

import (
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/Elpulgo/pullrefresh/internal/ui/canvas"
)

const (
	inkBackground canvas.Ink = 1
	inkFill       canvas.Ink = 2
)

// Render draws the frame as a disc of widthCells x heightRows terminal
// cells. The crescent swept so far is drawn in the fill colour, the rest of
// the disc in the background colour.
func Render(frame Frame, widthCells, heightRows int) string {
	if widthCells <= 0 || heightRows <= 0 {
		return ""
	}

	c := canvas.NewCells(widthCells, heightRows)
	Draw(c, frame)

	fill := lipgloss.NewStyle().Foreground(frame.Fill)
	bg := lipgloss.NewStyle().Foreground(frame.Background)
	return c.Render(func(ink canvas.Ink, run string) string {
		if ink == inkFill {
			return fill.Render(run)
		}
		return bg.Render(run)
	})
}

// Draw inks the disc onto c, centred and as large as fits.
func Draw(c *canvas.Canvas, frame Frame) {
	w, h := float64(c.Width()), float64(c.Height())
	radius := math.Min(w, h) / 2
	if radius <= 0 {
		return
	}
	cx, cy := w/2, h/2

	// The terminator runs from the right limb (path 0) to the left limb
	// (path 1), so the swept area grows with the path.
	terminator := 1 - 2*clamp01(frame.Path)
	sin, cos := math.Sincos(-frame.Angle)

	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			dx := (float64(x) + 0.5 - cx) / radius
			dy := (float64(y) + 0.5 - cy) / radius
			if dx*dx+dy*dy > 1 {
				continue
			}

			u := dx*cos - dy*sin
			v := dx*sin + dy*cos
			if Swept(u, v, terminator) {
				c.Set(x, y, inkFill)
			} else {
				c.Set(x, y, inkBackground)
			}
		}
	}
}

// Swept reports whether the unit-disc point (u, v) lies on the swept side of
// the terminator ellipse with horizontal semi-axis t.
func Swept(u, v, t float64) bool {
	limb := math.Sqrt(math.Max(0, 1-v*v))
	return u >= t*limb
}

// Coverage returns the share of the disc drawn in the fill colour, counted on
// a canvas of the given size.
func Coverage(frame Frame, widthCells, heightRows int) float64 {
	c := canvas.NewCells(widthCells, heightRows)
	Draw(c, frame)

	var fill, total int
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			switch c.Get(x, y) {
			case inkFill:
				fill++
				total++
			case inkBackground:
				total++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(fill) / float64(total)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
