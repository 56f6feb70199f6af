// Package canvas provides a braille drawing surface where every pixel carries
// an ink. A terminal cell can only show one foreground colour, so each cell is
// painted with its dominant ink.
package canvas

import "strings"

// brailleBase is the code point of the empty braille character.
const brailleBase = '⠀'

// pixelToBit maps (x, y) within a 2x4 braille cell to its dot bit.
//
//	┌───┬───┐
//	│ 1 │ 4 │
//	│ 2 │ 5 │
//	│ 3 │ 6 │
//	│ 7 │ 8 │
//	└───┴───┘
var pixelToBit = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Ink identifies what a pixel was drawn with. InkNone is an unlit pixel.
type Ink uint8

const InkNone Ink = 0

// Canvas is a grid of inked pixels, 2 wide and 4 tall per cell.
type Canvas struct {
	width  int
	height int
	pixels []Ink // row-major
}

// New creates a canvas of the given pixel size, rounded up to whole cells.
func New(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width%2 != 0 {
		width++
	}
	if height%4 != 0 {
		height += 4 - height%4
	}

	return &Canvas{
		width:  width,
		height: height,
		pixels: make([]Ink, width*height),
	}
}

// NewCells creates a canvas covering cols x rows terminal cells.
func NewCells(cols, rows int) *Canvas {
	return New(cols*2, rows*4)
}

func (c *Canvas) Width() int      { return c.width }
func (c *Canvas) Height() int     { return c.height }
func (c *Canvas) CharWidth() int  { return c.width / 2 }
func (c *Canvas) CharHeight() int { return c.height / 4 }

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Set draws the pixel at (x, y). Out-of-bounds writes are ignored.
func (c *Canvas) Set(x, y int, ink Ink) {
	if c.inBounds(x, y) {
		c.pixels[y*c.width+x] = ink
	}
}

// Get returns the ink at (x, y), InkNone when out of bounds.
func (c *Canvas) Get(x, y int) Ink {
	if !c.inBounds(x, y) {
		return InkNone
	}
	return c.pixels[y*c.width+x]
}

// Reset clears every pixel.
func (c *Canvas) Reset() {
	for i := range c.pixels {
		c.pixels[i] = InkNone
	}
}

// Cell returns the braille rune for the cell at (cx, cy) and its dominant
// ink. Ties go to the higher ink value.
func (c *Canvas) Cell(cx, cy int) (rune, Ink) {
	px, py := cx*2, cy*4
	char := brailleBase

	var counts [256]int
	for dx := 0; dx < 2; dx++ {
		for dy := 0; dy < 4; dy++ {
			ink := c.Get(px+dx, py+dy)
			if ink == InkNone {
				continue
			}
			char += pixelToBit[dx][dy]
			counts[ink]++
		}
	}

	dominant, best := InkNone, 0
	for ink := 1; ink < len(counts); ink++ {
		if counts[ink] > 0 && counts[ink] >= best {
			dominant, best = Ink(ink), counts[ink]
		}
	}
	return char, dominant
}

// Painter styles a run of cells that share a dominant ink.
type Painter func(ink Ink, run string) string

// Row renders one row of cells. Empty cells render as spaces; runs of equal
// ink are passed to paint together. A nil paint returns the bare runes.
func (c *Canvas) Row(cy int, paint Painter) string {
	if cy < 0 || cy >= c.CharHeight() {
		return ""
	}

	var (
		sb  strings.Builder
		run strings.Builder
		cur = InkNone
	)
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if paint == nil || cur == InkNone {
			sb.WriteString(run.String())
		} else {
			sb.WriteString(paint(cur, run.String()))
		}
		run.Reset()
	}

	for cx := 0; cx < c.CharWidth(); cx++ {
		r, ink := c.Cell(cx, cy)
		if ink == InkNone {
			r = ' '
		}
		if ink != cur {
			flush()
			cur = ink
		}
		run.WriteRune(r)
	}
	flush()

	return sb.String()
}

// Render renders every row joined by newlines.
func (c *Canvas) Render(paint Painter) string {
	rows := make([]string, c.CharHeight())
	for cy := range rows {
		rows[cy] = c.Row(cy, paint)
	}
	return strings.Join(rows, "\n")
}

// String renders the canvas without colour.
func (c *Canvas) String() string {
	return c.Render(nil)
}
