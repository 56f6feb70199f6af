package canvas

import (
	"strings"
	"testing"
	"testing/quick"
)

const (
	inkA Ink = 1
	inkB Ink = 2
)

func TestNew(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		wantW, wantH   int
		wantCW, wantCH int
	}{
		{"exact 2x4", 2, 4, 2, 4, 1, 1},
		{"round up width", 3, 4, 4, 4, 2, 1},
		{"round up height", 2, 5, 2, 8, 1, 2},
		{"negative", -3, -1, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.width, tt.height)
			if c.Width() != tt.wantW || c.Height() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", c.Width(), c.Height(), tt.wantW, tt.wantH)
			}
			if c.CharWidth() != tt.wantCW || c.CharHeight() != tt.wantCH {
				t.Errorf("cells = %dx%d, want %dx%d", c.CharWidth(), c.CharHeight(), tt.wantCW, tt.wantCH)
			}
		})
	}
}

func TestNewCellsRoundsToCells(t *testing.T) {
	property := func(cols, rows uint8) bool {
		c := NewCells(int(cols%40), int(rows%20))
		return c.CharWidth() == int(cols%40) && c.CharHeight() == int(rows%20)
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestSetGet(t *testing.T) {
	c := New(4, 8)
	if c.Get(1, 2) != InkNone {
		t.Error("pixel should be unlit initially")
	}

	c.Set(1, 2, inkB)
	if got := c.Get(1, 2); got != inkB {
		t.Errorf("Get = %d, want %d", got, inkB)
	}

	// Out of bounds must not panic.
	c.Set(-1, 0, inkA)
	c.Set(100, 0, inkA)
	if c.Get(-1, 0) != InkNone {
		t.Error("out of bounds should read as unlit")
	}

	c.Reset()
	if c.Get(1, 2) != InkNone {
		t.Error("pixel should be unlit after Reset")
	}
}

func TestCellBraille(t *testing.T) {
	tests := []struct {
		x, y int
		want rune
	}{
		{0, 0, '⠁'},
		{0, 3, '⡀'},
		{1, 0, '⠈'},
		{1, 3, '⢀'},
	}

	for _, tt := range tests {
		c := New(2, 4)
		c.Set(tt.x, tt.y, inkA)
		if got, _ := c.Cell(0, 0); got != tt.want {
			t.Errorf("Set(%d,%d): got %U, want %U", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCellDominantInk(t *testing.T) {
	c := New(2, 4)
	for y := 0; y < 4; y++ {
		c.Set(0, y, inkA)
	}
	c.Set(1, 0, inkB)

	r, ink := c.Cell(0, 0)
	if ink != inkA {
		t.Errorf("dominant = %d, want %d", ink, inkA)
	}
	if r != '⠀'+0x01+0x02+0x04+0x40+0x08 {
		t.Errorf("rune = %U", r)
	}

	// Ties go to the higher ink.
	for y := 1; y < 4; y++ {
		c.Set(1, y, inkB)
	}
	if _, ink := c.Cell(0, 0); ink != inkB {
		t.Errorf("tie dominant = %d, want %d", ink, inkB)
	}
}

func TestRowGroupsRuns(t *testing.T) {
	c := NewCells(4, 1)
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			c.Set(x, y, inkA)
			c.Set(x+4, y, inkB)
		}
	}

	var runs []string
	row := c.Row(0, func(ink Ink, run string) string {
		runs = append(runs, run)
		return "[" + run + "]"
	})

	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if row != "[⣿⣿][⣿⣿]" {
		t.Errorf("row = %q", row)
	}
}

func TestEmptyCellsRenderAsSpaces(t *testing.T) {
	c := NewCells(3, 2)
	c.Set(2, 0, inkA)

	got := c.String()
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0] != " ⠁ " {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "   " {
		t.Errorf("line 1 = %q", lines[1])
	}
	if c.Row(5, nil) != "" {
		t.Error("out of range row should be empty")
	}
}
