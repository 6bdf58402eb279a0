package core

import (
	"strings"
	"unicode/utf8"
)

// Cell is a single character position on the screen.
type Cell struct {
	Rune  rune
	Color Color
}

var blankCell = Cell{Rune: ' ', Color: ColorDefault}

// Screen is a row-major buffer of colored cells. Games draw into it and
// the platform turns it into terminal output.
//
// Writes outside the clip rectangle are dropped. The clip defaults to the
// whole screen; renderers narrow it to keep the playfield off the HUD.
type Screen struct {
	width, height int
	cells         []Cell
	pen           Color
	clip          CellRect
}

// NewScreen creates a blank screen with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{}
	s.Resize(width, height)
	return s
}

// Width returns the screen width in characters.
func (s *Screen) Width() int { return s.width }

// Height returns the screen height in characters.
func (s *Screen) Height() int { return s.height }

// Bounds returns the whole screen as a rectangle.
func (s *Screen) Bounds() CellRect {
	return CellRect{W: s.width, H: s.height}
}

// Resize changes the dimensions, keeping the overlapping top-left content.
// The clip is reset to the new bounds.
func (s *Screen) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if s.cells != nil && width == s.width && height == s.height {
		return
	}

	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i] = blankCell
	}
	for y := range min(height, s.height) {
		n := min(width, s.width)
		copy(cells[y*width:y*width+n], s.cells[y*s.width:y*s.width+n])
	}

	s.width, s.height, s.cells = width, height, cells
	s.clip = s.Bounds()
}

// Clear blanks every cell and resets the pen and the clip.
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = blankCell
	}
	s.pen = ColorDefault
	s.clip = s.Bounds()
}

// SetPen selects the color used by Set and the text helpers.
func (s *Screen) SetPen(c Color) {
	s.pen = c
}

// Clip restricts drawing to r intersected with the screen.
func (s *Screen) Clip(r CellRect) {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.Right(), s.width), min(r.Bottom(), s.height)
	s.clip = CellRect{X: x0, Y: y0, W: max(x1-x0, 0), H: max(y1-y0, 0)}
}

// Unclip lifts the clip back to the whole screen.
func (s *Screen) Unclip() {
	s.clip = s.Bounds()
}

// Visible reports whether a write at (x, y) would land.
func (s *Screen) Visible(x, y int) bool {
	c := s.clip
	return x >= c.X && x < c.Right() && y >= c.Y && y < c.Bottom()
}

// Set places a rune in the pen color.
func (s *Screen) Set(x, y int, r rune) {
	s.SetCell(x, y, Cell{Rune: r, Color: s.pen})
}

// SetCell places a cell. Writes outside the clip are ignored.
func (s *Screen) SetCell(x, y int, c Cell) {
	if s.Visible(x, y) {
		s.cells[y*s.width+x] = c
	}
}

// Get returns the rune at (x, y), a space outside the screen.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at (x, y), a blank outside the screen.
func (s *Screen) GetCell(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return blankCell
	}
	return s.cells[y*s.width+x]
}

// DrawText writes text left to right from (x, y), one cell per rune, and
// returns the column after the last rune.
func (s *Screen) DrawText(x, y int, text string) int {
	for _, r := range text {
		s.Set(x, y, r)
		x++
	}
	return x
}

// DrawTextCentered draws text centered horizontally on row y.
func (s *Screen) DrawTextCentered(y int, text string) {
	s.DrawText((s.width-utf8.RuneCountInString(text))/2, y, text)
}

// DrawTextRight draws text ending margin cells before the right edge.
func (s *Screen) DrawTextRight(y, margin int, text string) {
	s.DrawText(s.width-margin-utf8.RuneCountInString(text), y, text)
}

// DrawRect fills r with a rune.
func (s *Screen) DrawRect(r CellRect, fill rune) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.Set(x, y, fill)
		}
	}
}

// DrawBox outlines r with box-drawing characters.
func (s *Screen) DrawBox(r CellRect) {
	if r.W < 2 || r.H < 2 {
		return
	}
	right, bottom := r.Right()-1, r.Bottom()-1
	for x := r.X + 1; x < right; x++ {
		s.Set(x, r.Y, '─')
		s.Set(x, bottom, '─')
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.Set(r.X, y, '│')
		s.Set(right, y, '│')
	}
	s.Set(r.X, r.Y, '┌')
	s.Set(right, r.Y, '┐')
	s.Set(r.X, bottom, '└')
	s.Set(right, bottom, '┘')
}

// Row returns row y as plain text.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y*s.width : (y+1)*s.width] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

// String returns the buffer as plain text, rows separated by newlines.
func (s *Screen) String() string {
	rows := make([]string, s.height)
	for y := range rows {
		rows[y] = s.Row(y)
	}
	return strings.Join(rows, "\n")
}
