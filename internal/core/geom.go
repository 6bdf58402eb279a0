// Package core provides fundamental types and utilities for the invaders platform.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Rect is an axis-aligned bounding box in world units.
// Every physical object in the simulation embeds one.
type Rect struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Intersects returns true if this rectangle overlaps with another.
// Touching edges do not count as an overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Translate returns the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// CellRect is a rectangle of terminal cells.
type CellRect struct {
	X, Y int
	W, H int
}

// NewCellRect creates a new cell rectangle.
func NewCellRect(x, y, w, h int) CellRect {
	return CellRect{X: x, Y: y, W: w, H: h}
}

// Right returns the column just past the right edge.
func (r CellRect) Right() int {
	return r.X + r.W
}

// Bottom returns the row just past the bottom edge.
func (r CellRect) Bottom() int {
	return r.Y + r.H
}

// Viewport maps world coordinates onto a grid of terminal cells.
type Viewport struct {
	WorldW, WorldH float64
	Cols, Rows     int
}

// ToCell converts a world point to the cell containing it.
func (v Viewport) ToCell(x, y float64) (int, int) {
	if v.WorldW <= 0 || v.WorldH <= 0 {
		return 0, 0
	}
	cx := int(math.Floor(x * float64(v.Cols) / v.WorldW))
	cy := int(math.Floor(y * float64(v.Rows) / v.WorldH))
	return cx, cy
}

// ToWorld converts a cell to the world point at its center.
func (v Viewport) ToWorld(cx, cy int) (float64, float64) {
	if v.Cols <= 0 || v.Rows <= 0 {
		return 0, 0
	}
	x := (float64(cx) + 0.5) * v.WorldW / float64(v.Cols)
	y := (float64(cy) + 0.5) * v.WorldH / float64(v.Rows)
	return x, y
}

// Project converts a world rectangle to the smallest cell rectangle covering it.
// Non-empty rectangles always cover at least one cell.
func (v Viewport) Project(r Rect) CellRect {
	x0, y0 := v.ToCell(r.X, r.Y)
	x1, y1 := v.ToCell(r.Right(), r.Bottom())
	w := max(1, x1-x0)
	h := max(1, y1-y0)
	return CellRect{X: x0, Y: y0, W: w, H: h}
}

// Clamp restricts val to [lo, hi].
func Clamp(val, lo, hi int) int {
	return max(lo, min(val, hi))
}

// ClampF restricts val to [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	return max(lo, min(val, hi))
}
