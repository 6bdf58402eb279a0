package core

import "testing"

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{
			name:     "overlapping rects",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(5, 5, 10, 10),
			expected: true,
		},
		{
			name:     "non-overlapping horizontal",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(15, 0, 10, 10),
			expected: false,
		},
		{
			name:     "touching edges horizontal",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(10, 0, 10, 10),
			expected: false,
		},
		{
			name:     "touching edges vertical",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(0, 10, 10, 10),
			expected: false,
		},
		{
			name:     "bullet inside attacker",
			a:        NewRect(100, 200, 32, 32),
			b:        NewRect(114, 220, 4, 10),
			expected: true,
		},
		{
			name:     "sub-unit penetration",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(9.5, 9.5, 3, 3),
			expected: true,
		},
		{
			name:     "overlap on one axis only",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(2, 20, 4, 4),
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestRectIntersectsSymmetryGrid(t *testing.T) {
	base := NewRect(10, 10, 8, 6)
	for x := 0.0; x <= 20; x += 1.5 {
		for y := 0.0; y <= 20; y += 1.5 {
			other := NewRect(x, y, 4, 10)
			if base.Intersects(other) != other.Intersects(base) {
				t.Fatalf("asymmetric intersection for %+v and %+v", base, other)
			}
		}
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     float64
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%v, %v) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestRectEdgesAndCenter(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %v, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %v, expected 25", r.Bottom())
	}

	cx, cy := r.Center()
	if cx != 15 || cy != 17.5 {
		t.Errorf("Center() = (%v, %v), expected (15, 17.5)", cx, cy)
	}

	moved := r.Translate(-5, 10)
	if moved.X != 0 || moved.Y != 20 || moved.W != 20 {
		t.Errorf("Translate() = %+v", moved)
	}
}

func TestViewportProjection(t *testing.T) {
	v := Viewport{WorldW: 640, WorldH: 480, Cols: 80, Rows: 24}

	cx, cy := v.ToCell(17, 41)
	if cx != 2 || cy != 2 {
		t.Errorf("ToCell(17, 41) = (%d, %d), expected (2, 2)", cx, cy)
	}

	wx, wy := v.ToWorld(2, 2)
	if wx != 20 || wy != 50 {
		t.Errorf("ToWorld(2, 2) = (%v, %v), expected (20, 50)", wx, wy)
	}

	// A 4x10 bullet is smaller than a cell but still covers one.
	cell := v.Project(NewRect(100, 100, 4, 10))
	if cell.W != 1 || cell.H != 1 {
		t.Errorf("Project() = %+v, expected 1x1", cell)
	}

	wide := v.Project(NewRect(0, 0, 32, 40))
	if wide.W != 4 || wide.H != 2 {
		t.Errorf("Project() = %+v, expected 4x2", wide)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}

	if got := ClampF(-1.5, 0, 10); got != 0 {
		t.Errorf("ClampF(-1.5, 0, 10) = %v, expected 0", got)
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(0, 0, 3, 4); got != 5 {
		t.Errorf("Distance() = %v, expected 5", got)
	}
}
