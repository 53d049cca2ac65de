package ui

import "math"

// Geometry maps screen cells to the chart's categories. X and Y are the
// absolute screen position of the plot's top-left cell.
type Geometry struct {
	X, Y          int
	Width, Height int
	Labels        []string
}

// Contains reports whether the cell lies inside the plot.
func (g Geometry) Contains(x, y int) bool {
	return x >= g.X && x < g.X+g.Width && y >= g.Y && y < g.Y+g.Height
}

// Column returns the plot-relative column of category i. Categories are
// spread evenly with the first on column 0 and the last on the final column.
func (g Geometry) Column(i int) int {
	n := len(g.Labels)
	if n <= 1 || g.Width <= 1 {
		return 0
	}
	return int(math.Round(float64(i) * float64(g.Width-1) / float64(n-1)))
}

// Category returns the index of the category nearest plot-relative column
// col, or -1 when there are no categories.
func (g Geometry) Category(col int) int {
	n := len(g.Labels)
	if n == 0 {
		return -1
	}
	if n == 1 || g.Width <= 1 {
		return 0
	}
	col = max(0, min(col, g.Width-1))
	return int(math.Round(float64(col) * float64(n-1) / float64(g.Width-1)))
}

// HitTest returns the label of the category under screen cell (x, y), or ""
// when the cell is outside the plot.
func (g Geometry) HitTest(x, y int) string {
	if !g.Contains(x, y) {
		return ""
	}
	i := g.Category(x - g.X)
	if i < 0 {
		return ""
	}
	return g.Labels[i]
}

// Row returns the plot-relative row of value v on a scale from lo (bottom
// row) to hi (top row), clamped to the plot.
func (g Geometry) Row(v, lo, hi float64) int {
	if g.Height <= 1 || hi <= lo {
		return max(g.Height-1, 0)
	}
	norm := (v - lo) / (hi - lo)
	norm = math.Max(0, math.Min(1, norm))
	return int(math.Round((1 - norm) * float64(g.Height-1)))
}
