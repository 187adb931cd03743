// Package grid provides cell-grid value types and the geometric
// membership test used to decide whether a pointer position falls
// inside a link's range.
//
// Columns are 1-based. Rows are absolute: they include the number of
// rows scrolled past the top of the display, so a range stays valid
// while the viewport moves underneath it.
package grid

import "fmt"

// CellPosition is a single cell address in the grid.
type CellPosition struct {
	// X is the 1-based column.
	X int

	// Y is the absolute row, including the scroll offset.
	Y int
}

// Equal returns true if two positions address the same cell.
func (p CellPosition) Equal(other CellPosition) bool {
	return p.X == other.X && p.Y == other.Y
}

// String returns a string representation of the position.
func (p CellPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Range is a span of cells that may wrap across multiple rows when the
// source line was longer than the display width. A wrapped range is one
// continuous link even though it occupies several physical rows.
// Invariant: Start is lexicographically <= End in (Y, X) order.
type Range struct {
	Start CellPosition
	End   CellPosition
}

// IsValid returns true if Start is lexicographically <= End in (Y, X)
// order. Malformed ranges are tolerated elsewhere by treating them as
// never covered.
func (r Range) IsValid() bool {
	if r.Start.Y != r.End.Y {
		return r.Start.Y < r.End.Y
	}
	return r.Start.X <= r.End.X
}

// Covers reports whether pos lies within the range.
//
// For a single-row range the column must fall between Start.X and
// End.X inclusive. For a wrapped range, a position on the first row is
// covered from Start.X onward, a position on the last row is covered
// up to End.X, and any strictly interior row is covered at every
// column. A malformed range covers nothing.
func (r Range) Covers(pos CellPosition) bool {
	if !r.IsValid() {
		return false
	}
	if pos.Y < r.Start.Y || pos.Y > r.End.Y {
		return false
	}
	if r.Start.Y == r.End.Y {
		return pos.X >= r.Start.X && pos.X <= r.End.X
	}
	switch pos.Y {
	case r.Start.Y:
		return pos.X >= r.Start.X
	case r.End.Y:
		return pos.X <= r.End.X
	default:
		return true
	}
}

// IntersectsRows reports whether any row of the range falls within
// [startRow, endRow] (absolute rows, inclusive). Used for repaint
// invalidation of the active link.
func (r Range) IntersectsRows(startRow, endRow int) bool {
	if !r.IsValid() {
		return false
	}
	return r.Start.Y <= endRow && r.End.Y >= startRow
}

// String returns a string representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Metrics exposes the read-only dimensions of the underlying buffer:
// display width and height in cells, and how many rows have scrolled
// past the top.
type Metrics interface {
	// Cols returns the display width in columns.
	Cols() int

	// Rows returns the display height in rows.
	Rows() int

	// ScrollOffset returns the number of rows scrolled past the top.
	ScrollOffset() int
}

// FixedMetrics is a Metrics implementation with static values, useful
// for tests and simple non-scrolling surfaces.
type FixedMetrics struct {
	Width  int
	Height int
	Offset int
}

// Cols returns the display width in columns.
func (m FixedMetrics) Cols() int { return m.Width }

// Rows returns the display height in rows.
func (m FixedMetrics) Rows() int { return m.Height }

// ScrollOffset returns the number of rows scrolled past the top.
func (m FixedMetrics) ScrollOffset() int { return m.Offset }
