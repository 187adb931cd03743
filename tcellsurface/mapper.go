package tcellsurface

import (
	"github.com/gridterm/linkify"
	"github.com/gridterm/linkify/grid"
	"github.com/gridterm/linkify/internal/emitter"
	"github.com/gridterm/linkify/pointer"
)

// Mapper converts surface-local cell coordinates (tcell mouse events
// already arrive in cells) into grid positions: 1-based columns and
// absolute rows that include the scroll offset.
type Mapper struct {
	metrics grid.Metrics
}

// NewMapper creates a mapper reading the scroll offset from metrics.
func NewMapper(metrics grid.Metrics) *Mapper {
	return &Mapper{metrics: metrics}
}

// MapToCell implements linkify.PositionMapper. Events outside the
// cols x rows display area are rejected.
func (m *Mapper) MapToCell(ev pointer.Event, cols, rows int) (grid.CellPosition, bool) {
	if ev.X < 0 || ev.X >= cols || ev.Y < 0 || ev.Y >= rows {
		return grid.CellPosition{}, false
	}
	return grid.CellPosition{
		X: ev.X + 1,
		Y: ev.Y + m.metrics.ScrollOffset() + 1,
	}, true
}

// Notifier is a repaint notifier the rendering side drives by calling
// RowsRepainted after redrawing a row span.
type Notifier struct {
	repaints *emitter.Emitter[linkify.RepaintEvent]
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{repaints: emitter.New[linkify.RepaintEvent]()}
}

// OnRowsRepainted implements linkify.RepaintNotifier.
func (n *Notifier) OnRowsRepainted(fn func(linkify.RepaintEvent)) func() {
	l := n.repaints.Listen(fn)
	return l.Cancel
}

// RowsRepainted announces that rows [startRow, endRow] (inclusive,
// relative to the current scroll offset) have been redrawn.
func (n *Notifier) RowsRepainted(startRow, endRow int) {
	n.repaints.Emit(linkify.RepaintEvent{StartRow: startRow, EndRow: endRow})
}
