// Package hover owns the single active link and its decoration state.
//
// The machine has two states: idle, with no active link, and active,
// holding exactly one link. At most one link is ever active, and the
// teardown of a previous link always completes before the setup of the
// next one begins, so external listeners never see two links active at
// once.
package hover

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/gridterm/linkify/grid"
	"github.com/gridterm/linkify/internal/emitter"
	"github.com/gridterm/linkify/link"
	"github.com/gridterm/linkify/pointer"
)

// UnderlineEvent describes the cell span whose underline decoration
// should be shown or hidden. Coordinates are zero-based and adjusted
// for the scroll offset at emission time; X2 is exclusive so a painter
// can iterate columns [X1, X2) on the last row. Cols carries the
// display width needed to walk wrapped spans.
type UnderlineEvent struct {
	X1   int
	Y1   int
	X2   int
	Y2   int
	Cols int
}

// CursorSetter applies the pointer-shaped cursor affordance while a
// link with the pointerCursor decoration is hovered. Surfaces without a
// pointer cursor simply omit it.
type CursorSetter interface {
	SetPointerCursor(active bool)
}

// activeLink is the machine's record of the one active link, including
// the decoration snapshot used for change detection.
type activeLink struct {
	link          *link.Link
	hovered       bool
	underline     bool
	pointerCursor bool
}

// Machine tracks the active link and emits underline visibility events.
type Machine struct {
	mu      sync.Mutex
	metrics grid.Metrics
	cursor  CursorSetter
	active  *activeLink
	show    *emitter.Emitter[UnderlineEvent]
	hide    *emitter.Emitter[UnderlineEvent]
	logger  zerolog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithCursorSetter sets the pointer-affordance sink.
func WithCursorSetter(c CursorSetter) Option {
	return func(m *Machine) {
		m.cursor = c
	}
}

// WithLogger sets the machine's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// NewMachine creates an idle machine reading display dimensions and
// scroll offset from metrics.
func NewMachine(metrics grid.Metrics, opts ...Option) *Machine {
	m := &Machine{
		metrics: metrics,
		show:    emitter.New[UnderlineEvent](),
		hide:    emitter.New[UnderlineEvent](),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnShowUnderline registers a listener for underline-show events.
func (m *Machine) OnShowUnderline(fn func(UnderlineEvent)) *emitter.Listener[UnderlineEvent] {
	return m.show.Listen(fn)
}

// OnHideUnderline registers a listener for underline-hide events.
func (m *Machine) OnHideUnderline(fn func(UnderlineEvent)) *emitter.Listener[UnderlineEvent] {
	return m.hide.Listen(fn)
}

// Active returns the currently active link, or nil when idle.
func (m *Machine) Active() *link.Link {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil
	}
	return m.active.link
}

// ActiveCovers reports whether there is an active link whose range
// covers pos.
func (m *Machine) ActiveCovers(pos grid.CellPosition) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active != nil && m.active.link.Range.Covers(pos)
}

// EnterLink makes l the active link hovered at pos. Any previous active
// link is fully torn down first. The caller is responsible for having
// verified that l's range covers the current pointer position.
//
// On entry the machine snapshots l's decoration state, invokes the
// hover callback, fires an underline-show event if the underline
// decoration is on, applies the pointer affordance if requested, and
// observes future decoration mutations for as long as the link stays
// hovered.
func (m *Machine) EnterLink(l *link.Link, pos grid.CellPosition) {
	m.Clear()

	d := l.Decorations()
	m.mu.Lock()
	a := &activeLink{
		link:          l,
		hovered:       true,
		underline:     d.Underline(),
		pointerCursor: d.PointerCursor(),
	}
	m.active = a
	m.mu.Unlock()

	m.logger.Debug().
		Stringer("range", l.Range).
		Msg("link hovered")

	if l.Hover != nil {
		l.Hover(pos)
	}
	if a.underline {
		m.show.Emit(m.underlineEvent(l.Range))
	}
	if a.pointerCursor && m.cursor != nil {
		m.cursor.SetPointerCursor(true)
	}
	d.Observe(func(ch link.DecorationChange) {
		m.handleDecorationChange(l, ch)
	})
}

// Clear transitions back to idle. Teardown order: leave callback,
// underline-hide event if the underline was showing, pointer-affordance
// removal, decoration observer release. Clearing while already idle is
// a no-op and fires nothing.
func (m *Machine) Clear() {
	m.mu.Lock()
	a := m.active
	if a == nil {
		m.mu.Unlock()
		return
	}
	m.active = nil
	a.hovered = false
	m.mu.Unlock()

	if a.link.Leave != nil {
		a.link.Leave()
	}
	if a.underline {
		m.hide.Emit(m.underlineEvent(a.link.Range))
	}
	if a.pointerCursor && m.cursor != nil {
		m.cursor.SetPointerCursor(false)
	}
	a.link.Decorations().Unobserve()
}

// HandleRepaint invalidates the active link if the repainted row range
// intersects the link's rows. startRow and endRow are inclusive and
// relative to the scroll offset at notification time. In-flight
// resolution queries are unaffected.
func (m *Machine) HandleRepaint(startRow, endRow int) {
	m.mu.Lock()
	a := m.active
	var scroll int
	if a != nil {
		scroll = m.metrics.ScrollOffset()
	}
	m.mu.Unlock()

	if a == nil {
		return
	}
	if a.link.Range.IntersectsRows(startRow+scroll, endRow+scroll) {
		m.Clear()
	}
}

// Click invokes the active link's activate capability if pos falls
// inside its range. Anything else is a no-op.
func (m *Machine) Click(pos grid.CellPosition, ev pointer.Event) {
	m.mu.Lock()
	a := m.active
	m.mu.Unlock()

	if a == nil || !a.link.Range.Covers(pos) {
		return
	}
	if a.link.Activate != nil {
		a.link.Activate(ev, a.link.Text)
	}
}

// handleDecorationChange re-applies an externally mutated decoration
// flag, but only while the mutated link is still the hovered active
// one. Each logical change produces exactly one visual side effect.
func (m *Machine) handleDecorationChange(l *link.Link, ch link.DecorationChange) {
	m.mu.Lock()
	a := m.active
	if a == nil || a.link != l || !a.hovered {
		m.mu.Unlock()
		return
	}
	switch ch.Field {
	case link.FieldUnderline:
		a.underline = ch.Value
	case link.FieldPointerCursor:
		a.pointerCursor = ch.Value
	}
	m.mu.Unlock()

	switch ch.Field {
	case link.FieldUnderline:
		if ch.Value {
			m.show.Emit(m.underlineEvent(l.Range))
		} else {
			m.hide.Emit(m.underlineEvent(l.Range))
		}
	case link.FieldPointerCursor:
		if m.cursor != nil {
			m.cursor.SetPointerCursor(ch.Value)
		}
	}
}

// underlineEvent converts a 1-based absolute range into the zero-based,
// scroll-adjusted, x2-exclusive payload consumed by painters.
func (m *Machine) underlineEvent(r grid.Range) UnderlineEvent {
	scroll := m.metrics.ScrollOffset()
	return UnderlineEvent{
		X1:   r.Start.X - 1,
		Y1:   r.Start.Y - scroll - 1,
		X2:   r.End.X,
		Y2:   r.End.Y - scroll - 1,
		Cols: m.metrics.Cols(),
	}
}
