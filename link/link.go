// Package link defines the link value handed over by providers and its
// observable decoration state.
//
// A Link is supplied by a provider and held by the coordinator only
// while it is the active link; nothing else retains it. Its Decorations
// are the only fields external code may mutate during the link's active
// lifetime, and every mutation goes through an explicit setter so the
// hover state machine can observe it.
package link

import (
	"sync"

	"github.com/gridterm/linkify/grid"
	"github.com/gridterm/linkify/pointer"
)

// Link is a clickable/hoverable span of text at a known cell range.
type Link struct {
	// Range is the cell span the link occupies. It may wrap across
	// rows if the source line wrapped.
	Range grid.Range

	// Text is the link's underlying text.
	Text string

	// Hover is invoked when the link becomes the hovered active link.
	// Optional.
	Hover func(pos grid.CellPosition)

	// Leave is invoked when the link stops being the active link.
	// Optional.
	Leave func()

	// Activate is invoked on click while the pointer is inside the
	// link's range, with the click event and the link's text. Optional.
	Activate func(ev pointer.Event, text string)

	decorOnce sync.Once
	decor     *Decorations
}

// New creates a link with default decorations (underline and pointer
// cursor both enabled).
func New(r grid.Range, text string) *Link {
	l := &Link{Range: r, Text: text}
	l.Decorations()
	return l
}

// Decorations returns the link's decoration state, creating it with
// defaults (underline=true, pointerCursor=true) if the provider did not
// specify one.
func (l *Link) Decorations() *Decorations {
	l.decorOnce.Do(func() {
		if l.decor == nil {
			l.decor = NewDecorations()
		}
	})
	return l.decor
}

// DecorationField identifies which decoration flag changed.
type DecorationField uint8

const (
	// FieldUnderline is the underline decoration flag.
	FieldUnderline DecorationField = iota
	// FieldPointerCursor is the pointer-cursor decoration flag.
	FieldPointerCursor
)

// String returns a string representation of the field.
func (f DecorationField) String() string {
	if f == FieldPointerCursor {
		return "pointerCursor"
	}
	return "underline"
}

// DecorationChange describes a single observed decoration mutation.
type DecorationChange struct {
	Field DecorationField
	Value bool
}

// Decorations holds the mutable visual-affordance flags of a link.
// Writes go through setters so the single installed observer (the hover
// state machine, while the link is active) sees every logical change
// exactly once. Setting a flag to its current value is not a change and
// does not notify.
type Decorations struct {
	mu            sync.Mutex
	underline     bool
	pointerCursor bool
	observer      func(DecorationChange)
}

// NewDecorations creates decoration state with both flags enabled.
func NewDecorations() *Decorations {
	return &Decorations{underline: true, pointerCursor: true}
}

// Underline returns the underline flag.
func (d *Decorations) Underline() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.underline
}

// PointerCursor returns the pointer-cursor flag.
func (d *Decorations) PointerCursor() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pointerCursor
}

// SetUnderline updates the underline flag, notifying the observer if
// the value actually changed.
func (d *Decorations) SetUnderline(v bool) {
	d.set(FieldUnderline, v)
}

// SetPointerCursor updates the pointer-cursor flag, notifying the
// observer if the value actually changed.
func (d *Decorations) SetPointerCursor(v bool) {
	d.set(FieldPointerCursor, v)
}

func (d *Decorations) set(field DecorationField, v bool) {
	d.mu.Lock()
	var target *bool
	if field == FieldUnderline {
		target = &d.underline
	} else {
		target = &d.pointerCursor
	}
	if *target == v {
		d.mu.Unlock()
		return
	}
	*target = v
	observer := d.observer
	d.mu.Unlock()

	if observer != nil {
		observer(DecorationChange{Field: field, Value: v})
	}
}

// Observe installs fn as the single observer, replacing any previous
// one. The hover state machine installs an observer while the link is
// active and removes it on teardown.
func (d *Decorations) Observe(fn func(DecorationChange)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observer = fn
}

// Unobserve removes the installed observer.
func (d *Decorations) Unobserve() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observer = nil
}
