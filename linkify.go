// Package linkify coordinates link resolution, hover tracking, and
// invalidation for a scrollable cell-grid display.
//
// A Linkifier sits between a display surface and its pointer-input
// source. Pointer movement is mapped to a cell position; when the
// position leaves the active link, the link is cleared and every
// registered provider is asked for a link at the new position. The
// priority race in package resolve picks a single winner, the hover
// machine in package hover tracks it, and underline show/hide events
// tell the surface what to repaint.
//
// The linkifier is callback-driven and expects all of its entry points
// to run on one logical event-loop thread; internal locking guards
// bookkeeping, not the protocol itself.
package linkify

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gridterm/linkify/grid"
	"github.com/gridterm/linkify/hover"
	"github.com/gridterm/linkify/internal/emitter"
	"github.com/gridterm/linkify/link"
	"github.com/gridterm/linkify/pointer"
	"github.com/gridterm/linkify/provider"
	"github.com/gridterm/linkify/resolve"
)

// Attachment lifecycle errors.
var (
	// ErrAlreadyAttached is returned when Attach is called twice.
	ErrAlreadyAttached = errors.New("linkify: surface already attached")

	// ErrNotAttached is returned by Detach without a prior Attach.
	ErrNotAttached = errors.New("linkify: no surface attached")
)

// Surface exposes pointer-event listener registration for a display
// surface. Each On* method returns a detach function that removes the
// listener.
type Surface interface {
	OnPointerMove(fn func(pointer.Event)) (detach func())
	OnPointerLeave(fn func(pointer.Event)) (detach func())
	OnPointerClick(fn func(pointer.Event)) (detach func())
}

// PositionMapper converts a raw pointer event into a cell position.
// The second return value is false when the event falls outside the
// cols x rows display area.
type PositionMapper interface {
	MapToCell(ev pointer.Event, cols, rows int) (grid.CellPosition, bool)
}

// RepaintEvent reports a range of repainted rows, inclusive, relative
// to the scroll offset at notification time.
type RepaintEvent struct {
	StartRow int
	EndRow   int
}

// RepaintNotifier announces row repaints used to invalidate the active
// link when content scrolls or re-renders beneath it.
type RepaintNotifier interface {
	OnRowsRepainted(fn func(RepaintEvent)) (detach func())
}

// Linkifier glues a surface's pointer events to provider resolution and
// hover state. Create one per surface with New, register providers, and
// wire it up with Attach.
type Linkifier struct {
	mu       sync.Mutex
	metrics  grid.Metrics
	registry *provider.Registry
	resolver *resolve.Resolver
	machine  *hover.Machine
	logger   zerolog.Logger

	attached bool
	mapper   PositionMapper
	detaches []func()
	lastPos  *grid.CellPosition
}

// Option configures a Linkifier.
type Option func(*options)

type options struct {
	logger zerolog.Logger
	cursor hover.CursorSetter
}

// WithLogger sets the logger shared by the linkifier, its resolver, and
// its hover machine.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCursorSetter sets the pointer-affordance sink passed to the hover
// machine.
func WithCursorSetter(c hover.CursorSetter) Option {
	return func(o *options) {
		o.cursor = c
	}
}

// New creates a Linkifier reading display dimensions and scroll offset
// from metrics.
func New(metrics grid.Metrics, opts ...Option) *Linkifier {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	registry := provider.NewRegistry()
	machineOpts := []hover.Option{hover.WithLogger(o.logger)}
	if o.cursor != nil {
		machineOpts = append(machineOpts, hover.WithCursorSetter(o.cursor))
	}
	return &Linkifier{
		metrics:  metrics,
		registry: registry,
		resolver: resolve.NewResolver(registry, resolve.WithLogger(o.logger)),
		machine:  hover.NewMachine(metrics, machineOpts...),
		logger:   o.logger,
	}
}

// RegisterLinkProvider appends p to the provider list with the lowest
// priority among current registrants and returns its disposal handle.
func (lf *Linkifier) RegisterLinkProvider(p provider.Provider) *provider.Registration {
	return lf.registry.Register(p)
}

// OnShowUnderline registers a listener for underline-show events.
func (lf *Linkifier) OnShowUnderline(fn func(hover.UnderlineEvent)) *emitter.Listener[hover.UnderlineEvent] {
	return lf.machine.OnShowUnderline(fn)
}

// OnHideUnderline registers a listener for underline-hide events.
func (lf *Linkifier) OnHideUnderline(fn func(hover.UnderlineEvent)) *emitter.Listener[hover.UnderlineEvent] {
	return lf.machine.OnHideUnderline(fn)
}

// Active returns the currently active link, or nil.
func (lf *Linkifier) Active() *link.Link {
	return lf.machine.Active()
}

// Attach wires the linkifier to a surface. One-time: a second call
// returns ErrAlreadyAttached. Pointer events arriving before Attach are
// simply never seen; events arriving after Detach are ignored.
func (lf *Linkifier) Attach(surface Surface, mapper PositionMapper, repaint RepaintNotifier) error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.attached {
		return ErrAlreadyAttached
	}
	lf.attached = true
	lf.mapper = mapper
	lf.detaches = []func(){
		surface.OnPointerMove(lf.handlePointerMove),
		surface.OnPointerLeave(lf.handlePointerLeave),
		surface.OnPointerClick(lf.handlePointerClick),
	}
	if repaint != nil {
		lf.detaches = append(lf.detaches, repaint.OnRowsRepainted(lf.handleRepaint))
	}
	lf.logger.Debug().Msg("linkifier attached")
	return nil
}

// Detach removes all surface and repaint listeners and clears any
// active link.
func (lf *Linkifier) Detach() error {
	lf.mu.Lock()
	if !lf.attached {
		lf.mu.Unlock()
		return ErrNotAttached
	}
	lf.attached = false
	lf.mapper = nil
	lf.lastPos = nil
	detaches := lf.detaches
	lf.detaches = nil
	lf.mu.Unlock()

	for _, detach := range detaches {
		detach()
	}
	lf.machine.Clear()
	lf.logger.Debug().Msg("linkifier detached")
	return nil
}

// handlePointerMove maps the event to a cell and, when the cell is new
// and outside the active link, starts a fresh resolution. Repeated
// events for the same cell are deduplicated so sub-cell jitter does not
// multiply provider call volume. Overlay-origin events are ignored
// entirely: they update nothing, not even the last-position tracking.
func (lf *Linkifier) handlePointerMove(ev pointer.Event) {
	if ev.Origin == pointer.OriginOverlay {
		return
	}

	lf.mu.Lock()
	mapper := lf.mapper
	if mapper == nil {
		lf.mu.Unlock()
		return
	}
	pos, ok := mapper.MapToCell(ev, lf.metrics.Cols(), lf.metrics.Rows())
	if !ok {
		lf.mu.Unlock()
		return
	}
	if lf.lastPos != nil && lf.lastPos.Equal(pos) {
		lf.mu.Unlock()
		return
	}
	p := pos
	lf.lastPos = &p
	lf.mu.Unlock()

	if lf.machine.ActiveCovers(pos) {
		return
	}
	lf.machine.Clear()
	lf.resolver.Resolve(pos, func(l *link.Link) {
		lf.handleResolved(l)
	})
}

// handleResolved installs the winning link, but only if the pointer has
// not moved off it while the query was in flight.
func (lf *Linkifier) handleResolved(l *link.Link) {
	if l == nil {
		return
	}
	lf.mu.Lock()
	last := lf.lastPos
	lf.mu.Unlock()

	if last == nil || !l.Range.Covers(*last) {
		return
	}
	lf.machine.EnterLink(l, *last)
}

// handlePointerLeave clears the active link when the pointer leaves the
// surface entirely.
func (lf *Linkifier) handlePointerLeave(ev pointer.Event) {
	if ev.Origin == pointer.OriginOverlay {
		return
	}
	lf.mu.Lock()
	lf.lastPos = nil
	lf.mu.Unlock()
	lf.machine.Clear()
}

// handlePointerClick forwards a click to the active link's activate
// capability if the click lands inside its range.
func (lf *Linkifier) handlePointerClick(ev pointer.Event) {
	if ev.Origin == pointer.OriginOverlay {
		return
	}
	lf.mu.Lock()
	mapper := lf.mapper
	lf.mu.Unlock()
	if mapper == nil {
		return
	}
	pos, ok := mapper.MapToCell(ev, lf.metrics.Cols(), lf.metrics.Rows())
	if !ok {
		return
	}
	lf.machine.Click(pos, ev)
}

// handleRepaint forwards repaint notifications to the hover machine for
// active-link invalidation.
func (lf *Linkifier) handleRepaint(ev RepaintEvent) {
	lf.machine.HandleRepaint(ev.StartRow, ev.EndRow)
}
