// Package tcellsurface adapts a tcell screen to the linkify surface
// interfaces: it translates tcell mouse and focus events into pointer
// events, maps them to grid cells, announces repaints, and paints the
// underline decoration spans the hover machine emits.
package tcellsurface

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/gridterm/linkify/hover"
	"github.com/gridterm/linkify/internal/emitter"
	"github.com/gridterm/linkify/pointer"
)

// Surface emits pointer events derived from tcell events. Feed it from
// the application's event loop via HandleEvent.
type Surface struct {
	mu          sync.Mutex
	screen      tcell.Screen
	moves       *emitter.Emitter[pointer.Event]
	leaves      *emitter.Emitter[pointer.Event]
	clicks      *emitter.Emitter[pointer.Event]
	lastButtons tcell.ButtonMask
}

// New creates a surface over screen. The screen must have mouse
// support enabled for mouse events to arrive.
func New(screen tcell.Screen) *Surface {
	return &Surface{
		screen: screen,
		moves:  emitter.New[pointer.Event](),
		leaves: emitter.New[pointer.Event](),
		clicks: emitter.New[pointer.Event](),
	}
}

// OnPointerMove registers a pointer-move listener.
func (s *Surface) OnPointerMove(fn func(pointer.Event)) func() {
	l := s.moves.Listen(fn)
	return l.Cancel
}

// OnPointerLeave registers a pointer-leave listener.
func (s *Surface) OnPointerLeave(fn func(pointer.Event)) func() {
	l := s.leaves.Listen(fn)
	return l.Cancel
}

// OnPointerClick registers a pointer-click listener.
func (s *Surface) OnPointerClick(fn func(pointer.Event)) func() {
	l := s.clicks.Listen(fn)
	return l.Cancel
}

// HandleEvent translates a tcell event into pointer events. It returns
// true if the event was consumed (mouse and focus events), false for
// everything else so the caller can route keys and resizes elsewhere.
//
// A mouse event with a newly pressed button is reported as a click in
// addition to a move; losing terminal focus is reported as the pointer
// leaving the surface.
func (s *Surface) HandleEvent(ev tcell.Event) bool {
	switch tev := ev.(type) {
	case *tcell.EventMouse:
		s.handleMouse(tev)
		return true
	case *tcell.EventFocus:
		if !tev.Focused {
			s.leaves.Emit(pointer.Event{Origin: pointer.OriginSurface})
		}
		return true
	default:
		return false
	}
}

func (s *Surface) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	mods := convertModifiers(ev.Modifiers())

	s.mu.Lock()
	prev := s.lastButtons
	buttons := ev.Buttons() & (tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle)
	s.lastButtons = buttons
	s.mu.Unlock()

	pressed := buttons &^ prev
	if pressed != 0 {
		s.clicks.Emit(pointer.Event{
			X:         x,
			Y:         y,
			Button:    convertButton(pressed),
			Modifiers: mods,
			Origin:    pointer.OriginSurface,
		})
		return
	}
	if buttons == 0 {
		s.moves.Emit(pointer.Event{
			X:         x,
			Y:         y,
			Modifiers: mods,
			Origin:    pointer.OriginSurface,
		})
	}
}

func convertButton(mask tcell.ButtonMask) pointer.Button {
	switch {
	case mask&tcell.ButtonPrimary != 0:
		return pointer.ButtonLeft
	case mask&tcell.ButtonSecondary != 0:
		return pointer.ButtonRight
	case mask&tcell.ButtonMiddle != 0:
		return pointer.ButtonMiddle
	default:
		return pointer.ButtonNone
	}
}

func convertModifiers(mods tcell.ModMask) pointer.Modifier {
	var m pointer.Modifier
	if mods&tcell.ModShift != 0 {
		m |= pointer.ModShift
	}
	if mods&tcell.ModCtrl != 0 {
		m |= pointer.ModCtrl
	}
	if mods&tcell.ModAlt != 0 {
		m |= pointer.ModAlt
	}
	if mods&tcell.ModMeta != 0 {
		m |= pointer.ModMeta
	}
	return m
}

// PaintUnderline toggles the underline style attribute over the cell
// span described by ev, walking wrapped rows at the event's column
// count. The caller shows the change with screen.Show.
func PaintUnderline(screen tcell.Screen, ev hover.UnderlineEvent, on bool) {
	if ev.Cols <= 0 {
		return
	}
	for y := ev.Y1; y <= ev.Y2; y++ {
		x1 := 0
		x2 := ev.Cols
		if y == ev.Y1 {
			x1 = ev.X1
		}
		if y == ev.Y2 {
			x2 = ev.X2
		}
		for x := x1; x < x2; x++ {
			mainc, combc, style, _ := screen.GetContent(x, y)
			screen.SetContent(x, y, mainc, combc, style.Underline(on))
		}
	}
}
