// Package pointer defines the raw pointer event vocabulary shared by
// the linkifier coordinator and surface adapters.
package pointer

// Button represents a pointer button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) button.
	ButtonLeft
	// ButtonMiddle is the middle button.
	ButtonMiddle
	// ButtonRight is the secondary (right) button.
	ButtonRight
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// Origin identifies where a pointer event came from. Events that
// originate from an overlay element injected above the display surface
// (for example an external hover widget) are suppressed entirely by
// the coordinator.
type Origin uint8

const (
	// OriginSurface marks events raised by the display surface itself.
	OriginSurface Origin = iota
	// OriginOverlay marks events raised by an overlay element above
	// the surface.
	OriginOverlay
)

// String returns a string representation of the origin.
func (o Origin) String() string {
	if o == OriginOverlay {
		return "overlay"
	}
	return "surface"
}

// Modifier represents keyboard modifiers held during a pointer event.
type Modifier uint8

// Modifier flags.
const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// HasShift returns true if Shift was held.
func (m Modifier) HasShift() bool { return m&ModShift != 0 }

// HasCtrl returns true if Ctrl was held.
func (m Modifier) HasCtrl() bool { return m&ModCtrl != 0 }

// HasAlt returns true if Alt was held.
func (m Modifier) HasAlt() bool { return m&ModAlt != 0 }

// HasMeta returns true if Meta/Cmd was held.
func (m Modifier) HasMeta() bool { return m&ModMeta != 0 }

// Event is a raw pointer event as reported by a surface. X and Y are
// surface-local coordinates in whatever unit the surface uses; a
// position mapper converts them to grid cells.
type Event struct {
	// X is the surface-local horizontal coordinate (0-based).
	X int

	// Y is the surface-local vertical coordinate (0-based).
	Y int

	// Button is the button involved, if any.
	Button Button

	// Modifiers are keyboard modifiers held during the event.
	Modifiers Modifier

	// Origin identifies whether the event came from the surface or an
	// overlay above it.
	Origin Origin
}
