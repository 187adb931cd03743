package link

import (
	"testing"

	"github.com/gridterm/linkify/grid"
)

func testRange() grid.Range {
	return grid.Range{
		Start: grid.CellPosition{X: 3, Y: 5},
		End:   grid.CellPosition{X: 12, Y: 5},
	}
}

func TestNewDefaults(t *testing.T) {
	l := New(testRange(), "https://example.com")

	d := l.Decorations()
	if !d.Underline() {
		t.Error("underline should default to true")
	}
	if !d.PointerCursor() {
		t.Error("pointerCursor should default to true")
	}
}

func TestDecorationsLazyInit(t *testing.T) {
	l := &Link{Range: testRange(), Text: "x"}

	d := l.Decorations()
	if d == nil {
		t.Fatal("Decorations() returned nil")
	}
	if d != l.Decorations() {
		t.Error("Decorations() should return the same instance")
	}
	if !d.Underline() || !d.PointerCursor() {
		t.Error("lazily created decorations should default to true/true")
	}
}

func TestObserverSeesEachLogicalChangeOnce(t *testing.T) {
	d := NewDecorations()
	var changes []DecorationChange
	d.Observe(func(ch DecorationChange) { changes = append(changes, ch) })

	d.SetUnderline(false)
	d.SetUnderline(false) // no-op, value unchanged
	d.SetUnderline(true)
	d.SetPointerCursor(false)

	want := []DecorationChange{
		{Field: FieldUnderline, Value: false},
		{Field: FieldUnderline, Value: true},
		{Field: FieldPointerCursor, Value: false},
	}
	if len(changes) != len(want) {
		t.Fatalf("got %d changes, want %d: %v", len(changes), len(want), changes)
	}
	for i, ch := range changes {
		if ch != want[i] {
			t.Errorf("change[%d] = %v, want %v", i, ch, want[i])
		}
	}
}

func TestUnobserveStopsNotifications(t *testing.T) {
	d := NewDecorations()
	count := 0
	d.Observe(func(DecorationChange) { count++ })

	d.SetUnderline(false)
	d.Unobserve()
	d.SetUnderline(true)

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestSetWithoutObserver(t *testing.T) {
	d := NewDecorations()

	// Must not panic and must still record the value.
	d.SetUnderline(false)
	d.SetPointerCursor(false)

	if d.Underline() || d.PointerCursor() {
		t.Error("setters should update values without an observer")
	}
}
