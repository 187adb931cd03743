package linkify

import (
	"testing"

	"github.com/gridterm/linkify/grid"
	"github.com/gridterm/linkify/hover"
	"github.com/gridterm/linkify/link"
	"github.com/gridterm/linkify/pointer"
)

// fakeSurface drives the linkifier's pointer listeners directly.
type fakeSurface struct {
	moves  []func(pointer.Event)
	leaves []func(pointer.Event)
	clicks []func(pointer.Event)
}

func (s *fakeSurface) OnPointerMove(fn func(pointer.Event)) func() {
	s.moves = append(s.moves, fn)
	return func() { s.moves = nil }
}

func (s *fakeSurface) OnPointerLeave(fn func(pointer.Event)) func() {
	s.leaves = append(s.leaves, fn)
	return func() { s.leaves = nil }
}

func (s *fakeSurface) OnPointerClick(fn func(pointer.Event)) func() {
	s.clicks = append(s.clicks, fn)
	return func() { s.clicks = nil }
}

func (s *fakeSurface) move(ev pointer.Event) {
	for _, fn := range s.moves {
		fn(ev)
	}
}

func (s *fakeSurface) leave() {
	for _, fn := range s.leaves {
		fn(pointer.Event{Origin: pointer.OriginSurface})
	}
}

func (s *fakeSurface) click(ev pointer.Event) {
	for _, fn := range s.clicks {
		fn(ev)
	}
}

// cellMapper maps raw coordinates one-to-one to cells: 1-based column,
// scroll-offset-adjusted row.
type cellMapper struct {
	metrics grid.Metrics
}

func (m cellMapper) MapToCell(ev pointer.Event, cols, rows int) (grid.CellPosition, bool) {
	if ev.X < 0 || ev.X >= cols || ev.Y < 0 || ev.Y >= rows {
		return grid.CellPosition{}, false
	}
	return grid.CellPosition{X: ev.X + 1, Y: ev.Y + m.metrics.ScrollOffset() + 1}, true
}

// fakeNotifier drives repaint notifications.
type fakeNotifier struct {
	listeners []func(RepaintEvent)
}

func (n *fakeNotifier) OnRowsRepainted(fn func(RepaintEvent)) func() {
	n.listeners = append(n.listeners, fn)
	return func() { n.listeners = nil }
}

func (n *fakeNotifier) repaint(start, end int) {
	for _, fn := range n.listeners {
		fn(RepaintEvent{StartRow: start, EndRow: end})
	}
}

// asyncProvider records queries and lets tests answer them later.
type asyncProvider struct {
	queries []grid.CellPosition
	replies []func(*link.Link)
}

func (p *asyncProvider) ProvideLink(pos grid.CellPosition, reply func(*link.Link)) {
	p.queries = append(p.queries, pos)
	p.replies = append(p.replies, reply)
}

func (p *asyncProvider) fire(l *link.Link) {
	p.replies[len(p.replies)-1](l)
}

type fixture struct {
	lf       *Linkifier
	surface  *fakeSurface
	notifier *fakeNotifier
	provider *asyncProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	metrics := grid.FixedMetrics{Width: 80, Height: 24}
	f := &fixture{
		surface:  &fakeSurface{},
		notifier: &fakeNotifier{},
		provider: &asyncProvider{},
	}
	f.lf = New(metrics)
	f.lf.RegisterLinkProvider(f.provider)
	if err := f.lf.Attach(f.surface, cellMapper{metrics: metrics}, f.notifier); err != nil {
		t.Fatalf("Attach() = %v", err)
	}
	return f
}

func rowLink(text string, y int) *link.Link {
	return link.New(grid.Range{
		Start: grid.CellPosition{X: 3, Y: y},
		End:   grid.CellPosition{X: 12, Y: y},
	}, text)
}

func TestMoveResolvesAndActivatesLink(t *testing.T) {
	f := newFixture(t)
	var shows []hover.UnderlineEvent
	f.lf.OnShowUnderline(func(ev hover.UnderlineEvent) { shows = append(shows, ev) })

	f.surface.move(pointer.Event{X: 4, Y: 4}) // cell (5,5)

	if len(f.provider.queries) != 1 {
		t.Fatalf("provider asked %d times, want 1", len(f.provider.queries))
	}
	if want := (grid.CellPosition{X: 5, Y: 5}); !f.provider.queries[0].Equal(want) {
		t.Errorf("query pos = %v, want %v", f.provider.queries[0], want)
	}

	l := rowLink("a", 5)
	f.provider.fire(l)

	if f.lf.Active() != l {
		t.Error("resolved link not active")
	}
	if len(shows) != 1 {
		t.Errorf("got %d show events, want 1", len(shows))
	}
}

func TestSameCellMovesAreDeduplicated(t *testing.T) {
	f := newFixture(t)

	// Same cell three times: sub-cell jitter must not multiply
	// provider call volume.
	f.surface.move(pointer.Event{X: 4, Y: 4})
	f.surface.move(pointer.Event{X: 4, Y: 4})
	f.surface.move(pointer.Event{X: 4, Y: 4})

	if len(f.provider.queries) != 1 {
		t.Errorf("provider asked %d times, want 1", len(f.provider.queries))
	}
}

func TestMoveWithinActiveLinkKeepsIt(t *testing.T) {
	f := newFixture(t)
	f.surface.move(pointer.Event{X: 4, Y: 4})
	l := rowLink("a", 5)
	f.provider.fire(l)

	// Still inside the link's range: no clear, no new query.
	f.surface.move(pointer.Event{X: 6, Y: 4})

	if f.lf.Active() != l {
		t.Error("link lost while pointer stayed inside its range")
	}
	if len(f.provider.queries) != 1 {
		t.Errorf("provider asked %d times, want 1", len(f.provider.queries))
	}
}

func TestMoveOffLinkClearsAndResolvesAgain(t *testing.T) {
	f := newFixture(t)
	var hides int
	f.lf.OnHideUnderline(func(hover.UnderlineEvent) { hides++ })

	f.surface.move(pointer.Event{X: 4, Y: 4})
	f.provider.fire(rowLink("a", 5))

	f.surface.move(pointer.Event{X: 40, Y: 4})

	if f.lf.Active() != nil {
		t.Error("link still active after pointer left its range")
	}
	if hides != 1 {
		t.Errorf("got %d hide events, want 1", hides)
	}
	if len(f.provider.queries) != 2 {
		t.Errorf("provider asked %d times, want 2", len(f.provider.queries))
	}
}

func TestOverlayEventsAreIgnored(t *testing.T) {
	f := newFixture(t)
	f.surface.move(pointer.Event{X: 4, Y: 4})
	l := rowLink("a", 5)
	f.provider.fire(l)

	// An overlay-origin move elsewhere neither queries providers nor
	// clears the active link, and it must not disturb last-position
	// tracking either: the next surface event at the same cell as the
	// overlay event still resolves.
	f.surface.move(pointer.Event{X: 40, Y: 10, Origin: pointer.OriginOverlay})

	if f.lf.Active() != l {
		t.Error("overlay event cleared the active link")
	}
	if len(f.provider.queries) != 1 {
		t.Fatalf("overlay event reached providers: %d queries", len(f.provider.queries))
	}

	f.surface.move(pointer.Event{X: 40, Y: 10})
	if len(f.provider.queries) != 2 {
		t.Errorf("surface event after overlay event did not resolve: %d queries", len(f.provider.queries))
	}
}

func TestLateReplyOutsideCurrentPositionIsDropped(t *testing.T) {
	f := newFixture(t)

	f.surface.move(pointer.Event{X: 4, Y: 4})
	// The provider answers with a link that does not cover the cell the
	// pointer is on; it must not become active.
	f.provider.fire(rowLink("elsewhere", 20))

	if f.lf.Active() != nil {
		t.Error("activated a link that does not cover the pointer position")
	}
}

func TestReplyForSupersededQueryNeverActivates(t *testing.T) {
	f := newFixture(t)

	f.surface.move(pointer.Event{X: 4, Y: 4})  // query 1 at (5,5)
	f.surface.move(pointer.Event{X: 40, Y: 9}) // query 2 at (41,10)

	// Query 1's late reply is stale by generation and is discarded even
	// though its link covers the original cell.
	f.provider.replies[0](rowLink("stale", 5))
	if f.lf.Active() != nil {
		t.Fatal("stale reply activated a link")
	}

	l := rowLink("fresh", 10)
	l.Range.Start.X = 30
	l.Range.End.X = 50
	f.provider.replies[1](l)
	if f.lf.Active() != l {
		t.Error("current query's reply did not activate")
	}
}

func TestPointerLeaveClearsActiveLink(t *testing.T) {
	f := newFixture(t)
	f.surface.move(pointer.Event{X: 4, Y: 4})
	f.provider.fire(rowLink("a", 5))

	f.surface.leave()

	if f.lf.Active() != nil {
		t.Error("link still active after pointer left the surface")
	}
}

func TestRepaintInvalidatesActiveLink(t *testing.T) {
	f := newFixture(t)
	f.surface.move(pointer.Event{X: 4, Y: 4})
	f.provider.fire(rowLink("a", 5))

	f.notifier.repaint(20, 23)
	if f.lf.Active() == nil {
		t.Fatal("disjoint repaint cleared the link")
	}

	f.notifier.repaint(3, 6)
	if f.lf.Active() != nil {
		t.Error("intersecting repaint kept the link")
	}
}

func TestClickActivates(t *testing.T) {
	f := newFixture(t)
	f.surface.move(pointer.Event{X: 4, Y: 4})
	l := rowLink("https://example.com", 5)
	var got string
	l.Activate = func(_ pointer.Event, text string) { got = text }
	f.provider.fire(l)

	f.surface.click(pointer.Event{X: 4, Y: 4, Button: pointer.ButtonLeft})

	if got != "https://example.com" {
		t.Errorf("activate text = %q, want the link text", got)
	}
}

func TestEventsOutsideDisplayAreaAreIgnored(t *testing.T) {
	f := newFixture(t)

	f.surface.move(pointer.Event{X: 200, Y: 4})
	f.surface.move(pointer.Event{X: 4, Y: -1})

	if len(f.provider.queries) != 0 {
		t.Errorf("out-of-bounds events reached providers: %d queries", len(f.provider.queries))
	}
}

func TestAttachTwiceFails(t *testing.T) {
	f := newFixture(t)

	err := f.lf.Attach(f.surface, cellMapper{metrics: grid.FixedMetrics{Width: 80, Height: 24}}, f.notifier)
	if err != ErrAlreadyAttached {
		t.Errorf("second Attach() = %v, want ErrAlreadyAttached", err)
	}
}

func TestDetachStopsEventFlow(t *testing.T) {
	f := newFixture(t)
	f.surface.move(pointer.Event{X: 4, Y: 4})
	f.provider.fire(rowLink("a", 5))

	if err := f.lf.Detach(); err != nil {
		t.Fatalf("Detach() = %v", err)
	}

	if f.lf.Active() != nil {
		t.Error("link still active after Detach")
	}
	f.surface.move(pointer.Event{X: 40, Y: 9})
	if len(f.provider.queries) != 1 {
		t.Errorf("events still flowing after Detach: %d queries", len(f.provider.queries))
	}

	if err := f.lf.Detach(); err != ErrNotAttached {
		t.Errorf("second Detach() = %v, want ErrNotAttached", err)
	}
}
