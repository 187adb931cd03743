// Package main is a terminal demo for the linkify library. It renders
// a scrollable text buffer with tcell, attaches a linkifier with a URL
// provider, and paints underline decorations as the pointer hovers
// links. Scrolling with the arrow keys exercises repaint invalidation.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/gridterm/linkify"
	"github.com/gridterm/linkify/grid"
	"github.com/gridterm/linkify/hover"
	"github.com/gridterm/linkify/pointer"
	"github.com/gridterm/linkify/providers/weblinks"
	"github.com/gridterm/linkify/tcellsurface"
)

var sampleText = strings.TrimSpace(`
linkify demo. Hover a URL to underline it, click to select it.

Docs live at https://example.com/docs and the tracker is at
https://issues.example.com/board?project=linkify - both are plain
single-row links.

The next line is long enough to wrap on most terminals, and the URL
https://registry.example.com/packages/gridterm/linkify/releases/v1.0.0/download/artifacts/checksums.txt keeps going past the display width.

Scroll with the up/down arrows. Press q or Esc to quit.
`)

func main() {
	os.Exit(run())
}

func run() int {
	logPath := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	logger := zerolog.Nop()
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logger = zerolog.New(f).With().Timestamp().Logger()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.EnableFocus()

	buf := newBuffer(sampleText, screen)
	surface := tcellsurface.New(screen)
	notifier := tcellsurface.NewNotifier()

	lf := linkify.New(buf, linkify.WithLogger(logger))
	lf.RegisterLinkProvider(weblinks.New(buf, buf, weblinks.WithActivate(func(_ pointer.Event, text string) {
		buf.status = "activated: " + text
		buf.render(notifier)
		screen.Show()
	})))
	lf.OnShowUnderline(func(ev hover.UnderlineEvent) {
		tcellsurface.PaintUnderline(screen, ev, true)
		screen.Show()
	})
	lf.OnHideUnderline(func(ev hover.UnderlineEvent) {
		tcellsurface.PaintUnderline(screen, ev, false)
		screen.Show()
	})
	if err := lf.Attach(surface, tcellsurface.NewMapper(buf), notifier); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to attach linkifier: %v\n", err)
		return 1
	}
	defer lf.Detach()

	buf.render(notifier)
	screen.Show()

	for {
		ev := screen.PollEvent()
		if ev == nil {
			return 0
		}
		if surface.HandleEvent(ev) {
			continue
		}
		switch tev := ev.(type) {
		case *tcell.EventResize:
			buf.layout()
			buf.render(notifier)
			screen.Sync()
		case *tcell.EventKey:
			switch {
			case tev.Key() == tcell.KeyEscape || tev.Rune() == 'q':
				return 0
			case tev.Key() == tcell.KeyUp:
				buf.scroll(-1)
				buf.render(notifier)
				screen.Show()
			case tev.Key() == tcell.KeyDown:
				buf.scroll(1)
				buf.render(notifier)
				screen.Show()
			}
		}
	}
}

// buffer is the demo's display buffer: the sample text laid out into
// wrapped rows for the current screen width. It serves as the
// linkifier's metrics source and the URL provider's row source.
type buffer struct {
	screen tcell.Screen
	text   string
	status string

	rows   []row
	offset int
	cols   int
	height int
}

// row is one physical display row of the laid-out text.
type row struct {
	text    string
	wrapped bool
}

func newBuffer(text string, screen tcell.Screen) *buffer {
	b := &buffer{screen: screen, text: text}
	b.layout()
	return b
}

// Cols returns the display width in columns.
func (b *buffer) Cols() int { return b.cols }

// Rows returns the display height in rows.
func (b *buffer) Rows() int { return b.height }

// ScrollOffset returns the number of rows scrolled past the top.
func (b *buffer) ScrollOffset() int { return b.offset }

// Row implements weblinks.Source for 1-based absolute rows.
func (b *buffer) Row(y int) (string, bool, bool) {
	if y < 1 || y > len(b.rows) {
		return "", false, false
	}
	r := b.rows[y-1]
	return r.text, r.wrapped, true
}

// layout rewraps the text for the current screen size.
func (b *buffer) layout() {
	b.cols, b.height = b.screen.Size()
	if b.height > 1 {
		b.height-- // bottom row is the status line
	}
	b.rows = b.rows[:0]
	for _, line := range strings.Split(b.text, "\n") {
		for b.cols > 0 && len(line) > b.cols {
			b.rows = append(b.rows, row{text: line[:b.cols], wrapped: true})
			line = line[b.cols:]
		}
		b.rows = append(b.rows, row{text: line})
	}
	if b.offset > len(b.rows)-1 {
		b.offset = len(b.rows) - 1
	}
	if b.offset < 0 {
		b.offset = 0
	}
}

// scroll moves the viewport by delta rows and notifies nothing itself;
// the caller re-renders, which announces the repaint.
func (b *buffer) scroll(delta int) {
	b.offset += delta
	if b.offset < 0 {
		b.offset = 0
	}
	if max := len(b.rows) - 1; b.offset > max {
		b.offset = max
	}
}

// render draws the visible rows and the status line, then announces
// the full-viewport repaint so a stale active link is invalidated.
func (b *buffer) render(notifier *tcellsurface.Notifier) {
	b.screen.Clear()
	style := tcell.StyleDefault
	for y := 0; y < b.height; y++ {
		idx := y + b.offset
		if idx >= len(b.rows) {
			break
		}
		for x, r := range b.rows[idx].text {
			b.screen.SetContent(x, y, r, nil, style)
		}
	}
	statusStyle := style.Reverse(true)
	for x, r := range b.status {
		b.screen.SetContent(x, b.height, r, nil, statusStyle)
	}
	notifier.RowsRepainted(0, b.height-1)
}

// Interface guards.
var (
	_ grid.Metrics    = (*buffer)(nil)
	_ weblinks.Source = (*buffer)(nil)
)
