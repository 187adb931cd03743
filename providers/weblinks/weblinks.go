// Package weblinks provides a regex-based URL link provider over a
// grid row source. Wrapped rows are stitched back into one logical
// line before matching, so a URL broken across rows resolves to a
// single wrap-aware link range.
package weblinks

import (
	"regexp"

	"github.com/mattn/go-runewidth"

	"github.com/gridterm/linkify/grid"
	"github.com/gridterm/linkify/link"
	"github.com/gridterm/linkify/pointer"
	"github.com/gridterm/linkify/provider"
)

// defaultPattern matches http and https URLs up to the next whitespace
// or closing quote/bracket.
var defaultPattern = regexp.MustCompile(`https?://[^\s"'>)\]]+`)

// maxWrappedRows caps logical-line reconstruction so a pathological
// source that reports every row as wrapped cannot spin the provider.
const maxWrappedRows = 128

// Source supplies row text for link detection.
type Source interface {
	// Row returns the text of absolute row y (1-based) and whether the
	// row wraps onto the next one. ok is false when y is out of range.
	Row(y int) (text string, wrapped bool, ok bool)
}

// Provider detects URL links in the rows of a Source.
type Provider struct {
	metrics  grid.Metrics
	source   Source
	pattern  *regexp.Regexp
	activate func(ev pointer.Event, text string)
}

// Option configures a Provider.
type Option func(*Provider)

// WithPattern overrides the URL pattern.
func WithPattern(pattern *regexp.Regexp) Option {
	return func(p *Provider) {
		p.pattern = pattern
	}
}

// WithActivate sets the activate callback attached to produced links.
func WithActivate(fn func(ev pointer.Event, text string)) Option {
	return func(p *Provider) {
		p.activate = fn
	}
}

// New creates a URL provider reading display width from metrics and
// row text from source.
func New(metrics grid.Metrics, source Source, opts ...Option) *Provider {
	p := &Provider{
		metrics: metrics,
		source:  source,
		pattern: defaultPattern,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProvideLink implements provider.Provider. It replies synchronously.
func (p *Provider) ProvideLink(pos grid.CellPosition, reply func(*link.Link)) {
	l := p.linkAt(pos)
	reply(l)
}

// linkAt reconstructs the logical line containing pos and returns the
// URL link covering pos, if any.
func (p *Provider) linkAt(pos grid.CellPosition) *link.Link {
	text, startRow, ok := p.logicalLine(pos.Y)
	if !ok {
		return nil
	}
	cols := p.metrics.Cols()
	if cols <= 0 {
		return nil
	}

	for _, loc := range p.pattern.FindAllStringIndex(text, -1) {
		startCol := runewidth.StringWidth(text[:loc[0]]) + 1
		endCol := startCol + runewidth.StringWidth(text[loc[0]:loc[1]]) - 1
		r := grid.Range{
			Start: flatToCell(startCol, startRow, cols),
			End:   flatToCell(endCol, startRow, cols),
		}
		if !r.Covers(pos) {
			continue
		}
		l := link.New(r, text[loc[0]:loc[1]])
		l.Activate = p.activate
		return l
	}
	return nil
}

// logicalLine walks back to the first row of the wrapped line that
// contains row y, then concatenates forward while rows keep wrapping.
// It returns the joined text and the absolute row it starts on.
func (p *Provider) logicalLine(y int) (string, int, bool) {
	if _, _, ok := p.source.Row(y); !ok {
		return "", 0, false
	}

	start := y
	for i := 0; i < maxWrappedRows; i++ {
		_, wrapped, ok := p.source.Row(start - 1)
		if !ok || !wrapped {
			break
		}
		start--
	}

	var text string
	row := start
	for i := 0; i < maxWrappedRows; i++ {
		line, wrapped, ok := p.source.Row(row)
		if !ok {
			break
		}
		text += line
		if !wrapped {
			break
		}
		row++
	}
	return text, start, true
}

// flatToCell converts a 1-based column offset within a logical line
// into the wrapped cell position it lands on.
func flatToCell(col, startRow, cols int) grid.CellPosition {
	return grid.CellPosition{
		X: (col-1)%cols + 1,
		Y: startRow + (col-1)/cols,
	}
}

// Interface guard.
var _ provider.Provider = (*Provider)(nil)
