// Package provider defines the link-provider capability and the
// ordered registry that determines provider priority.
package provider

import (
	"github.com/gridterm/linkify/grid"
	"github.com/gridterm/linkify/link"
)

// Provider answers "is there a link at this cell position?"
// asynchronously.
//
// ProvideLink must eventually invoke reply at most once per call, with
// the link covering pos or nil if there is none. Invoking it zero times
// is tolerated but blocks the final fallback decision for that query
// until the query is superseded. The reply may be invoked synchronously
// from inside ProvideLink or at any later point on the event-loop
// thread.
type Provider interface {
	ProvideLink(pos grid.CellPosition, reply func(*link.Link))
}

// Func adapts a plain function to the Provider interface.
type Func func(pos grid.CellPosition, reply func(*link.Link))

// ProvideLink calls f.
func (f Func) ProvideLink(pos grid.CellPosition, reply func(*link.Link)) {
	f(pos, reply)
}
