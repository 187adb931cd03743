// Package resolve implements the priority race that merges
// asynchronous provider replies into one deterministic decision.
//
// For a given pointer position every provider registered at the start
// of the query is asked for a link. Providers answer at arbitrary,
// unordered times; the resolver picks the same winner "wait for all
// replies, then take the first non-empty in registration order" would
// pick, but declares it as soon as the outcome is already invariant
// under any future reply: once every provider ahead of a non-empty
// reply is known to be empty, no later reply can change the answer.
//
// A provider that never replies blocks only the final fallback scan of
// its own query. That liveness gap is accepted by design: queries are
// superseded whenever the pointer reaches a new cell, and replies
// carrying an elapsed generation are discarded without touching state.
package resolve

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/gridterm/linkify/grid"
	"github.com/gridterm/linkify/link"
	"github.com/gridterm/linkify/provider"
)

// Resolver runs at most one live query at a time; starting a new query
// supersedes the previous one.
type Resolver struct {
	mu         sync.Mutex
	registry   *provider.Registry
	generation uint64
	current    *query
	logger     zerolog.Logger
}

// query tracks the reply bookkeeping for one pointer position.
type query struct {
	gen     uint64
	pos     grid.CellPosition
	replies []reply
	decided bool
	deliver func(*link.Link)
}

// reply records one provider's answer. A nil link with received=true is
// an explicit "nothing here"; received=false means still pending.
type reply struct {
	received bool
	link     *link.Link
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for provider contract violations and
// stale-reply traces.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a resolver that queries providers from registry.
func NewResolver(registry *provider.Registry, opts ...Option) *Resolver {
	r := &Resolver{
		registry: registry,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve starts a new query for pos, superseding any query still in
// flight. deliver is invoked exactly once with the winning link, or nil
// if no provider has a link at pos. With zero registered providers the
// answer is immediate.
//
// deliver may be invoked synchronously from inside Resolve when
// providers reply inline.
func (r *Resolver) Resolve(pos grid.CellPosition, deliver func(*link.Link)) {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	providers := r.registry.Snapshot()
	q := &query{
		gen:     gen,
		pos:     pos,
		replies: make([]reply, len(providers)),
		deliver: deliver,
	}
	r.current = q
	r.mu.Unlock()

	if len(providers) == 0 {
		deliver(nil)
		return
	}

	for i, p := range providers {
		index := i
		p.ProvideLink(pos, func(l *link.Link) {
			r.handleReply(gen, index, l)
		})
	}
}

// Generation returns the current query generation. Replies bound to an
// earlier generation are stale.
func (r *Resolver) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// handleReply records provider index's answer for the query identified
// by gen and decides the race if the partial reply table already pins
// the outcome.
func (r *Resolver) handleReply(gen uint64, index int, l *link.Link) {
	r.mu.Lock()

	q := r.current
	if q == nil || q.gen != gen {
		r.mu.Unlock()
		r.logger.Debug().
			Uint64("generation", gen).
			Int("provider", index).
			Msg("discarding stale provider reply")
		return
	}
	if q.decided {
		r.mu.Unlock()
		return
	}
	if q.replies[index].received {
		r.mu.Unlock()
		r.logger.Warn().
			Int("provider", index).
			Stringer("pos", q.pos).
			Msg("provider replied more than once for a single query; ignoring")
		return
	}
	q.replies[index] = reply{received: true, link: l}

	winner, decided := q.evaluate()
	if !decided {
		r.mu.Unlock()
		return
	}
	q.decided = true
	deliver := q.deliver
	r.mu.Unlock()

	deliver(winner)
}

// evaluate scans the reply table in priority order and reports whether
// the outcome is already final. Walking from index 0: a pending reply
// blocks the scan, because that provider could still produce a link
// that outranks everything after it; the first received non-empty reply
// encountered before any pending slot wins outright; and if the scan
// runs off the end every provider answered empty, which is the "no
// link" outcome.
func (q *query) evaluate() (*link.Link, bool) {
	for _, rep := range q.replies {
		if !rep.received {
			return nil, false
		}
		if rep.link != nil {
			return rep.link, true
		}
	}
	return nil, true
}
