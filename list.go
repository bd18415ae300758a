package stepz

import (
	"context"
	"strconv"

	"github.com/zoobzio/clockz"
)

// ListPack is the ordered-list packer: it fans one upstream value out to
// an ordered set of children and, at each output position, collects one
// value from every still-alive child into a []any. Children that run dry
// are dropped from later positions rather than stopping the packer; only
// once every child is exhausted does the output end. Early positions may
// therefore carry full collections and later ones fewer entries,
// reflecting staggered exhaustion - the structural opposite of
// TuplePack's truncate-to-shortest.
type ListPack struct {
	packBase
	steps []Step
}

// NewListPack creates an ordered-list packer over the given children in
// order.
func NewListPack(name Name, steps ...Step) *ListPack {
	return &ListPack{
		packBase: newPackBase(name, "list"),
		steps:    append([]Step(nil), steps...),
	}
}

// Produce implements the Step interface.
func (p *ListPack) Produce(ctx context.Context, value any) Seq {
	steps := p.steps

	return func(yield func(any, error) bool) {
		if ctx == nil {
			ctx = context.Background()
		}

		p.metrics.Counter(PackProducedTotal).Inc()
		spanCtx, span := p.tracer.StartSpan(ctx, PackProduceSpan)
		span.SetTag(PackTagKind, p.kind)
		span.SetTag(PackTagChildren, strconv.Itoa(len(steps)))
		defer span.Finish()

		group := newPullGroup(spanCtx, steps, value)
		defer group.stopAll()

		done := make([]bool, len(steps))
		for round := 1; ; round++ {
			out := make([]any, 0, len(steps))
			for i, next := range group.next {
				if done[i] {
					continue
				}
				v, err, ok := next()
				if err != nil {
					span.SetTag(PackTagError, err.Error())
					p.metrics.Counter(PackFailuresTotal).Inc()
					yield(nil, err)
					return
				}
				if !ok {
					done[i] = true
					continue
				}
				out = append(out, v)
			}
			if len(out) == 0 {
				p.exhausted(spanCtx, round-1)
				return
			}
			p.emitRound(spanCtx, round, len(out))
			if !yield(out, nil) {
				return
			}
		}
	}
}

// Len returns the number of children.
func (p *ListPack) Len() int {
	return len(p.steps)
}

// Steps returns the children in order.
func (p *ListPack) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// String returns the packer literal, e.g. "ListPack[a(), b()]".
func (p *ListPack) String() string {
	return "ListPack[" + joinLabels(p.steps, ", ") + "]"
}

// WithClock sets a custom clock for event timestamps.
func (p *ListPack) WithClock(clock clockz.Clock) *ListPack {
	p.setClock(clock)
	return p
}
