package stepz

import (
	"context"
	"strconv"

	"github.com/zoobzio/clockz"
)

// TuplePack is the positional packer: it fans one upstream value out to a
// fixed, ordered set of children and zips their output sequences pairwise
// by position. Each output element is a []any tuple holding exactly one
// value from every child, in child order. Zipping stops at the shortest
// child - no partial tuples are ever produced, so the output length is
// the minimum of the children's output lengths.
//
// This all-or-nothing discipline is what distinguishes TuplePack from the
// other packers, which drop exhausted children and keep going.
type TuplePack struct {
	packBase
	steps []Step
}

// NewTuplePack creates a positional packer over the given children in
// order.
func NewTuplePack(name Name, steps ...Step) *TuplePack {
	return &TuplePack{
		packBase: newPackBase(name, "tuple"),
		steps:    append([]Step(nil), steps...),
	}
}

// Produce implements the Step interface. Every child receives the same
// upstream value via Produce (not ProduceAll - packers apply to a single
// value); rounds then pull one element per child until the first child
// runs dry.
func (p *TuplePack) Produce(ctx context.Context, value any) Seq {
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

		if len(steps) == 0 {
			p.exhausted(spanCtx, 0)
			return
		}

		group := newPullGroup(spanCtx, steps, value)
		defer group.stopAll()

		for round := 1; ; round++ {
			tuple := make([]any, len(steps))
			for i, next := range group.next {
				v, err, ok := next()
				if err != nil {
					span.SetTag(PackTagError, err.Error())
					p.metrics.Counter(PackFailuresTotal).Inc()
					yield(nil, err)
					return
				}
				if !ok {
					p.exhausted(spanCtx, round-1)
					return
				}
				tuple[i] = v
			}
			p.emitRound(spanCtx, round, len(tuple))
			if !yield(tuple, nil) {
				return
			}
		}
	}
}

// Len returns the number of children.
func (p *TuplePack) Len() int {
	return len(p.steps)
}

// Steps returns the children in order.
func (p *TuplePack) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// String returns the packer literal, e.g. "TuplePack(a(), b())".
func (p *TuplePack) String() string {
	return "TuplePack(" + joinLabels(p.steps, ", ") + ")"
}

// WithClock sets a custom clock for event timestamps.
func (p *TuplePack) WithClock(clock clockz.Clock) *TuplePack {
	p.setClock(clock)
	return p
}
