package stepz

import (
	"context"
	"strconv"

	"github.com/zoobzio/clockz"
)

// SetPack is the unordered packer: it fans one upstream value out to a
// collection of children and, at each output position, collects one value
// from every still-alive child into a map[any]struct{} set. Duplicate
// values within a round collapse, exhausted children are dropped from
// later positions, and the packer stops once every child is exhausted.
//
// Values must be comparable to be set members; an uncomparable value
// (a slice, say) panics on insertion, exactly as an unhashable value
// would in any map key position.
type SetPack struct {
	packBase
	steps []Step
}

// NewSetPack creates an unordered packer over the given children. The
// collection is conceptually unordered; the argument order is kept only
// so rendering stays deterministic.
func NewSetPack(name Name, steps ...Step) *SetPack {
	return &SetPack{
		packBase: newPackBase(name, "set"),
		steps:    append([]Step(nil), steps...),
	}
}

// Produce implements the Step interface.
func (p *SetPack) Produce(ctx context.Context, value any) Seq {
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
			out := make(map[any]struct{}, len(steps))
			collected := false
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
				out[v] = struct{}{}
				collected = true
			}
			if !collected {
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
func (p *SetPack) Len() int {
	return len(p.steps)
}

// Steps returns the children in construction order.
func (p *SetPack) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// String returns the packer literal, e.g. "SetPack{a(), b()}".
func (p *SetPack) String() string {
	return "SetPack{" + joinLabels(p.steps, ", ") + "}"
}

// WithClock sets a custom clock for event timestamps.
func (p *SetPack) WithClock(clock clockz.Clock) *SetPack {
	p.setClock(clock)
	return p
}
