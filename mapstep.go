package stepz

import (
	"context"
	"sort"
	"strconv"

	"github.com/zoobzio/clockz"
)

// MapPack is the keyed packer: it fans one upstream value out to a set of
// children addressed by unique string keys and, at each output position,
// collects one value from every still-alive child into a map[string]any
// keyed by that child's key. Exhausted keys are dropped from later
// positions; the packer stops once every child is exhausted, so output
// maps shrink as children run dry.
//
// Keys are held in sorted order for deterministic rendering; evaluation
// itself is key-order independent, since every child draws from its own
// sequence.
type MapPack struct {
	packBase
	keys  []string
	steps map[string]Step
}

// NewMapPack creates a keyed packer over the given key-to-step mapping.
// The mapping is copied; later changes to the argument have no effect.
func NewMapPack(name Name, steps map[string]Step) *MapPack {
	copied := make(map[string]Step, len(steps))
	keys := make([]string, 0, len(steps))
	for k, s := range steps {
		copied[k] = s
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &MapPack{
		packBase: newPackBase(name, "map"),
		keys:     keys,
		steps:    copied,
	}
}

// Produce implements the Step interface.
func (p *MapPack) Produce(ctx context.Context, value any) Seq {
	keys := p.keys
	ordered := make([]Step, len(keys))
	for i, k := range keys {
		ordered[i] = p.steps[k]
	}

	return func(yield func(any, error) bool) {
		if ctx == nil {
			ctx = context.Background()
		}

		p.metrics.Counter(PackProducedTotal).Inc()
		spanCtx, span := p.tracer.StartSpan(ctx, PackProduceSpan)
		span.SetTag(PackTagKind, p.kind)
		span.SetTag(PackTagChildren, strconv.Itoa(len(keys)))
		defer span.Finish()

		group := newPullGroup(spanCtx, ordered, value)
		defer group.stopAll()

		done := make([]bool, len(keys))
		for round := 1; ; round++ {
			out := make(map[string]any, len(keys))
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
				out[keys[i]] = v
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
func (p *MapPack) Len() int {
	return len(p.steps)
}

// Keys returns the child keys in sorted order.
func (p *MapPack) Keys() []string {
	return append([]string(nil), p.keys...)
}

// String returns the packer literal, e.g. `MapPack{"one": a(), "two": b()}`.
func (p *MapPack) String() string {
	s := "MapPack{"
	for i, k := range p.keys {
		if i > 0 {
			s += ", "
		}
		s += strconv.Quote(k) + ": " + stepLabel(p.steps[k])
	}
	return s + "}"
}

// WithClock sets a custom clock for event timestamps.
func (p *MapPack) WithClock(clock clockz.Clock) *MapPack {
	p.setClock(clock)
	return p
}
