package stepz

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for the Fallback composite.
const (
	// Metrics.
	FallbackProducedTotal  = metricz.Key("fallback.produced.total")
	FallbackFailuresTotal  = metricz.Key("fallback.failures.total")
	FallbackExhaustedTotal = metricz.Key("fallback.exhausted.total")
	FallbackWinnerIndex    = metricz.Key("fallback.winner.index")

	// Spans.
	FallbackProduceSpan = tracez.Key("fallback.produce")

	// Tags.
	FallbackTagWinner = tracez.Tag("fallback.winner")
	FallbackTagError  = tracez.Tag("fallback.error")

	// Hook event keys.
	FallbackEventSelected  = hookz.Key("fallback.selected")
	FallbackEventExhausted = hookz.Key("fallback.exhausted")
)

// FallbackEvent is emitted via hookz when a child wins the alternation or
// when every child turned out empty.
type FallbackEvent struct {
	Name      Name      // Composite name
	Winner    Name      // Winning child name (empty when exhausted)
	Index     int       // Winning child position (-1 when exhausted)
	Timestamp time.Time // When the event occurred
}

// Fallback is the alternation composite: an ordered list of steps,
// possibly empty, evaluated first-non-empty-wins. Children are tried in
// order with a single-element lookahead; the full output of the first
// child whose sequence is non-empty is yielded, and later children are
// never evaluated. If every child yields nothing - or there are no
// children at all - the alternation yields nothing.
//
// Emptiness is decided by output, not by success: a child whose lookahead
// surfaces an error does not fall through to the next child - the error
// propagates and terminates the invocation.
//
// Like Sequence, a Fallback grows by mutation: Or appends in place and
// returns the receiver.
//
// # Observability
//
// Metrics:
//   - fallback.produced.total: counter of invocations consumed
//   - fallback.failures.total: counter of invocations ending in an error
//   - fallback.exhausted.total: counter of invocations where every child was empty
//   - fallback.winner.index: gauge of the last winning child position
//
// Traces:
//   - fallback.produce: span covering one full consumption
//
// Events (via hooks):
//   - fallback.selected: fired when a child wins
//   - fallback.exhausted: fired when every child was empty
type Fallback struct {
	name    Name
	steps   []Step
	clock   clockz.Clock
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[FallbackEvent]
	mu      sync.RWMutex
}

// NewFallback creates an alternation over the given steps in order. Zero
// steps is valid: an empty alternation yields nothing.
func NewFallback(name Name, steps ...Step) *Fallback {
	metrics := metricz.New()
	metrics.Counter(FallbackProducedTotal)
	metrics.Counter(FallbackFailuresTotal)
	metrics.Counter(FallbackExhaustedTotal)
	metrics.Gauge(FallbackWinnerIndex)

	return &Fallback{
		name:    name,
		steps:   append([]Step(nil), steps...),
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[FallbackEvent](),
	}
}

// Or appends alt to the alternation in place and returns the receiver.
func (f *Fallback) Or(alt Step) *Fallback {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, alt)
	return f
}

// Produce implements the Step interface. Children are evaluated lazily in
// order; a one-element peek per candidate decides empty-or-not, and the
// winner's remainder streams through unchanged.
func (f *Fallback) Produce(ctx context.Context, value any) Seq {
	f.mu.RLock()
	steps := append([]Step(nil), f.steps...)
	f.mu.RUnlock()

	return func(yield func(any, error) bool) {
		if ctx == nil {
			ctx = context.Background()
		}
		clock := f.getClock()

		f.metrics.Counter(FallbackProducedTotal).Inc()
		spanCtx, span := f.tracer.StartSpan(ctx, FallbackProduceSpan)
		defer span.Finish()

		fail := func(err error) {
			span.SetTag(FallbackTagError, err.Error())
			f.metrics.Counter(FallbackFailuresTotal).Inc()
			yield(nil, err)
		}

		for i, s := range steps {
			next, stop := iter.Pull2(s.Produce(spanCtx, value))
			v, err, ok := next()
			if !ok {
				stop()
				continue
			}
			if err != nil {
				stop()
				fail(err)
				return
			}

			// Non-empty: this child wins, later children are never run.
			span.SetTag(FallbackTagWinner, string(s.Name()))
			f.metrics.Gauge(FallbackWinnerIndex).Set(float64(i))
			_ = f.hooks.Emit(spanCtx, FallbackEventSelected, FallbackEvent{ //nolint:errcheck
				Name:      f.name,
				Winner:    s.Name(),
				Index:     i,
				Timestamp: clock.Now(),
			})

			if !yield(v, nil) {
				stop()
				return
			}
			for {
				v, err, ok = next()
				if !ok {
					stop()
					return
				}
				if err != nil {
					stop()
					fail(err)
					return
				}
				if !yield(v, nil) {
					stop()
					return
				}
			}
		}

		f.metrics.Counter(FallbackExhaustedTotal).Inc()
		_ = f.hooks.Emit(spanCtx, FallbackEventExhausted, FallbackEvent{ //nolint:errcheck
			Name:      f.name,
			Index:     -1,
			Timestamp: clock.Now(),
		})
	}
}

// Len returns the number of owned steps.
func (f *Fallback) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.steps)
}

// Names returns the names of the owned steps in order.
func (f *Fallback) Names() []Name {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]Name, len(f.steps))
	for i, s := range f.steps {
		names[i] = s.Name()
	}
	return names
}

// Name returns the name of this composite.
func (f *Fallback) Name() Name {
	return f.name
}

// String returns the alternation literal, e.g. "Fallback(a() | b())".
func (f *Fallback) String() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return "Fallback(" + joinLabels(f.steps, " | ") + ")"
}

// WithClock sets a custom clock for event timestamps.
func (f *Fallback) WithClock(clock clockz.Clock) *Fallback {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = clock
	return f
}

// getClock returns the clock to use.
func (f *Fallback) getClock() clockz.Clock {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.clock == nil {
		return clockz.RealClock
	}
	return f.clock
}

// Metrics returns the metrics registry for this composite.
func (f *Fallback) Metrics() *metricz.Registry {
	return f.metrics
}

// Tracer returns the tracer for this composite.
func (f *Fallback) Tracer() *tracez.Tracer {
	return f.tracer
}

// Close gracefully shuts down observability components.
func (f *Fallback) Close() error {
	if f.tracer != nil {
		f.tracer.Close()
	}
	f.hooks.Close()
	return nil
}

// OnSelected registers a handler fired when a child wins the alternation.
func (f *Fallback) OnSelected(handler func(context.Context, FallbackEvent) error) error {
	_, err := f.hooks.Hook(FallbackEventSelected, handler)
	return err
}

// OnExhausted registers a handler fired when every child yielded nothing.
func (f *Fallback) OnExhausted(handler func(context.Context, FallbackEvent) error) error {
	_, err := f.hooks.Hook(FallbackEventExhausted, handler)
	return err
}
