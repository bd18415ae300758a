package stepz

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for the Loop composite.
const (
	// Metrics.
	LoopProducedTotal = metricz.Key("loop.produced.total")
	LoopFailuresTotal = metricz.Key("loop.failures.total")
	LoopRoundsTotal   = metricz.Key("loop.rounds.total")
	LoopValuesYielded = metricz.Key("loop.values.yielded")

	// Spans.
	LoopProduceSpan = tracez.Key("loop.produce")
	LoopRoundSpan   = tracez.Key("loop.round")

	// Tags.
	LoopTagRound  = tracez.Tag("loop.round")
	LoopTagValues = tracez.Tag("loop.values")
	LoopTagError  = tracez.Tag("loop.error")

	// Hook event keys.
	LoopEventRoundComplete = hookz.Key("loop.round_complete")
	LoopEventTerminated    = hookz.Key("loop.terminated")
)

// LoopEvent is emitted via hookz as feedback rounds complete and when the
// cycle terminates.
type LoopEvent struct {
	Name      Name      // Composite name
	Round     int       // Round number (0 is the seed round)
	Values    int       // Values the round yielded (total on termination)
	Timestamp time.Time // When the event occurred
}

// Loop is the feedback composite between exactly two steps, a primary and
// a loop step. The primary's output is yielded outward and simultaneously
// fed to the loop step; the loop step's output is fed back into the
// primary, and the exchange repeats until an entire feedback round
// produces nothing.
//
// Every element the primary ever produces - in the seed round and in each
// feedback round - is yielded. Termination requires some finite round to
// come up empty; a cycle whose steps always produce is an infinite
// sequence, which is legal as long as the consumer stops pulling.
//
// # Observability
//
// Metrics:
//   - loop.produced.total: counter of invocations consumed
//   - loop.failures.total: counter of invocations ending in an error
//   - loop.rounds.total: gauge of rounds run by the last invocation
//   - loop.values.yielded: gauge of values yielded by the last invocation
//
// Traces:
//   - loop.produce: span covering one full consumption
//   - loop.round: child span per feedback round
//
// Events (via hooks):
//   - loop.round_complete: fired after each non-empty round
//   - loop.terminated: fired when a feedback round comes up empty
type Loop struct {
	name    Name
	primary Step
	loop    Step
	clock   clockz.Clock
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[LoopEvent]
	mu      sync.RWMutex
}

// NewLoop creates a feedback cycle with primary as the outward-producing
// step and loop as the feedback step.
func NewLoop(name Name, primary, loop Step) *Loop {
	metrics := metricz.New()
	metrics.Counter(LoopProducedTotal)
	metrics.Counter(LoopFailuresTotal)
	metrics.Gauge(LoopRoundsTotal)
	metrics.Gauge(LoopValuesYielded)

	return &Loop{
		name:    name,
		primary: primary,
		loop:    loop,
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[LoopEvent](),
	}
}

// Produce implements the Step interface. The seed round runs the primary
// on the input value, yielding elements as they surface while windowing
// the round for feedback. Each following round pushes the previous round
// through the loop step and then the primary (loop first, primary
// second); a single-element lookahead decides termination - an empty
// round ends the cycle, a non-empty round is yielded in full and fed
// onward.
func (l *Loop) Produce(ctx context.Context, value any) Seq {
	l.mu.RLock()
	primary, loop := l.primary, l.loop
	l.mu.RUnlock()

	return func(yield func(any, error) bool) {
		if ctx == nil {
			ctx = context.Background()
		}
		clock := l.getClock()

		l.metrics.Counter(LoopProducedTotal).Inc()
		spanCtx, span := l.tracer.StartSpan(ctx, LoopProduceSpan)
		defer span.Finish()

		total := 0
		fail := func(err error) {
			span.SetTag(LoopTagError, err.Error())
			l.metrics.Counter(LoopFailuresTotal).Inc()
			yield(nil, err)
		}

		// Seed round: yield while windowing for feedback.
		var round []any
		for v, err := range primary.Produce(spanCtx, value) {
			if err != nil {
				fail(err)
				return
			}
			round = append(round, v)
			if !yield(v, nil) {
				return
			}
		}
		total += len(round)
		_ = l.hooks.Emit(spanCtx, LoopEventRoundComplete, LoopEvent{ //nolint:errcheck
			Name:      l.name,
			Round:     0,
			Values:    len(round),
			Timestamp: clock.Now(),
		})

		for roundNum := 1; ; roundNum++ {
			roundCtx, roundSpan := l.tracer.StartSpan(spanCtx, LoopRoundSpan)
			roundSpan.SetTag(LoopTagRound, strconv.Itoa(roundNum))

			fed := ProduceAll(roundCtx, primary, ProduceAll(roundCtx, loop, Values(round...)))

			var next []any
			for v, err := range fed {
				if err != nil {
					roundSpan.Finish()
					fail(err)
					return
				}
				next = append(next, v)
				if !yield(v, nil) {
					roundSpan.Finish()
					return
				}
			}
			roundSpan.SetTag(LoopTagValues, strconv.Itoa(len(next)))
			roundSpan.Finish()

			if len(next) == 0 {
				// Terminal state: the whole feedback round yielded nothing.
				l.metrics.Gauge(LoopRoundsTotal).Set(float64(roundNum))
				l.metrics.Gauge(LoopValuesYielded).Set(float64(total))
				_ = l.hooks.Emit(spanCtx, LoopEventTerminated, LoopEvent{ //nolint:errcheck
					Name:      l.name,
					Round:     roundNum,
					Values:    total,
					Timestamp: clock.Now(),
				})
				return
			}

			total += len(next)
			_ = l.hooks.Emit(spanCtx, LoopEventRoundComplete, LoopEvent{ //nolint:errcheck
				Name:      l.name,
				Round:     roundNum,
				Values:    len(next),
				Timestamp: clock.Now(),
			})
			round = next
		}
	}
}

// Primary returns the outward-producing step.
func (l *Loop) Primary() Step {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.primary
}

// LoopStep returns the feedback step.
func (l *Loop) LoopStep() Step {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loop
}

// Name returns the name of this composite.
func (l *Loop) Name() Name {
	return l.name
}

// String returns the cycle literal, e.g. "Loop(a() << b())".
func (l *Loop) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return "Loop(" + stepLabel(l.primary) + " << " + stepLabel(l.loop) + ")"
}

// WithClock sets a custom clock for event timestamps.
func (l *Loop) WithClock(clock clockz.Clock) *Loop {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clock = clock
	return l
}

// getClock returns the clock to use.
func (l *Loop) getClock() clockz.Clock {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.clock == nil {
		return clockz.RealClock
	}
	return l.clock
}

// Metrics returns the metrics registry for this composite.
func (l *Loop) Metrics() *metricz.Registry {
	return l.metrics
}

// Tracer returns the tracer for this composite.
func (l *Loop) Tracer() *tracez.Tracer {
	return l.tracer
}

// Close gracefully shuts down observability components.
func (l *Loop) Close() error {
	if l.tracer != nil {
		l.tracer.Close()
	}
	l.hooks.Close()
	return nil
}

// OnRoundComplete registers a handler fired after every round that
// yielded at least one value (the seed round included).
func (l *Loop) OnRoundComplete(handler func(context.Context, LoopEvent) error) error {
	_, err := l.hooks.Hook(LoopEventRoundComplete, handler)
	return err
}

// OnTerminated registers a handler fired when a feedback round comes up
// empty and the cycle ends.
func (l *Loop) OnTerminated(handler func(context.Context, LoopEvent) error) error {
	_, err := l.hooks.Hook(LoopEventTerminated, handler)
	return err
}
