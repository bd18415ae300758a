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

// Observability constants for the Sequence composite.
const (
	// Metrics.
	SequenceProducedTotal = metricz.Key("sequence.produced.total")
	SequenceFailuresTotal = metricz.Key("sequence.failures.total")
	SequenceValuesYielded = metricz.Key("sequence.values.yielded")
	SequenceStagesTotal   = metricz.Key("sequence.stages.total")
	SequenceDurationMs    = metricz.Key("sequence.duration.ms")

	// Spans.
	SequenceProduceSpan = tracez.Key("sequence.produce")

	// Tags.
	SequenceTagStageCount = tracez.Tag("sequence.stage_count")
	SequenceTagSuccess    = tracez.Tag("sequence.success")
	SequenceTagError      = tracez.Tag("sequence.error")

	// Hook event keys.
	SequenceEventComplete = hookz.Key("sequence.complete")
	SequenceEventFailed   = hookz.Key("sequence.failed")
)

// SequenceEvent is emitted via hookz when a Sequence invocation is fully
// consumed or fails.
type SequenceEvent struct {
	Name      Name          // Composite name
	Stages    int           // Number of owned steps
	Values    int           // Values yielded before the event
	Err       error         // Failure cause, nil on completion
	Duration  time.Duration // Time from first pull to the event
	Timestamp time.Time     // When the event occurred
}

// Sequence is the sequential chain composite: an ordered list of at least
// one step, where each step's lazy output feeds the next step's batch
// entry point. Applying the chain to a seed value is equivalent to folding
// ProduceAll across the owned steps in order, seeded with a one-element
// sequence holding the seed.
//
// A Sequence grows by mutation: Bind appends in place and returns the
// receiver, so operator-style composition keeps extending one chain
// rather than nesting. LoopBind likewise restructures the chain in place.
//
// # Observability
//
// Metrics:
//   - sequence.produced.total: counter of invocations consumed
//   - sequence.failures.total: counter of invocations ending in an error
//   - sequence.values.yielded: gauge of values yielded by the last invocation
//   - sequence.stages.total: gauge of owned steps
//   - sequence.duration.ms: gauge of last invocation duration
//
// Traces:
//   - sequence.produce: span covering one full consumption
//
// Events (via hooks):
//   - sequence.complete: fired when an invocation is fully consumed
//   - sequence.failed: fired when an invocation ends in an error
type Sequence struct {
	name    Name
	steps   []Step
	clock   clockz.Clock
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[SequenceEvent]
	mu      sync.RWMutex
}

// NewSequence creates a Sequence owning the given steps in order. At least
// one step must be provided; an empty chain has no meaning and the
// constructor panics rather than letting a partial object escape.
func NewSequence(name Name, steps ...Step) *Sequence {
	if len(steps) == 0 {
		panic("stepz: NewSequence requires at least one step")
	}

	metrics := metricz.New()
	metrics.Counter(SequenceProducedTotal)
	metrics.Counter(SequenceFailuresTotal)
	metrics.Gauge(SequenceValuesYielded)
	metrics.Gauge(SequenceStagesTotal)
	metrics.Gauge(SequenceDurationMs)

	return &Sequence{
		name:    name,
		steps:   append([]Step(nil), steps...),
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[SequenceEvent](),
	}
}

// Bind appends next to the chain in place and returns the receiver.
// Note the mutation: the left operand of a Bind is extended, not copied.
// Build with NewSequence directly when an immutable prefix is needed.
func (c *Sequence) Bind(next Step) *Sequence {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steps = append(c.steps, next)
	return c
}

// LoopBind detaches the chain's last owned step, wraps it together with
// loop into a new Loop, and re-appends that loop as the chain's new last
// element. The feedback cycle therefore spans only the last step, not the
// whole chain: Bind(a, b) then LoopBind gives [a, Loop(b, loop)]. Wrap the
// chain with Combine first to loop around all of it.
func (c *Sequence) LoopBind(loop Step) *Sequence {
	c.mu.Lock()
	defer c.mu.Unlock()
	last := c.steps[len(c.steps)-1]
	c.steps[len(c.steps)-1] = NewLoop(DefaultLoopName, last, loop)
	return c
}

// Produce implements the Step interface. The returned sequence folds
// every owned step's batch entry point over a running sequence seeded
// with [value], yielding the final stage's elements as they surface.
// The first error from any stage terminates the invocation.
func (c *Sequence) Produce(ctx context.Context, value any) Seq {
	c.mu.RLock()
	steps := append([]Step(nil), c.steps...)
	c.mu.RUnlock()

	return func(yield func(any, error) bool) {
		if ctx == nil {
			ctx = context.Background()
		}
		clock := c.getClock()
		start := clock.Now()

		c.metrics.Counter(SequenceProducedTotal).Inc()
		c.metrics.Gauge(SequenceStagesTotal).Set(float64(len(steps)))

		spanCtx, span := c.tracer.StartSpan(ctx, SequenceProduceSpan)
		span.SetTag(SequenceTagStageCount, strconv.Itoa(len(steps)))
		defer span.Finish()

		current := Values(value)
		for _, s := range steps {
			current = ProduceAll(spanCtx, s, current)
		}

		values := 0
		for v, err := range current {
			if err != nil {
				span.SetTag(SequenceTagSuccess, "false")
				span.SetTag(SequenceTagError, err.Error())
				c.metrics.Counter(SequenceFailuresTotal).Inc()
				_ = c.hooks.Emit(spanCtx, SequenceEventFailed, SequenceEvent{ //nolint:errcheck
					Name:      c.name,
					Stages:    len(steps),
					Values:    values,
					Err:       err,
					Duration:  clock.Since(start),
					Timestamp: clock.Now(),
				})
				yield(nil, err)
				return
			}
			values++
			if !yield(v, nil) {
				return
			}
		}

		span.SetTag(SequenceTagSuccess, "true")
		c.metrics.Gauge(SequenceValuesYielded).Set(float64(values))
		c.metrics.Gauge(SequenceDurationMs).Set(float64(clock.Since(start).Milliseconds()))
		_ = c.hooks.Emit(spanCtx, SequenceEventComplete, SequenceEvent{ //nolint:errcheck
			Name:      c.name,
			Stages:    len(steps),
			Values:    values,
			Duration:  clock.Since(start),
			Timestamp: clock.Now(),
		})
	}
}

// Len returns the number of owned steps.
func (c *Sequence) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.steps)
}

// Names returns the names of the owned steps in order.
func (c *Sequence) Names() []Name {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]Name, len(c.steps))
	for i, s := range c.steps {
		names[i] = s.Name()
	}
	return names
}

// Name returns the name of this composite.
func (c *Sequence) Name() Name {
	return c.name
}

// String returns the chain literal, e.g. "Sequence(a() >> b())".
func (c *Sequence) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return "Sequence(" + joinLabels(c.steps, " >> ") + ")"
}

// WithClock sets a custom clock for event timestamps and durations.
func (c *Sequence) WithClock(clock clockz.Clock) *Sequence {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = clock
	return c
}

// getClock returns the clock to use.
func (c *Sequence) getClock() clockz.Clock {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.clock == nil {
		return clockz.RealClock
	}
	return c.clock
}

// Metrics returns the metrics registry for this composite.
func (c *Sequence) Metrics() *metricz.Registry {
	return c.metrics
}

// Tracer returns the tracer for this composite.
func (c *Sequence) Tracer() *tracez.Tracer {
	return c.tracer
}

// Close gracefully shuts down observability components.
func (c *Sequence) Close() error {
	if c.tracer != nil {
		c.tracer.Close()
	}
	c.hooks.Close()
	return nil
}

// OnComplete registers a handler fired when an invocation of this chain
// has been fully consumed.
func (c *Sequence) OnComplete(handler func(context.Context, SequenceEvent) error) error {
	_, err := c.hooks.Hook(SequenceEventComplete, handler)
	return err
}

// OnFailed registers a handler fired when an invocation of this chain
// terminates with an error.
func (c *Sequence) OnFailed(handler func(context.Context, SequenceEvent) error) error {
	_, err := c.hooks.Hook(SequenceEventFailed, handler)
	return err
}
