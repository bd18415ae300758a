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

// Observability constants shared by the four structural packers.
const (
	// Metrics.
	PackProducedTotal = metricz.Key("pack.produced.total")
	PackFailuresTotal = metricz.Key("pack.failures.total")
	PackRoundsTotal   = metricz.Key("pack.rounds.total")

	// Spans.
	PackProduceSpan = tracez.Key("pack.produce")

	// Tags.
	PackTagKind     = tracez.Tag("pack.kind")
	PackTagChildren = tracez.Tag("pack.children")
	PackTagError    = tracez.Tag("pack.error")

	// Hook event keys.
	PackEventRoundComplete = hookz.Key("pack.round_complete")
	PackEventExhausted     = hookz.Key("pack.exhausted")
)

// PackEvent is emitted via hookz as packer rounds complete and when every
// child is exhausted.
type PackEvent struct {
	Name      Name      // Composite name
	Kind      string    // Packer kind: "tuple", "list", "map" or "set"
	Round     int       // Round number, 1-based (total rounds on exhaustion)
	Size      int       // Entries in this round's output collection
	Timestamp time.Time // When the event occurred
}

// packBase carries the name, clock and instruments shared by the four
// packer variants. The variants own their children and the per-round
// recombination; everything else lives here.
type packBase struct {
	name    Name
	kind    string
	clock   clockz.Clock
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[PackEvent]
	mu      sync.RWMutex
}

func newPackBase(name Name, kind string) packBase {
	metrics := metricz.New()
	metrics.Counter(PackProducedTotal)
	metrics.Counter(PackFailuresTotal)
	metrics.Gauge(PackRoundsTotal)

	return packBase{
		name:    name,
		kind:    kind,
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[PackEvent](),
	}
}

// Name returns the name of this composite.
func (p *packBase) Name() Name {
	return p.name
}

// Metrics returns the metrics registry for this composite.
func (p *packBase) Metrics() *metricz.Registry {
	return p.metrics
}

// Tracer returns the tracer for this composite.
func (p *packBase) Tracer() *tracez.Tracer {
	return p.tracer
}

// Close gracefully shuts down observability components.
func (p *packBase) Close() error {
	if p.tracer != nil {
		p.tracer.Close()
	}
	p.hooks.Close()
	return nil
}

// OnRoundComplete registers a handler fired after each round that
// produced an output collection.
func (p *packBase) OnRoundComplete(handler func(context.Context, PackEvent) error) error {
	_, err := p.hooks.Hook(PackEventRoundComplete, handler)
	return err
}

// OnExhausted registers a handler fired once every child is exhausted.
func (p *packBase) OnExhausted(handler func(context.Context, PackEvent) error) error {
	_, err := p.hooks.Hook(PackEventExhausted, handler)
	return err
}

func (p *packBase) setClock(clock clockz.Clock) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = clock
}

// getClock returns the clock to use.
func (p *packBase) getClock() clockz.Clock {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.clock == nil {
		return clockz.RealClock
	}
	return p.clock
}

func (p *packBase) emitRound(ctx context.Context, round, size int) {
	_ = p.hooks.Emit(ctx, PackEventRoundComplete, PackEvent{ //nolint:errcheck
		Name:      p.name,
		Kind:      p.kind,
		Round:     round,
		Size:      size,
		Timestamp: p.getClock().Now(),
	})
}

func (p *packBase) exhausted(ctx context.Context, rounds int) {
	p.metrics.Gauge(PackRoundsTotal).Set(float64(rounds))
	_ = p.hooks.Emit(ctx, PackEventExhausted, PackEvent{ //nolint:errcheck
		Name:      p.name,
		Kind:      p.kind,
		Round:     rounds,
		Timestamp: p.getClock().Now(),
	})
}

// pullGroup holds one pull-style iterator per child, so a packer can draw
// a single element from every still-alive child each round.
type pullGroup struct {
	next []func() (any, error, bool)
	stop []func()
}

// newPullGroup starts one child sequence per step. Children are driven
// lazily: nothing is pulled until the packer's round loop asks.
func newPullGroup(ctx context.Context, steps []Step, value any) *pullGroup {
	g := &pullGroup{
		next: make([]func() (any, error, bool), len(steps)),
		stop: make([]func(), len(steps)),
	}
	for i, s := range steps {
		g.next[i], g.stop[i] = iter.Pull2(s.Produce(ctx, value))
	}
	return g
}

func (g *pullGroup) stopAll() {
	for _, stop := range g.stop {
		stop()
	}
}
