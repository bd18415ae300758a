package stepz

import (
	"context"
)

// Name is a type alias for step and composite names.
// Using this type encourages storing names as constants rather than
// using inline strings throughout your code.
//
// Example:
//
//	const (
//	    SplitLinesName Name = "split-lines"
//	    NumberLineName Name = "number-line"
//	)
//
//	split := stepz.Expand(SplitLinesName, splitFunc)
//	number := stepz.Transform(NumberLineName, numberFunc)
type Name = string

// Default names used by the package-level composition functions when they
// assemble a composite on the caller's behalf.
const (
	DefaultSequenceName Name = "sequence"
	DefaultLoopName     Name = "loop"
	DefaultFallbackName Name = "fallback"
	DefaultUnionName    Name = "union"
)

// Step defines the interface for any unit that transforms a single input
// value into a lazy sequence of output values. Step is the foundation of
// stepz - every processor and composite implements this interface, which
// enables seamless composition over heterogeneous values.
//
// Produce must return a restartable sequence: each call starts a fresh
// evaluation, though a step's own mutable state (counters, one-shot flags)
// legitimately carries across calls. A sequence element with a non-nil
// error terminates the invocation; composites forward the error untouched
// and stop.
//
// Key design principles:
//   - Single production method for maximum flexibility
//   - Context support for cancellation and invocation-scoped settings
//   - Lazy, pull-based output (no stage runs ahead of its consumer)
//   - In-band error propagation for fail-fast behavior
//   - Named components for debugging and monitoring
type Step interface {
	Produce(context.Context, any) Seq
	Name() Name
}

// BatchProducer is an optional interface a Step may implement to override
// the default batch strategy used by ProduceAll. The default lazily
// flat-maps Produce over each input in order; an override may batch
// differently, or hand the inputs to an external parallel executor, as
// long as per-element ordering and pairing are preserved.
type BatchProducer interface {
	ProduceAll(context.Context, Seq) Seq
}

// ProduceAll feeds every value of a sequence through a step and
// concatenates the outputs in input order. If the step implements
// BatchProducer, its override is used; otherwise Produce is flat-mapped
// lazily over the inputs.
//
// ProduceAll is the batch entry point every composite uses to drive its
// children, and the documented extension point for external batching or
// parallel strategies.
func ProduceAll(ctx context.Context, s Step, values Seq) Seq {
	if bp, ok := s.(BatchProducer); ok {
		return bp.ProduceAll(ctx, values)
	}
	return func(yield func(any, error) bool) {
		for v, err := range values {
			if err != nil {
				yield(nil, err)
				return
			}
			for out, perr := range s.Produce(ctx, v) {
				if !yield(out, perr) {
					return
				}
				if perr != nil {
					return
				}
			}
		}
	}
}

// Processor is a named leaf step wrapping a production function. It is the
// basic building block created by the adapter functions Transform, Apply,
// Filter and Expand.
//
// The fn field is intentionally private so processors are only created
// through the adapters, keeping production semantics consistent.
type Processor struct {
	fn   func(context.Context, any) Seq
	name Name
}

// Produce implements the Step interface.
func (p Processor) Produce(ctx context.Context, value any) Seq {
	return p.fn(ctx, value)
}

// Name returns the name of the processor for debugging and rendering.
func (p Processor) Name() Name {
	return p.name
}

// String returns the processor's rendering label.
func (p Processor) String() string {
	return string(p.name) + "()"
}

// Bind composes s sequentially with next: every value s produces is fed
// through next, outputs concatenated in order.
//
// When s is already a *Sequence, next is appended to it in place and the
// same sequence is returned - chains grow by mutation, so a chain built
// with repeated Bind calls is one Sequence, not a nested tree. Any other
// step becomes the head of a fresh two-element Sequence.
//
// The right operand may be a plain Step or any container shape ToStep
// accepts; an unsupported shape panics, so malformed compositions fail at
// construction time rather than at evaluation.
func Bind(s Step, next any) Step {
	n := mustToStep(next)
	if c, ok := s.(*Sequence); ok {
		return c.Bind(n)
	}
	return NewSequence(DefaultSequenceName, s, n)
}

// LoopBind composes s with a feedback step: s's output is yielded outward
// and fed to loop, whose output is fed back into s until a whole feedback
// round comes up empty.
//
// When s is a *Sequence, only its last owned step is wrapped into the
// cycle (see Sequence.LoopBind); wrap the chain with Combine first to loop
// around the whole of it. The right operand is lifted like Bind's.
func LoopBind(s Step, loop any) Step {
	l := mustToStep(loop)
	if c, ok := s.(*Sequence); ok {
		return c.LoopBind(l)
	}
	return NewLoop(DefaultLoopName, s, l)
}

// Or composes s with an alternative: at evaluation the full output of the
// first operand with non-empty output is yielded and the other is never
// evaluated.
//
// When s is already a *Fallback, alt is appended to it in place and the
// same fallback is returned. The right operand is lifted like Bind's.
func Or(s Step, alt any) Step {
	a := mustToStep(alt)
	if f, ok := s.(*Fallback); ok {
		return f.Or(a)
	}
	return NewFallback(DefaultFallbackName, s, a)
}

// Combine marks a composite as an independently combinable unit by
// wrapping it in a Union. Sequences, loops and fallbacks are wrapped;
// leaves and packers are returned unchanged, since there is nothing to
// group. The wrapper is transparent to evaluation and only affects how
// later LoopBind calls and tree rendering treat the structure.
func Combine(s Step) Step {
	switch s.(type) {
	case *Sequence, *Loop, *Fallback:
		return NewUnion(s)
	default:
		return s
	}
}
