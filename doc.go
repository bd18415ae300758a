// Package stepz provides a lightweight library for building declarative,
// lazily-evaluated data-transformation pipelines out of composable steps.
//
// # Overview
//
// A step takes a single value and produces a lazy sequence of zero or more
// output values. Steps compose into larger steps: sequentially, where each
// step's output feeds the next step's batch entry point; as a feedback loop
// between two steps; or as an alternation where the first step with
// non-empty output wins. Structural packers fan one value out to several
// sub-steps and recombine their outputs positionally or by key.
//
// Evaluation is pull-based throughout. Producing a value from a composite
// suspends at each child boundary until the child yields, so a consumer
// that stops pulling simply halts all upstream work. Sequences may be
// finite or infinite.
//
// # Core Concepts
//
// The library is built around a single, uniform interface:
//
//	type Step interface {
//	    Produce(context.Context, any) Seq
//	    Name() Name
//	}
//
// where Seq is iter.Seq2[any, error] - a restartable lazy sequence whose
// elements carry an in-band error. Execution is fail-fast: the first error
// a step yields terminates the entire invocation at that point, and no
// composite wraps, retries, or suppresses it.
//
// Key components:
//   - Processors: individual steps created with adapter functions
//     (Transform, Apply, Filter, Expand)
//   - Composites: Sequence, Loop, Fallback, Union, and the four packers
//     (TuplePack, ListPack, MapPack, SetPack)
//   - Composition functions: Bind, LoopBind, Or, Combine, ToStep
//
// # Composition
//
// Bind chains steps sequentially. Each value the left side produces is fed
// through the right side, and outputs are concatenated in order:
//
//	chain := stepz.Bind(split, number)
//	for v, err := range chain.Produce(ctx, text) {
//	    ...
//	}
//
// LoopBind builds a feedback cycle between two steps. The primary step's
// output is yielded outward and simultaneously fed to the loop step; the
// loop step's output is fed back into the primary. The cycle ends the
// first time an entire feedback round produces nothing:
//
//	cycle := stepz.LoopBind(expand, refine)
//
// Or builds an alternation: children are tried in order and the full
// output of the first child with non-empty output is yielded; later
// children are never evaluated:
//
//	pick := stepz.Or(exact, stepz.Or(prefix, fuzzy))
//
// Combine marks a composite as an independently combinable unit, which
// affects how later LoopBind calls group it (and how trees render), but
// never changes evaluation.
//
// # Structural Packers
//
// Packers apply one upstream value to every child and recombine outputs
// per position:
//
//   - TuplePack zips child outputs position by position and stops at the
//     shortest child; no partial tuples are produced.
//   - ListPack, MapPack and SetPack keep pulling while any child is alive,
//     dropping exhausted children from later positions, and stop once all
//     children are exhausted.
//
// ToStep lifts plain container shapes into the matching packer: slices
// become a ListPack, fixed-size arrays a TuplePack, string-keyed maps a
// MapPack, and step sets a SetPack.
//
// # Tree Rendering
//
// Every composite renders a deterministic, indentation-based diagram of
// its structure via Tree:
//
//	fmt.Println(stepz.Tree(chain))
//	// Sequence(3)
//	//    |__split()
//	//    |__Loop()
//	//    |   |__number()
//	//    |   |_<< refine()
//	//    |
//	//    |__Fallback(2)
//	//          |__exact()
//	//          |__fuzzy()
//
// Rendering is purely structural and never evaluates steps. Union markers
// are collapsed by default; pass ShowUnions to render them explicitly.
//
// # Observability
//
// Composites expose metrics via metricz, spans via tracez, and typed
// events via hookz. Event timestamps come from an injectable clockz.Clock
// (WithClock), so time-sensitive behavior is testable. The base step's
// diagnostic warning goes through a package-level zap logger, replaceable
// with SetLogger.
//
// # Implementing Steps
//
// Concrete steps override Produce; embedding Base supplies the default
// Name and a Produce that warns and yields nothing. Steps may carry
// instance-local mutable state (a counter, a one-shot flag); such steps
// are not safe for concurrent use of a single instance, and the core does
// not guard them. ProduceAll is the batch entry point and the extension
// point for custom batching strategies - implement BatchProducer to
// override the default lazy flat-map.
package stepz
