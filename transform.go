package stepz

import "context"

// Transform creates a Processor from a pure function that maps one input
// value to exactly one output value. Use Transform for reshaping,
// formatting, or any computation that always succeeds.
//
// For operations that can fail, use Apply. For one-to-many production,
// use Expand. For conditional emission, use Filter.
//
// Example:
//
//	double := stepz.Transform("double", func(_ context.Context, v any) any {
//	    return v.(int) * 2
//	})
func Transform(name Name, fn func(context.Context, any) any) Processor {
	return Processor{
		name: name,
		fn: func(ctx context.Context, value any) Seq {
			return func(yield func(any, error) bool) {
				yield(fn(ctx, value), nil)
			}
		},
	}
}
