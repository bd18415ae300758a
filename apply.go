package stepz

import "context"

// Apply creates a Processor from a function that maps one input value to
// one output value and may fail. An error becomes the terminal element of
// the produced sequence: it propagates through every enclosing composite
// untouched and aborts the pipeline invocation at that point.
//
// Apply is the workhorse adapter - use it for parsing, validation with
// transformation, lookups, or any fallible computation.
//
// Example:
//
//	parse := stepz.Apply("parse-int", func(_ context.Context, v any) (any, error) {
//	    return strconv.Atoi(v.(string))
//	})
func Apply(name Name, fn func(context.Context, any) (any, error)) Processor {
	return Processor{
		name: name,
		fn: func(ctx context.Context, value any) Seq {
			return func(yield func(any, error) bool) {
				out, err := fn(ctx, value)
				if err != nil {
					yield(nil, err)
					return
				}
				yield(out, nil)
			}
		},
	}
}
