package stepz

import "context"

// Expand creates a Processor from a function that maps one input value to
// any number of output values, yielded in slice order. An error aborts
// the invocation before anything is yielded.
//
// Example:
//
//	splitLines := stepz.Expand("split-lines", func(_ context.Context, v any) ([]any, error) {
//	    var out []any
//	    for _, line := range strings.Split(v.(string), "\n") {
//	        out = append(out, line)
//	    }
//	    return out, nil
//	})
func Expand(name Name, fn func(context.Context, any) ([]any, error)) Processor {
	return Processor{
		name: name,
		fn: func(ctx context.Context, value any) Seq {
			return func(yield func(any, error) bool) {
				vals, err := fn(ctx, value)
				if err != nil {
					yield(nil, err)
					return
				}
				for _, v := range vals {
					if !yield(v, nil) {
						return
					}
				}
			}
		},
	}
}
