package stepz

import "context"

// Filter creates a Processor that yields its input value unchanged when
// the predicate holds and yields nothing otherwise. Because emptiness is
// what alternation and the staggered packers react to, Filter is the
// natural building block for first-match selection:
//
//	vowel := stepz.Filter("vowel", func(_ context.Context, v any) bool {
//	    return strings.ContainsRune("aeiou", rune(v.(string)[0]))
//	})
func Filter(name Name, predicate func(context.Context, any) bool) Processor {
	return Processor{
		name: name,
		fn: func(ctx context.Context, value any) Seq {
			return func(yield func(any, error) bool) {
				if predicate(ctx, value) {
					yield(value, nil)
				}
			}
		},
	}
}
