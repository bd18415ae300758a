package stepz

import "iter"

// Seq is the lazy sequence type flowing between steps: a restartable
// iterator over values paired with an in-band error. A non-nil error is
// always the final element of a sequence - producers stop after yielding
// one, and consumers must not pull past it.
type Seq = iter.Seq2[any, error]

// Values returns a finite sequence yielding the given values in order.
func Values(vals ...any) Seq {
	return func(yield func(any, error) bool) {
		for _, v := range vals {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Empty returns a sequence that yields nothing.
func Empty() Seq {
	return func(func(any, error) bool) {}
}

// Fail returns a sequence whose only element is the given error.
func Fail(err error) Seq {
	return func(yield func(any, error) bool) {
		yield(nil, err)
	}
}

// Collect drains a sequence into a slice, stopping at the first error.
// The values gathered before the failure are returned alongside it.
func Collect(s Seq) ([]any, error) {
	var out []any
	for v, err := range s {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
