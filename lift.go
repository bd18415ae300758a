package stepz

import (
	"errors"
	"fmt"
	"reflect"
)

// Default names given to packers assembled by ToStep.
const (
	DefaultTuplePackName Name = "tuple"
	DefaultListPackName  Name = "list"
	DefaultMapPackName   Name = "map"
	DefaultSetPackName   Name = "set"
)

// Lift errors returned by ToStep.
var (
	// ErrUnsupportedShape reports a container kind ToStep cannot lift.
	ErrUnsupportedShape = errors.New("unsupported step container shape")
	// ErrNotAStep reports a container member that is not a Step.
	ErrNotAStep = errors.New("container member is not a Step")
)

// ToStep lifts a collection of steps into the matching structural packer:
//
//   - a Step passes through unchanged
//   - []Step or []any of steps becomes a ListPack
//   - a fixed-size array ([N]Step or [N]any of steps) becomes a TuplePack
//   - map[string]Step or map[string]any of steps becomes a MapPack
//   - map[Step]struct{} becomes a SetPack
//
// Any other shape, or any member that is not a Step, fails here with a
// type error - never later at evaluation time.
func ToStep(v any) (Step, error) {
	switch t := v.(type) {
	case Step:
		return t, nil
	case []Step:
		return NewListPack(DefaultListPackName, t...), nil
	case []any:
		steps, err := memberSteps(t)
		if err != nil {
			return nil, err
		}
		return NewListPack(DefaultListPackName, steps...), nil
	case map[string]Step:
		return NewMapPack(DefaultMapPackName, t), nil
	case map[string]any:
		keyed := make(map[string]Step, len(t))
		for k, m := range t {
			s, ok := m.(Step)
			if !ok {
				return nil, fmt.Errorf("%w: key %q holds %T, want map of string to Step", ErrNotAStep, k, m)
			}
			keyed[k] = s
		}
		return NewMapPack(DefaultMapPackName, keyed), nil
	case map[Step]struct{}:
		steps := make([]Step, 0, len(t))
		for s := range t {
			steps = append(steps, s)
		}
		return NewSetPack(DefaultSetPackName, steps...), nil
	}

	// Fixed-size arrays are the positional (tuple) shape; only reflection
	// can accept every length.
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array {
		steps := make([]Step, rv.Len())
		for i := range steps {
			s, ok := rv.Index(i).Interface().(Step)
			if !ok {
				return nil, fmt.Errorf("%w: position %d holds %s, want array of Step", ErrNotAStep, i, rv.Index(i).Type())
			}
			steps[i] = s
		}
		return NewTuplePack(DefaultTuplePackName, steps...), nil
	}

	return nil, fmt.Errorf("%w: %T, supports Step, slices, arrays, string-keyed maps and step sets", ErrUnsupportedShape, v)
}

func memberSteps(vals []any) ([]Step, error) {
	steps := make([]Step, len(vals))
	for i, m := range vals {
		s, ok := m.(Step)
		if !ok {
			return nil, fmt.Errorf("%w: position %d holds %T, want slice of Step", ErrNotAStep, i, m)
		}
		steps[i] = s
	}
	return steps, nil
}

// mustToStep is the construction-time variant used by the composition
// functions: a shape ToStep rejects is a programming error, so it panics.
func mustToStep(v any) Step {
	s, err := ToStep(v)
	if err != nil {
		panic("stepz: " + err.Error())
	}
	return s
}
