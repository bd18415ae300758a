package stepz

import "context"

// Union is a transparent passthrough marking its wrapped step as an
// independently combinable unit. Produce delegates unchanged; the marker
// exists only so composition and rendering can tell a deliberately
// grouped sub-structure apart from an open chain. Tree collapses unions
// by default and renders them under ShowUnions.
type Union struct {
	step Step
}

// NewUnion wraps a step as a combinable unit. Most callers reach this
// through Combine, which wraps only the composites where grouping
// matters.
func NewUnion(step Step) *Union {
	return &Union{step: step}
}

// Produce implements the Step interface by delegating to the wrapped
// step.
func (u *Union) Produce(ctx context.Context, value any) Seq {
	return u.step.Produce(ctx, value)
}

// Unwrap returns the wrapped step.
func (u *Union) Unwrap() Step {
	return u.step
}

// Name returns the name of this marker.
func (u *Union) Name() Name {
	return DefaultUnionName
}

// String returns the marker literal, e.g. "Union(Sequence(a() >> b()))".
func (u *Union) String() string {
	return "Union(" + stepLabel(u.step) + ")"
}
