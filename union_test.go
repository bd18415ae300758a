package stepz

import (
	"context"
	"testing"
)

func TestUnion(t *testing.T) {
	t.Run("Transparent To Evaluation", func(t *testing.T) {
		chain := NewSequence("chain", repeatN("f", "f", 1), repeatN("l", "l", 2))
		u := NewUnion(chain)

		direct := mustCollect(t, chain.Produce(context.Background(), 0))
		wrapped := mustCollect(t, u.Produce(context.Background(), 0))
		assertValues(t, wrapped, direct...)
	})

	t.Run("Unwrap", func(t *testing.T) {
		chain := NewSequence("chain", repeatN("a", 1, 1))
		u := NewUnion(chain)
		if u.Unwrap() != Step(chain) {
			t.Error("expected the wrapped step back")
		}
	})

	t.Run("Name And String", func(t *testing.T) {
		u := NewUnion(repeatN("a", 1, 1))
		if u.Name() != DefaultUnionName {
			t.Errorf("expected %q, got %q", DefaultUnionName, u.Name())
		}
		if u.String() != "Union(a())" {
			t.Errorf("unexpected literal %q", u.String())
		}
	})

	t.Run("Keeps A Cycle Whole", func(t *testing.T) {
		// Without Combine, LoopBind on a sequence wraps only the last
		// element; wrapped, the cycle spans the whole chain.
		open := Bind(repeatN("r1", "1", 2), repeatN("r2", "2", 1))
		open = LoopBind(open, onceN("r3", "3", 1))
		openGot := mustCollect(t, open.Produce(context.Background(), 0))
		assertValues(t, openGot, "2", "2", "2")

		whole := Combine(Bind(repeatN("r1", "1", 2), repeatN("r2", "2", 1)))
		whole = LoopBind(whole, onceN("r3", "3", 1))
		wholeGot := mustCollect(t, whole.Produce(context.Background(), 0))
		assertValues(t, wholeGot, "2", "2", "2", "2")
	})
}
