package stepz

import (
	"context"
	"errors"
	"testing"
)

func TestTuplePack(t *testing.T) {
	t.Run("Zips By Position Per Upstream Value", func(t *testing.T) {
		chain := Bind(lettersOf("letters", "abcdefghjk"), NewTuplePack("pack",
			keepIn("abc", "abc"),
			keepIn("ab", "ab"),
			keepIn("a", "a"),
		))

		got := mustCollect(t, chain.Produce(context.Background(), 0))
		assertValues(t, got, []any{"a", "a", "a"})
	})

	t.Run("Truncates To Shortest Child", func(t *testing.T) {
		pack := NewTuplePack("pack", repeatN("x", "x", 3), repeatN("y", "y", 2))

		got := mustCollect(t, pack.Produce(context.Background(), 0))
		assertValues(t, got, []any{"x", "y"}, []any{"x", "y"})
	})

	t.Run("No Partial Tuples", func(t *testing.T) {
		pack := NewTuplePack("pack", repeatN("x", "x", 1), keepIn("never", ""))

		got := mustCollect(t, pack.Produce(context.Background(), 0))
		assertValues(t, got)
	})

	t.Run("Zero Children Yields Nothing", func(t *testing.T) {
		pack := NewTuplePack("empty")
		got := mustCollect(t, pack.Produce(context.Background(), 0))
		assertValues(t, got)
	})

	t.Run("Child Error Terminates", func(t *testing.T) {
		sentinel := errors.New("child failure")
		pack := NewTuplePack("pack",
			repeatN("x", "x", 2),
			Apply("boom", func(_ context.Context, _ any) (any, error) {
				return nil, sentinel
			}),
		)

		vals, err := Collect(pack.Produce(context.Background(), 0))
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}
		if len(vals) != 0 {
			t.Errorf("expected no tuples before the error, got %v", vals)
		}
	})

	t.Run("Lifted From Array Operand", func(t *testing.T) {
		chain := Bind(repeatN("seed", "s", 1), [2]Step{repeatN("x", "x", 1), repeatN("y", "y", 1)})

		got := mustCollect(t, chain.Produce(context.Background(), 0))
		assertValues(t, got, []any{"x", "y"})

		names := chain.(*Sequence).Names()
		if names[1] != DefaultTuplePackName {
			t.Errorf("expected the array lifted to a tuple packer, got %q", names[1])
		}
	})

	t.Run("Accessors", func(t *testing.T) {
		pack := NewTuplePack("pack", repeatN("a", 1, 1), repeatN("b", 2, 1))
		if pack.Len() != 2 {
			t.Errorf("expected 2 children, got %d", pack.Len())
		}
		if len(pack.Steps()) != 2 {
			t.Errorf("expected 2 steps, got %d", len(pack.Steps()))
		}
		if pack.String() != "TuplePack(a(), b())" {
			t.Errorf("unexpected literal %q", pack.String())
		}
	})
}
