package stepz

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestSetPack(t *testing.T) {
	t.Run("Collapses Duplicates Per Round", func(t *testing.T) {
		chain := Bind(lettersOf("letters", "abcdefghjk"), NewSetPack("pack",
			keepIn("abc", "abc"),
			keepIn("ab", "ab"),
			keepIn("a", "a"),
		))

		got := mustCollect(t, chain.Produce(context.Background(), 0))
		want := []any{
			map[any]struct{}{"a": {}},
			map[any]struct{}{"b": {}},
			map[any]struct{}{"c": {}},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("Distinct Values Share A Round", func(t *testing.T) {
		pack := NewSetPack("pack", repeatN("x", "x", 1), repeatN("y", "y", 1))

		got := mustCollect(t, pack.Produce(context.Background(), 0))
		want := []any{map[any]struct{}{"x": {}, "y": {}}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("All Children Empty Yields Nothing", func(t *testing.T) {
		pack := NewSetPack("pack", keepIn("n1", ""))
		got := mustCollect(t, pack.Produce(context.Background(), 0))
		assertValues(t, got)
	})

	t.Run("Child Error Terminates", func(t *testing.T) {
		sentinel := errors.New("child failure")
		pack := NewSetPack("pack", Apply("boom", func(_ context.Context, _ any) (any, error) {
			return nil, sentinel
		}))

		_, err := Collect(pack.Produce(context.Background(), 0))
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}
	})

	t.Run("Lifted From Step Set Operand", func(t *testing.T) {
		member := repeatN("x", "x", 1)
		chain := Bind(repeatN("seed", "s", 1), map[Step]struct{}{member: {}})

		got := mustCollect(t, chain.Produce(context.Background(), 0))
		want := []any{map[any]struct{}{"x": {}}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("Accessors", func(t *testing.T) {
		pack := NewSetPack("pack", repeatN("a", 1, 1), repeatN("b", 2, 1))
		if pack.Len() != 2 {
			t.Errorf("expected 2 children, got %d", pack.Len())
		}
		if pack.String() != "SetPack{a(), b()}" {
			t.Errorf("unexpected literal %q", pack.String())
		}
	})
}
