package stepz

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestMapPack(t *testing.T) {
	t.Run("Keyed Rounds Shrink As Children Dry Up", func(t *testing.T) {
		chain := Bind(lettersOf("letters", "abcdefghjk"), NewMapPack("pack", map[string]Step{
			"one":   keepIn("abc", "abc"),
			"two":   keepIn("ab", "ab"),
			"three": keepIn("a", "a"),
		}))

		got := mustCollect(t, chain.Produce(context.Background(), 0))
		want := []any{
			map[string]any{"one": "a", "two": "a", "three": "a"},
			map[string]any{"one": "b", "two": "b"},
			map[string]any{"one": "c"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("Keys Sorted", func(t *testing.T) {
		pack := NewMapPack("pack", map[string]Step{
			"two":   repeatN("b", 2, 1),
			"one":   repeatN("a", 1, 1),
			"three": repeatN("c", 3, 1),
		})

		want := []string{"one", "three", "two"}
		if got := pack.Keys(); !reflect.DeepEqual(got, want) {
			t.Errorf("expected keys %v, got %v", want, got)
		}
	})

	t.Run("Copies The Mapping", func(t *testing.T) {
		source := map[string]Step{"k": repeatN("a", 1, 1)}
		pack := NewMapPack("pack", source)
		source["extra"] = repeatN("b", 2, 1)

		if pack.Len() != 1 {
			t.Errorf("expected later mutation ignored, got %d children", pack.Len())
		}
	})

	t.Run("Child Error Terminates", func(t *testing.T) {
		sentinel := errors.New("child failure")
		pack := NewMapPack("pack", map[string]Step{
			"ok": repeatN("x", "x", 2),
			"bad": Apply("boom", func(_ context.Context, _ any) (any, error) {
				return nil, sentinel
			}),
		})

		_, err := Collect(pack.Produce(context.Background(), 0))
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}
	})

	t.Run("Lifted From Map Operand", func(t *testing.T) {
		chain := Bind(repeatN("seed", "s", 1), map[string]Step{"k": repeatN("x", "x", 1)})

		got := mustCollect(t, chain.Produce(context.Background(), 0))
		assertValues(t, got, map[string]any{"k": "x"})
	})

	t.Run("String", func(t *testing.T) {
		pack := NewMapPack("pack", map[string]Step{
			"one": repeatN("a", 1, 1),
			"two": repeatN("b", 2, 1),
		})
		if pack.String() != `MapPack{"one": a(), "two": b()}` {
			t.Errorf("unexpected literal %q", pack.String())
		}
	})
}
