package stepz

import (
	"context"
	"testing"
)

func TestTransform(t *testing.T) {
	t.Run("Maps One To One", func(t *testing.T) {
		double := Transform("double", func(_ context.Context, v any) any {
			return v.(int) * 2
		})
		got := mustCollect(t, double.Produce(context.Background(), 5))
		assertValues(t, got, 10)
	})

	t.Run("Composes In A Chain", func(t *testing.T) {
		inc := Transform("inc", func(_ context.Context, v any) any {
			return v.(int) + 1
		})
		double := Transform("double", func(_ context.Context, v any) any {
			return v.(int) * 2
		})

		got := mustCollect(t, Bind(inc, double).Produce(context.Background(), 3))
		assertValues(t, got, 8)
	})
}
