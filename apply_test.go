package stepz

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

func TestApply(t *testing.T) {
	t.Run("Success Yields One Value", func(t *testing.T) {
		parse := Apply("parse-int", func(_ context.Context, v any) (any, error) {
			return strconv.Atoi(v.(string))
		})
		got := mustCollect(t, parse.Produce(context.Background(), "42"))
		assertValues(t, got, 42)
	})

	t.Run("Error Is Terminal", func(t *testing.T) {
		sentinel := errors.New("rejected")
		reject := Apply("reject", func(_ context.Context, _ any) (any, error) {
			return nil, sentinel
		})

		vals, err := Collect(reject.Produce(context.Background(), "x"))
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}
		if len(vals) != 0 {
			t.Errorf("expected no values, got %v", vals)
		}
	})
}
