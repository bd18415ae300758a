package stepz

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBase(t *testing.T) {
	t.Run("Default Name", func(t *testing.T) {
		var b Base
		if b.Name() != "step" {
			t.Errorf("expected default name step, got %q", b.Name())
		}
	})

	t.Run("Named", func(t *testing.T) {
		b := Base{StepName: "splitter"}
		if b.Name() != "splitter" {
			t.Errorf("expected splitter, got %q", b.Name())
		}
	})

	t.Run("Unoverridden Produce Warns And Yields Nothing", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		SetLogger(zap.New(core))
		defer SetLogger(zap.NewNop())

		b := Base{StepName: "forgotten"}
		got := mustCollect(t, b.Produce(context.Background(), "anything"))
		assertValues(t, got)

		entries := logs.All()
		if len(entries) != 1 {
			t.Fatalf("expected 1 warning, got %d", len(entries))
		}
		if entries[0].Message != "Produce not implemented" {
			t.Errorf("unexpected message %q", entries[0].Message)
		}
		if step, ok := entries[0].ContextMap()["step"]; !ok || step != "forgotten" {
			t.Errorf("expected step field forgotten, got %v", step)
		}
	})

	t.Run("SetLogger Nil Falls Back To Nop", func(t *testing.T) {
		SetLogger(nil)
		defer SetLogger(zap.NewNop())

		// Must not panic.
		var b Base
		mustCollect(t, b.Produce(context.Background(), nil))
	})
}
