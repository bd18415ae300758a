package stepz

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

var pkgLogger atomic.Pointer[zap.Logger]

func init() {
	pkgLogger.Store(zap.Must(zap.NewProduction()))
}

// SetLogger replaces the package-level logger used for diagnostics, such
// as the warning Base.Produce emits. Pass zap.NewNop() to silence the
// package entirely. SetLogger is safe for concurrent use.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	pkgLogger.Store(l)
}

func logger() *zap.Logger {
	return pkgLogger.Load()
}

// Base is the embeddable default implementation of Step. It exists to be
// overridden: a concrete step embeds Base and overrides Produce (or
// implements BatchProducer for a custom batch strategy).
//
// The default Produce does not fail - it logs a diagnostic warning and
// yields nothing, signaling "not overridden" without halting the
// pipeline.
//
// Example:
//
//	type Split struct {
//	    stepz.Base
//	    sep string
//	}
//
//	func (s Split) Produce(_ context.Context, value any) stepz.Seq {
//	    return stepz.Values(toAnySlice(strings.Split(value.(string), s.sep))...)
//	}
type Base struct {
	// StepName is the name reported by Name. Leave empty for the
	// default "step".
	StepName Name
}

// Name implements the Step interface.
func (b Base) Name() Name {
	if b.StepName == "" {
		return "step"
	}
	return b.StepName
}

// Produce implements the Step interface. It warns that the step has not
// overridden Produce and returns an empty sequence.
func (b Base) Produce(context.Context, any) Seq {
	logger().Warn("Produce not implemented", zap.String("step", string(b.Name())))
	return Empty()
}
