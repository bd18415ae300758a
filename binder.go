package stepz

// BoundFunc is a callable held by a Binder. Each call receives the
// positional arguments bound so far plus the running value from the
// previous function in the chain.
type BoundFunc func(args ...any) any

// Binder is the auxiliary function-composition wrapper: a mutable chain
// of plain callables replayed left to right, with each function's return
// fed to the next as its sole trailing argument. It is the
// function-level counterpart of step composition and shares its builder
// discipline - Bind appends, LBind partially applies, Call replays.
//
//	b := stepz.NewBinder().
//	    Bind(add).LBind(10).
//	    Bind(double)
//	b.Call(5) // double(add(10, 5))
type Binder struct {
	funcs []BoundFunc
}

// NewBinder creates an empty Binder. Calling an empty binder echoes its
// first argument.
func NewBinder() *Binder {
	return &Binder{}
}

// Bind appends a callable to the chain in place and returns the receiver.
func (b *Binder) Bind(fn BoundFunc) *Binder {
	if fn == nil {
		panic("stepz: Binder.Bind requires a non-nil function")
	}
	b.funcs = append(b.funcs, fn)
	return b
}

// LBind partially applies arg as the first positional argument of the
// last bound callable and returns the receiver. Repeated LBind calls
// stack left to right, each filling the next leading position.
func (b *Binder) LBind(arg any) *Binder {
	if len(b.funcs) == 0 {
		panic("stepz: Binder.LBind requires a bound function")
	}
	last := b.funcs[len(b.funcs)-1]
	b.funcs[len(b.funcs)-1] = func(args ...any) any {
		return last(append([]any{arg}, args...)...)
	}
	return b
}

// Len returns the number of bound callables.
func (b *Binder) Len() int {
	return len(b.funcs)
}

// Call replays the chain left to right: the first callable receives the
// given arguments, every later callable receives the previous return as
// its single trailing argument, and the last return is the result. An
// empty chain returns the first argument, or nil when called without
// arguments.
func (b *Binder) Call(args ...any) any {
	if len(b.funcs) == 0 {
		if len(args) > 0 {
			return args[0]
		}
		return nil
	}

	value := b.funcs[0](args...)
	for _, fn := range b.funcs[1:] {
		value = fn(value)
	}
	return value
}
