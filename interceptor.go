package aspectlog

import (
	"context"
	"time"

	"github.com/Station-Manager/errors"
)

// Interceptor wraps designated functions with four observation points:
//
//	before-call      info   method name and arguments
//	after-return     info   method name and result
//	after-error      error  method name and error (or panic) message
//	around-timing    debug  method name and elapsed milliseconds
//
// Each point consults the Gate on its own. The wrapped function's results,
// error and panic value always reach the caller unchanged.
type Interceptor struct {
	gate      Gate
	logger    Logger
	registry  *Registry
	installed bool
}

// NewInterceptor builds an Interceptor emitting through logger. When
// cfg.AspectEnabled is explicitly false the returned Interceptor is a
// pass-through: it neither consults the gate nor emits.
func NewInterceptor(cfg Config, logger Logger) (*Interceptor, error) {
	const op errors.Op = "aspectlog.NewInterceptor"
	if !cfg.Installed() {
		return &Interceptor{logger: Nop()}, nil
	}
	if logger == nil {
		return nil, errors.New(op).Msg(errMsgNilLogger)
	}
	gate, err := NewGate(cfg)
	if err != nil {
		return nil, err
	}
	return &Interceptor{gate: gate, logger: logger, installed: true}, nil
}

// WithRegistry returns a copy of i that only observes methods designated in r.
// A nil registry observes every method it is asked to wrap.
func (i *Interceptor) WithRegistry(r *Registry) *Interceptor {
	c := *i
	c.registry = r
	return &c
}

// Installed reports whether calls are observed at all.
func (i *Interceptor) Installed() bool {
	return i != nil && i.installed
}

// Gate returns the gate the observation points consult.
func (i *Interceptor) Gate() Gate {
	return i.gate
}

// Invoke runs fn as the body of method, observing it. args are only used for
// the before-call line.
func (i *Interceptor) Invoke(method string, args []any, fn func() (any, error)) (any, error) {
	return invoke(i, method, args, fn)
}

func (i *Interceptor) observes(method string) bool {
	if !i.Installed() {
		return false
	}
	return i.registry == nil || i.registry.IsDesignated(method)
}

// invoke is the shared sequencing: timer, before, call, after-return or
// after-error, then the deferred timing line.
func invoke[R any](i *Interceptor, method string, args []any, fn func() (R, error)) (result R, err error) {
	if !i.observes(method) {
		return fn()
	}

	if i.gate.Allows(LevelDebug) {
		start := time.Now()
		defer i.timing(method, start)
	}

	i.before(method, args)

	defer func() {
		if r := recover(); r != nil {
			i.afterPanic(method, r)
			panic(r)
		}
	}()

	result, err = fn()
	if err != nil {
		i.afterError(method, err)
		return result, err
	}
	i.afterReturn(method, result)
	return result, nil
}

func (i *Interceptor) before(method string, args []any) {
	if !i.gate.Allows(LevelInfo) {
		return
	}
	eventFor(i.logger, LevelInfo).
		Str("method", method).
		Msgf(msgBeforeCall, method, formatArgs(args))
}

func (i *Interceptor) afterReturn(method string, result any) {
	if !i.gate.Allows(LevelInfo) {
		return
	}
	eventFor(i.logger, LevelInfo).
		Str("method", method).
		Msgf(msgAfterReturn, method, formatValue(result))
}

func (i *Interceptor) afterError(method string, err error) {
	if !i.gate.Allows(LevelError) {
		return
	}
	eventFor(i.logger, LevelError).
		Str("method", method).
		Err(err).
		Msgf(msgAfterError, method, err.Error())
}

func (i *Interceptor) afterPanic(method string, recovered any) {
	if !i.gate.Allows(LevelError) {
		return
	}
	ev := eventFor(i.logger, LevelError).
		Str("method", method).
		Bool("panic", true)
	if err, ok := recovered.(error); ok {
		ev = ev.Err(err)
	}
	ev.Msgf(msgAfterError, method, formatValue(recovered))
}

func (i *Interceptor) timing(method string, start time.Time) {
	elapsed := time.Since(start).Milliseconds()
	eventFor(i.logger, LevelDebug).
		Str("method", method).
		Int64("elapsed_ms", elapsed).
		Msgf(msgTiming, method, elapsed)
}

// Func0 wraps a no-argument function.
func Func0[R any](i *Interceptor, method string, fn func() (R, error)) func() (R, error) {
	return func() (R, error) {
		return invoke(i, method, nil, fn)
	}
}

// Func1 wraps a single-argument function.
func Func1[A, R any](i *Interceptor, method string, fn func(A) (R, error)) func(A) (R, error) {
	return func(a A) (R, error) {
		return invoke(i, method, []any{a}, func() (R, error) { return fn(a) })
	}
}

// Func2 wraps a two-argument function.
func Func2[A, B, R any](i *Interceptor, method string, fn func(A, B) (R, error)) func(A, B) (R, error) {
	return func(a A, b B) (R, error) {
		return invoke(i, method, []any{a, b}, func() (R, error) { return fn(a, b) })
	}
}

// CtxFunc1 wraps a context-aware single-argument function. The context is
// passed through and left out of the logged arguments.
func CtxFunc1[A, R any](i *Interceptor, method string, fn func(context.Context, A) (R, error)) func(context.Context, A) (R, error) {
	return func(ctx context.Context, a A) (R, error) {
		return invoke(i, method, []any{a}, func() (R, error) { return fn(ctx, a) })
	}
}

// Action wraps a function that only reports an error. Its after-return line
// shows a <nil> result.
func Action(i *Interceptor, method string, fn func() error) func() error {
	return func() error {
		_, err := invoke(i, method, nil, func() (any, error) { return nil, fn() })
		return err
	}
}
