package aspectlog

import (
	"time"

	"github.com/rs/zerolog"
)

// LogContext provides a fluent interface for building a context logger with pre-populated fields.
type LogContext interface {
	Str(key, val string) LogContext
	Int(key string, val int) LogContext
	Bool(key string, val bool) LogContext
	Interface(key string, val interface{}) LogContext
	// Logger creates and returns the new context logger
	Logger() Logger
}

// LogEvent provides a fluent interface for structured logging with type-safe field methods.
// It wraps zerolog.Event; a LogEvent built from a nil event drops everything.
type LogEvent interface {
	Str(key, val string) LogEvent
	Strs(key string, vals []string) LogEvent
	Int(key string, val int) LogEvent
	Int64(key string, val int64) LogEvent
	Bool(key string, val bool) LogEvent
	Dur(key string, val time.Duration) LogEvent
	Err(err error) LogEvent
	AnErr(key string, err error) LogEvent
	Interface(key string, val interface{}) LogEvent
	Msg(msg string)
	Msgf(format string, v ...interface{})
	Send()
}

// logEvent implements LogEvent by wrapping zerolog.Event
type logEvent struct {
	event *zerolog.Event
}

// trackedLogEvent wraps a logEvent and decrements the active operations counter when done
type trackedLogEvent struct {
	logEvent
	service *Service
}

func newLogEvent(e *zerolog.Event) LogEvent {
	return &logEvent{event: e}
}

// newTrackedLogEvent creates a tracked LogEvent. The caller has already
// registered the operation; a nil event releases it immediately.
func newTrackedLogEvent(e *zerolog.Event, s *Service) LogEvent {
	if s == nil {
		return newLogEvent(nil)
	}
	if e == nil {
		s.release()
		return newLogEvent(nil)
	}
	return &trackedLogEvent{
		logEvent: logEvent{event: e},
		service:  s,
	}
}

func (e *logEvent) Str(key, val string) LogEvent {
	if e.event != nil {
		e.event.Str(key, val)
	}
	return e
}

func (e *logEvent) Strs(key string, vals []string) LogEvent {
	if e.event != nil {
		e.event.Strs(key, vals)
	}
	return e
}

func (e *logEvent) Int(key string, val int) LogEvent {
	if e.event != nil {
		e.event.Int(key, val)
	}
	return e
}

func (e *logEvent) Int64(key string, val int64) LogEvent {
	if e.event != nil {
		e.event.Int64(key, val)
	}
	return e
}

func (e *logEvent) Bool(key string, val bool) LogEvent {
	if e.event != nil {
		e.event.Bool(key, val)
	}
	return e
}

func (e *logEvent) Dur(key string, val time.Duration) LogEvent {
	if e.event != nil {
		e.event.Dur(key, val)
	}
	return e
}

func (e *logEvent) Err(err error) LogEvent {
	if e.event != nil {
		e.event.Err(err)
		if err != nil {
			addChainFields(e.event, "error", err)
		}
	}
	return e
}

func (e *logEvent) AnErr(key string, err error) LogEvent {
	if e.event != nil {
		e.event.AnErr(key, err)
		if err != nil {
			addChainFields(e.event, key, err)
		}
	}
	return e
}

// addChainFields includes the error chain as an array and a joined string, plus
// the operations when the chain carries DetailedErrors.
func addChainFields(ev *zerolog.Event, key string, err error) {
	chain, ops, root, rootOp := buildErrorChain(err)
	if len(chain) == 0 {
		return
	}
	ev.Strs(key+"_chain", chain)
	ev.Str(key+"_root", root)
	ev.Str(key+"_history", joinChain(chain))
	ev.Strs(key+"_ops", ops)
	if rootOp != emptyString {
		ev.Str(key+"_root_op", rootOp)
	}
}

func (e *logEvent) Interface(key string, val interface{}) LogEvent {
	if e.event != nil {
		e.event.Interface(key, val)
	}
	return e
}

func (e *logEvent) Msg(msg string) {
	if e.event != nil {
		e.event.Msg(msg)
	}
}

func (e *logEvent) Msgf(format string, v ...interface{}) {
	if e.event != nil {
		e.event.Msgf(format, v...)
	}
}

func (e *logEvent) Send() {
	if e.event != nil {
		e.event.Send()
	}
}

// Override Msg, Msgf, and Send for trackedLogEvent to decrement counter
func (e *trackedLogEvent) Msg(msg string) {
	defer e.service.release()
	e.logEvent.Msg(msg)
}

func (e *trackedLogEvent) Msgf(format string, v ...interface{}) {
	defer e.service.release()
	e.logEvent.Msgf(format, v...)
}

func (e *trackedLogEvent) Send() {
	defer e.service.release()
	e.logEvent.Send()
}

// The field setters are re-declared so chaining keeps the tracked wrapper.

func (e *trackedLogEvent) Str(key, val string) LogEvent {
	e.logEvent.Str(key, val)
	return e
}

func (e *trackedLogEvent) Strs(key string, vals []string) LogEvent {
	e.logEvent.Strs(key, vals)
	return e
}

func (e *trackedLogEvent) Int(key string, val int) LogEvent {
	e.logEvent.Int(key, val)
	return e
}

func (e *trackedLogEvent) Int64(key string, val int64) LogEvent {
	e.logEvent.Int64(key, val)
	return e
}

func (e *trackedLogEvent) Bool(key string, val bool) LogEvent {
	e.logEvent.Bool(key, val)
	return e
}

func (e *trackedLogEvent) Dur(key string, val time.Duration) LogEvent {
	e.logEvent.Dur(key, val)
	return e
}

func (e *trackedLogEvent) Err(err error) LogEvent {
	e.logEvent.Err(err)
	return e
}

func (e *trackedLogEvent) AnErr(key string, err error) LogEvent {
	e.logEvent.AnErr(key, err)
	return e
}

func (e *trackedLogEvent) Interface(key string, val interface{}) LogEvent {
	e.logEvent.Interface(key, val)
	return e
}

// logContext implements LogContext by wrapping zerolog.Context
type logContext struct {
	context zerolog.Context
	service *Service
}

// contextLogger wraps a zerolog.Logger created from a context. It delegates to
// the parent Service for lifecycle so Close still waits for its events.
type contextLogger struct {
	logger *zerolog.Logger
	parent *Service
}

func (cl *contextLogger) DebugWith() LogEvent {
	return cl.parent.eventFrom(cl.logger, zerolog.DebugLevel)
}
func (cl *contextLogger) InfoWith() LogEvent {
	return cl.parent.eventFrom(cl.logger, zerolog.InfoLevel)
}
func (cl *contextLogger) WarnWith() LogEvent {
	return cl.parent.eventFrom(cl.logger, zerolog.WarnLevel)
}
func (cl *contextLogger) ErrorWith() LogEvent {
	return cl.parent.eventFrom(cl.logger, zerolog.ErrorLevel)
}

func (cl *contextLogger) With() LogContext {
	if cl.logger == nil || cl.parent == nil || !cl.parent.isInitialized.Load() {
		return &noopLogContext{}
	}
	return &logContext{
		context: cl.logger.With(),
		service: cl.parent,
	}
}

func (c *logContext) Str(key, val string) LogContext {
	c.context = c.context.Str(key, val)
	return c
}

func (c *logContext) Int(key string, val int) LogContext {
	c.context = c.context.Int(key, val)
	return c
}

func (c *logContext) Bool(key string, val bool) LogContext {
	c.context = c.context.Bool(key, val)
	return c
}

func (c *logContext) Interface(key string, val interface{}) LogContext {
	c.context = c.context.Interface(key, val)
	return c
}

func (c *logContext) Logger() Logger {
	logger := c.context.Logger()
	return &contextLogger{
		logger: &logger,
		parent: c.service,
	}
}

// noopLogContext is a no-op implementation of LogContext
type noopLogContext struct{}

func (n *noopLogContext) Str(key, val string) LogContext                   { return n }
func (n *noopLogContext) Int(key string, val int) LogContext               { return n }
func (n *noopLogContext) Bool(key string, val bool) LogContext             { return n }
func (n *noopLogContext) Interface(key string, val interface{}) LogContext { return n }
func (n *noopLogContext) Logger() Logger                                   { return Nop() }

// noopLogger is a no-op implementation of Logger
type noopLogger struct{}

// Nop returns a Logger that drops every line.
func Nop() Logger { return &noopLogger{} }

func (n *noopLogger) DebugWith() LogEvent { return newLogEvent(nil) }
func (n *noopLogger) InfoWith() LogEvent  { return newLogEvent(nil) }
func (n *noopLogger) WarnWith() LogEvent  { return newLogEvent(nil) }
func (n *noopLogger) ErrorWith() LogEvent { return newLogEvent(nil) }
func (n *noopLogger) With() LogContext    { return &noopLogContext{} }
