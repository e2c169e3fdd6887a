package aspectlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	console "github.com/phsym/console-slog"
)

// SlogLogger is a Logger backed by log/slog, for hosts that already route
// their logs through a slog.Handler.
type SlogLogger struct {
	logger *slog.Logger
}

var _ Logger = (*SlogLogger)(nil)

// NewSlogLogger writes to w at the given minimum level. With human set it
// uses a human-readable console handler, otherwise JSON lines with a "ts" key.
func NewSlogLogger(w io.Writer, level Level, human bool) *SlogLogger {
	var handler slog.Handler
	if human {
		handler = console.NewHandler(w, &console.HandlerOptions{
			Level: level.slogLevel(),
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level.slogLevel(),
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					a.Key = "ts"
				}
				return a
			},
		})
	}
	return &SlogLogger{logger: slog.New(handler)}
}

// NewSlogLoggerFrom adapts an existing *slog.Logger.
func NewSlogLoggerFrom(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{logger: l}
}

func (l *SlogLogger) DebugWith() LogEvent { return l.event(slog.LevelDebug) }
func (l *SlogLogger) InfoWith() LogEvent  { return l.event(slog.LevelInfo) }
func (l *SlogLogger) WarnWith() LogEvent  { return l.event(slog.LevelWarn) }
func (l *SlogLogger) ErrorWith() LogEvent { return l.event(slog.LevelError) }

func (l *SlogLogger) With() LogContext {
	return &slogContext{logger: l.logger}
}

func (l *SlogLogger) event(level slog.Level) LogEvent {
	if !l.logger.Enabled(context.Background(), level) {
		return newLogEvent(nil)
	}
	return &slogEvent{logger: l.logger, level: level}
}

// slogEvent collects attributes and emits them on Msg/Msgf/Send.
type slogEvent struct {
	logger *slog.Logger
	level  slog.Level
	attrs  []slog.Attr
}

func (e *slogEvent) add(a slog.Attr) LogEvent {
	e.attrs = append(e.attrs, a)
	return e
}

func (e *slogEvent) Str(key, val string) LogEvent            { return e.add(slog.String(key, val)) }
func (e *slogEvent) Strs(key string, vals []string) LogEvent { return e.add(slog.Any(key, vals)) }
func (e *slogEvent) Int(key string, val int) LogEvent        { return e.add(slog.Int(key, val)) }
func (e *slogEvent) Int64(key string, val int64) LogEvent    { return e.add(slog.Int64(key, val)) }
func (e *slogEvent) Bool(key string, val bool) LogEvent      { return e.add(slog.Bool(key, val)) }
func (e *slogEvent) Dur(key string, val time.Duration) LogEvent {
	return e.add(slog.Duration(key, val))
}

func (e *slogEvent) Interface(key string, val interface{}) LogEvent {
	return e.add(slog.Any(key, val))
}

func (e *slogEvent) Err(err error) LogEvent {
	return e.AnErr("error", err)
}

func (e *slogEvent) AnErr(key string, err error) LogEvent {
	if err == nil {
		return e
	}
	e.add(slog.String(key, err.Error()))
	chain, _, root, _ := buildErrorChain(err)
	if len(chain) > 1 {
		e.add(slog.String(key+"_root", root))
		e.add(slog.String(key+"_history", joinChain(chain)))
	}
	return e
}

func (e *slogEvent) Msg(msg string) {
	e.logger.LogAttrs(context.Background(), e.level, msg, e.attrs...)
}

func (e *slogEvent) Msgf(format string, v ...interface{}) {
	e.Msg(fmt.Sprintf(format, v...))
}

func (e *slogEvent) Send() {
	e.Msg(emptyString)
}

type slogContext struct {
	logger *slog.Logger
	attrs  []any
}

func (c *slogContext) Str(key, val string) LogContext {
	c.attrs = append(c.attrs, slog.String(key, val))
	return c
}

func (c *slogContext) Int(key string, val int) LogContext {
	c.attrs = append(c.attrs, slog.Int(key, val))
	return c
}

func (c *slogContext) Bool(key string, val bool) LogContext {
	c.attrs = append(c.attrs, slog.Bool(key, val))
	return c
}

func (c *slogContext) Interface(key string, val interface{}) LogContext {
	c.attrs = append(c.attrs, slog.Any(key, val))
	return c
}

func (c *slogContext) Logger() Logger {
	return &SlogLogger{logger: c.logger.With(c.attrs...)}
}
