package aspectlog

// Logger is the sink the interceptor emits through. Implementations return a
// no-op LogEvent when the tier is disabled, so callers never need to check.
type Logger interface {
	DebugWith() LogEvent
	InfoWith() LogEvent
	WarnWith() LogEvent
	ErrorWith() LogEvent

	// With creates a child logger whose fields are attached to every line.
	// Example: reqLogger := logger.With().Str("request_id", id).Logger()
	With() LogContext
}

// eventFor picks the LogEvent constructor matching tier.
func eventFor(l Logger, tier Level) LogEvent {
	switch tier {
	case LevelDebug:
		return l.DebugWith()
	case LevelInfo:
		return l.InfoWith()
	case LevelWarn:
		return l.WarnWith()
	case LevelError:
		return l.ErrorWith()
	default:
		return newLogEvent(nil)
	}
}
