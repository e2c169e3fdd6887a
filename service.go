package aspectlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Service is the zerolog-backed Logger the interceptor emits through.
type Service struct {
	WorkingDir    string
	LoggingConfig *Config
	// Output, when set, replaces the console and file writers.
	Output io.Writer

	logger        atomic.Pointer[zerolog.Logger]
	isInitialized atomic.Bool
	activeOps     atomic.Int64
	initOnce      sync.Once
	initErr       error
	mu            sync.RWMutex
	wg            sync.WaitGroup
	fileWriter    *lumberjack.Logger
}

var _ Logger = (*Service)(nil)

// NewLogger returns a Service for cfg. Initialize must still be called.
func NewLogger(workingDir string, cfg *Config) *Service {
	return &Service{WorkingDir: workingDir, LoggingConfig: cfg}
}

// Initialize validates the configuration and builds the underlying logger.
// Subsequent calls return the result of the first one.
func (s *Service) Initialize() error {
	const op errors.Op = "aspectlog.Service.Initialize"
	if s == nil {
		return errors.New(op).Msg(errMsgNilService)
	}
	if s.LoggingConfig == nil {
		return errors.New(op).Msg(errMsgNilConfig)
	}

	s.initOnce.Do(func() {
		s.initErr = s.initialize()
	})
	return s.initErr
}

func (s *Service) initialize() error {
	const op errors.Op = "aspectlog.Service.initialize"
	if err := validateConfig(s.LoggingConfig); err != nil {
		return err
	}

	writers, err := s.initializeWriters()
	if err != nil {
		return errors.New(op).Err(err).Msg(errMsgWriters)
	}
	if len(writers) == 0 {
		return errors.New(op).Msg(errMsgNoChannels)
	}

	level, _ := s.LoggingConfig.MinLevel()
	logger := zerolog.New(io.MultiWriter(writers...)).Level(level.zerologLevel())
	if s.LoggingConfig.WithTimestamp {
		logger = logger.With().Timestamp().Logger()
	}

	s.logger.Store(&logger)
	s.isInitialized.Store(true)
	return nil
}

// Close waits up to ShutdownTimeoutMS for in-flight events, then releases the
// file writer. It's safe to call Close multiple times.
func (s *Service) Close() error {
	if s == nil || !s.isInitialized.Load() {
		return nil
	}

	s.mu.Lock()
	if !s.isInitialized.Load() {
		s.mu.Unlock()
		return nil
	}
	s.isInitialized.Store(false)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	timeout := time.Duration(s.LoggingConfig.ShutdownTimeoutMS) * time.Millisecond
	select {
	case <-done:
	case <-time.After(timeout):
		if logger := s.logger.Load(); logger != nil {
			logger.Warn().
				Int64("active_operations", s.activeOps.Load()).
				Int("timeout_ms", s.LoggingConfig.ShutdownTimeoutMS).
				Msg("Logger shutdown timeout exceeded")
		}
	}

	s.logger.Store(nil)

	if s.fileWriter != nil {
		if err := s.fileWriter.Close(); err != nil {
			return fmt.Errorf("closing log file: %w", err)
		}
	}
	return nil
}

// DebugWith returns a LogEvent for structured Debug-level logging.
func (s *Service) DebugWith() LogEvent {
	return s.eventFrom(s.current(), zerolog.DebugLevel)
}

// InfoWith returns a LogEvent for structured Info-level logging.
// Example: logger.InfoWith().Str("method", name).Msg("called")
func (s *Service) InfoWith() LogEvent {
	return s.eventFrom(s.current(), zerolog.InfoLevel)
}

// WarnWith returns a LogEvent for structured Warn-level logging.
func (s *Service) WarnWith() LogEvent {
	return s.eventFrom(s.current(), zerolog.WarnLevel)
}

// ErrorWith returns a LogEvent for structured Error-level logging.
// Example: logger.ErrorWith().Err(err).Str("method", name).Msg("failed")
func (s *Service) ErrorWith() LogEvent {
	return s.eventFrom(s.current(), zerolog.ErrorLevel)
}

// With returns a LogContext for creating a child logger with pre-populated fields.
func (s *Service) With() LogContext {
	logger := s.current()
	if logger == nil {
		return &noopLogContext{}
	}
	return &logContext{
		context: logger.With(),
		service: s,
	}
}

func (s *Service) current() *zerolog.Logger {
	if s == nil || !s.isInitialized.Load() {
		return nil
	}
	return s.logger.Load()
}

// executableName returns the running binary's base name without extension.
func executableName() string {
	exe, err := os.Executable()
	if err != nil {
		return emptyString
	}
	base := filepath.Base(exe)
	return base[:len(base)-len(filepath.Ext(base))]
}
