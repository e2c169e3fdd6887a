package aspectlog

import (
	stderrs "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

func (s *Service) initializeRollingFileLogger(dir, exeName string) *lumberjack.Logger {
	if exeName == emptyString {
		exeName = "app"
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, exeName+".log"),
		MaxBackups: s.LoggingConfig.LogFileMaxBackups,
		MaxAge:     s.LoggingConfig.LogFileMaxAgeDays,
		MaxSize:    s.LoggingConfig.LogFileMaxSizeMB,
		Compress:   s.LoggingConfig.LogFileCompress,
	}
}

func (s *Service) initializeWriters() ([]io.Writer, error) {
	if s.Output != nil {
		return []io.Writer{s.Output}, nil
	}

	var writers []io.Writer
	if s.LoggingConfig.FileLogging {
		if s.WorkingDir == emptyString {
			return nil, stderrs.New("working dir has not been set/injected")
		}
		dir := filepath.Join(s.WorkingDir, s.LoggingConfig.LogDir)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
		s.fileWriter = s.initializeRollingFileLogger(dir, executableName())
		writers = append(writers, s.fileWriter)
	}
	if s.LoggingConfig.ConsoleLogging {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, NoColor: s.LoggingConfig.ConsoleNoColor})
	}
	return writers, nil
}
