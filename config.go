package aspectlog

import (
	"bytes"
	stderrs "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Station-Manager/errors"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config is the logging configuration. It is built once at startup and treated
// as read-only afterwards, so it may be shared across goroutines freely.
type Config struct {
	// Enabled mutes every observation point when false. The interceptor stays
	// installed and keeps wrapping calls.
	Enabled bool `yaml:"enabled"`
	// Level is the minimum tier that is emitted.
	Level string `yaml:"level" validate:"required,oneof=debug info warn error"`
	// AspectEnabled controls whether the interceptor is installed at all. Nil
	// (absent) and true install it; an explicit false yields a pass-through.
	AspectEnabled *bool `yaml:"aspect_enabled" split_words:"true"`

	ConsoleLogging    bool   `yaml:"console_logging" split_words:"true"`
	ConsoleNoColor    bool   `yaml:"console_no_color" split_words:"true"`
	FileLogging       bool   `yaml:"file_logging" split_words:"true"`
	LogDir            string `yaml:"log_dir" split_words:"true" validate:"required_if=FileLogging true"`
	LogFileMaxBackups int    `yaml:"log_file_max_backups" split_words:"true" validate:"gte=0,lte=100"`
	LogFileMaxAgeDays int    `yaml:"log_file_max_age_days" split_words:"true" validate:"gte=0,lte=365"`
	LogFileMaxSizeMB  int    `yaml:"log_file_max_size_mb" split_words:"true" validate:"gte=1,lte=1024"`
	LogFileCompress   bool   `yaml:"log_file_compress" split_words:"true"`
	WithTimestamp     bool   `yaml:"with_timestamp" split_words:"true"`
	ShutdownTimeoutMS int    `yaml:"shutdown_timeout_ms" split_words:"true" validate:"gte=0,lte=60000"`
}

// DefaultConfig returns the configuration used when nothing is supplied:
// logging enabled at info, console output, timestamps on.
func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		Level:             defaultLevel,
		ConsoleLogging:    true,
		LogDir:            defaultLogDir,
		LogFileMaxBackups: defaultLogFileMaxBackups,
		LogFileMaxAgeDays: defaultLogFileMaxAgeDays,
		LogFileMaxSizeMB:  defaultLogFileMaxSizeMB,
		WithTimestamp:     true,
		ShutdownTimeoutMS: defaultShutdownTimeoutMS,
	}
}

// MinLevel returns the parsed minimum tier.
func (c Config) MinLevel() (Level, error) {
	return ParseLevel(c.Level)
}

// Installed reports whether the interceptor should be installed.
func (c Config) Installed() bool {
	return c.AspectEnabled == nil || *c.AspectEnabled
}

// LoadConfig builds a Config from defaults, then the YAML file at path (skipped
// when path is empty), then ASPECTLOG_* environment variables. The result is
// normalized and validated; any failure is returned as *ConfigValidationError.
func LoadConfig(path string) (Config, error) {
	const op errors.Op = "aspectlog.LoadConfig"
	cfg := DefaultConfig()

	if path != emptyString {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, &ConfigValidationError{
				Field: "file",
				Value: path,
				Err:   errors.New(op).Err(err).Msg(errMsgConfigRead),
			}
		}
		if err = decodeYAML(data, &cfg); err != nil {
			return Config{}, &ConfigValidationError{
				Field: "file",
				Value: path,
				Err:   errors.New(op).Err(err).Msg(errMsgConfigDecode),
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		field, value := emptyString, emptyString
		var perr *envconfig.ParseError
		if stderrs.As(err, &perr) {
			field, value = perr.KeyName, perr.Value
		}
		return Config{}, &ConfigValidationError{
			Field: field,
			Value: value,
			Err:   errors.New(op).Err(err).Msg(errMsgConfigEnv),
		}
	}

	cfg.normalize()
	if err := validateConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrs.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) normalize() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	c.LogDir = strings.TrimSpace(c.LogDir)
}

// ConfigValidationError reports a configuration value rejected at load time.
type ConfigValidationError struct {
	Field string
	Value string
	Err   error
}

// ErrInvalidConfig matches every *ConfigValidationError via errors.Is. Errors
// raised for the Level field also match ErrInvalidLevel.
var ErrInvalidConfig = stderrs.New("invalid logging config")

func (e *ConfigValidationError) Error() string {
	if e.Field == emptyString {
		return fmt.Sprintf("invalid logging config: %v", e.Err)
	}
	return fmt.Sprintf("invalid logging config: %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigValidationError) Unwrap() error {
	return e.Err
}

func (e *ConfigValidationError) Is(target error) bool {
	return target == ErrInvalidConfig || (target == ErrInvalidLevel && e.Field == fieldLevel)
}
