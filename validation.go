package aspectlog

import (
	stderrs "errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
)

const fieldLevel = "Level"

var validate *validator.Validate
var once sync.Once

func validateConfig(cfg *Config) error {
	const op errors.Op = "aspectlog.validateConfig"
	if cfg == nil {
		return &ConfigValidationError{Err: errors.New(op).Msg(errMsgNilConfig)}
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(cfg); err != nil {
		field, value := emptyString, emptyString
		var verrs validator.ValidationErrors
		if stderrs.As(err, &verrs) && len(verrs) > 0 {
			field = verrs[0].StructField()
			value = fmt.Sprint(verrs[0].Value())
		}
		return &ConfigValidationError{
			Field: field,
			Value: value,
			Err:   errors.New(op).Err(err).Msg(errMsgConfigInvalid),
		}
	}

	// LogDir is joined onto the working directory and must stay inside it.
	if filepath.IsAbs(cfg.LogDir) || strings.HasPrefix(filepath.Clean(cfg.LogDir), "..") {
		return &ConfigValidationError{
			Field: "LogDir",
			Value: cfg.LogDir,
			Err:   errors.New(op).Msg(errMsgLogDirUnsafe),
		}
	}

	return nil
}
