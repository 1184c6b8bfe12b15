package asynclog

import (
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
)

var (
	configValidator     *validator.Validate
	configValidatorOnce sync.Once
)

// validLevel backs the "loglevel" tag and accepts exactly what ParseLevel
// accepts.
func validLevel(fl validator.FieldLevel) bool {
	_, err := ParseLevel(fl.Field().String())
	return err == nil
}

func getConfigValidator() *validator.Validate {
	configValidatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Registration only fails on an empty tag or a nil func.
		_ = v.RegisterValidation("loglevel", validLevel)
		configValidator = v
	})
	return configValidator
}

func validateConfig(cfg *Config) error {
	const op errors.Op = "asynclog.validateConfig"
	if cfg == nil {
		return errors.New(op).Msg(errMsgNilConfig)
	}
	if err := getConfigValidator().Struct(cfg); err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}
	return nil
}
