package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aleister1102/urlist/internal/common"
	"github.com/go-playground/validator/v10"
)

// newValidator returns a validator with the config-specific tags registered.
func newValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("parser", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", ParserRegex, ParserDOM:
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("sqlitepath", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return validate
}

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return common.NewConfigurationError("", "", "configuration is nil")
	}

	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("configuration validation error: %w", err)
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		// Namespace looks like GlobalConfig.MetadataConfig.TimeoutMillis
		parts := strings.Split(e.Namespace(), ".")
		section, field := "", e.Field()
		if len(parts) >= 3 {
			section, field = parts[1], strings.Join(parts[2:], ".")
		}

		reason := fmt.Sprintf("rule '%s'", e.Tag())
		if e.Param() != "" {
			reason += fmt.Sprintf(" (expected: %s)", e.Param())
		}
		if e.Value() != nil && e.Value() != "" {
			reason += fmt.Sprintf(", actual: '%v'", e.Value())
		}
		errs = append(errs, common.NewConfigurationError(section, field, reason))
	}
	return common.WrapError(common.CombineErrors(errs), "configuration validation failed")
}
