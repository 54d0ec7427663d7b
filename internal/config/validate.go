package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config file key
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError describes a key whose value is present but unacceptable.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every missing and invalid key found in one pass.
type ValidationError struct {
	Missing []string
	Invalid []FieldError
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required config keys: %s", strings.Join(e.Missing, ", ")))
	}
	for _, inv := range e.Invalid {
		parts = append(parts, fmt.Sprintf("invalid %s: %s", inv.Field, inv.Message))
	}
	return "config: " + strings.Join(parts, "; ")
}

// Validate checks required keys for the selected ledger backend and the values that
// have a constrained shape. All problems are reported together.
func (c *Config) Validate() error {
	verr := &ValidationError{}

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("config: %w", err)
		}
		for _, fe := range fieldErrs {
			switch fe.Tag() {
			case "required", "required_if":
				verr.Missing = append(verr.Missing, fe.Field())
			default:
				verr.Invalid = append(verr.Invalid, FieldError{Field: fe.Field(), Message: describe(fe)})
			}
		}
	}

	if c.LedgerBackend == BackendSheets && c.GooglePrivateKey != "" {
		if _, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(c.GooglePrivateKey)); err != nil {
			verr.Invalid = append(verr.Invalid, FieldError{
				Field:   "google_private_key",
				Message: "must be a PEM-encoded RSA private key",
			})
		}
	}

	if len(verr.Missing) == 0 && len(verr.Invalid) == 0 {
		return nil
	}
	return verr
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
