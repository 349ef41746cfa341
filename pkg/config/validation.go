package config

import (
	"reflect"

	wferr "github.com/wallframe/wallframe-core/pkg/errors"
)

// Validator is an optional interface that configuration structs may
// implement for custom validation logic. If the struct passed to
// [Loader.Load] implements Validator, its Validate method is called
// after tag-based validation ([required] tag) succeeds.
//
// Validate should return an error describing the first validation
// failure, or nil if the configuration is valid. Errors that are
// already [*wferr.Error] are returned as-is; other errors are wrapped
// with [wferr.CodeValidation].
//
// Example:
//
//	type AuthSettings struct {
//	    SigningKey    string        `env:"SIGNING_KEY" required:"true"`
//	    TokenLifetime time.Duration `env:"TOKEN_LIFETIME" envDefault:"1h"`
//	}
//
//	func (c *AuthSettings) Validate() error {
//	    if len(c.SigningKey) < 32 {
//	        return wferr.Newf(wferr.CodeValidation,
//	            "config: signing key must be at least 32 bytes, got %d", len(c.SigningKey))
//	    }
//	    return nil
//	}
type Validator interface {
	Validate() error
}

// validate performs tag-based required validation and then invokes the
// Validator interface if the config struct implements it. The cfg
// parameter is the original interface value (for Validator type
// assertion); rv is the dereferenced reflect.Value of the struct.
func validate(cfg any, rv reflect.Value) error {
	if err := validateRequired(rv, ""); err != nil {
		return err
	}

	if v, ok := cfg.(Validator); ok {
		if err := v.Validate(); err != nil {
			// Pass through wferr.Error instances unchanged.
			if _, isWFErr := wferr.AsError(err); isWFErr {
				return err
			}
			return wferr.Wrap(err, wferr.CodeValidation,
				"config: custom validation failed")
		}
	}

	return nil
}

// validateRequired recursively checks that all fields tagged with
// `required:"true"` hold non-zero values. The path parameter tracks
// the dotted field path for error messages (e.g., "Auth.SigningKey").
//
// Nested structs are traversed recursively. Unexported fields and
// non-struct types without a required tag are skipped.
func validateRequired(rv reflect.Value, path string) error {
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rv.Field(i)
		sf := rt.Field(i)

		if !field.CanSet() {
			continue
		}

		fieldPath := sf.Name
		if path != "" {
			fieldPath = path + "." + sf.Name
		}

		// Recurse into nested structs (but not named types like
		// time.Time that happen to be structs).
		if field.Kind() == reflect.Struct {
			if err := validateRequired(field, fieldPath); err != nil {
				return err
			}
			continue
		}

		if sf.Tag.Get("required") != "true" {
			continue
		}

		if field.IsZero() {
			return wferr.Newf(wferr.CodeValidationRequired,
				"config: required field %q is empty", fieldPath)
		}
	}

	return nil
}
