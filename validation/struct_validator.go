package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/kafkasample/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report json names so messages match the wire format.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return toSnakeCase(fld.Name)
			}
			return name
		})
		_ = validate.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
			return IsCPF(fl.Field().String())
		})
	})
	return validate
}

// Validate validates a struct using its `validate` tags. Besides the built-in
// tags, "cpf" checks a Brazilian taxpayer number.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return errors.Validation("validation failed").WithCause(err)
	}

	v := New()
	for _, e := range validationErrors {
		v.AddError(e.Field(), formatValidationError(e))
	}
	return v.Err()
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "hostname_port":
		return "must be host:port"
	case "cpf":
		return "must be a valid CPF"
	default:
		return "is invalid"
	}
}

func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				result.WriteRune('_')
			}
			r += 'a' - 'A'
		}
		result.WriteRune(r)
	}
	return result.String()
}
