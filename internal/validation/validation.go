// Package validation turns go-playground/validator struct tags into readable field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"eventpass/internal/domain"

	"github.com/go-playground/validator/v10"
)

var global = New()

// New returns a validator that reports fields by their JSON names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct validates s and returns a *domain.ValidationError listing every failing field,
// or nil when s is valid.
func Struct(s any) error {
	return Problems(global.Struct(s))
}

// Messages is Struct for callers that want the plain message list.
func Messages(s any) []string {
	var ve *domain.ValidationError
	if err := Struct(s); errors.As(err, &ve) {
		return ve.Problems
	}
	return nil
}

// Problems converts validator errors into a ValidationError. Non-validation errors are returned as-is.
func Problems(err error) error {
	if err == nil {
		return nil
	}
	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) {
		return err
	}
	problems := make([]string, 0, len(vErrors))
	for _, fe := range vErrors {
		problems = append(problems, message(fe))
	}
	return domain.NewValidationError(problems...)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.Slice {
			if field == "interests" {
				return "select at least one interest"
			}
			return fmt.Sprintf("%s must include at least %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must include at most %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// IsEmail reports whether s is a well-formed email address.
func IsEmail(s string) bool {
	return global.Var(s, "required,email") == nil
}
