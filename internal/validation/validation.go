// Package validation checks decoded request inputs with struct tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Error describes one invalid input field.
type Error struct {
	Field   string
	Message string
}

func (e Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Errorf builds an Error for field with a formatted message.
func Errorf(field, format string, args ...any) Error {
	return Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsError reports whether err wraps an Error.
func IsError(err error) bool {
	var target Error
	return errors.As(err, &target)
}

var (
	once     sync.Once
	instance *validator.Validate
)

func validate() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return instance
}

// Struct validates v and returns the first failing field as an Error.
func Struct(v any) error {
	err := validate().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}
	return fromFieldError(fieldErrs[0])
}

func fromFieldError(fe validator.FieldError) Error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return Error{Field: field, Message: "is required"}
	case "max":
		return Errorf(field, "must be at most %s characters", fe.Param())
	case "gte", "min":
		return Errorf(field, "must be at least %s", fe.Param())
	case "lte":
		return Errorf(field, "must be at most %s", fe.Param())
	case "oneof":
		return Errorf(field, "must be one of %s", fe.Param())
	case "gt":
		return Errorf(field, "must be greater than %s", fe.Param())
	default:
		return Errorf(field, "failed %s validation", fe.Tag())
	}
}
