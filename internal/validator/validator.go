package validator

import (
	"errors"
	"reflect"
	"strings"

	"infco/internal/money"

	"github.com/go-playground/validator/v10"
)

// FieldError names the first request field that failed validation, using the
// field's JSON name.
type FieldError struct {
	Field string
	Tag   string
}

func (e FieldError) Error() string {
	return "invalid " + e.Field + ": " + e.Tag
}

// Code is the error code sent to clients, e.g. "invalid_email".
func (e FieldError) Code() string {
	return "invalid_" + e.Field
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	// amount is a positive decimal string within money.Parse limits.
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		value, err := money.Parse(fl.Field().String())
		return err == nil && value.IsPositive()
	})
	return v
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return FieldError{Field: fieldErrs[0].Field(), Tag: fieldErrs[0].Tag()}
	}
	return err
}

// Var validates a single value, e.g. Var(email, "required,email").
func Var(value any, tag string) error {
	return validate.Var(value, tag)
}
