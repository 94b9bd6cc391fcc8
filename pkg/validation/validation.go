package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "carehub/pkg/domain-errors"
)

const fallbackMessage = "invalid request body"

var structValidator = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// Name fields by their JSON key so messages read like the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// tagMessages renders the first failing rule of a field.
var tagMessages = map[string]func(field, param string) string{
	"required": func(f, _ string) string { return f + " is required" },
	"notblank": func(f, _ string) string { return f + " must not be blank" },
	"email":    func(f, _ string) string { return f + " must be a valid email" },
	"min":      func(f, p string) string { return fmt.Sprintf("%s must be at least %s", f, p) },
	"max":      func(f, p string) string { return fmt.Sprintf("%s must be at most %s", f, p) },
	"datetime": func(f, p string) string { return fmt.Sprintf("%s must match the time format %s", f, p) },
}

// Validate runs the struct's `validate` tags and reports the first failure
// as a validation_failed domain error.
func Validate(req any) error {
	if err := structValidator.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
	}
	return nil
}

// ErrorMessage turns a validator error into a client-facing sentence.
func ErrorMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fallbackMessage
	}

	fe := fieldErrs[0]
	field := fe.Field()
	if field == "" {
		field = fe.StructField()
	}
	if render, ok := tagMessages[fe.ActualTag()]; ok {
		return render(field, fe.Param())
	}
	if field == "" {
		return fallbackMessage
	}
	return field + " is invalid"
}
