package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldMessages maps "Field.tag" to the message reported to clients.
var fieldMessages = map[string]string{
	"email.required":    "Provide a valid email address.",
	"email.email":       "Provide a valid email address.",
	"username.required": "Invalid username. Provide alphanumeric values",
	"username.alphanum": "Invalid username. Provide alphanumeric values",
	"password.required": "Password must be at least 6 characters long",
	"password.min":      "Password must be at least 6 characters long",
	"name.required":     "Name is required",
}

// check runs struct validation and converts failures into a ValidationError.
// Field names come from the json tag on each field.
func check(input any, overrides map[string]string) *ValidationError {
	verr := &ValidationError{}
	err := validate.Struct(input)
	if err == nil {
		return verr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.add("input", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		key := fe.Field() + "." + fe.Tag()
		msg, ok := overrides[key]
		if !ok {
			msg, ok = fieldMessages[key]
		}
		if !ok {
			msg = "Invalid value"
		}
		verr.add(fe.Field(), msg)
	}
	return verr
}

func init() {
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
}
