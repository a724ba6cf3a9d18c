package shared

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is the shared validator instance. Field names in error maps come
// from the `form` struct tag so they match the submitted parameter names.
var Validator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	// status accepts the enumeration plus the empty string; empty input is
	// coerced to "new" downstream.
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || ValidStatus(s)
	})
	return v
}

// ValidationMessages flattens validator errors into a field → message map,
// keeping the first violated rule per field. All offending fields are
// reported together, never fail-fast.
func ValidationMessages(err error) map[string]string {
	msgs := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		if err != nil {
			msgs["_form"] = "This value is not valid."
		}
		return msgs
	}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := msgs[field]; seen {
			continue
		}
		msgs[field] = messageForTag(fe)
	}
	return msgs
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This value should not be blank."
	case "min":
		return "This value is too short. It should have " + fe.Param() + " characters or more."
	case "status":
		return "The value you selected is not a valid choice."
	default:
		return "This value is not valid."
	}
}
