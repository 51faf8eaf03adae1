package handler

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to Echo's Validator interface.
// Handlers bind a request struct and call c.Validate on it; tag failures
// surface as a 422 with one message per field.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (cv *Validator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// validationMessages flattens validator errors into a field -> message map.
func validationMessages(err error) map[string]string {
	out := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["body"] = "invalid request body"
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "email":
			out[field] = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			out[field] = fmt.Sprintf("%s must be at least %s", field, fe.Param())
		case "max":
			out[field] = fmt.Sprintf("%s may not be greater than %s", field, fe.Param())
		case "gt":
			out[field] = fmt.Sprintf("%s must be greater than %s", field, fe.Param())
		case "eqfield":
			out[field] = fmt.Sprintf("%s does not match", field)
		case "datetime":
			out[field] = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of: %s", field, fe.Param())
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}
