package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the shared validator instance.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("query"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// recommendRequest is the parsed query string of GET /api/v1/recommend.
// Query emptiness is checked by the service so both surfaces share one rule.
type recommendRequest struct {
	Query string `query:"q"`
	K     int    `query:"k" validate:"min=0,max=100"`
}

// validationError is one failed field, named by its query parameter.
type validationError struct {
	Field   string
	Message string
}

func (e *validationError) Error() string {
	return e.Message
}

// validateRequest checks req and returns the first failing field.
func validateRequest(req *recommendRequest) *validationError {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &validationError{Field: "unknown", Message: err.Error()}
	}
	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "min":
		msg = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		msg = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		msg = fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
	return &validationError{Field: fe.Field(), Message: msg}
}
