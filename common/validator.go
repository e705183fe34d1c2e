package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// DecodeAndValidate decodes the JSON body into payload and validates it. The
// returned messages are suitable for a client; nil means the payload is good.
func DecodeAndValidate(r *http.Request, payload interface{}) []string {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(payload); err != nil {
		return []string{"Invalid request body"}
	}

	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return []string{"Invalid request body"}
		}
		messages := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			messages = append(messages, fieldMessage(fe))
		}
		return messages
	}

	return nil
}

// ValidateAndDecode is DecodeAndValidate for handlers that report failures as
// an AppError.
func ValidateAndDecode(r *http.Request, payload interface{}) *AppError {
	if messages := DecodeAndValidate(r, payload); len(messages) > 0 {
		return NewAppError(http.StatusBadRequest, messages[0], nil)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}
