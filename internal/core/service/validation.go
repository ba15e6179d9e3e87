package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/taskexchange/taskx/internal/core/domain"
)

// inputValidator rejects bad input before any network call.
type inputValidator struct {
	v *validator.Validate
}

// newInputValidator returns the process-wide validator.
var newInputValidator = sync.OnceValue(buildInputValidator)

func buildInputValidator() *inputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name so messages match the form fields.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return &inputValidator{v: v}
}

// check returns a *domain.ValidationError listing every failing field.
func (iv *inputValidator) check(in any) error {
	err := iv.v.Struct(in)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fieldError(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

// requireID guards path parameters.
func requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return &domain.ValidationError{Fields: map[string]string{field: field + " is required"}}
	}
	return nil
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
