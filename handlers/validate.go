// ABOUTME: Struct validation for MCP tool inputs
// ABOUTME: Wraps go-playground validator and flattens field errors into one message
package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks validate tags on an input struct and reports every
// failing field by its json name.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "uuid":
		return name + " must be a UUID"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "email":
		return name + " must be an email address"
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}

func init() {
	// Report json names rather than Go field names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
