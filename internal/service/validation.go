package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"memoapi/internal/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateForm checks the text fields of a web form.
func ValidateForm(f dto.MemoForm) error {
	return validateStruct(f)
}

// validateStruct runs the struct tags of v and folds any failures into one KindValidation error.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Kind: KindInternal, Message: "validator misuse", Err: err}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &Error{Kind: KindValidation, Message: "Validation failed: " + strings.Join(msgs, "; "), Err: err}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "title":
		return "Title must be between 1 and 200 characters"
	case "description":
		return "Description must not exceed 1000 characters"
	case "limit":
		return "Limit must be between 1 and 100"
	case "offset":
		return "Offset must be non-negative"
	case "sort_by":
		return "Sort field must not exceed 50 characters"
	case "order":
		return "Order must be 'asc' or 'desc'"
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}
