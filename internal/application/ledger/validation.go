package ledger

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/invoicebook/backend/internal/domain/shared"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// requestValidator returns the shared validator that reports JSON field names
func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateRequest checks struct tags and converts the first failure into a ValidationError
func validateRequest(req any) error {
	err := requestValidator().Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return shared.NewValidationError("", err.Error())
	}

	fe := fieldErrs[0]
	field := fieldPath(fe.Namespace())
	return shared.NewValidationError(field, validationMessage(field, fe))
}

// fieldPath drops the struct name from a namespace like "RecordInvoiceRequest.details[0].name"
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func validationMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.Slice {
			return field + " must be a list"
		}
		return field + " is required"
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "gte":
		return field + " cannot be less than " + fe.Param()
	case "max":
		return field + " cannot exceed " + fe.Param() + " characters"
	default:
		return field + " is invalid"
	}
}
