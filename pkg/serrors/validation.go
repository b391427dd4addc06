package serrors

import (
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// ValidationErrors maps a field name to the error describing why it failed.
type ValidationErrors map[string]*BaseError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field].Message)
	}
	return strings.Join(parts, "; ")
}

func NewFieldRequiredError(field string) *BaseError {
	return &BaseError{
		Code:    "VALIDATION_REQUIRED",
		Message: field + " is required",
		TemplateData: map[string]string{
			"field": field,
		},
	}
}

// ProcessValidatorErrors converts go-playground validator failures into the
// shared vocabulary, using the translator for human-readable messages.
func ProcessValidatorErrors(errs validator.ValidationErrors, trans ut.Translator) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fieldErr := range errs {
		out[fieldErr.Field()] = &BaseError{
			Code:    "VALIDATION_" + strings.ToUpper(fieldErr.Tag()),
			Message: fieldErr.Translate(trans),
			TemplateData: map[string]string{
				"field": fieldErr.Field(),
				"tag":   fieldErr.Tag(),
			},
		}
	}
	return out
}
