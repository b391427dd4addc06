package serrors

import "fmt"

// BaseError is the structured error vocabulary shared across packages.
// Code is a stable machine-readable identifier; Message is safe to show
// to an end user or log verbatim.
type BaseError struct {
	Code         string
	Message      string
	TemplateData map[string]string
	Cause        error
}

func NewError(code, message string) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
	}
}

func (e *BaseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BaseError) Unwrap() error {
	return e.Cause
}

// WithTemplateData attaches structured context for logging and API payloads.
func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	cloned := *e
	cloned.TemplateData = data
	return &cloned
}

// WithCause attaches an underlying error while keeping the public code/message.
func (e *BaseError) WithCause(err error) *BaseError {
	cloned := *e
	cloned.Cause = err
	return &cloned
}
