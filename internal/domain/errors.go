package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeProvider        = "PROVIDER_ERROR"
	ErrCodeEvaluationParse = "EVALUATION_PARSE_ERROR"
	ErrCodeLogIO           = "LOG_IO_ERROR"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// Configuration errors
var (
	ErrNoProviderKey = NewDomainError(ErrCodeValidation, "at least one of OPENAI_API_KEY or OPENROUTER_API_KEY must be set")
)

// Not found errors
var (
	ErrIndexNotFound    = NewDomainError(ErrCodeNotFound, "vector index not found, run build-index first")
	ErrDocumentNotFound = NewDomainError(ErrCodeNotFound, "document not found")
)

// Evaluation errors
var (
	ErrNoJSONInResponse = NewDomainError(ErrCodeEvaluationParse, "no JSON object found in evaluation response")
)

// NewConfigError reports an invalid or missing configuration value,
// naming the violated environment variable.
func NewConfigError(variable, problem string) *DomainError {
	return NewDomainError(ErrCodeValidation, fmt.Sprintf("%s %s", variable, problem))
}
