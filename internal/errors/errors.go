package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

func NewValidationError(msg string) *AppError {
	return &AppError{
		Code:        "E100",
		Message:     msg,
		UserMessage: msg,
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       nil,
	}
}

// NewConfigurationError indicates missing record-store credentials. It is
// logged but never blocks the visitor.
func NewConfigurationError(msg string) *AppError {
	return &AppError{
		Code:        "E200",
		Message:     fmt.Sprintf("configuration error: %s", msg),
		UserMessage: "Something went wrong on our side. Please continue.",
		Severity:    SeverityHigh,
		Retryable:   false,
		cause:       nil,
	}
}

// NewAPIError carries the record store's reported rejection message.
func NewAPIError(storeMessage string) *AppError {
	return &AppError{
		Code:        "E300",
		Message:     fmt.Sprintf("record store rejected write: %s", storeMessage),
		UserMessage: "Submission failed. Please try again.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       nil,
	}
}

// NewNetworkError wraps a transport failure talking to an external service.
func NewNetworkError(service string, cause error) *AppError {
	return &AppError{
		Code:        "E400",
		Message:     fmt.Sprintf("network error calling %s", service),
		UserMessage: "Submission failed. Please try again.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

// NewStateError indicates an operation not permitted in the session's current step.
func NewStateError(msg string) *AppError {
	return &AppError{
		Code:        "E500",
		Message:     msg,
		UserMessage: "That action is not available right now.",
		Severity:    SeverityMedium,
		Retryable:   false,
		cause:       nil,
	}
}
