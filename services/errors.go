package services

import "github.com/pkg/errors"

// Error codes surfaced by the order service
const (
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeConnect       = "CONNECT_ERROR"
	CodeSubmission    = "SUBMISSION_ERROR"
	CodeQuery         = "QUERY_ERROR"
	CodeNotFound      = "ORDER_NOT_FOUND"
)

// OrderError represents a failure of an order operation
type OrderError struct {
	Code    string
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// Detail returns the text of the underlying error, or the message when there is none
func (e *OrderError) Detail() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Err.Error()
}

// NewOrderError wraps err as an OrderError with a stack trace attached
func NewOrderError(code, message string, err error) error {
	return errors.WithStack(&OrderError{Code: code, Message: message, Err: err})
}

// ErrorCode returns the OrderError code in err's chain, or "" when there is none
func ErrorCode(err error) string {
	var orderErr *OrderError
	if errors.As(err, &orderErr) {
		return orderErr.Code
	}
	return ""
}

// AsOrderError finds the OrderError in err's chain
func AsOrderError(err error) (*OrderError, bool) {
	var orderErr *OrderError
	ok := errors.As(err, &orderErr)
	return orderErr, ok
}
