package errors

import "fmt"

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the code of an AppError, or ErrCodeInternalError for any
// other error.
func CodeOf(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// Common error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
)

// Ledger and participation error codes
const (
	ErrCodeAlreadyClaimed     = "ALREADY_CLAIMED"
	ErrCodeAlreadyJoined      = "ALREADY_JOINED"
	ErrCodeNotAParticipant    = "NOT_A_PARTICIPANT"
	ErrCodeEventFull          = "EVENT_FULL"
	ErrCodeInvalidTransition  = "INVALID_TRANSITION"
	ErrCodeWriteConflict      = "WRITE_CONFLICT"
	ErrCodeTransactionAborted = "TRANSACTION_ABORTED"
)
