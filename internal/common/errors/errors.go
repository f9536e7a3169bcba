package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"

	// Admin interface
	ErrCodeAuthorizationDenied ErrorCode = "AUTHORIZATION_DENIED"

	// Chat platform
	ErrCodeTransportUnavailable ErrorCode = "TRANSPORT_UNAVAILABLE"

	// Manual import dialog
	ErrCodeCorrelationMismatch ErrorCode = "CORRELATION_MISMATCH"
	ErrCodePendingNotFound     ErrorCode = "PENDING_IMPORT_NOT_FOUND"

	// Durable storage
	ErrCodePersistenceFailure ErrorCode = "PERSISTENCE_FAILURE"
)

// AppError is a typed application error carried up to the delivery layer.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Stack     []string               `json:"-"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsInternal reports whether the error is a server-side failure.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal || e.Code == ErrCodePersistenceFailure
}

func (e *AppError) IsUnauthorized() bool {
	return e.Code == ErrCodeAuthorizationDenied || e.Code == ErrCodeCorrelationMismatch
}

func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation
}

func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Stack:     getStackTrace(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func getStackTrace() []string {
	var stack []string
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		if strings.Contains(fn.Name(), "internal/common/errors") {
			continue
		}
		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		if len(stack) >= 10 {
			break
		}
	}
	return stack
}

func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

func NewAuthorizationError(callerID string) *AppError {
	return New(ErrCodeAuthorizationDenied, "Caller is not the configured owner").
		WithDetail("caller_id", callerID)
}

func NewTransportError(channelID string, err error) *AppError {
	return Wrap(err, ErrCodeTransportUnavailable, fmt.Sprintf("Channel %s is unavailable", channelID)).
		WithDetail("channel_id", channelID)
}

func NewPersistenceError(document string, err error) *AppError {
	return Wrap(err, ErrCodePersistenceFailure, fmt.Sprintf("Failed to persist %s", document)).
		WithDetail("document", document)
}

// AsAppError unwraps err until an *AppError is found.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err == nil {
		return nil, false
	}
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
