package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"giveaway-tracker/internal/common/errors"
	"giveaway-tracker/internal/common/logger"
)

// ErrorHandler recovers panics and answers them as internal errors.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := getRequestID(c)

		logger.Error().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		appErr := errors.New(errors.ErrCodeInternal, "Internal server error").
			WithDetail("panic", fmt.Sprintf("%v", recovered))
		SendError(c, appErr)
	})
}

// RequestID sets the X-Request-ID header, generating one when absent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Success   bool             `json:"success"`
	Error     *errors.AppError `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id"`
	Path      string           `json:"path,omitempty"`
	Method    string           `json:"method,omitempty"`
}

// SendError writes err as an ErrorResponse and aborts the chain. Errors that
// are not AppErrors are reported as internal.
func SendError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Wrap(err, errors.ErrCodeInternal, "Internal server error")
	}
	requestID := getRequestID(c)
	appErr.WithRequestID(requestID)

	logError(appErr, c)

	c.AbortWithStatusJSON(getHTTPStatusCode(appErr), ErrorResponse{
		Success:   false,
		Error:     appErr,
		Timestamp: time.Now(),
		RequestID: requestID,
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
	})
}

func getHTTPStatusCode(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodePendingNotFound:
		return http.StatusNotFound
	case errors.ErrCodeAuthorizationDenied, errors.ErrCodeCorrelationMismatch:
		return http.StatusForbidden
	case errors.ErrCodeTransportUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func logError(appErr *errors.AppError, c *gin.Context) {
	event := logger.Error()
	msg := "Application error occurred"
	switch {
	case appErr.IsInternal():
		msg = "Internal error occurred"
	case appErr.IsUnauthorized():
		event = logger.Warn()
		msg = "Unauthorized access attempt"
	case appErr.IsValidation():
		event = logger.Info()
		msg = "Validation error"
	}

	event = event.
		Str("request_id", getRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Str("error_message", appErr.Message)
	if userID := getUserID(c); userID != "" {
		event = event.Str("user_id", userID)
	}
	if len(appErr.Details) > 0 {
		event = event.Interface("details", appErr.Details)
	}
	if appErr.Cause != nil {
		event = event.Err(appErr.Cause)
	}
	event.Msg(msg)
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}

func getUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
