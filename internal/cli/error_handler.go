package cli

import (
	"fmt"

	"github.com/charmbracelet/log"

	"todomaster/internal/errors"
	"todomaster/internal/logging"
	"todomaster/internal/validation"
)

// FetchFailedMessage is printed when the todo list cannot be loaded
const FetchFailedMessage = "Failed to fetch todos."

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct {
	logger *log.Logger
}

// NewErrorHandler creates a new error handler that logs nowhere
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{logger: logging.Discard()}
}

// WithLogger sets where handled errors are logged
func (eh *ErrorHandler) WithLogger(logger *log.Logger) *ErrorHandler {
	if logger != nil {
		eh.logger = logger
	}
	return eh
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	eh.log(operation, err)
	return fmt.Errorf("failed to %s: %s", operation, eh.Message(err))
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	eh.log("command", err)
	if errors.IsAppError(err) {
		return fmt.Errorf("%s", errors.GetUserMessage(err))
	}
	if ve, ok := validation.AsValidationError(err); ok {
		return fmt.Errorf("%s", ve.GetUserFriendlyMessage())
	}
	return err
}

// Message returns the text shown to the user for err
func (eh *ErrorHandler) Message(err error) string {
	if errors.IsAppError(err) {
		return errors.GetUserMessage(err)
	}
	if ve, ok := validation.AsValidationError(err); ok {
		return ve.GetUserFriendlyMessage()
	}
	return err.Error()
}

// log records err at error level, or at debug level when the user caused it
func (eh *ErrorHandler) log(operation string, err error) {
	if errors.ShouldLogError(err) && !validation.IsValidationError(err) {
		eh.logger.Error("command failed", "op", operation, "err", err)
		return
	}
	eh.logger.Debug("command rejected", "op", operation, "err", err)
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsUnauthenticatedError checks if an error means nobody is signed in
func (eh *ErrorHandler) IsUnauthenticatedError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeUnauthenticated)
}

// IsRetryable reports whether repeating the request may succeed
func (eh *ErrorHandler) IsRetryable(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNetwork) || errors.IsErrorType(err, errors.ErrorTypeTimeout)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
