package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeMethod       ErrorType = "METHOD_NOT_ALLOWED"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeIntegrity    ErrorType = "DATA_INTEGRITY_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidOwner     ErrorCode = "INVALID_OWNER"
	ErrCodeInvalidView      ErrorCode = "INVALID_VIEW"

	ErrCodeObjectiveNotFound ErrorCode = "OBJECTIVE_NOT_FOUND"
	ErrCodeKeyResultNotFound ErrorCode = "KEY_RESULT_NOT_FOUND"
	ErrCodeMilestoneNotFound ErrorCode = "MILESTONE_NOT_FOUND"
	ErrCodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	ErrCodePermissionDenied  ErrorCode = "PERMISSION_DENIED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	ErrCodeHierarchyCycle ErrorCode = "HIERARCHY_CYCLE"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError of the same type and code, so copies made by
// WithCause or WithDetails still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCause returns a copy carrying cause, leaving shared sentinels intact.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func newAppError(t ErrorType, code ErrorCode, status int, message string) *AppError {
	return &AppError{Type: t, Code: code, Message: message, StatusCode: status}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, code, http.StatusBadRequest, message)
}

// NewValidationFieldError reports one invalid field. The field's own code
// goes in the details; the envelope code is always VALIDATION_FAILED.
func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, ErrCodeValidationFailed, http.StatusBadRequest, "Validation failed").
		WithDetails(ValidationErrors{Errors: []ValidationError{{Field: field, Message: message, Code: string(code)}}})
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeNotFound, code, http.StatusNotFound, message)
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeUnauthorized, code, http.StatusUnauthorized, message)
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeForbidden, code, http.StatusForbidden, message)
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeConflict, code, http.StatusConflict, message)
}

func NewInternalError(message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, ErrorCode(ErrorTypeInternal), http.StatusInternalServerError, message).WithCause(cause)
}

// NewIntegrityError reports corrupt reference data, such as a reporting
// cycle. It is a server fault and must never read as a permission denial.
func NewIntegrityError(message string, code ErrorCode, cause error) *AppError {
	return newAppError(ErrorTypeIntegrity, code, http.StatusInternalServerError, message).WithCause(cause)
}

var (
	ErrObjectiveNotFound = NewNotFoundError("Objective not found", ErrCodeObjectiveNotFound)
	ErrKeyResultNotFound = NewNotFoundError("Key result not found", ErrCodeKeyResultNotFound)
	ErrMilestoneNotFound = NewNotFoundError("Milestone not found", ErrCodeMilestoneNotFound)
	ErrUserNotFound      = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrPermissionDenied  = NewForbiddenError("You do not have permission to perform this action", ErrCodePermissionDenied)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
