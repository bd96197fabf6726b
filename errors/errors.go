package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"runtime/debug"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

type ErrorType string

const (
	ErrNotFound         ErrorType = "ENTRY_NOT_FOUND_ERROR"
	ErrValidation       ErrorType = "VALIDATION_ERROR"
	ErrQuote            ErrorType = "QUOTE_ERROR"
	ErrQuoteExpired     ErrorType = "QUOTE_EXPIRED_ERROR"
	ErrQuoteConsumed    ErrorType = "QUOTE_CONSUMED_ERROR"
	ErrSwapExecution    ErrorType = "SWAP_EXECUTION_ERROR"
	ErrFailedDependency ErrorType = "FAILED_DEPENDENCY"
	ErrFatal            ErrorType = "FATAL_ERROR"
)

type AppError struct {
	Code     int       `json:"-"`
	Type     ErrorType `json:"type"`
	Message  string    `json:"message"`
	Internal string    `json:"internal,omitempty"`
}

func (a AppError) Error() string {
	return fmt.Sprintf("%s: %s", a.Type, a.Message)
}

func (a AppError) Serialize(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(a.Code)
	if err := json.NewEncoder(w).Encode(a); err != nil {
		panic(a)
	}
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

func HandleBindError(err error) AppError {
	if errors.As(err, &AppError{}) {
		return AsAppError(err)
	}

	if v, ok := err.(validator.ValidationErrors); ok {
		var message string
		switch v[0].ActualTag() {
		case "required":
			message = fmt.Sprintf("%s is required", v[0].Field())
		case "required_without":
			message = fmt.Sprintf("%s is required when %s is not provided", v[0].Field(), v[0].Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of values: (%s), value received: %s", v[0].Field(), v[0].Param(), v[0].Value())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", v[0].Field(), v[0].Param())
		case "min":
			if v[0].Kind() == reflect.Slice {
				message = fmt.Sprintf("%s must contain at least %s item(s)", v[0].Field(), v[0].Param())
			} else {
				message = fmt.Sprintf("%s must be at least %s characters long", v[0].Field(), v[0].Param())
			}
		default:
			message = fmt.Sprintf("Validation failed on field { %s }, Condition: %s", v[0].Field(), v[0].ActualTag())
			if v[0].Param() != "" {
				message += fmt.Sprintf("{ %s }", v[0].Param())
			}
			if v[0].Value() != "" && v[0].Value() != nil {
				message += fmt.Sprintf(", Value Received: %v", v[0].Value())
			}
		}

		return AppError{
			Code:     http.StatusBadRequest,
			Type:     ErrValidation,
			Message:  message,
			Internal: err.Error(),
		}
	}
	if Is(err, io.EOF) {
		return NewValidationError("No request body")
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		vErr := NewValidationError("request body is not valid JSON")
		vErr.Internal = err.Error()
		return vErr
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return NewValidationError(fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type))
	}
	if multi, ok := err.(schema.MultiError); ok {
		for key := range multi {
			vErr := NewValidationError(fmt.Sprintf("invalid value for query parameter %s", key))
			vErr.Internal = err.Error()
			return vErr
		}
	}

	vErr := NewValidationError("invalid request received")
	vErr.Internal = err.Error()

	return vErr
}

func NewValidationError(msg string) AppError {
	return AppError{
		Code:    http.StatusBadRequest,
		Type:    ErrValidation,
		Message: msg,
	}
}

func NewNotFoundError(msg string) AppError {
	return AppError{
		Code:    http.StatusNotFound,
		Type:    ErrNotFound,
		Message: msg,
	}
}

func NewQuoteError(msg string, cause error) AppError {
	a := AppError{
		Code:    http.StatusBadGateway,
		Type:    ErrQuote,
		Message: msg,
	}
	if cause != nil {
		a.Internal = cause.Error()
	}
	return a
}

func NewQuoteExpiredError(quoteID string) AppError {
	return AppError{
		Code:    http.StatusGone,
		Type:    ErrQuoteExpired,
		Message: fmt.Sprintf("quote %s has expired, request a new quote", quoteID),
	}
}

func NewQuoteConsumedError(quoteID string) AppError {
	return AppError{
		Code:    http.StatusConflict,
		Type:    ErrQuoteConsumed,
		Message: fmt.Sprintf("quote %s has already been executed", quoteID),
	}
}

func NewSwapExecutionError(msg string, cause error) AppError {
	a := AppError{
		Code:    http.StatusBadGateway,
		Type:    ErrSwapExecution,
		Message: msg,
	}
	if cause != nil {
		a.Internal = cause.Error()
	}
	return a
}

func NewFatalError(err error) AppError {
	debug.PrintStack()
	return AppError{
		Code:     http.StatusInternalServerError,
		Type:     ErrFatal,
		Message:  "Oops! something happened on our end.",
		Internal: err.Error(),
	}
}

func NewUnknownError(err any) AppError {
	return NewFatalError(fmt.Errorf("%v", err))
}

func NewFailedDependencyError(msg string) AppError {
	return AppError{
		Code:    http.StatusFailedDependency,
		Type:    ErrFailedDependency,
		Message: msg,
	}
}

func AsAppError(err error) AppError {
	apperr := new(AppError)
	if errors.As(err, apperr) {
		return *apperr
	}
	return NewFatalError(err)
}
