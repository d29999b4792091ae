package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
)

// Code classifies a business error for HTTP translation.
type Code string

const (
	CodeValidation Code = "validation"
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict"
	CodeInternal   Code = "internal"
)

// Error is the typed error raised by services and repositories. Fields carries
// per-field validation messages when the code is validation.
type Error struct {
	Code    Code              `json:"code"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

func ValidationFields(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

func Internal(message string) *Error {
	return &Error{Code: CodeInternal, Message: message}
}

// Status maps an error code to an HTTP status.
func (e *Error) Status() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Write translates err into a structured JSON error response. Untyped errors
// are logged and reported as a generic 500 so internals never leak.
func Write(w http.ResponseWriter, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		log.Printf("[Error] internal: %v", err)
		appErr = &Error{Code: CodeInternal, Message: "Internal server error"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status())
	json.NewEncoder(w).Encode(appErr)
}
