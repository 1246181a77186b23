/*
Package errs provides custom error types and application-level error code constants.

This file defines CustomError. Game handlers return it for every recoverable
failure; the transport turns its Message into an {err} reply and the HTTP surface
uses its Status. A CustomError may wrap the lower-level cause that produced it,
which is kept for logs and never shown to players.
*/
package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"mobhub/internal/pkg/logx"
)

// CustomError is a coded game error.
type CustomError struct {
	// Code is the business error code (see constants definition).
	Code int

	// Message is the text sent to the player.
	Message string

	// Status is the HTTP status used when the error leaves through the HTTP surface.
	Status int

	cause error
}

func (e CustomError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("code %d: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("code %d: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e CustomError) Unwrap() error {
	return e.cause
}

// NewError builds the error registered for code, filling its message template
// with details. Codes missing from the table yield ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	tmpl, ok := errorMap[code]
	if !ok {
		logx.Warn("Unknown error code requested", "requested_code", code)
		tmpl = errorMap[ErrUnknown]
	}

	e := tmpl
	if e.Status == 0 {
		e.Status = http.StatusOK
	}
	e.Message = render(e.Message, details)

	return &e
}

// Wrap is NewError with an underlying cause attached.
func Wrap(code int, cause error, details ...any) *CustomError {
	e := NewError(code, details...)
	e.cause = cause
	return e
}

// render fills template with details. A template without verbs is returned as is.
func render(template string, details []any) string {
	if len(details) == 0 {
		return template
	}
	if !strings.Contains(template, "%") {
		logx.Debug("Error details dropped, template has no verbs", "template", template)
		return template
	}
	return fmt.Sprintf(template, details...)
}

// Is reports whether err is, or wraps, a CustomError carrying code.
func Is(err error, code int) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the first CustomError in err's chain, or 0.
func CodeOf(err error) int {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Code
	}
	return 0
}
