// Package errs defines the application's error vocabulary: a fixed table of
// business codes, each paired with a client-facing message and an HTTP status.
package errs

import (
	"fmt"
	"net/http"
	"strings"

	"collabboard/internal/pkg/logx"
)

// CustomError carries a business code alongside the message and the HTTP
// status the handler should reply with. It satisfies the error interface.
type CustomError struct {
	Code    int
	Message string
	Status  int
}

func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewError looks up code in the error table and returns a fresh *CustomError.
// Optional details are printf-style arguments for message templates that
// contain placeholders. An unregistered code falls back to ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	tmpl, ok := errorMap[code]
	if !ok {
		logx.Error(
			fmt.Errorf("attempted to create an error with an unknown code in errorMap"),
			"Unknown error code requested",
			"requested_code", code,
		)
		unknown := errorMap[ErrUnknown]
		return &CustomError{Code: unknown.Code, Message: unknown.Message, Status: unknown.Status}
	}

	ce := tmpl
	if ce.Status == 0 {
		ce.Status = http.StatusOK
	}

	if code == ErrUnknown && len(details) > 0 {
		// The underlying cause never reaches the client; log it here.
		if originalErr, ok := details[0].(error); ok {
			logx.Error(originalErr, "Handling ErrUnknown with underlying error")
		}
	} else if len(details) > 0 {
		if strings.Contains(ce.Message, "%") {
			ce.Message = fmt.Sprintf(ce.Message, details...)
		} else {
			logx.Warn("Details provided for error, but message template has no formatting placeholders. Details ignored.")
		}
	}

	return &ce
}
