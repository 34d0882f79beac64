package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

const defaultErrorMessage = "Server error"

// HTTPError carries the status and client-visible message of a failed request.
// Err, when set, is logged but never sent to the client.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func NewHTTPError(status int, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Message: message, Err: err}
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// HandlerFunc is an http handler that reports failure by returning an error
// instead of writing the error response itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrorTranslator turns errors returned by handlers into JSON error responses.
type ErrorTranslator struct {
	logger *slog.Logger
}

func NewErrorTranslator(logger *slog.Logger) *ErrorTranslator {
	return &ErrorTranslator{logger: logger}
}

// Handle adapts fn to http.HandlerFunc.
func (t *ErrorTranslator) Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			t.Translate(w, r, err)
		}
	}
}

// Translate logs err and writes {"error": message}. An *HTTPError anywhere in the
// chain supplies status and message; anything else is a 500 "Server error".
func (t *ErrorTranslator) Translate(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := defaultErrorMessage

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Status != 0 {
			status = httpErr.Status
		}
		if httpErr.Message != "" {
			message = httpErr.Message
		}
	}

	attrs := []any{"status", status, "method", r.Method, "path", r.URL.Path, "error", err}
	if status >= http.StatusInternalServerError {
		t.logger.ErrorContext(r.Context(), "Request failed", attrs...)
	} else {
		t.logger.WarnContext(r.Context(), "Request rejected", attrs...)
	}
	RespondError(w, t.logger, status, message)
}

// NotFoundHandler answers requests that match no route.
func NotFoundHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		RespondError(w, logger, http.StatusNotFound, "Not found")
	}
}

// MethodNotAllowedHandler answers requests whose path matches but method does not.
func MethodNotAllowedHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		RespondError(w, logger, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
