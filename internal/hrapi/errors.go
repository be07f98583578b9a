package hrapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrAuth       = errors.New("authentication required")
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrNetwork    = errors.New("network failure")
	ErrServer     = errors.New("server error")
)

const (
	// SessionExpiredMessage is the body the HR API returns from the HRM
	// handoff once the upstream session is gone.
	SessionExpiredMessage = "Session expired, login again."
	CodeSessionExpired    = "session_expired"
)

// Error carries one failed HR API call. Kind is one of the package sentinels
// so callers branch with errors.Is.
type Error struct {
	Kind    error
	Op      string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Invalid builds a local validation failure. No request is made for it.
func Invalid(op, message string) error {
	return &Error{Kind: ErrValidation, Op: op, Message: message}
}

func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth)
}

// UserMessage returns the text a user should see for err. Messages the HR
// API supplied on 4xx answers and local validation messages are shown as is;
// transport and server failures fall back to the generic text.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return fallback
	}
	switch {
	case errors.Is(apiErr.Kind, ErrNetwork), errors.Is(apiErr.Kind, ErrServer):
		return fallback
	case strings.TrimSpace(apiErr.Message) == "":
		return fallback
	default:
		return apiErr.Message
	}
}

func kindForStatus(op string, status int, code, message string) error {
	if isSessionExpired(code, message) {
		return ErrAuth
	}
	switch {
	case status == http.StatusUnauthorized:
		return ErrAuth
	case status == http.StatusForbidden && op == OpLogin:
		return ErrAuth
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status >= 500:
		return ErrServer
	case status >= 400:
		return ErrValidation
	default:
		return ErrServer
	}
}

func isSessionExpired(code, message string) bool {
	if strings.EqualFold(strings.TrimSpace(code), CodeSessionExpired) {
		return true
	}
	return strings.TrimSpace(message) == SessionExpiredMessage
}
