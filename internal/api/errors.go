package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/macromind-app/macromind-cli/internal/common"
)

// Error is a typed API failure. It carries the HTTP status and the most
// specific human-readable message the server provided, and unwraps to one
// of the common sentinel errors so callers can match with errors.Is.
// Raw transport exceptions never leak through this type.
type Error struct {
	Status  int
	Message string

	sentinel error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *Error) Unwrap() error {
	return e.sentinel
}

// errorEnvelope matches the server's error body. The fields are tried in
// precedence order: error, message, detail.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// messageFromBody extracts the richest available message from an error body,
// falling back to the given generic message.
func messageFromBody(body []byte, fallback string) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		switch {
		case env.Error != "":
			return env.Error
		case env.Message != "":
			return env.Message
		case env.Detail != "":
			return env.Detail
		}
	}
	return fallback
}

// credentialError maps a rejected login/register response.
func credentialError(status int, body []byte) *Error {
	return &Error{
		Status:   status,
		Message:  messageFromBody(body, "invalid email or password"),
		sentinel: common.ErrInvalidCredentials,
	}
}

// statusError maps any other non-2xx response from an API call.
func statusError(status int, body []byte) *Error {
	sentinel := error(nil)
	if status == http.StatusUnauthorized {
		sentinel = common.ErrUnauthorized
	}
	return &Error{
		Status:   status,
		Message:  messageFromBody(body, http.StatusText(status)),
		sentinel: sentinel,
	}
}

// transportError wraps a network-level failure (unreachable host, timeout).
func transportError(err error) *Error {
	return &Error{
		Message:  "server unreachable",
		sentinel: fmt.Errorf("%w: %v", common.ErrTransport, err),
	}
}

// validationError reports a locally rejected input; it never reaches the
// network.
func validationError(msg string) *Error {
	return &Error{
		Message:  msg,
		sentinel: common.ErrValidationFailed,
	}
}

// sessionExpiredError reports a failed token refresh, fatal to the session.
func sessionExpiredError() *Error {
	return &Error{
		Message:  "session expired, please sign in again",
		sentinel: common.ErrSessionExpired,
	}
}
