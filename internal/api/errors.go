package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNetwork wraps transport-level failures: the request never produced an
// HTTP response.
var ErrNetwork = errors.New("request failed")

// Error is a non-2xx backend response. Detail carries the backend's own
// message when it sent one.
type Error struct {
	StatusCode int
	Detail     string
	RequestID  string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// IsStatus reports whether err is a backend Error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// IsAuthFailure reports whether the backend rejected the caller's
// credentials or token.
func IsAuthFailure(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}
