package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed API call.
type Kind int

const (
	// KindNetwork means the request never produced an HTTP response.
	KindNetwork Kind = iota + 1
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP
	// KindDecode means a 2xx body could not be decoded into the expected shape.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned for every failed request.
type Error struct {
	Kind    Kind
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTP:
		if e.Message != "" {
			return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
		}
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	default:
		return fmt.Sprintf("%s %s: %s error: %v", e.Method, e.Path, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether repeating an idempotent request could succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork:
		return true
	case KindHTTP:
		return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
	default:
		return false
	}
}

// errorBody is the error payload shape used by the backend. Older endpoints
// put the text in "error" instead of "message"; validation failures add a
// per-field list.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

// decodeErrorMessage extracts a human-readable message from an error body.
// Bodies that are not JSON objects yield an empty message.
func decodeErrorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}

	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}

	if len(eb.Errors) > 0 {
		parts := make([]string, 0, len(eb.Errors))
		for _, fe := range eb.Errors {
			if fe.Field != "" {
				parts = append(parts, fe.Field+": "+fe.Message)
			} else {
				parts = append(parts, fe.Message)
			}
		}
		if msg != "" {
			msg += " (" + strings.Join(parts, "; ") + ")"
		} else {
			msg = strings.Join(parts, "; ")
		}
	}

	return msg
}

// MessageOf returns the server-provided message carried by err, or fallback
// when err carries none.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	var msgErr interface{ UserMessage() string }
	if errors.As(err, &msgErr) {
		if m := msgErr.UserMessage(); m != "" {
			return m
		}
	}

	return fallback
}

// StatusOf returns the HTTP status of err, or 0 if it is not an HTTP error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindHTTP {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}
