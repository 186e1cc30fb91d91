package api

import (
	"fmt"
	"strings"
)

// ValidationError is returned before any request is sent when an argument
// is missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UserMessage is the text shown to the user.
func (e *ValidationError) UserMessage() string {
	return e.Field + " " + e.Reason
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
