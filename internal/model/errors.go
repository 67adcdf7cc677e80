package model

import (
	"net/http"
	"net/mail"
	"strings"
)

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors converts validation errors into envelope errors. The first
// message for a field wins.
func FieldErrors(errs []FieldError) Errors {
	out := make(Errors, len(errs))
	for _, e := range errs {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

// NewBadRequest returns a 400 result for rejected client input
func NewBadRequest[T any](errs []FieldError) Result[T] {
	return Fail[T](http.StatusBadRequest, "bad request errors", FieldErrors(errs))
}

func required(field, value string) []FieldError {
	if strings.TrimSpace(value) == "" {
		return []FieldError{{Field: field, Message: field + " is required"}}
	}
	return nil
}

func validEmail(field, value string) []FieldError {
	if value == "" {
		return required(field, value)
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return []FieldError{{Field: field, Message: "this is not a valid email address"}}
	}
	return nil
}

func oneOf(field, value string, allowed ...string) []FieldError {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return []FieldError{{Field: field, Message: field + " must be one of " + strings.Join(allowed, ", ")}}
}

func maxLen(field, value string, n int) []FieldError {
	if len(value) > n {
		return []FieldError{{Field: field, Message: field + " exceeds maximum length"}}
	}
	return nil
}
