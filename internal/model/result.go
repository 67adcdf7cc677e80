package model

import (
	"encoding/json"
	"net/http"
)

// Errors maps a field or key to an error message.
type Errors map[string]string

// Result is the outcome envelope returned by every repository-backed
// operation. Construct it only through OK and Fail so a Result is never
// partially populated.
type Result[T any] struct {
	Success bool
	Message string
	Status  int
	Data    T
	Errors  Errors
}

// OK returns a successful result. data may be the zero value when the
// operation intentionally returns nothing.
func OK[T any](status int, message string, data T) Result[T] {
	return Result[T]{
		Success: true,
		Message: message,
		Status:  status,
		Data:    data,
	}
}

// Fail returns a failed result. An empty errs gets a "message" entry so a
// failure always carries errors.
func Fail[T any](status int, message string, errs Errors) Result[T] {
	if len(errs) == 0 {
		errs = Errors{"message": message}
	}
	return Result[T]{
		Success: false,
		Message: message,
		Status:  status,
		Errors:  errs,
	}
}

// Forward re-types a failed result. It panics when r succeeded since the
// payload cannot be converted.
func Forward[U, T any](r Result[T]) Result[U] {
	if r.Success {
		panic("model: Forward called on a successful result")
	}
	return Fail[U](r.Status, r.Message, r.Errors)
}

// Body renders the HTTP body: success and message always, plus the payload
// under key on success or errors on failure.
func (r Result[T]) Body(key string) map[string]interface{} {
	body := map[string]interface{}{
		"success": r.Success,
		"message": r.Message,
	}
	if r.Success {
		if key != "" {
			body[key] = r.Data
		}
		return body
	}
	body["errors"] = r.Errors
	return body
}

// WriteJSON writes the result as the HTTP response
func (r Result[T]) WriteJSON(w http.ResponseWriter, key string) {
	if r.Status == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.Status)
	_ = json.NewEncoder(w).Encode(r.Body(key))
}
