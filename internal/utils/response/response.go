// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in both services sends JSON back to the client. Rather
// than repeating the same three lines (set header, set status, encode
// JSON) in every handler, we centralise them here.
//
// Success bodies always carry "status": "success" plus either a
// "message" or a "data" field. Error bodies always look like:
//
//	{ "status": "error", "error": "Student with ID 4 not found" }
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the standard envelope returned for error cases.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Message is the success envelope of operations that return no record.
type Message struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Data is the success envelope of operations that return a record.
type Data struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// Status string constants — use these instead of raw string literals so
// a typo is caught by the compiler rather than silently sending "sucess".
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// OK builds a success envelope carrying a message.
func OK(format string, args ...any) Message {
	return Message{Status: StatusSuccess, Message: fmt.Sprintf(format, args...)}
}

// OKData builds a success envelope carrying a record.
func OKData(data any) Data {
	return Data{Status: StatusSuccess, Data: data}
}

// GeneralError wraps any Go error into our standard Response shape.
// Use this for unexpected errors (DB failures, decode errors, etc.)
func GeneralError(err error) Response {
	return Response{Status: StatusError, Error: err.Error()}
}

// Errorf builds an error envelope from a formatted message.
func Errorf(format string, args ...any) Response {
	return Response{Status: StatusError, Error: fmt.Sprintf(format, args...)}
}

// ValidationError converts validator field errors into a single
// human-readable Response. prefix, when non-empty, names the record the
// errors belong to, e.g. "courses[2]".
//
// Example output:
//
//	{ "status": "error", "error": "courses[2]: field credits must be at most 10" }
func ValidationError(prefix string, errs validator.ValidationErrors) Response {
	msgs := make([]string, 0, len(errs))

	for _, e := range errs {
		var msg string
		switch e.ActualTag() {
		case "required":
			msg = fmt.Sprintf("field %s is required", e.Field())
		case "gt":
			msg = fmt.Sprintf("field %s must be greater than %s", e.Field(), e.Param())
		case "gte":
			msg = fmt.Sprintf("field %s must be at least %s", e.Field(), e.Param())
		case "lte":
			msg = fmt.Sprintf("field %s must be at most %s", e.Field(), e.Param())
		// Catch-all for any other validation tag (min, max, len, etc.)
		default:
			msg = fmt.Sprintf("field %s is invalid", e.Field())
		}
		msgs = append(msgs, msg)
	}

	out := strings.Join(msgs, ", ")
	if prefix != "" {
		out = prefix + ": " + out
	}
	return Response{Status: StatusError, Error: out}
}
