// Package request holds the decoding and validation helpers shared by
// the handlers of both services.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrEmptyBody means the client sent no body at all.
	ErrEmptyBody = errors.New("request body is empty")

	// ErrInvalidID means the {id} path segment is not a positive integer.
	ErrInvalidID = errors.New("invalid id: must be a positive integer")
)

// TypeError reports a well-formed JSON body whose shape does not match
// the expected type, e.g. a string where an integer belongs. Handlers
// treat it as a validation failure rather than a malformed request.
type TypeError struct {
	err *json.UnmarshalTypeError
}

func (e *TypeError) Error() string {
	if e.err.Field == "" {
		return fmt.Sprintf("body must be %s, got %s", describe(e.err.Type), e.err.Value)
	}
	return fmt.Sprintf("field %s must be %s, got %s", e.err.Field, describe(e.err.Type), e.err.Value)
}

func (e *TypeError) Unwrap() error { return e.err }

func describe(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "a list"
	case reflect.Struct, reflect.Map:
		return "an object"
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	default:
		return t.String()
	}
}

// DecodeJSON decodes the request body into v. It returns ErrEmptyBody
// for an empty body and a *TypeError for a type mismatch; any other
// error means the body is not valid JSON.
func DecodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)

	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return ErrEmptyBody
	case errors.As(err, &typeErr):
		return &TypeError{err: typeErr}
	default:
		return err
	}
}

// PathID parses the {id} path value as a positive 64-bit integer.
func PathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// NewValidator returns a validator that reports fields by their JSON
// name, so error messages match what the client sent.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
