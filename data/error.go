// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package data

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ValidationError is returned by every [Validator] when its input
// does not satisfy the validation rules.
type ValidationError struct {
	// Info holds the underlying errors, usually as reported by the schema.
	Info []error
}

// NewValidationError initializes a [ValidationError] from the given errors.
func NewValidationError(errs ...error) *ValidationError {
	return &ValidationError{Info: errs}
}

// ExceptionAsValidationError wraps a plain message into a [ValidationError].
func ExceptionAsValidationError(msg string) *ValidationError {
	return NewValidationError(errors.New(msg))
}

// Error implements the [error] interface.
func (e *ValidationError) Error() string {
	return HumanReadableMessage(e)
}

// Unwrap allows [errors.Is] and [errors.As] to inspect the underlying errors.
func (e *ValidationError) Unwrap() []error {
	return e.Info
}

func asValidationError(err error) *ValidationError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return NewValidationError(err)
}

// ProtocolError signals that validation failed in such a way that a
// specific HTTP status code, and optionally body, should be returned
// to the caller.
type ProtocolError struct {
	StatusCode int
	Body       any
}

// Error implements the [error] interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// HumanReadableMessage flattens every issue contained in err into
// its own line.
//
// Schema errors are rendered as their JSON pointer, if any, followed by
// the reason the value was rejected.
func HumanReadableMessage(err error) string {
	return strings.Join(issueMessages(nil, err), "\n")
}

func issueMessages(msgs []string, err error) []string {
	switch e := err.(type) {
	case nil:
		return msgs
	case *ValidationError:
		for _, info := range e.Info {
			msgs = issueMessages(msgs, info)
		}
		return msgs
	case openapi3.MultiError:
		for _, inner := range e {
			msgs = issueMessages(msgs, inner)
		}
		return msgs
	case *openapi3.SchemaError:
		return append(msgs, schemaErrorMessage(e))
	default:
		return append(msgs, err.Error())
	}
}

func schemaErrorMessage(e *openapi3.SchemaError) string {
	reason := e.Reason
	if reason == "" {
		reason = fmt.Sprintf("doesn't match schema %q", e.SchemaField)
	}

	ptr := e.JSONPointer()
	if len(ptr) == 0 {
		return reason
	}
	return fmt.Sprintf("%q: %s", "/"+strings.Join(ptr, "/"), reason)
}
