// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/z5labs/kinrest/backend"
	"github.com/z5labs/kinrest/data"

	"github.com/goccy/go-json"
	"github.com/z5labs/sdk-go/try"
)

// HttpResponseWriter is implemented by errors which know how to
// write their own HTTP response.
type HttpResponseWriter interface {
	WriteHttpResponse(context.Context, http.ResponseWriter)
}

// ErrorHandler handles errors that occur during request processing.
// Custom error handlers can be configured per endpoint using [OnError].
type ErrorHandler interface {
	OnError(context.Context, http.ResponseWriter, error)
}

// ErrorHandlerFunc is a function adapter that implements [ErrorHandler].
type ErrorHandlerFunc func(context.Context, http.ResponseWriter, error)

// OnError implements the [ErrorHandler] interface.
func (f ErrorHandlerFunc) OnError(ctx context.Context, w http.ResponseWriter, err error) {
	f(ctx, w, err)
}

// defaultErrorHandler logs the error and then lets it write its own
// response. A [data.ProtocolError] is sent with its status code and body.
// Everything else results in a 500.
func defaultErrorHandler(h slog.Handler) ErrorHandlerFunc {
	log := slog.New(h)

	return func(ctx context.Context, w http.ResponseWriter, err error) {
		log.ErrorContext(ctx, "sending error response", slog.Any("error", err))

		// a recovered panic value which is not an error can not be unwrapped
		var pe try.PanicError
		if errors.As(err, &pe) {
			if _, ok := pe.Value.(error); !ok {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
		}

		var hrw HttpResponseWriter
		if errors.As(err, &hrw) {
			hrw.WriteHttpResponse(ctx, w)
			return
		}

		var perr *data.ProtocolError
		if errors.As(err, &perr) {
			writeProtocolError(ctx, log, w, perr)
			return
		}

		w.WriteHeader(http.StatusInternalServerError)
	}
}

func writeProtocolError(ctx context.Context, log *slog.Logger, w http.ResponseWriter, perr *data.ProtocolError) {
	if perr.Body == nil {
		w.WriteHeader(perr.StatusCode)
		return
	}

	b, err := json.Marshal(perr.Body)
	if err != nil {
		log.ErrorContext(ctx, "failed to marshal protocol error body", slog.Any("error", err))
		w.WriteHeader(perr.StatusCode)
		return
	}
	w.Header().Set("Content-Type", backend.ContentType)
	w.WriteHeader(perr.StatusCode)
	w.Write(b)
}

type errorMessage struct {
	Message string `json:"message"`
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	b, _ := json.Marshal(errorMessage{Message: msg})

	w.Header().Set("Content-Type", backend.ContentType)
	w.WriteHeader(status)
	w.Write(b)
}

// BadRequestError is returned when the URL parameters, query, headers
// or body of a request fail validation.
type BadRequestError struct {
	Cause error
}

// Error implements the [error] interface.
func (e BadRequestError) Error() string {
	return fmt.Sprintf("bad request error: %v", e.Cause)
}

// Unwrap returns the underlying cause.
func (e BadRequestError) Unwrap() error {
	return e.Cause
}

// WriteHttpResponse implements [HttpResponseWriter]. The body carries
// every validation issue, one per line.
func (e BadRequestError) WriteHttpResponse(ctx context.Context, w http.ResponseWriter) {
	writeErrorMessage(w, http.StatusBadRequest, data.HumanReadableMessage(e.Cause))
}

// UnsupportedMediaTypeError is returned when the request body
// has a content type the endpoint does not accept.
type UnsupportedMediaTypeError struct {
	Cause error
}

// Error implements the [error] interface.
func (e UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("unsupported media type error: %v", e.Cause)
}

// Unwrap returns the underlying cause.
func (e UnsupportedMediaTypeError) Unwrap() error {
	return e.Cause
}

// WriteHttpResponse implements [HttpResponseWriter].
func (e UnsupportedMediaTypeError) WriteHttpResponse(ctx context.Context, w http.ResponseWriter) {
	writeErrorMessage(w, http.StatusUnsupportedMediaType, e.Cause.Error())
}

// PayloadTooLargeError is returned when the request body exceeds
// the configured maximum size.
type PayloadTooLargeError struct {
	Cause error
}

// Error implements the [error] interface.
func (e PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload too large error: %v", e.Cause)
}

// Unwrap returns the underlying cause.
func (e PayloadTooLargeError) Unwrap() error {
	return e.Cause
}

// WriteHttpResponse implements [HttpResponseWriter].
func (e PayloadTooLargeError) WriteHttpResponse(ctx context.Context, w http.ResponseWriter) {
	writeErrorMessage(w, http.StatusRequestEntityTooLarge, e.Cause.Error())
}

// requestError maps errors reported while validating client input
// to their HTTP counterpart.
func requestError(err error) error {
	var ucte *backend.UnsupportedContentTypeError
	if errors.As(err, &ucte) {
		return UnsupportedMediaTypeError{Cause: err}
	}

	var btle *backend.BodyTooLargeError
	if errors.As(err, &btle) {
		return PayloadTooLargeError{Cause: err}
	}

	var perr *data.ProtocolError
	if errors.As(err, &perr) {
		return err
	}

	var verr *data.ValidationError
	if errors.As(err, &verr) {
		return BadRequestError{Cause: err}
	}
	return err
}
