// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/z5labs/kinrest"
	"github.com/z5labs/kinrest/backend"
	"github.com/z5labs/kinrest/data"
	"github.com/z5labs/kinrest/state"

	"github.com/go-chi/chi/v5"
	"github.com/z5labs/sdk-go/try"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Request is the validated form of an incoming HTTP request.
type Request[B any] struct {
	// URL holds the decoded path parameters.
	URL map[string]any

	Query   map[string]any
	Headers map[string]any

	// State holds the validated request state, see [StateProvider].
	State map[string]any

	Body B
}

// Response is returned by a [Handler] and is validated before
// it is written.
type Response[R any] struct {
	// Status overrides the status code of the endpoint.
	Status int

	Headers map[string]any
	Body    R
}

// Handler implements the core logic of an endpoint.
type Handler[B, R any] interface {
	Handle(context.Context, *Request[B]) (*Response[R], error)
}

// HandlerFunc is an adapter to allow the use of ordinary functions
// as [Handler]s.
type HandlerFunc[B, R any] func(context.Context, *Request[B]) (*Response[R], error)

// Handle implements the [Handler] interface.
func (f HandlerFunc[B, R]) Handle(ctx context.Context, req *Request[B]) (*Response[R], error) {
	return f(ctx, req)
}

// EndpointSpec describes every input and output of an endpoint.
// A nil spec means the endpoint does not read or write that part
// of the request or response.
type EndpointSpec[B, R any] struct {
	Summary     string
	Description string
	Tags        []string

	Query   *backend.StringDecoderSpec
	Headers *backend.StringDecoderSpec
	Body    *backend.RequestBodySpec[B]

	// Response is unused if its Validator is nil.
	Response        backend.ResponseBodySpec[R]
	ResponseHeaders *backend.StringEncoderSpec

	State *state.Spec

	// Status is the status code of a successful response. It defaults
	// to 200, or 204 if the endpoint has no response body.
	Status int
}

func (spec EndpointSpec[B, R]) status() int {
	if spec.Status != 0 {
		return spec.Status
	}
	if spec.Response.Validator == nil {
		return http.StatusNoContent
	}
	return http.StatusOK
}

// OperationOptions holds configuration for an endpoint registered with [Handle].
type OperationOptions struct {
	errHandler ErrorHandler
}

// OperationOption configures an endpoint created by [Handle].
type OperationOption func(*OperationOptions)

// OnError configures a custom [ErrorHandler] for an endpoint.
func OnError(eh ErrorHandler) OperationOption {
	return func(oo *OperationOptions) {
		oo.errHandler = eh
	}
}

// Handle registers an endpoint with an [Api]. The endpoint is routed by
// method and path, documented in the OpenAPI document and every request
// and response is validated against spec.
//
// Handle panics if method is not a valid HTTP method or the endpoint
// conflicts with an already registered one.
func Handle[B, R any](method string, path Path, spec EndpointSpec[B, R], h Handler[B, R], opts ...OperationOption) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.endpoints = append(ao.endpoints, func(ao *ApiOptions) {
			err := data.ValidateMethod(method)
			if err != nil {
				panic(err)
			}

			oo := &OperationOptions{
				errHandler: defaultErrorHandler(kinrest.LogHandler(instrumentationName)),
			}
			for _, opt := range opts {
				opt(oo)
			}

			endpoint := path.String()

			err = ao.def.AddOperation(method, endpoint, operationSpec(ao.functionality, path, spec))
			if err != nil {
				panic(err)
			}

			ao.mux.Method(method, path.route(), otelhttp.WithRouteTag(endpoint, &operation[B, R]{
				tracer:        otel.Tracer(instrumentationName),
				log:           kinrest.Logger(instrumentationName),
				errHandler:    oo.errHandler,
				stateProvider: ao.stateProvider,
				params:        path.params(),
				spec:          spec,
				handler:       h,
			}))
		})
	})
}

type operation[B, R any] struct {
	tracer        trace.Tracer
	log           *slog.Logger
	errHandler    ErrorHandler
	stateProvider StateProviderFunc
	params        []backend.AnyURLParameter
	spec          EndpointSpec[B, R]
	handler       Handler[B, R]
}

func (o *operation[B, R]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var err error
	defer func() {
		if err == nil {
			return
		}

		o.errHandler.OnError(ctx, w, err)
	}()
	defer try.Recover(&err)

	req, err := o.readRequest(ctx, r)
	if err != nil {
		return
	}

	resp, err := o.handler.Handle(ctx, req)
	if err != nil {
		return
	}
	if resp == nil {
		resp = &Response[R]{}
	}

	err = o.writeResponse(ctx, w, resp)
}

func (o *operation[B, R]) readRequest(ctx context.Context, r *http.Request) (*Request[B], error) {
	_, span := o.tracer.Start(ctx, "operation.readRequest")
	defer span.End()

	req := &Request[B]{}

	var err error
	if o.spec.State != nil {
		req.State, err = o.readState(r)
		if err != nil {
			return nil, err
		}
	}

	req.URL, err = o.readURL(r)
	if err != nil {
		return nil, requestError(err)
	}

	if o.spec.Query != nil {
		query := r.URL.Query()
		req.Query, err = o.spec.Query.Validate(func(name string) []string {
			return query[name]
		})
		if err != nil {
			return nil, requestError(err)
		}
	}

	if o.spec.Headers != nil {
		req.Headers, err = o.spec.Headers.Validate(r.Header.Values)
		if err != nil {
			return nil, requestError(err)
		}
	}

	if o.spec.Body != nil {
		req.Body, err = o.spec.Body.Validator(backend.BodyInput{
			ContentType: r.Header.Get("Content-Type"),
			Body:        r.Body,
		})
		if err != nil {
			return nil, requestError(err)
		}
	}
	return req, nil
}

// readState failures are not mapped to a 400 since the state
// is provided by the server itself.
func (o *operation[B, R]) readState(r *http.Request) (map[string]any, error) {
	raw, err := o.stateProvider(r)
	if err != nil {
		return nil, fmt.Errorf("failed to provide request state: %w", err)
	}
	return o.spec.State.Validator(raw)
}

func (o *operation[B, R]) readURL(r *http.Request) (map[string]any, error) {
	values := make(map[string]any, len(o.params))
	var errs []error
	for _, p := range o.params {
		name := p.URLParameterName()

		raw := chi.URLParam(r, name)

		// chi routes on the raw path when it differs from the decoded one
		if r.URL.RawPath != "" {
			var err error
			raw, err = url.PathUnescape(raw)
			if err != nil {
				errs = append(errs, fmt.Errorf("URL parameter %q: %w", name, err))
				continue
			}
		}

		v, err := p.ValidateURLParameter(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("URL parameter %q: %w", name, err))
			continue
		}
		values[name] = v
	}
	if len(errs) > 0 {
		return nil, data.NewValidationError(errs...)
	}
	return values, nil
}

func (o *operation[B, R]) writeResponse(ctx context.Context, w http.ResponseWriter, resp *Response[R]) error {
	spanCtx, span := o.tracer.Start(ctx, "operation.writeResponse")
	defer span.End()

	var headers map[string][]string
	if o.spec.ResponseHeaders != nil {
		var err error
		headers, err = o.spec.ResponseHeaders.Validate(resp.Headers)
		if err != nil {
			return fmt.Errorf("invalid response headers: %w", err)
		}
	}

	var out backend.ResponseOutput
	if o.spec.Response.Validator != nil {
		var err error
		out, err = o.spec.Response.Validator(resp.Body)
		if err != nil {
			return fmt.Errorf("invalid response body: %w", err)
		}
	}

	for name, values := range headers {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}

	status := resp.Status
	if status == 0 {
		status = o.spec.status()
	}
	if out.Output == nil {
		w.WriteHeader(status)
		return nil
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.WriteHeader(status)

	_, err := w.Write(out.Output)
	if err != nil {
		// the status has already been sent so the error handler
		// can no longer respond
		o.log.ErrorContext(spanCtx, "failed to write response body", slog.Any("error", err))
	}
	return nil
}
