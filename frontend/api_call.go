// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package frontend creates validated API calls against endpoints
// described with [data.Decoder] and [data.Encoder] values.
package frontend

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/z5labs/kinrest/data"
)

// HTTPInvocationArguments are given to a [CallHTTPEndpoint].
// Fields which are not used by the API call are left empty.
type HTTPInvocationArguments struct {
	Method  string
	URL     string
	Query   map[string]any
	Headers map[string]string
	Body    any
}

// HTTPInvocationResult is returned by a [CallHTTPEndpoint].
type HTTPInvocationResult struct {
	// Body is the parsed JSON response body, or nil if there was none.
	Body    any
	Headers map[string][]string
}

// CallHTTPEndpoint performs the actual HTTP request of an [APICall].
type CallHTTPEndpoint func(context.Context, HTTPInvocationArguments) (HTTPInvocationResult, error)

// HeaderProviderArgs are given to a [HeaderProvider].
type HeaderProviderArgs struct {
	HeaderName string
	Method     string
	URL        string
}

// HeaderProvider resolves the value of a request header, e.g. the
// "Authorization" header of authenticated endpoints.
type HeaderProvider func(context.Context, HeaderProviderArgs) (string, error)

// MissingHeaderProviderError is returned by [MakeAPICall] when the
// call requires a header functionality which was not bound with
// [APICallFactory.WithHeaders].
type MissingHeaderProviderError struct {
	Name string
}

// Error implements the [error] interface.
func (e MissingHeaderProviderError) Error() string {
	return fmt.Sprintf("frontend: no header functionality bound for %q", e.Name)
}

// APICallFactory creates [APICall]s which share the same [CallHTTPEndpoint].
type APICallFactory struct {
	callback CallHTTPEndpoint
	headers  map[string]HeaderProvider
}

// NewAPICallFactory initializes an [APICallFactory].
func NewAPICallFactory(callback CallHTTPEndpoint) *APICallFactory {
	return &APICallFactory{callback: callback}
}

// WithHeaders returns a copy of f with the given header functionalities
// bound by name, e.g. "auth".
func (f *APICallFactory) WithHeaders(providers map[string]HeaderProvider) *APICallFactory {
	headers := maps.Clone(f.headers)
	if headers == nil {
		headers = make(map[string]HeaderProvider, len(providers))
	}
	maps.Copy(headers, providers)
	return &APICallFactory{
		callback: f.callback,
		headers:  headers,
	}
}

// APICallSpec describes a single endpoint from the calling side.
type APICallSpec[Resp any] struct {
	Method string
	URL    URLTemplate

	// Query encoders by query parameter name.
	Query map[string]data.AnyEncoder

	// Headers maps header names to header functionality names.
	Headers map[string]string

	// Body encodes the request body. A nil Body sends no body.
	Body data.AnyEncoder

	Response data.Decoder[Resp]
}

// CallArgs are the arguments of a single [APICall].
type CallArgs struct {
	URL   map[string]any
	Query map[string]any
	Body  any
}

// APICall invokes an endpoint and returns its validated response body.
type APICall[Resp any] func(context.Context, CallArgs) (Resp, error)

// MakeAPICall creates an [APICall] from the given spec.
func MakeAPICall[Resp any](f *APICallFactory, spec APICallSpec[Resp]) (APICall[Resp], error) {
	err := data.ValidateMethod(spec.Method)
	if err != nil {
		return nil, err
	}

	headerNames := slices.Sorted(maps.Keys(spec.Headers))
	providers := make(map[string]HeaderProvider, len(headerNames))
	for _, header := range headerNames {
		name := spec.Headers[header]
		provider, ok := f.headers[name]
		if !ok {
			return nil, MissingHeaderProviderError{Name: name}
		}
		providers[header] = provider
	}

	queryNames := slices.Sorted(maps.Keys(spec.Query))
	decodeResponse := data.FromDecoder(spec.Response)

	return func(ctx context.Context, args CallArgs) (Resp, error) {
		var (
			resp Resp
			err  error
		)

		u, ok := spec.URL.Static()
		if !ok {
			u, err = spec.URL.Build(args.URL)
			if err != nil {
				return resp, err
			}
		}

		in := HTTPInvocationArguments{
			Method: spec.Method,
			URL:    u,
		}

		if len(queryNames) > 0 {
			in.Query, err = encodeQuery(spec.Query, queryNames, args.Query)
			if err != nil {
				return resp, err
			}
		}

		if spec.Body != nil {
			in.Body, err = data.PlainEncoder(spec.Body)(args.Body)
			if err != nil {
				return resp, err
			}
		}

		if len(headerNames) > 0 {
			in.Headers = make(map[string]string, len(headerNames))
			for _, header := range headerNames {
				v, err := providers[header](ctx, HeaderProviderArgs{
					HeaderName: header,
					Method:     spec.Method,
					URL:        u,
				})
				if err != nil {
					return resp, err
				}
				in.Headers[header] = v
			}
		}

		out, err := f.callback(ctx, in)
		if err != nil {
			return resp, err
		}
		return decodeResponse(out.Body)
	}, nil
}

func encodeQuery(encoders map[string]data.AnyEncoder, names []string, values map[string]any) (map[string]any, error) {
	query := make(map[string]any, len(names))
	var infos []error
	for _, name := range names {
		v, err := data.PlainEncoder(encoders[name])(values[name])
		if err != nil {
			infos = append(infos, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if v != nil {
			query[name] = v
		}
	}
	if len(infos) > 0 {
		return nil, data.NewValidationError(infos...)
	}
	return query, nil
}
