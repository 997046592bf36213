// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package frontend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/z5labs/kinrest/backend"

	"github.com/goccy/go-json"
	"github.com/z5labs/sdk-go/try"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPStatusError is returned by the [CallHTTPEndpoint] created with
// [HTTPCallback] when the response status is not 2xx.
type HTTPStatusError struct {
	StatusCode int
	Body       []byte
}

// Error implements the [error] interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("frontend: unexpected status code: %d", e.StatusCode)
}

// HTTPCallbackOptions are the configurable parameters of [HTTPCallback].
type HTTPCallbackOptions struct {
	client *http.Client
}

// HTTPCallbackOption sets a value on [HTTPCallbackOptions].
type HTTPCallbackOption func(*HTTPCallbackOptions)

// WithHTTPClient overrides the [http.Client] used for requests. The
// default client traces every request with OpenTelemetry.
func WithHTTPClient(client *http.Client) HTTPCallbackOption {
	return func(o *HTTPCallbackOptions) {
		o.client = client
	}
}

// HTTPCallback creates a [CallHTTPEndpoint] which sends requests to the
// given base URL. Request and response bodies are JSON encoded.
func HTTPCallback(baseURL string, opts ...HTTPCallbackOption) CallHTTPEndpoint {
	o := &HTTPCallbackOptions{
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(o)
	}

	base := strings.TrimSuffix(baseURL, "/")
	return func(ctx context.Context, args HTTPInvocationArguments) (HTTPInvocationResult, error) {
		return o.call(ctx, base, args)
	}
}

func (o *HTTPCallbackOptions) call(ctx context.Context, base string, args HTTPInvocationArguments) (res HTTPInvocationResult, err error) {
	u, err := requestURL(base, args)
	if err != nil {
		return res, err
	}

	var body io.Reader
	if args.Body != nil {
		b, err := json.Marshal(args.Body)
		if err != nil {
			return res, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, args.Method, u, body)
	if err != nil {
		return res, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", backend.ContentType)
	}
	req.Header.Set("Accept", backend.ContentType)
	for name, value := range args.Headers {
		req.Header.Set(name, value)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return res, fmt.Errorf("failed to execute request: %w", err)
	}
	defer try.Close(&err, resp.Body)

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return res, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return res, &HTTPStatusError{StatusCode: resp.StatusCode, Body: b}
	}

	res.Headers = map[string][]string(resp.Header.Clone())
	if len(bytes.TrimSpace(b)) == 0 {
		return res, nil
	}
	err = json.Unmarshal(b, &res.Body)
	if err != nil {
		return res, fmt.Errorf("failed to decode response: %w", err)
	}
	return res, nil
}

func requestURL(base string, args HTTPInvocationArguments) (string, error) {
	u := base + args.URL
	if len(args.Query) == 0 {
		return u, nil
	}

	q := make(url.Values, len(args.Query))
	for name, v := range args.Query {
		ss, err := backend.FormatStrings(v)
		if err != nil {
			return "", err
		}
		q[name] = ss
	}
	return u + "?" + q.Encode(), nil
}
