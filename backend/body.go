// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package backend

import (
	"bytes"
	"io"
	"mime"
	"strings"

	"github.com/z5labs/kinrest/data"

	"github.com/goccy/go-json"
)

// ContentType is the default content type of request and response bodies.
const ContentType = "application/json"

// RequestBodyOptions are the configurable parameters of [RequestBody].
type RequestBodyOptions struct {
	contentType string
	strict      bool
	readBody    func(io.Reader) ([]byte, error)
	maxSize     int64
}

// RequestBodyOption sets a value on [RequestBodyOptions].
type RequestBodyOption func(*RequestBodyOptions)

// WithContentType overrides the supported content type, which
// defaults to [ContentType].
func WithContentType(contentType string) RequestBodyOption {
	return func(rbo *RequestBodyOptions) {
		rbo.contentType = contentType
	}
}

// StrictContentType requires the request content type to exactly match
// the supported content type, including any parameters. By default, only
// the media types are compared.
func StrictContentType() RequestBodyOption {
	return func(rbo *RequestBodyOptions) {
		rbo.strict = true
	}
}

// WithBodyReader overrides how the raw request body is read.
func WithBodyReader(f func(io.Reader) ([]byte, error)) RequestBodyOption {
	return func(rbo *RequestBodyOptions) {
		rbo.readBody = f
	}
}

// MaxBodySize limits the number of bytes read from the request body.
func MaxBodySize(n int64) RequestBodyOption {
	return func(rbo *RequestBodyOptions) {
		rbo.maxSize = n
	}
}

// BodyInput is the input of a request body validator.
type BodyInput struct {
	ContentType string
	Body        io.Reader
}

// RequestBodySpec describes and validates a request body.
type RequestBodySpec[T any] struct {
	// ContentType is the supported content type.
	ContentType string

	// Required reports whether an empty body is rejected.
	Required bool

	// Contents maps every supported content type to its decoder.
	Contents map[string]data.AnyDecoder

	Validator data.Validator[BodyInput, T]
}

// RequestBody creates a [RequestBodySpec] which parses the request body as JSON
// and validates it with the given [data.Decoder].
//
// An empty body is treated as an absent value, so decoders for nullable
// schemas accept requests without a body.
func RequestBody[T any](d data.Decoder[T], opts ...RequestBodyOption) RequestBodySpec[T] {
	rbo := &RequestBodyOptions{
		contentType: ContentType,
		readBody:    io.ReadAll,
	}
	for _, opt := range opts {
		opt(rbo)
	}

	validate := data.FromDecoder(d)
	supported := rbo.contentType

	return RequestBodySpec[T]{
		ContentType: supported,
		Required:    data.Required(d.Schema()),
		Contents: map[string]data.AnyDecoder{
			supported: d,
		},
		Validator: func(in BodyInput) (T, error) {
			var t T
			if in.ContentType != "" && !contentTypeMatches(supported, in.ContentType, rbo.strict) {
				return t, &UnsupportedContentTypeError{
					ContentType: in.ContentType,
					Supported:   []string{supported},
				}
			}

			b, err := rbo.read(in.Body)
			if err != nil {
				return t, err
			}

			var v any
			if len(bytes.TrimSpace(b)) > 0 {
				if in.ContentType == "" {
					return t, &UnsupportedContentTypeError{Supported: []string{supported}}
				}

				err = json.Unmarshal(b, &v)
				if err != nil {
					return t, data.NewValidationError(err)
				}
			}
			return validate(v)
		},
	}
}

func (rbo *RequestBodyOptions) read(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	if rbo.maxSize <= 0 {
		return rbo.readBody(r)
	}

	b, err := rbo.readBody(io.LimitReader(r, rbo.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > rbo.maxSize {
		return nil, &BodyTooLargeError{Limit: rbo.maxSize}
	}
	return b, nil
}

func contentTypeMatches(supported, actual string, strict bool) bool {
	if strict {
		return actual == supported
	}

	mediaType, _, err := mime.ParseMediaType(actual)
	if err != nil {
		return false
	}
	expected, _, err := mime.ParseMediaType(supported)
	if err != nil {
		expected = strings.ToLower(supported)
	}
	return mediaType == expected
}

// ResponseOutput is a validated and serialized response body.
type ResponseOutput struct {
	ContentType string

	// Output is nil if the encoded value was absent.
	Output []byte
}

// ResponseBodySpec describes and validates a response body.
type ResponseBodySpec[T any] struct {
	ContentType string
	Contents    map[string]data.AnyEncoder
	Validator   data.Validator[T, ResponseOutput]
}

// ResponseBody creates a [ResponseBodySpec] which validates the response body with
// the given [data.Encoder] before serializing it to JSON. The content type
// defaults to [ContentType].
func ResponseBody[T any](e data.Encoder[T, any], contentType ...string) ResponseBodySpec[T] {
	ct := ContentType
	if len(contentType) > 0 {
		ct = contentType[0]
	}

	validate := data.FromEncoder(e)

	return ResponseBodySpec[T]{
		ContentType: ct,
		Contents: map[string]data.AnyEncoder{
			ct: e,
		},
		Validator: func(t T) (ResponseOutput, error) {
			v, err := validate(t)
			if err != nil {
				return ResponseOutput{}, err
			}

			out := ResponseOutput{ContentType: ct}
			if v == nil {
				return out, nil
			}

			out.Output, err = json.Marshal(v)
			if err != nil {
				return ResponseOutput{}, err
			}
			return out, nil
		},
	}
}
