// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package data

import (
	"errors"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
)

// ErrMissingSchema is returned when a [Decoder] or [Encoder] has no schema.
var ErrMissingSchema = errors.New("data: missing schema")

// AnyDecoder is implemented by every [Decoder] regardless of its type parameter.
type AnyDecoder interface {
	Schema() *openapi3.Schema
	DecodeAny(any) (any, error)
}

// AnyEncoder is implemented by every [Encoder] regardless of its type parameters.
type AnyEncoder interface {
	Schema() *openapi3.Schema
	EncodeAny(any) (any, error)
}

// Decoder validates untyped input, usually the result of JSON parsing,
// against a schema and converts it into T.
type Decoder[T any] struct {
	schema *openapi3.Schema
}

// NewDecoder initializes a [Decoder].
func NewDecoder[T any](schema *openapi3.Schema) Decoder[T] {
	return Decoder[T]{schema: schema}
}

// Schema returns the underlying schema.
func (d Decoder[T]) Schema() *openapi3.Schema {
	return d.schema
}

// Decode validates v and converts it into T. A nil v yields
// the zero value of T if the schema is nullable.
func (d Decoder[T]) Decode(v any) (T, error) {
	var t T
	v, err := normalize(v)
	if err != nil {
		return t, err
	}

	err = visit(d.schema, v)
	if err != nil {
		return t, err
	}
	return convert[T](v)
}

// DecodeAny implements the [AnyDecoder] interface.
func (d Decoder[T]) DecodeAny(v any) (any, error) {
	return d.Decode(v)
}

// Encoder validates a typed value against a schema before
// it is serialized and converts it into its wire form S.
//
// The value is first marshalled to JSON, so any [json.Marshaler]
// implementations are honoured during validation.
type Encoder[T, S any] struct {
	schema *openapi3.Schema
}

// NewEncoder initializes an [Encoder].
func NewEncoder[T, S any](schema *openapi3.Schema) Encoder[T, S] {
	return Encoder[T, S]{schema: schema}
}

// Schema returns the underlying schema.
func (e Encoder[T, S]) Schema() *openapi3.Schema {
	return e.schema
}

// Encode validates t and converts its JSON form into S.
func (e Encoder[T, S]) Encode(t T) (S, error) {
	var s S
	v, err := ToJSONValue(t)
	if err != nil {
		return s, err
	}

	err = visit(e.schema, v)
	if err != nil {
		return s, err
	}
	return convert[S](v)
}

// EncodeAny implements the [AnyEncoder] interface. A nil v is
// validated as an absent value.
func (e Encoder[T, S]) EncodeAny(v any) (any, error) {
	if v == nil {
		return nil, visit(e.schema, nil)
	}

	t, err := convert[T](v)
	if err != nil {
		return nil, err
	}
	return e.Encode(t)
}

// ToJSONValue converts v into the generic representation produced by
// JSON parsing, i.e. nil, bool, float64, string, []any or map[string]any.
func ToJSONValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var out any
	err = json.Unmarshal(b, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func visit(schema *openapi3.Schema, v any) error {
	if schema == nil {
		return ErrMissingSchema
	}
	return schema.VisitJSON(v, openapi3.MultiErrors())
}

func normalize(v any) (any, error) {
	switch v.(type) {
	case nil, bool, float64, int, int32, int64, string, []any, map[string]any:
		return v, nil
	default:
		return ToJSONValue(v)
	}
}

func convert[T any](v any) (T, error) {
	var t T
	if v == nil {
		return t, nil
	}
	if tv, ok := v.(T); ok {
		return tv, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return t, err
	}
	err = json.Unmarshal(b, &t)
	return t, err
}
