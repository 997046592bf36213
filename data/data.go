// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package data provides the uniform validator contracts which every other
// kinrest package is built upon.
//
// A "native" validator is an [openapi3.Schema] paired with the Go type it
// decodes into, see [Decoder] and [Encoder]. Native validators are turned
// into plain [Validator] funcs via [FromDecoder] and [FromEncoder], which
// report failures as [*ValidationError].
//
// Absent values are represented by nil. A schema accepts an absent value
// only when it is marked nullable.
package data

// Validator validates and transforms a value of type In into a value of type Out.
type Validator[In, Out any] func(In) (Out, error)

// FromDecoder wraps the given [Decoder] into a [Validator]. Any failure
// reported by the underlying schema is returned as a [*ValidationError].
func FromDecoder[T any](d Decoder[T]) Validator[any, T] {
	return func(v any) (T, error) {
		t, err := d.Decode(v)
		if err != nil {
			return t, asValidationError(err)
		}
		return t, nil
	}
}

// FromEncoder wraps the given [Encoder] into a [Validator]. Any failure
// reported by the underlying schema is returned as a [*ValidationError].
func FromEncoder[T, S any](e Encoder[T, S]) Validator[T, S] {
	return func(t T) (S, error) {
		s, err := e.Encode(t)
		if err != nil {
			return s, asValidationError(err)
		}
		return s, nil
	}
}

// PlainDecoder is the untyped equivalent of [FromDecoder].
func PlainDecoder(d AnyDecoder) Validator[any, any] {
	return func(v any) (any, error) {
		out, err := d.DecodeAny(v)
		if err != nil {
			return nil, asValidationError(err)
		}
		return out, nil
	}
}

// PlainEncoder is the untyped equivalent of [FromEncoder].
func PlainEncoder(e AnyEncoder) Validator[any, any] {
	return func(v any) (any, error) {
		out, err := e.EncodeAny(v)
		if err != nil {
			return nil, asValidationError(err)
		}
		return out, nil
	}
}
