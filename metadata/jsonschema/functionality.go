// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package jsonschema

import (
	"github.com/z5labs/kinrest/data"

	"github.com/getkin/kin-openapi/openapi3"
	jsg "github.com/swaggest/jsonschema-go"
	"github.com/z5labs/sdk-go/concurrent"
)

// SchemaTransformation generates the JSON Schema of a validator.
type SchemaTransformation[V any] func(validator V, cutOffTopLevelUndefined bool) jsg.SchemaOrBool

// FunctionalityOptions configure [NewFunctionality].
type FunctionalityOptions struct {
	// ContentTypes are the body content types for which
	// transformations are provided.
	ContentTypes []string

	Override Override

	// FallbackValue defaults to [DefaultFallbackValue].
	FallbackValue FallbackValue
}

// Functionality bundles the JSON Schema transformations of every
// kind of validator used when describing endpoints.
type Functionality struct {
	// StringDecoder transforms URL parameter, query and header decoders.
	StringDecoder SchemaTransformation[data.AnyDecoder]

	// StringEncoder transforms response header encoders.
	StringEncoder SchemaTransformation[data.AnyEncoder]

	// Decoders transform request body decoders per content type.
	Decoders map[string]SchemaTransformation[data.AnyDecoder]

	// Encoders transform response body encoders per content type.
	Encoders map[string]SchemaTransformation[data.AnyEncoder]

	UndefinedPossibility func(*openapi3.Schema) Undefinedness
}

type cacheKey struct {
	schema *openapi3.Schema
	cutOff bool
}

// NewFunctionality initializes a [Functionality].
//
// Transformation results are memoised per schema, so Override and
// FallbackValue should always return the same value for the same input.
// The returned schemas are shared and must not be modified.
func NewFunctionality(opts FunctionalityOptions) Functionality {
	fallback := opts.FallbackValue
	if fallback == nil {
		fallback = DefaultFallbackValue()
	}

	var cache concurrent.Cache[cacheKey, jsg.SchemaOrBool]
	transform := func(schema *openapi3.Schema, cutOff bool) jsg.SchemaOrBool {
		// the transformation itself never fails
		v, _ := cache.GetOrNew(cacheKey{schema: schema, cutOff: cutOff}, func() (jsg.SchemaOrBool, error) {
			return Transform(schema, cutOff, opts.Override, fallback), nil
		})
		return v
	}

	decoder := func(d data.AnyDecoder, cutOff bool) jsg.SchemaOrBool {
		return transform(decoderSchema(d), cutOff)
	}
	encoder := func(e data.AnyEncoder, cutOff bool) jsg.SchemaOrBool {
		return transform(encoderSchema(e), cutOff)
	}

	f := Functionality{
		StringDecoder:        decoder,
		StringEncoder:        encoder,
		Decoders:             make(map[string]SchemaTransformation[data.AnyDecoder], len(opts.ContentTypes)),
		Encoders:             make(map[string]SchemaTransformation[data.AnyEncoder], len(opts.ContentTypes)),
		UndefinedPossibility: UndefinedPossibility,
	}
	for _, ct := range opts.ContentTypes {
		f.Decoders[ct] = decoder
		f.Encoders[ct] = encoder
	}
	return f
}

func decoderSchema(d data.AnyDecoder) *openapi3.Schema {
	if d == nil {
		return nil
	}
	return d.Schema()
}

func encoderSchema(e data.AnyEncoder) *openapi3.Schema {
	if e == nil {
		return nil
	}
	return e.Schema()
}
