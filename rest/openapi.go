// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"net/http"
	"strconv"

	"github.com/z5labs/kinrest/backend"
	"github.com/z5labs/kinrest/data"
	"github.com/z5labs/kinrest/metadata/jsonschema"

	jsg "github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

func operationSpec[B, R any](f jsonschema.Functionality, path Path, spec EndpointSpec[B, R]) openapi3.Operation {
	op := openapi3.Operation{
		Tags: spec.Tags,
	}
	if spec.Summary != "" {
		op.Summary = ptr.Ref(spec.Summary)
	}
	if spec.Description != "" {
		op.Description = ptr.Ref(spec.Description)
	}

	for _, p := range path.params() {
		op.Parameters = append(op.Parameters, parameter(
			p.URLParameterName(),
			openapi3.ParameterInPath,
			true,
			f.StringDecoder(p.URLParameterDecoder(), true),
		))
	}
	if spec.Query != nil {
		op.Parameters = append(op.Parameters, stringParameters(f, openapi3.ParameterInQuery, spec.Query)...)
	}
	if spec.Headers != nil {
		op.Parameters = append(op.Parameters, stringParameters(f, openapi3.ParameterInHeader, spec.Headers)...)
	}

	if spec.Body != nil {
		op.RequestBody = &openapi3.RequestBodyOrRef{
			RequestBody: &openapi3.RequestBody{
				Content:  decoderContent(f, spec.Body.Contents),
				Required: ptr.Ref(spec.Body.Required),
			},
		}
	}

	status := spec.status()
	resp := openapi3.Response{
		Description: http.StatusText(status),
	}
	if spec.Response.Validator != nil {
		resp.Content = encoderContent(f, spec.Response.Contents)
	}
	if spec.ResponseHeaders != nil {
		resp.Headers = responseHeaders(f, spec.ResponseHeaders)
	}
	op.Responses = openapi3.Responses{
		MapOfResponseOrRefValues: map[string]openapi3.ResponseOrRef{
			strconv.Itoa(status): {Response: &resp},
		},
	}
	return op
}

func parameter(name string, in openapi3.ParameterIn, required bool, schema jsg.SchemaOrBool) openapi3.ParameterOrRef {
	return openapi3.ParameterOrRef{
		Parameter: &openapi3.Parameter{
			Name:     name,
			In:       in,
			Required: ptr.Ref(required),
			Schema:   schemaOrRef(schema),
		},
	}
}

func stringParameters(f jsonschema.Functionality, in openapi3.ParameterIn, spec *backend.StringDecoderSpec) []openapi3.ParameterOrRef {
	names := spec.Names()
	params := make([]openapi3.ParameterOrRef, 0, len(names))
	for _, name := range names {
		md := spec.Metadata[name]
		params = append(params, parameter(name, in, md.Required, f.StringDecoder(md.Decoder, true)))
	}
	return params
}

func responseHeaders(f jsonschema.Functionality, spec *backend.StringEncoderSpec) map[string]openapi3.HeaderOrRef {
	names := spec.Names()
	headers := make(map[string]openapi3.HeaderOrRef, len(names))
	for _, name := range names {
		md := spec.Metadata[name]
		headers[name] = openapi3.HeaderOrRef{
			Header: &openapi3.Header{
				Required: ptr.Ref(md.Required),
				Schema:   schemaOrRef(f.StringEncoder(md.Encoder, true)),
			},
		}
	}
	return headers
}

// Content types without a registered transformation are
// documented without a schema.
func decoderContent(f jsonschema.Functionality, contents map[string]data.AnyDecoder) map[string]openapi3.MediaType {
	mts := make(map[string]openapi3.MediaType, len(contents))
	for ct, d := range contents {
		var mt openapi3.MediaType
		if transform, ok := f.Decoders[ct]; ok {
			mt.Schema = schemaOrRef(transform(d, true))
		}
		mts[ct] = mt
	}
	return mts
}

func encoderContent(f jsonschema.Functionality, contents map[string]data.AnyEncoder) map[string]openapi3.MediaType {
	mts := make(map[string]openapi3.MediaType, len(contents))
	for ct, e := range contents {
		var mt openapi3.MediaType
		if transform, ok := f.Encoders[ct]; ok {
			mt.Schema = schemaOrRef(transform(e, true))
		}
		mts[ct] = mt
	}
	return mts
}

func schemaOrRef(s jsg.SchemaOrBool) *openapi3.SchemaOrRef {
	if s.TypeObject == nil && s.TypeBoolean == nil {
		return nil
	}

	var sor openapi3.SchemaOrRef
	sor.FromJSONSchema(constToEnum(s))
	return &sor
}

// constToEnum rewrites every const keyword into a single valued enum,
// since OpenAPI 3.0 has no const. The given schema is left untouched.
func constToEnum(s jsg.SchemaOrBool) jsg.SchemaOrBool {
	if s.TypeObject == nil {
		return s
	}

	c := *s.TypeObject
	if c.Const != nil {
		c.Enum = []interface{}{*c.Const}
		c.Const = nil
	}
	c.Not = constToEnumRef(c.Not)
	c.AdditionalProperties = constToEnumRef(c.AdditionalProperties)
	c.PropertyNames = constToEnumRef(c.PropertyNames)
	c.AllOf = constToEnumSlice(c.AllOf)
	c.AnyOf = constToEnumSlice(c.AnyOf)
	c.OneOf = constToEnumSlice(c.OneOf)
	if c.Items != nil {
		items := *c.Items
		items.SchemaOrBool = constToEnumRef(items.SchemaOrBool)
		items.SchemaArray = constToEnumSlice(items.SchemaArray)
		c.Items = &items
	}
	if c.Properties != nil {
		props := make(map[string]jsg.SchemaOrBool, len(c.Properties))
		for name, prop := range c.Properties {
			props[name] = constToEnum(prop)
		}
		c.Properties = props
	}
	return jsg.SchemaOrBool{TypeObject: &c}
}

func constToEnumRef(s *jsg.SchemaOrBool) *jsg.SchemaOrBool {
	if s == nil {
		return nil
	}
	v := constToEnum(*s)
	return &v
}

func constToEnumSlice(ss []jsg.SchemaOrBool) []jsg.SchemaOrBool {
	if ss == nil {
		return nil
	}
	out := make([]jsg.SchemaOrBool, len(ss))
	for i, s := range ss {
		out[i] = constToEnum(s)
	}
	return out
}
