// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package data

import (
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// CoerceString converts a raw string, as found in URLs and headers, into
// the scalar type described by schema. Array schemas split the raw string
// on commas and coerce each item.
//
// If the conversion is not possible the raw string is returned as is so the
// schema can report the mismatch.
func CoerceString(schema *openapi3.Schema, raw string) any {
	if schema == nil {
		return raw
	}

	switch schema.Type {
	case openapi3.TypeInteger:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return raw
		}
		return float64(i)
	case openapi3.TypeNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw
		}
		return f
	case openapi3.TypeBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return raw
		}
		return b
	case openapi3.TypeArray:
		parts := strings.Split(raw, ",")
		return CoerceStrings(itemSchema(schema), parts)
	default:
		return raw
	}
}

// CoerceStrings is like [CoerceString] but for multiple values of the same item.
func CoerceStrings(schema *openapi3.Schema, raws []string) []any {
	vs := make([]any, len(raws))
	for i, raw := range raws {
		vs[i] = CoerceString(schema, raw)
	}
	return vs
}

func itemSchema(schema *openapi3.Schema) *openapi3.Schema {
	if schema.Items == nil {
		return nil
	}
	return schema.Items.Value
}
