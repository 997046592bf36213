// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package jsonschema generates JSON Schema documents from the schemas
// backing [data.Decoder] and [data.Encoder] values.
//
// The generated documents are consumed when describing endpoints, e.g.
// in an OpenAPI document, so absent values at the top level of a schema
// can be cut off and expressed as an optional parameter or body instead.
package jsonschema
