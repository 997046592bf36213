// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package jsonschema

import (
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
)

// Undefinedness describes how a schema treats absent values.
type Undefinedness int

const (
	// UndefinedRejected means absent values are rejected.
	UndefinedRejected Undefinedness = iota

	// UndefinedAccepted means absent values are accepted along with others.
	UndefinedAccepted

	// UndefinedOnly means absent values are the only accepted values.
	UndefinedOnly
)

// String implements the [fmt.Stringer] interface.
func (u Undefinedness) String() string {
	switch u {
	case UndefinedAccepted:
		return "accepted"
	case UndefinedOnly:
		return "only"
	default:
		return "rejected"
	}
}

// UndefinedPossibility reports how the given schema treats absent values.
func UndefinedPossibility(schema *openapi3.Schema) Undefinedness {
	switch {
	case schema == nil:
		return UndefinedRejected
	case isUndefined(schema):
		return UndefinedOnly
	case schema.Nullable:
		return UndefinedAccepted
	default:
		return UndefinedRejected
	}
}

// bare reports whether the schema carries no constraints once its
// nullability, annotations and "not" member are ignored.
func bare(schema *openapi3.Schema) bool {
	c := *schema
	c.Nullable = false
	c.Title = ""
	c.Description = ""
	c.Extensions = nil
	c.Not = nil
	return reflect.DeepEqual(c, openapi3.Schema{})
}

func isUnknown(schema *openapi3.Schema) bool {
	return schema.Not == nil && bare(schema)
}

func notsEverything(schema *openapi3.Schema) bool {
	not := schema.Not
	return not != nil && not.Value != nil && isUnknown(not.Value) && bare(schema)
}

func isUndefined(schema *openapi3.Schema) bool {
	return schema.Nullable && notsEverything(schema)
}

func isNever(schema *openapi3.Schema) bool {
	return !schema.Nullable && notsEverything(schema)
}
