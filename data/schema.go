// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package data

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// PropertyNamesExtension is the schema extension under which
// [Record] stores the schema of the record keys.
const PropertyNamesExtension = "x-property-names"

// Required reports whether the given schema rejects absent values.
func Required(schema *openapi3.Schema) bool {
	return schema == nil || !schema.Nullable
}

// Undefined returns a schema which only accepts absent values.
func Undefined() *openapi3.Schema {
	return &openapi3.Schema{
		Nullable: true,
		Not:      openapi3.NewSchemaRef("", Unknown()),
	}
}

// Never returns a schema which rejects every value.
func Never() *openapi3.Schema {
	return &openapi3.Schema{
		Not: openapi3.NewSchemaRef("", Unknown()),
	}
}

// Unknown returns a schema which accepts every value, including absent ones.
func Unknown() *openapi3.Schema {
	return &openapi3.Schema{
		Nullable: true,
	}
}

// Literal returns a schema which only accepts the given value.
// Supported values are strings, booleans and numbers of any kind,
// including named types based on them. Any other value panics.
func Literal(v any) *openapi3.Schema {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return openapi3.NewStringSchema().WithEnum(rv.String())
	case reflect.Bool:
		return openapi3.NewBoolSchema().WithEnum(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return openapi3.NewIntegerSchema().WithEnum(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return openapi3.NewIntegerSchema().WithEnum(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return openapi3.NewFloat64Schema().WithEnum(rv.Float())
	default:
		panic(fmt.Sprintf("data: unsupported literal type %T", v))
	}
}

// Optional returns a copy of schema which also accepts absent values.
func Optional(schema *openapi3.Schema) *openapi3.Schema {
	s := *schema
	s.Nullable = true
	return &s
}

// Union returns a schema which accepts any value accepted by at least one of
// the given schemas. The union accepts absent values if any member does.
func Union(schemas ...*openapi3.Schema) *openapi3.Schema {
	s := &openapi3.Schema{}
	for _, member := range schemas {
		s.AnyOf = append(s.AnyOf, member.NewRef())
		s.Nullable = s.Nullable || member.Nullable
	}
	return s
}

// Intersection returns a schema which accepts values accepted by all of the
// given schemas.
func Intersection(schemas ...*openapi3.Schema) *openapi3.Schema {
	s := &openapi3.Schema{Nullable: len(schemas) > 0}
	for _, member := range schemas {
		s.AllOf = append(s.AllOf, member.NewRef())
		s.Nullable = s.Nullable && member.Nullable
	}
	return s
}

// Object returns an object schema with the given properties. Every
// non-nullable property is required.
func Object(props map[string]*openapi3.Schema) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	for name, prop := range props {
		s.WithProperty(name, prop)
		if Required(prop) {
			s.Required = append(s.Required, name)
		}
	}
	slices.Sort(s.Required)
	return s
}

// StrictObject is like [Object] but rejects unknown properties.
func StrictObject(props map[string]*openapi3.Schema) *openapi3.Schema {
	return Object(props).WithoutAdditionalProperties()
}

// Record returns an object schema whose keys are described by keys and
// whose values must all satisfy values.
func Record(keys, values *openapi3.Schema) *openapi3.Schema {
	s := openapi3.NewObjectSchema().WithAdditionalProperties(values)
	s.Extensions = map[string]any{
		PropertyNamesExtension: keys,
	}
	return s
}

// ErrNoComponents is returned by [LoadComponentSchemas] when the
// document does not define any component schemas.
var ErrNoComponents = errors.New("data: document does not define any component schemas")

// ParseSchema parses a single schema from either its YAML or JSON form.
func ParseSchema(b []byte) (*openapi3.Schema, error) {
	var raw map[string]any
	err := yaml.Unmarshal(b, &raw)
	if err != nil {
		return nil, err
	}

	jb, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	var schema openapi3.Schema
	err = json.Unmarshal(jb, &schema)
	if err != nil {
		return nil, err
	}
	return &schema, nil
}

// LoadComponentSchemas loads an OpenAPI document, in either YAML or JSON form,
// and returns its component schemas with all references resolved.
func LoadComponentSchemas(b []byte) (map[string]*openapi3.Schema, error) {
	doc, err := openapi3.NewLoader().LoadFromData(b)
	if err != nil {
		return nil, err
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, ErrNoComponents
	}

	schemas := make(map[string]*openapi3.Schema, len(doc.Components.Schemas))
	for name, ref := range doc.Components.Schemas {
		if ref == nil || ref.Value == nil {
			return nil, fmt.Errorf("data: unresolved component schema %q", name)
		}
		schemas[name] = ref.Value
	}
	return schemas, nil
}
