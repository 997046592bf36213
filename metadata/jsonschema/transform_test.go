// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package jsonschema

import (
	"testing"

	"github.com/z5labs/kinrest/data"

	"github.com/getkin/kin-openapi/openapi3"
	jsg "github.com/swaggest/jsonschema-go"
	"github.com/stretchr/testify/require"
)

func requireSchemaJSON(t *testing.T, expected string, actual jsg.SchemaOrBool) {
	t.Helper()

	b, err := actual.JSONSchemaBytes()
	require.NoError(t, err)
	require.JSONEq(t, expected, string(b))
}

func transform(schema *openapi3.Schema) jsg.SchemaOrBool {
	return Transform(schema, true, nil, nil)
}

func TestTransform(t *testing.T) {
	t.Run("will transform simple schemas", func(t *testing.T) {
		testCases := []struct {
			Name     string
			Schema   *openapi3.Schema
			Expected string
		}{
			{Name: "string", Schema: openapi3.NewStringSchema(), Expected: `{"type":"string"}`},
			{Name: "boolean", Schema: openapi3.NewBoolSchema(), Expected: `{"type":"boolean"}`},
			{Name: "number", Schema: openapi3.NewFloat64Schema(), Expected: `{"type":"number"}`},
			{Name: "integer", Schema: openapi3.NewIntegerSchema(), Expected: `{"type":"integer"}`},
			{Name: "undefined", Schema: data.Undefined(), Expected: `{"type":"null"}`},
			{Name: "unknown", Schema: data.Unknown(), Expected: `true`},
			{Name: "never", Schema: data.Never(), Expected: `false`},
			{Name: "string literal", Schema: data.Literal("literal"), Expected: `{"type":"string","const":"literal"}`},
			{Name: "boolean literal", Schema: data.Literal(true), Expected: `{"type":"boolean","const":true}`},
			{
				Name:     "array",
				Schema:   openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()),
				Expected: `{"type":"array","items":{"type":"string"}}`,
			},
			{
				Name:     "string constraints",
				Schema:   openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(10).WithPattern(`^[a-z]+$`).WithFormat("uuid"),
				Expected: `{"type":"string","minLength":1,"maxLength":10,"pattern":"^[a-z]+$","format":"uuid"}`,
			},
			{
				Name:     "number constraints",
				Schema:   openapi3.NewIntegerSchema().WithMin(1).WithMax(100),
				Expected: `{"type":"integer","minimum":1,"maximum":100}`,
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				requireSchemaJSON(t, testCase.Expected, transform(testCase.Schema))
			})
		}
	})

	t.Run("will transform unions of literals into enums", func(t *testing.T) {
		t.Run("if every literal has the same type", func(t *testing.T) {
			schema := data.Union(data.Literal("one"), data.Literal("two"))

			requireSchemaJSON(t, `{"type":"string","enum":["one","two"]}`, transform(schema))
		})

		t.Run("if the literals have different types", func(t *testing.T) {
			schema := data.Union(data.Literal("literal"), data.Literal(1))

			requireSchemaJSON(t, `{"enum":["literal",1]}`, transform(schema))
		})

		t.Run("if the schema itself is a multi value enum", func(t *testing.T) {
			schema := openapi3.NewStringSchema().WithEnum("a", "b")

			requireSchemaJSON(t, `{"type":"string","enum":["a","b"]}`, transform(schema))
		})
	})

	t.Run("will transform compositions", func(t *testing.T) {
		t.Run("if the schema is a union", func(t *testing.T) {
			schema := data.Union(openapi3.NewStringSchema(), openapi3.NewFloat64Schema())

			requireSchemaJSON(t, `{"anyOf":[{"type":"string"},{"type":"number"}]}`, transform(schema))
		})

		t.Run("if the schema is a union of unions", func(t *testing.T) {
			schema := data.Union(
				openapi3.NewStringSchema(),
				data.Union(openapi3.NewFloat64Schema(), openapi3.NewBoolSchema()),
			)

			requireSchemaJSON(
				t,
				`{"anyOf":[{"type":"string"},{"type":"number"},{"type":"boolean"}]}`,
				transform(schema),
			)
		})

		t.Run("if the schema is an intersection", func(t *testing.T) {
			schema := data.Intersection(openapi3.NewStringSchema(), openapi3.NewFloat64Schema())

			requireSchemaJSON(t, `{"allOf":[{"type":"string"},{"type":"number"}]}`, transform(schema))
		})
	})

	t.Run("will transform objects", func(t *testing.T) {
		t.Run("if every property is required", func(t *testing.T) {
			schema := data.Object(map[string]*openapi3.Schema{
				"property": openapi3.NewStringSchema(),
			})

			requireSchemaJSON(
				t,
				`{"type":"object","properties":{"property":{"type":"string"}},"required":["property"]}`,
				transform(schema),
			)
		})

		t.Run("if a property is optional", func(t *testing.T) {
			schema := data.Object(map[string]*openapi3.Schema{
				"property": data.Optional(openapi3.NewStringSchema()),
			})

			requireSchemaJSON(
				t,
				`{"type":"object","properties":{"property":{"type":["string","null"]}}}`,
				transform(schema),
			)
		})

		t.Run("if the object is a record", func(t *testing.T) {
			schema := data.Record(openapi3.NewStringSchema(), openapi3.NewFloat64Schema())

			requireSchemaJSON(
				t,
				`{"type":"object","propertyNames":{"type":"string"},"additionalProperties":{"type":"number"}}`,
				transform(schema),
			)
		})

		t.Run("if the object is strict", func(t *testing.T) {
			schema := data.StrictObject(map[string]*openapi3.Schema{
				"property": openapi3.NewStringSchema(),
			})

			requireSchemaJSON(
				t,
				`{
					"type":"object",
					"properties":{"property":{"type":"string"}},
					"required":["property"],
					"additionalProperties":false,
					"minProperties":1,
					"maxProperties":1
				}`,
				transform(schema),
			)
		})

		t.Run("if the record was loaded from a document", func(t *testing.T) {
			schema, err := data.ParseSchema([]byte(`
type: object
additionalProperties:
  type: number
x-property-names:
  type: string
  pattern: "^[a-z]+$"
`))
			require.NoError(t, err)

			requireSchemaJSON(
				t,
				`{"type":"object","propertyNames":{"type":"string","pattern":"^[a-z]+$"},"additionalProperties":{"type":"number"}}`,
				transform(schema),
			)
		})
	})

	t.Run("will cut off top level undefined", func(t *testing.T) {
		t.Run("if a union has a single other member", func(t *testing.T) {
			schema := data.Union(openapi3.NewStringSchema(), data.Undefined())

			requireSchemaJSON(t, `{"type":"string"}`, transform(schema))
		})

		t.Run("if a union has multiple other members", func(t *testing.T) {
			schema := data.Union(openapi3.NewStringSchema(), openapi3.NewFloat64Schema(), data.Undefined())
			schema.Description = "string or number"

			requireSchemaJSON(
				t,
				`{"anyOf":[{"type":"string"},{"type":"number"}],"description":"string or number"}`,
				transform(schema),
			)
		})

		t.Run("if the schema is nullable", func(t *testing.T) {
			schema := data.Optional(openapi3.NewStringSchema())

			requireSchemaJSON(t, `{"type":"string"}`, transform(schema))
		})
	})

	t.Run("will remove undefined union members at the top level", func(t *testing.T) {
		t.Run("if cut off is disabled", func(t *testing.T) {
			schema := data.Union(openapi3.NewStringSchema(), data.Undefined())

			requireSchemaJSON(t, `{"type":"string"}`, Transform(schema, false, nil, nil))
		})

		t.Run("and use the fallback if no other member is left", func(t *testing.T) {
			schema := data.Union(data.Undefined(), data.Undefined())

			requireSchemaJSON(t, `{"description":"`+FallbackDescription+`"}`, transform(schema))
		})
	})

	t.Run("will keep undefined", func(t *testing.T) {
		t.Run("if cut off is disabled", func(t *testing.T) {
			schema := data.Optional(openapi3.NewStringSchema())

			requireSchemaJSON(t, `{"type":["string","null"]}`, Transform(schema, false, nil, nil))
		})

		t.Run("if the union is not at the top level", func(t *testing.T) {
			schema := data.Object(map[string]*openapi3.Schema{
				"a": data.Union(openapi3.NewStringSchema(), data.Undefined()),
			})

			requireSchemaJSON(
				t,
				`{"type":"object","properties":{"a":{"anyOf":[{"type":"string"},{"type":"null"}]}}}`,
				transform(schema),
			)
		})

		t.Run("if a nullable literal is nested", func(t *testing.T) {
			schema := data.Object(map[string]*openapi3.Schema{
				"a": data.Optional(data.Literal("x")),
			})

			requireSchemaJSON(
				t,
				`{"type":"object","properties":{"a":{"type":["string","null"],"enum":["x",null]}}}`,
				transform(schema),
			)
		})
	})

	t.Run("will add null to nested nullable schemas", func(t *testing.T) {
		t.Run("if the schema is an intersection", func(t *testing.T) {
			a := data.Object(map[string]*openapi3.Schema{"a": openapi3.NewStringSchema()})
			b := data.Object(map[string]*openapi3.Schema{"b": openapi3.NewBoolSchema()})
			schema := data.Object(map[string]*openapi3.Schema{
				"x": data.Optional(data.Intersection(a, b)),
			})

			requireSchemaJSON(
				t,
				`{
					"type":"object",
					"properties":{
						"x":{"anyOf":[
							{"allOf":[
								{"type":"object","properties":{"a":{"type":"string"}},"required":["a"]},
								{"type":"object","properties":{"b":{"type":"boolean"}},"required":["b"]}
							]},
							{"type":"null"}
						]}
					}
				}`,
				transform(schema),
			)
		})

		t.Run("if the schema is a one of", func(t *testing.T) {
			inner := &openapi3.Schema{
				OneOf:    openapi3.SchemaRefs{openapi3.NewStringSchema().NewRef(), openapi3.NewBoolSchema().NewRef()},
				Nullable: true,
			}
			schema := data.Object(map[string]*openapi3.Schema{"x": inner})

			requireSchemaJSON(
				t,
				`{
					"type":"object",
					"properties":{
						"x":{"anyOf":[
							{"oneOf":[{"type":"string"},{"type":"boolean"}]},
							{"type":"null"}
						]}
					}
				}`,
				transform(schema),
			)
		})
	})

	t.Run("will copy the description", func(t *testing.T) {
		schema := openapi3.NewStringSchema()
		schema.Description = "name of the pet"

		requireSchemaJSON(t, `{"type":"string","description":"name of the pet"}`, transform(schema))
	})

	t.Run("will use the override", func(t *testing.T) {
		t.Run("if it returns a value", func(t *testing.T) {
			overridden := boolSchema(true)
			var seen []*openapi3.Schema
			override := func(schema *openapi3.Schema, cutOff bool) *jsg.SchemaOrBool {
				seen = append(seen, schema)
				return &overridden
			}

			schema := openapi3.NewStringSchema()
			out := Transform(schema, true, override, nil)
			requireSchemaJSON(t, `true`, out)
			require.Equal(t, []*openapi3.Schema{schema}, seen)
		})

		t.Run("if it returns a value for a nested schema", func(t *testing.T) {
			name := openapi3.NewStringSchema()
			override := func(schema *openapi3.Schema, cutOff bool) *jsg.SchemaOrBool {
				if schema != name {
					return nil
				}
				s := (&jsg.Schema{}).WithTitle("Name").ToSchemaOrBool()
				return &s
			}

			schema := data.Object(map[string]*openapi3.Schema{"name": name})
			requireSchemaJSON(
				t,
				`{"type":"object","properties":{"name":{"title":"Name"}},"required":["name"]}`,
				Transform(schema, true, override, nil),
			)
		})
	})

	t.Run("will use the fallback value", func(t *testing.T) {
		t.Run("if the schema is nil", func(t *testing.T) {
			requireSchemaJSON(t, `{"description":"`+FallbackDescription+`"}`, transform(nil))
		})

		t.Run("if a reference is unresolved", func(t *testing.T) {
			schema := openapi3.NewArraySchema()
			schema.Items = &openapi3.SchemaRef{Ref: "#/components/schemas/Missing"}

			var seen []*openapi3.Schema
			fallback := func(s *openapi3.Schema) jsg.SchemaOrBool {
				seen = append(seen, s)
				return boolSchema(false)
			}

			requireSchemaJSON(t, `false`, Transform(schema, true, nil, fallback))
			require.Equal(t, []*openapi3.Schema{schema}, seen)
		})

		t.Run("unless the override returns a value", func(t *testing.T) {
			overridden := boolSchema(true)
			override := func(*openapi3.Schema, bool) *jsg.SchemaOrBool {
				return &overridden
			}

			requireSchemaJSON(t, `true`, Transform(nil, true, override, nil))
		})
	})

	t.Run("will reference recursive schemas", func(t *testing.T) {
		node := openapi3.NewObjectSchema()
		node.Properties["children"] = &openapi3.SchemaRef{
			Value: openapi3.NewArraySchema(),
		}
		node.Properties["children"].Value.Items = &openapi3.SchemaRef{
			Ref:   "#/components/schemas/Node",
			Value: node,
		}

		requireSchemaJSON(
			t,
			`{"type":"object","properties":{"children":{"type":"array","items":{"$ref":"#/components/schemas/Node"}}}}`,
			transform(node),
		)
	})
}

func TestUndefinedPossibility(t *testing.T) {
	t.Run("will return UndefinedOnly", func(t *testing.T) {
		t.Run("if the schema only accepts absent values", func(t *testing.T) {
			require.Equal(t, UndefinedOnly, UndefinedPossibility(data.Undefined()))
		})
	})

	t.Run("will return UndefinedAccepted", func(t *testing.T) {
		t.Run("if the schema is a union with undefined", func(t *testing.T) {
			schema := data.Union(openapi3.NewStringSchema(), data.Undefined())
			require.Equal(t, UndefinedAccepted, UndefinedPossibility(schema))
		})

		t.Run("if the schema accepts everything", func(t *testing.T) {
			require.Equal(t, UndefinedAccepted, UndefinedPossibility(data.Unknown()))
		})
	})

	t.Run("will return UndefinedRejected", func(t *testing.T) {
		t.Run("if the schema is not nullable", func(t *testing.T) {
			require.Equal(t, UndefinedRejected, UndefinedPossibility(openapi3.NewStringSchema()))
		})

		t.Run("if the schema rejects everything", func(t *testing.T) {
			require.Equal(t, UndefinedRejected, UndefinedPossibility(data.Never()))
		})
	})
}
