// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package jsonschema

import (
	"slices"

	"github.com/z5labs/kinrest/data"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
	jsg "github.com/swaggest/jsonschema-go"
)

// FallbackDescription is the description of the schema returned by
// [DefaultFallbackValue].
const FallbackDescription = "This is fallback value for when JSON schema could not be generated from type validation object."

// Override may replace the generated JSON Schema of any schema
// encountered during a [Transform]. Returning nil keeps the generated one.
type Override func(schema *openapi3.Schema, cutOffTopLevelUndefined bool) *jsg.SchemaOrBool

// FallbackValue provides the JSON Schema for schemas which can not be
// transformed, e.g. nil schemas or unresolved references.
type FallbackValue func(schema *openapi3.Schema) jsg.SchemaOrBool

// DefaultFallbackValue returns a [FallbackValue] which always
// returns a schema only carrying [FallbackDescription].
func DefaultFallbackValue() FallbackValue {
	return func(*openapi3.Schema) jsg.SchemaOrBool {
		return (&jsg.Schema{}).WithDescription(FallbackDescription).ToSchemaOrBool()
	}
}

// Transform converts the given schema into its JSON Schema form.
//
// Members of a top level union which only accept absent values are always
// left out of the result. If every member does, the result comes from the
// [FallbackValue]. If cutOffTopLevelUndefined is set, a nullable top level
// schema also loses its "null" type.
func Transform(schema *openapi3.Schema, cutOffTopLevelUndefined bool, override Override, fallback FallbackValue) jsg.SchemaOrBool {
	if fallback == nil {
		fallback = DefaultFallbackValue()
	}

	t := &transformer{
		cutOff:   cutOffTopLevelUndefined,
		override: override,
		fallback: fallback,
		active:   make(map[*openapi3.Schema]struct{}),
	}
	return t.transform(schema, true)
}

type transformer struct {
	cutOff   bool
	override Override
	fallback FallbackValue

	// schemas currently being transformed, used to detect cycles
	active map[*openapi3.Schema]struct{}
}

func (t *transformer) transform(schema *openapi3.Schema, topLevel bool) jsg.SchemaOrBool {
	if t.override != nil {
		if v := t.override(schema, t.cutOff); v != nil {
			return *v
		}
	}

	out, ok := t.convert(schema, topLevel)
	if !ok {
		return t.fallback(schema)
	}
	if schema.Description != "" && out.TypeObject != nil && out.TypeObject.Description == nil {
		out.TypeObject.WithDescription(schema.Description)
	}
	return out
}

func (t *transformer) ref(ref *openapi3.SchemaRef) jsg.SchemaOrBool {
	if ref == nil || ref.Value == nil {
		return t.fallback(nil)
	}
	if _, cyclic := t.active[ref.Value]; cyclic {
		if ref.Ref != "" {
			return (&jsg.Schema{}).WithRef(ref.Ref).ToSchemaOrBool()
		}
		return boolSchema(true)
	}
	return t.transform(ref.Value, false)
}

func (t *transformer) convert(schema *openapi3.Schema, topLevel bool) (jsg.SchemaOrBool, bool) {
	switch {
	case schema == nil:
		return jsg.SchemaOrBool{}, false
	case isUnknown(schema):
		return boolSchema(true), true
	case isUndefined(schema):
		return jsg.Null.ToSchemaOrBool(), true
	case isNever(schema):
		return boolSchema(false), true
	}
	if !resolved(schema) {
		return jsg.SchemaOrBool{}, false
	}

	t.active[schema] = struct{}{}
	defer delete(t.active, schema)

	if topLevel {
		if out, ok := t.cutOffUnion(schema); ok {
			return out, true
		}
	}
	if topLevel && t.cutOff && schema.Nullable {
		c := *schema
		c.Nullable = false
		schema = &c
	}

	out := &jsg.Schema{}
	t.convertComposition(out, schema)
	convertScalar(out, schema)
	t.convertArray(out, schema)
	t.convertObject(out, schema)

	if schema.Nullable {
		addNull(out)
	}
	return out.ToSchemaOrBool(), true
}

func (t *transformer) cutOffUnion(schema *openapi3.Schema) (jsg.SchemaOrBool, bool) {
	members, oneOf := schema.AnyOf, false
	if len(members) == 0 {
		members, oneOf = schema.OneOf, true
	}
	if len(members) == 0 {
		return jsg.SchemaOrBool{}, false
	}

	var kept openapi3.SchemaRefs
	for _, member := range members {
		if UndefinedPossibility(member.Value) != UndefinedOnly {
			kept = append(kept, member)
		}
	}
	switch len(kept) {
	case len(members):
		return jsg.SchemaOrBool{}, false
	case 0:
		return t.transform(nil, false), true
	case 1:
		return t.ref(kept[0]), true
	}

	union := &openapi3.Schema{Description: schema.Description}
	if oneOf {
		union.OneOf = kept
	} else {
		union.AnyOf = kept
	}
	return t.transform(union, false), true
}

func (t *transformer) convertComposition(out *jsg.Schema, schema *openapi3.Schema) {
	if len(schema.AnyOf) > 0 {
		members := flattenUnion(schema.AnyOf)
		if values, typ, ok := literalUnion(members); ok {
			out.Enum = values
			if typ != "" {
				out.WithType(jsg.SimpleType(typ).Type())
			}
		} else {
			out.AnyOf = t.refs(members)
		}
	}
	if len(schema.OneOf) > 0 {
		out.OneOf = t.refs(schema.OneOf)
	}
	if len(schema.AllOf) > 0 {
		out.AllOf = t.refs(schema.AllOf)
	}
	if schema.Not != nil {
		out.WithNot(t.ref(schema.Not))
	}
}

func (t *transformer) refs(refs openapi3.SchemaRefs) []jsg.SchemaOrBool {
	out := make([]jsg.SchemaOrBool, 0, len(refs))
	for _, ref := range refs {
		out = append(out, t.ref(ref))
	}
	return out
}

func flattenUnion(members openapi3.SchemaRefs) openapi3.SchemaRefs {
	var flat openapi3.SchemaRefs
	for _, member := range members {
		if isPlainUnion(member.Value) {
			flat = append(flat, flattenUnion(member.Value.AnyOf)...)
			continue
		}
		flat = append(flat, member)
	}
	return flat
}

func isPlainUnion(schema *openapi3.Schema) bool {
	if schema == nil || len(schema.AnyOf) == 0 || schema.Nullable {
		return false
	}
	c := *schema
	c.AnyOf = nil
	c.Description = ""
	return isUnknown(&c)
}

// literalUnion collects the values of a union made up of literals only.
// The returned type is empty if the literals have different types.
func literalUnion(members openapi3.SchemaRefs) ([]any, string, bool) {
	values := make([]any, 0, len(members))
	typ := ""
	for i, member := range members {
		lit := member.Value
		if lit == nil || len(lit.Enum) != 1 || lit.Nullable || len(lit.AnyOf)+len(lit.OneOf)+len(lit.AllOf) > 0 || lit.Not != nil {
			return nil, "", false
		}
		switch {
		case i == 0:
			typ = lit.Type
		case typ != lit.Type:
			typ = ""
		}
		values = append(values, lit.Enum[0])
	}
	return values, typ, true
}

func convertScalar(out *jsg.Schema, schema *openapi3.Schema) {
	if schema.Type != "" {
		out.WithType(jsg.SimpleType(schema.Type).Type())
	}
	switch len(schema.Enum) {
	case 0:
	case 1:
		out.WithConst(schema.Enum[0])
	default:
		out.WithEnum(schema.Enum...)
	}

	if schema.Title != "" {
		out.WithTitle(schema.Title)
	}
	if schema.Format != "" {
		out.WithFormat(schema.Format)
	}
	if schema.Default != nil {
		out.WithDefault(schema.Default)
	}
	if schema.Example != nil {
		out.WithExamples(schema.Example)
	}
	if schema.Deprecated {
		out.WithDeprecated(true)
	}
	if schema.ReadOnly {
		out.WithReadOnly(true)
	}
	if schema.WriteOnly {
		out.WithWriteOnly(true)
	}

	if schema.Min != nil {
		if schema.ExclusiveMin {
			out.WithExclusiveMinimum(*schema.Min)
		} else {
			out.WithMinimum(*schema.Min)
		}
	}
	if schema.Max != nil {
		if schema.ExclusiveMax {
			out.WithExclusiveMaximum(*schema.Max)
		} else {
			out.WithMaximum(*schema.Max)
		}
	}
	if schema.MultipleOf != nil {
		out.WithMultipleOf(*schema.MultipleOf)
	}

	if schema.MinLength > 0 {
		out.WithMinLength(int64(schema.MinLength))
	}
	if schema.MaxLength != nil {
		out.WithMaxLength(int64(*schema.MaxLength))
	}
	if schema.Pattern != "" {
		out.WithPattern(schema.Pattern)
	}
}

func (t *transformer) convertArray(out *jsg.Schema, schema *openapi3.Schema) {
	if schema.Items != nil {
		out.WithItems(*(&jsg.Items{}).WithSchemaOrBool(t.ref(schema.Items)))
	}
	if schema.MinItems > 0 {
		out.WithMinItems(int64(schema.MinItems))
	}
	if schema.MaxItems != nil {
		out.WithMaxItems(int64(*schema.MaxItems))
	}
	if schema.UniqueItems {
		out.WithUniqueItems(true)
	}
}

func (t *transformer) convertObject(out *jsg.Schema, schema *openapi3.Schema) {
	if len(schema.Properties) > 0 {
		out.Properties = make(map[string]jsg.SchemaOrBool, len(schema.Properties))
		for name, prop := range schema.Properties {
			out.Properties[name] = t.ref(prop)
		}
	}
	if len(schema.Required) > 0 {
		required := slices.Clone(schema.Required)
		slices.Sort(required)
		out.WithRequired(required...)
	}

	addProps := schema.AdditionalProperties
	switch {
	case addProps.Has != nil && !*addProps.Has:
		out.WithAdditionalProperties(boolSchema(false))
		out.WithMinProperties(int64(len(schema.Required)))
		out.WithMaxProperties(int64(len(schema.Properties)))
	case addProps.Schema != nil:
		out.WithAdditionalProperties(t.ref(addProps.Schema))
		if keys := propertyNames(schema); keys != nil {
			out.WithPropertyNames(t.transform(keys, false))
		}
	}

	if schema.MinProps > 0 {
		out.WithMinProperties(int64(schema.MinProps))
	}
	if schema.MaxProps != nil {
		out.WithMaxProperties(int64(*schema.MaxProps))
	}
}

// propertyNames returns the key schema stored by [data.Record]. Schemas
// loaded from documents carry the extension in its decoded JSON form.
func propertyNames(schema *openapi3.Schema) *openapi3.Schema {
	ext, ok := schema.Extensions[data.PropertyNamesExtension]
	if !ok || ext == nil {
		return nil
	}
	if keys, ok := ext.(*openapi3.Schema); ok {
		return keys
	}

	b, err := json.Marshal(ext)
	if err != nil {
		return nil
	}
	var keys openapi3.Schema
	err = json.Unmarshal(b, &keys)
	if err != nil {
		return nil
	}
	return &keys
}

func addNull(out *jsg.Schema) {
	switch {
	case out.Const != nil:
		out.Enum = []any{*out.Const, nil}
		out.Const = nil
	case out.Enum != nil:
		out.Enum = append(out.Enum, nil)
	}

	if out.Type != nil {
		out.AddType(jsg.Null)
		return
	}
	if out.Enum != nil {
		return
	}
	if len(out.AllOf) > 0 || len(out.OneOf) > 0 || out.Not != nil {
		wrapNull(out)
		return
	}
	if out.AnyOf == nil {
		return
	}
	for _, member := range out.AnyOf {
		if member.TypeObject != nil && member.TypeObject.HasType(jsg.Null) {
			return
		}
	}
	out.AnyOf = append(out.AnyOf, jsg.Null.ToSchemaOrBool())
}

// wrapNull turns out into an anyOf of its previous self and null.
func wrapNull(out *jsg.Schema) {
	inner := *out
	desc := inner.Description
	inner.Description = nil
	*out = jsg.Schema{
		Description: desc,
		AnyOf:       []jsg.SchemaOrBool{inner.ToSchemaOrBool(), jsg.Null.ToSchemaOrBool()},
	}
}

// resolved reports whether every reference directly held by the schema
// has been resolved.
func resolved(schema *openapi3.Schema) bool {
	refs := slices.Concat(schema.AnyOf, schema.OneOf, schema.AllOf)
	if schema.Not != nil {
		refs = append(refs, schema.Not)
	}
	if schema.Items != nil {
		refs = append(refs, schema.Items)
	}
	if schema.AdditionalProperties.Schema != nil {
		refs = append(refs, schema.AdditionalProperties.Schema)
	}
	for _, prop := range schema.Properties {
		refs = append(refs, prop)
	}
	for _, ref := range refs {
		if ref == nil || ref.Value == nil {
			return false
		}
	}
	return true
}

func boolSchema(b bool) jsg.SchemaOrBool {
	return *(&jsg.SchemaOrBool{}).WithTypeBoolean(b)
}
