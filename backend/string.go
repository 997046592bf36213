// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package backend

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/z5labs/kinrest/data"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
)

// StringDecoderMetadata describes a single string valued item,
// e.g. a query parameter or a request header.
type StringDecoderMetadata struct {
	Required bool
	Decoder  data.AnyDecoder
}

// StringDecoderSpec validates a set of named string valued items.
type StringDecoderSpec struct {
	// ItemName is the human friendly kind of item, e.g. "Header".
	ItemName   string
	Validators map[string]data.Validator[[]string, any]
	Metadata   map[string]StringDecoderMetadata
}

// StringDecoder creates a [StringDecoderSpec] for the given decoders. An item is
// required if its decoder rejects absent values. Required items which are
// absent fail with a message like:
//
//	Header "X-Request-Id" is mandatory.
func StringDecoder(validation map[string]data.AnyDecoder, itemName string) StringDecoderSpec {
	spec := StringDecoderSpec{
		ItemName:   itemName,
		Validators: make(map[string]data.Validator[[]string, any], len(validation)),
		Metadata:   make(map[string]StringDecoderMetadata, len(validation)),
	}
	for name, d := range validation {
		required := data.Required(d.Schema())
		spec.Metadata[name] = StringDecoderMetadata{
			Required: required,
			Decoder:  d,
		}
		spec.Validators[name] = stringDecoderValidator(name, itemName, required, d)
	}
	return spec
}

func stringDecoderValidator(name, itemName string, required bool, d data.AnyDecoder) data.Validator[[]string, any] {
	validate := data.PlainDecoder(d)
	return func(values []string) (any, error) {
		if len(values) == 0 {
			if required {
				return nil, mandatory(itemName, name)
			}
			_, err := validate(nil)
			return nil, err
		}
		return validate(coerce(d.Schema(), values))
	}
}

func coerce(schema *openapi3.Schema, values []string) any {
	if len(values) == 1 {
		return data.CoerceString(schema, values[0])
	}
	if schema != nil && schema.Type == openapi3.TypeArray && schema.Items != nil {
		return data.CoerceStrings(schema.Items.Value, values)
	}
	return data.CoerceStrings(schema, values)
}

func mandatory(itemName, name string) error {
	return data.ExceptionAsValidationError(fmt.Sprintf(`%s "%s" is mandatory.`, itemName, name))
}

// Names returns the sorted item names.
func (s StringDecoderSpec) Names() []string {
	return sortedKeys(s.Metadata)
}

// Validate runs every validator against the values returned by lookup.
// All failures are collected into a single [data.ValidationError].
// Absent optional items are omitted from the result.
func (s StringDecoderSpec) Validate(lookup func(name string) []string) (map[string]any, error) {
	out := make(map[string]any, len(s.Validators))
	var infos []error
	for _, name := range s.Names() {
		v, err := s.Validators[name](lookup(name))
		if err != nil {
			infos = append(infos, err)
			continue
		}
		if v != nil {
			out[name] = v
		}
	}
	if len(infos) > 0 {
		return nil, data.NewValidationError(infos...)
	}
	return out, nil
}

// StringEncoderMetadata describes a single string valued output item,
// e.g. a response header.
type StringEncoderMetadata struct {
	Required bool
	Encoder  data.AnyEncoder
}

// StringEncoderSpec validates and serializes a set of named string valued items.
type StringEncoderSpec struct {
	ItemName   string
	Validators map[string]data.Validator[any, []string]
	Metadata   map[string]StringEncoderMetadata
}

// StringEncoder creates a [StringEncoderSpec] for the given encoders.
func StringEncoder(validation map[string]data.AnyEncoder, itemName string) StringEncoderSpec {
	spec := StringEncoderSpec{
		ItemName:   itemName,
		Validators: make(map[string]data.Validator[any, []string], len(validation)),
		Metadata:   make(map[string]StringEncoderMetadata, len(validation)),
	}
	for name, e := range validation {
		required := data.Required(e.Schema())
		spec.Metadata[name] = StringEncoderMetadata{
			Required: required,
			Encoder:  e,
		}
		spec.Validators[name] = stringEncoderValidator(name, itemName, required, e)
	}
	return spec
}

func stringEncoderValidator(name, itemName string, required bool, e data.AnyEncoder) data.Validator[any, []string] {
	validate := data.PlainEncoder(e)
	return func(v any) ([]string, error) {
		if v == nil && required {
			return nil, mandatory(itemName, name)
		}

		encoded, err := validate(v)
		if err != nil {
			return nil, err
		}
		return FormatStrings(encoded)
	}
}

// FormatStrings renders a JSON value in its string form, as used in
// URLs, query strings and headers. Arrays yield one string per item.
func FormatStrings(v any) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		ss := make([]string, 0, len(x))
		for _, item := range x {
			s, err := formatString(item)
			if err != nil {
				return nil, err
			}
			ss = append(ss, s)
		}
		return ss, nil
	default:
		s, err := formatString(x)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
}

func formatString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		b, err := json.Marshal(x)
		return string(b), err
	}
}

// Names returns the sorted item names.
func (s StringEncoderSpec) Names() []string {
	return sortedKeys(s.Metadata)
}

// Validate runs every validator against the given values and returns
// the serialized values of every present item.
func (s StringEncoderSpec) Validate(values map[string]any) (map[string][]string, error) {
	out := make(map[string][]string, len(s.Validators))
	var infos []error
	for _, name := range s.Names() {
		ss, err := s.Validators[name](values[name])
		if err != nil {
			infos = append(infos, err)
			continue
		}
		if len(ss) > 0 {
			out[name] = ss
		}
	}
	if len(infos) > 0 {
		return nil, data.NewValidationError(infos...)
	}
	return out, nil
}

// Query creates the [StringDecoderSpec] for query parameters.
func Query(validation map[string]data.AnyDecoder) StringDecoderSpec {
	return StringDecoder(validation, "Query parameter")
}

// RequestHeaders creates the [StringDecoderSpec] for request headers.
func RequestHeaders(validation map[string]data.AnyDecoder) StringDecoderSpec {
	return StringDecoder(validation, "Header")
}

// ResponseHeaders creates the [StringEncoderSpec] for response headers.
func ResponseHeaders(validation map[string]data.AnyEncoder) StringEncoderSpec {
	return StringEncoder(validation, "Header")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
