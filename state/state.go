// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package state validates the request state, e.g. the authenticated
// user, which endpoints declare as a requirement.
package state

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/z5labs/kinrest/data"
)

// PropertyValidation describes a single state property.
type PropertyValidation struct {
	Decoder data.AnyDecoder

	// IsAuthenticated marks properties which are only present for
	// authenticated requests. Failing to validate any of them results
	// in a 401 response instead of a generic error.
	IsAuthenticated bool
}

// FullValidationInfo merges the decoders of authenticated and other
// properties into a single validation map. Authenticated properties
// take precedence on name clashes.
func FullValidationInfo(authenticated, other map[string]data.AnyDecoder) map[string]PropertyValidation {
	validation := make(map[string]PropertyValidation, len(authenticated)+len(other))
	for name, d := range other {
		validation[name] = PropertyValidation{Decoder: d}
	}
	for name, d := range authenticated {
		validation[name] = PropertyValidation{Decoder: d, IsAuthenticated: true}
	}
	return validation
}

// UnknownPropertyError is returned by [ValidatorFactory.Build] when
// a requested property has no validation.
type UnknownPropertyError struct {
	Key string
}

// Error implements the [error] interface.
func (e UnknownPropertyError) Error() string {
	return fmt.Sprintf(`The given key "%s" is not part of the state validation.`, e.Key)
}

// NonBooleanValueError is returned by [ValidatorFactory.Build] when
// a requested property is not marked with a boolean.
type NonBooleanValueError struct {
	Key   string
	Value any
}

// Error implements the [error] interface.
func (e NonBooleanValueError) Error() string {
	return fmt.Sprintf(`The given key "%s" should contain boolean as value.`, e.Key)
}

// StateValidationError is returned by a [Spec] validator when the state
// does not satisfy the requested properties.
type StateValidationError struct {
	data.ValidationError

	// ErroneousProperties are the unique names of every property
	// which failed validation.
	ErroneousProperties []string
}

// Unwrap allows [errors.As] to match the embedded [data.ValidationError].
func (e *StateValidationError) Unwrap() []error {
	return []error{&e.ValidationError}
}

// Spec is the state requirement of a single endpoint.
type Spec struct {
	// StateInfo lists the names of every requested property.
	StateInfo []string

	Validator data.Validator[map[string]any, map[string]any]
}

// ValidatorFactory builds [Spec]s from a shared set of property validations.
type ValidatorFactory struct {
	validation map[string]PropertyValidation
}

// NewValidatorFactory initializes a [ValidatorFactory].
func NewValidatorFactory(validation map[string]PropertyValidation) ValidatorFactory {
	return ValidatorFactory{validation: validation}
}

// Build creates the [Spec] for the given requirement. Each key of spec
// names a property and maps to true if it is mandatory or false if
// it is optional.
func (f ValidatorFactory) Build(spec map[string]any) (Spec, error) {
	keys := make([]string, 0, len(spec))
	for key := range spec {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	props := make([]property, 0, len(keys))
	for _, key := range keys {
		v, ok := f.validation[key]
		if !ok {
			return Spec{}, UnknownPropertyError{Key: key}
		}
		mandatory, ok := spec[key].(bool)
		if !ok {
			return Spec{}, NonBooleanValueError{Key: key, Value: spec[key]}
		}
		props = append(props, property{
			name:      key,
			mandatory: mandatory,
			auth:      v.IsAuthenticated,
			validate:  data.PlainDecoder(v.Decoder),
		})
	}

	return Spec{
		StateInfo: keys,
		Validator: validator(props),
	}, nil
}

// MustBuild is like [ValidatorFactory.Build] but panics on error.
func (f ValidatorFactory) MustBuild(spec map[string]any) Spec {
	s, err := f.Build(spec)
	if err != nil {
		panic(err)
	}
	return s
}

type property struct {
	name      string
	mandatory bool
	auth      bool
	validate  data.Validator[any, any]
}

func validator(props []property) data.Validator[map[string]any, map[string]any] {
	return func(in map[string]any) (map[string]any, error) {
		out := make(map[string]any, len(props))
		var (
			infos     []error
			erroneous []string
			authError bool
		)
		for _, p := range props {
			raw := in[p.name]
			if raw == nil && !p.mandatory {
				continue
			}

			v, err := p.validate(raw)
			if err != nil {
				infos = append(infos, fmt.Errorf("%s: %w", p.name, err))
				erroneous = append(erroneous, p.name)
				authError = authError || p.auth
				continue
			}
			if v != nil {
				out[p.name] = v
			}
		}
		if authError {
			return nil, &data.ProtocolError{StatusCode: http.StatusUnauthorized}
		}
		if len(infos) > 0 {
			return nil, &StateValidationError{
				ValidationError:     data.ValidationError{Info: infos},
				ErroneousProperties: erroneous,
			}
		}
		return out, nil
	}
}
