// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package backend

import (
	"regexp"

	"github.com/z5labs/kinrest/data"
)

const defaultParameterPattern = `[^/]+`

// DefaultParameterRegExp returns the pattern a URL path parameter must
// match when no other pattern is given.
func DefaultParameterRegExp() *regexp.Regexp {
	return regexp.MustCompile(defaultParameterPattern)
}

// IsDefaultParameterRegExp reports whether re is the default URL path parameter pattern.
func IsDefaultParameterRegExp(re *regexp.Regexp) bool {
	return re == nil || re.String() == defaultParameterPattern
}

// AnyURLParameter is implemented by every [URLParameterInfo].
type AnyURLParameter interface {
	URLParameterName() string
	URLParameterRegExp() *regexp.Regexp
	URLParameterDecoder() data.AnyDecoder
	ValidateURLParameter(string) (any, error)
}

// URLParameterInfo describes a single URL path parameter.
type URLParameterInfo[T any] struct {
	Name      string
	Decoder   data.Decoder[T]
	RegExp    *regexp.Regexp
	Validator data.Validator[string, T]
}

// URLParameter creates a [URLParameterInfo]. If re is nil, the value
// of [DefaultParameterRegExp] is used.
//
// The raw path segment is converted into the scalar type of the decoder
// schema before it is validated, see [data.CoerceString].
func URLParameter[T any](name string, d data.Decoder[T], re *regexp.Regexp) URLParameterInfo[T] {
	if re == nil {
		re = DefaultParameterRegExp()
	}

	validate := data.FromDecoder(d)
	return URLParameterInfo[T]{
		Name:    name,
		Decoder: d,
		RegExp:  re,
		Validator: func(s string) (T, error) {
			return validate(data.CoerceString(d.Schema(), s))
		},
	}
}

// URLParameterName implements the [AnyURLParameter] interface.
func (p URLParameterInfo[T]) URLParameterName() string {
	return p.Name
}

// URLParameterRegExp implements the [AnyURLParameter] interface.
func (p URLParameterInfo[T]) URLParameterRegExp() *regexp.Regexp {
	return p.RegExp
}

// URLParameterDecoder implements the [AnyURLParameter] interface.
func (p URLParameterInfo[T]) URLParameterDecoder() data.AnyDecoder {
	return p.Decoder
}

// ValidateURLParameter implements the [AnyURLParameter] interface.
func (p URLParameterInfo[T]) ValidateURLParameter(s string) (any, error) {
	return p.Validator(s)
}
