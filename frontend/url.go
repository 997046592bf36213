// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package frontend

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/z5labs/kinrest/backend"
	"github.com/z5labs/kinrest/data"
)

// URLParameter is a named parameter of a [URLTemplate].
type URLParameter struct {
	Name    string
	Decoder data.AnyDecoder
}

// URLParam creates a [URLParameter] whose values are validated with d.
func URLParam(name string, d data.AnyDecoder) URLParameter {
	return URLParameter{Name: name, Decoder: d}
}

// URLTemplate is a URL made of static strings and parameters.
type URLTemplate struct {
	parts []any
}

// URL creates a [URLTemplate] from the given parts. Each part must be
// either a string or a [URLParameter], otherwise URL panics.
func URL(parts ...any) URLTemplate {
	for _, part := range parts {
		switch part.(type) {
		case string, URLParameter:
		default:
			panic(fmt.Sprintf("frontend: unsupported url part type %T", part))
		}
	}
	return URLTemplate{parts: parts}
}

// Static returns the URL if it does not have any parameters.
func (u URLTemplate) Static() (string, bool) {
	var sb strings.Builder
	for _, part := range u.parts {
		s, ok := part.(string)
		if !ok {
			return "", false
		}
		sb.WriteString(s)
	}
	return sb.String(), true
}

// Params returns the names of every parameter in the URL.
func (u URLTemplate) Params() []string {
	var names []string
	for _, part := range u.parts {
		if p, ok := part.(URLParameter); ok {
			names = append(names, p.Name)
		}
	}
	return names
}

// Build validates the given parameter values and substitutes them into the URL.
func (u URLTemplate) Build(params map[string]any) (string, error) {
	var (
		sb    strings.Builder
		infos []error
	)
	for _, part := range u.parts {
		switch x := part.(type) {
		case string:
			sb.WriteString(x)
		case URLParameter:
			v, err := data.PlainDecoder(x.Decoder)(params[x.Name])
			if err != nil {
				infos = append(infos, fmt.Errorf("%s: %w", x.Name, err))
				continue
			}
			s, err := formatValue(v)
			if err != nil {
				return "", err
			}
			sb.WriteString(url.PathEscape(s))
		}
	}
	if len(infos) > 0 {
		return "", data.NewValidationError(infos...)
	}
	return sb.String(), nil
}

func formatValue(v any) (string, error) {
	jv, err := data.ToJSONValue(v)
	if err != nil {
		return "", err
	}

	ss, err := backend.FormatStrings(jv)
	if err != nil || len(ss) == 0 {
		return "", err
	}
	return strings.Join(ss, ","), nil
}
