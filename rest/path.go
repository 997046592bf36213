// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"path"

	"github.com/z5labs/kinrest/backend"
)

// PathElement represents a component of a URL path.
// It can be either a static path segment or a validated path parameter.
type PathElement interface {
	pathElement() string
	routeElement() string
}

// PathSegment is a static component of a URL path.
type PathSegment string

func (s PathSegment) pathElement() string {
	return string(s)
}

func (s PathSegment) routeElement() string {
	return string(s)
}

type pathParam struct {
	param backend.AnyURLParameter
}

// PathParam creates a path element which is decoded and validated
// by the given URL parameter.
func PathParam(p backend.AnyURLParameter) PathElement {
	return pathParam{param: p}
}

func (p pathParam) pathElement() string {
	return "{" + p.param.URLParameterName() + "}"
}

// routeElement embeds the parameter regexp into the chi pattern
// unless it is the default one.
func (p pathParam) routeElement() string {
	re := p.param.URLParameterRegExp()
	if backend.IsDefaultParameterRegExp(re) {
		return p.pathElement()
	}
	return "{" + p.param.URLParameterName() + ":" + re.String() + "}"
}

// Path represents a URL path composed of static segments and parameters.
// Paths are built using [BasePath] and extended with [Path.Segment] and [Path.Param].
type Path []PathElement

// BasePath creates a new path starting with the given segment.
//
//	path := rest.BasePath("/api/v1")
func BasePath(s string) Path {
	return []PathElement{PathSegment(s)}
}

// Segment appends a static path segment to the path.
func (p Path) Segment(s string) Path {
	return append(p, PathSegment(s))
}

// Param appends a path parameter to the path.
//
//	id := backend.URLParameter("id", data.NewDecoder[string](openapi3.NewUUIDSchema()), nil)
//	path := rest.BasePath("/notes").Param(id)
//	// Results in: /notes/{id}
func (p Path) Param(param backend.AnyURLParameter) Path {
	return append(p, PathParam(param))
}

// String returns the path in its OpenAPI form, where every
// parameter is formatted as {name}.
func (p Path) String() string {
	return p.join(PathElement.pathElement)
}

func (p Path) route() string {
	return p.join(PathElement.routeElement)
}

func (p Path) join(f func(PathElement) string) string {
	ss := make([]string, len(p))
	for i, el := range p {
		ss[i] = f(el)
	}
	return path.Join(ss...)
}

func (p Path) params() []backend.AnyURLParameter {
	var params []backend.AnyURLParameter
	for _, el := range p {
		pp, ok := el.(pathParam)
		if !ok {
			continue
		}
		params = append(params, pp.param)
	}
	return params
}
