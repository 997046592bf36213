// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"regexp"
	"testing"

	"github.com/z5labs/kinrest/backend"
	"github.com/z5labs/kinrest/data"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
)

func stringParam(name string, re *regexp.Regexp) backend.AnyURLParameter {
	return backend.URLParameter(name, data.NewDecoder[string](openapi3.NewStringSchema()), re)
}

func TestBasePath(t *testing.T) {
	t.Run("creates a path with single segment", func(t *testing.T) {
		path := BasePath("/api")
		assert.Equal(t, "/api", path.String())
	})
}

func TestPath_Segment(t *testing.T) {
	t.Run("appends multiple segments", func(t *testing.T) {
		path := BasePath("/api").Segment("v1").Segment("users")
		assert.Equal(t, "/api/v1/users", path.String())
	})

	t.Run("handles segments with slashes", func(t *testing.T) {
		path := BasePath("/api").Segment("users/profile")
		assert.Equal(t, "/api/users/profile", path.String())
	})
}

func TestPath_Param(t *testing.T) {
	t.Run("formats parameters with braces", func(t *testing.T) {
		path := BasePath("/users").Param(stringParam("userId", nil)).Segment("posts").Param(stringParam("postId", nil))
		assert.Equal(t, "/users/{userId}/posts/{postId}", path.String())
		assert.Equal(t, "/users/{userId}/posts/{postId}", path.route())
	})

	t.Run("embeds a custom regexp in the route only", func(t *testing.T) {
		path := BasePath("/notes").Param(stringParam("id", regexp.MustCompile(`[0-9]+`)))
		assert.Equal(t, "/notes/{id}", path.String())
		assert.Equal(t, "/notes/{id:[0-9]+}", path.route())
	})

	t.Run("lists every parameter in order", func(t *testing.T) {
		a := stringParam("a", nil)
		b := stringParam("b", nil)
		path := BasePath("/x").Param(a).Segment("y").Param(b)

		params := path.params()
		if !assert.Len(t, params, 2) {
			return
		}
		assert.Equal(t, "a", params[0].URLParameterName())
		assert.Equal(t, "b", params[1].URLParameterName())
	})
}

func TestPath_String(t *testing.T) {
	t.Run("formats empty path", func(t *testing.T) {
		var path Path
		assert.Equal(t, "", path.String())
	})
}
