// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package state

import (
	"net/http"
	"testing"

	"github.com/z5labs/kinrest/data"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"
)

func newFactory() ValidatorFactory {
	return NewValidatorFactory(FullValidationInfo(
		map[string]data.AnyDecoder{
			"userId": data.NewDecoder[string](openapi3.NewStringSchema()),
		},
		map[string]data.AnyDecoder{
			"otherProperty": data.NewDecoder[string](openapi3.NewStringSchema()),
			"requestCount":  data.NewDecoder[int](openapi3.NewIntegerSchema()),
		},
	))
}

func TestValidatorFactory_Build(t *testing.T) {
	t.Run("will return an UnknownPropertyError", func(t *testing.T) {
		t.Run("if a key is not part of the state validation", func(t *testing.T) {
			_, err := newFactory().Build(map[string]any{"notUserId": true})

			var uerr UnknownPropertyError
			require.ErrorAs(t, err, &uerr)
			require.Equal(t, `The given key "notUserId" is not part of the state validation.`, err.Error())
		})
	})

	t.Run("will return a NonBooleanValueError", func(t *testing.T) {
		t.Run("if a key is not mapped to a boolean", func(t *testing.T) {
			_, err := newFactory().Build(map[string]any{"userId": "somethingElse"})

			var berr NonBooleanValueError
			require.ErrorAs(t, err, &berr)
			require.Equal(t, `The given key "userId" should contain boolean as value.`, err.Error())
		})
	})

	t.Run("will list every requested property", func(t *testing.T) {
		spec, err := newFactory().Build(map[string]any{"userId": true, "otherProperty": false})
		require.NoError(t, err)
		require.Equal(t, []string{"otherProperty", "userId"}, spec.StateInfo)
	})
}

func TestValidatorFactory_MustBuild(t *testing.T) {
	t.Run("will panic", func(t *testing.T) {
		t.Run("if the spec is invalid", func(t *testing.T) {
			require.PanicsWithError(t, `The given key "notUserId" is not part of the state validation.`, func() {
				newFactory().MustBuild(map[string]any{"notUserId": true})
			})
		})
	})
}

func TestSpec_Validator(t *testing.T) {
	t.Run("will return the validated state", func(t *testing.T) {
		t.Run("if every mandatory property is valid", func(t *testing.T) {
			spec := newFactory().MustBuild(map[string]any{"userId": true})

			out, err := spec.Validator(map[string]any{"userId": "userId"})
			require.NoError(t, err)
			require.Equal(t, map[string]any{"userId": "userId"}, out)
		})

		t.Run("if an optional property is absent", func(t *testing.T) {
			spec := newFactory().MustBuild(map[string]any{"userId": true, "otherProperty": false})

			out, err := spec.Validator(map[string]any{"userId": "userId"})
			require.NoError(t, err)
			require.Equal(t, map[string]any{"userId": "userId"}, out)
		})

		t.Run("if the state contains properties which were not requested", func(t *testing.T) {
			spec := newFactory().MustBuild(map[string]any{"otherProperty": true})

			out, err := spec.Validator(map[string]any{
				"otherProperty": "otherProperty",
				"userId":        "userId",
			})
			require.NoError(t, err)
			require.Equal(t, map[string]any{"otherProperty": "otherProperty"}, out)
		})
	})

	t.Run("will return a 401 ProtocolError", func(t *testing.T) {
		t.Run("if an authenticated property is invalid", func(t *testing.T) {
			spec := newFactory().MustBuild(map[string]any{"userId": true})

			_, err := spec.Validator(map[string]any{"userId": 42})

			var perr *data.ProtocolError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, http.StatusUnauthorized, perr.StatusCode)
			require.Nil(t, perr.Body)
		})

		t.Run("if a mandatory authenticated property is missing", func(t *testing.T) {
			spec := newFactory().MustBuild(map[string]any{"userId": true, "otherProperty": true})

			_, err := spec.Validator(map[string]any{"otherProperty": 42})

			var perr *data.ProtocolError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, http.StatusUnauthorized, perr.StatusCode)
		})
	})

	t.Run("will return a StateValidationError", func(t *testing.T) {
		t.Run("if a non-authenticated property is invalid", func(t *testing.T) {
			spec := newFactory().MustBuild(map[string]any{"otherProperty": true, "requestCount": true})

			_, err := spec.Validator(map[string]any{"otherProperty": 42, "requestCount": "many"})

			var serr *StateValidationError
			require.ErrorAs(t, err, &serr)
			require.Equal(t, []string{"otherProperty", "requestCount"}, serr.ErroneousProperties)
			require.Len(t, serr.Info, 2)

			var verr *data.ValidationError
			require.ErrorAs(t, err, &verr)
		})

		t.Run("if a mandatory property is missing", func(t *testing.T) {
			spec := newFactory().MustBuild(map[string]any{"otherProperty": true})

			_, err := spec.Validator(nil)

			var serr *StateValidationError
			require.ErrorAs(t, err, &serr)
			require.Equal(t, []string{"otherProperty"}, serr.ErroneousProperties)
		})
	})
}
