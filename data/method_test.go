// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package data

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMethod(t *testing.T) {
	methods := []string{
		http.MethodDelete,
		http.MethodGet,
		http.MethodHead,
		http.MethodOptions,
		http.MethodPatch,
		http.MethodPost,
		http.MethodPut,
		http.MethodTrace,
	}

	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			d, ok := Method(method)
			require.True(t, ok)

			t.Run("will accept the exact method", func(t *testing.T) {
				m, err := FromDecoder(d)(method)
				require.NoError(t, err)
				require.Equal(t, method, m)
			})

			t.Run("will reject the method with surrounding whitespace", func(t *testing.T) {
				_, err := FromDecoder(d)(" " + method)
				require.Error(t, err)

				_, err = FromDecoder(d)(method + " ")
				require.Error(t, err)
			})
		})
	}

	t.Run("will not find an unsupported method", func(t *testing.T) {
		_, ok := Method("CONNECT")
		require.False(t, ok)
	})
}

func TestValidateMethod(t *testing.T) {
	t.Run("will return nil", func(t *testing.T) {
		t.Run("if the method is supported", func(t *testing.T) {
			require.NoError(t, ValidateMethod(http.MethodPatch))
		})
	})

	t.Run("will return a ValidationError", func(t *testing.T) {
		t.Run("if the method is lowercase", func(t *testing.T) {
			err := ValidateMethod("get")

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	})
}
