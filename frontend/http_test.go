// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package frontend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/z5labs/kinrest/data"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestHTTPCallback(t *testing.T) {
	t.Run("will send the request", func(t *testing.T) {
		var (
			gotMethod string
			gotPath   string
			gotQuery  map[string][]string
			gotHeader http.Header
			gotBody   []byte
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			gotQuery = r.URL.Query()
			gotHeader = r.Header.Clone()
			gotBody, _ = io.ReadAll(r.Body)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Request-Id", "abc")
			w.Write([]byte(`{"id":"123"}`))
		}))
		defer srv.Close()

		call := HTTPCallback(srv.URL + "/")

		res, err := call(context.Background(), HTTPInvocationArguments{
			Method:  http.MethodPost,
			URL:     "/notes",
			Query:   map[string]any{"tag": []any{"a", "b"}, "limit": float64(10)},
			Headers: map[string]string{"Authorization": "Bearer token"},
			Body:    map[string]any{"title": "hello"},
		})
		require.NoError(t, err)

		require.Equal(t, http.MethodPost, gotMethod)
		require.Equal(t, "/notes", gotPath)
		require.Equal(t, map[string][]string{"tag": {"a", "b"}, "limit": {"10"}}, gotQuery)
		require.Equal(t, "Bearer token", gotHeader.Get("Authorization"))
		require.Equal(t, "application/json", gotHeader.Get("Content-Type"))
		require.JSONEq(t, `{"title":"hello"}`, string(gotBody))

		require.Equal(t, map[string]any{"id": "123"}, res.Body)
		require.Equal(t, []string{"abc"}, res.Headers["X-Request-Id"])
	})

	t.Run("will not send a body", func(t *testing.T) {
		t.Run("if there is no body argument", func(t *testing.T) {
			var contentLength int64 = -1
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				contentLength = r.ContentLength
				w.WriteHeader(http.StatusNoContent)
			}))
			defer srv.Close()

			res, err := HTTPCallback(srv.URL)(context.Background(), HTTPInvocationArguments{
				Method: http.MethodGet,
				URL:    "/notes",
			})
			require.NoError(t, err)
			require.Nil(t, res.Body)
			require.Equal(t, int64(0), contentLength)
		})
	})

	t.Run("will return a HTTPStatusError", func(t *testing.T) {
		t.Run("if the response status is not 2xx", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"message":"bad"}`))
			}))
			defer srv.Close()

			_, err := HTTPCallback(srv.URL)(context.Background(), HTTPInvocationArguments{
				Method: http.MethodGet,
				URL:    "/notes",
			})

			var serr *HTTPStatusError
			require.ErrorAs(t, err, &serr)
			require.Equal(t, http.StatusBadRequest, serr.StatusCode)
			require.JSONEq(t, `{"message":"bad"}`, string(serr.Body))
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the response is not valid JSON", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{`))
			}))
			defer srv.Close()

			_, err := HTTPCallback(srv.URL)(context.Background(), HTTPInvocationArguments{
				Method: http.MethodGet,
				URL:    "/notes",
			})

			var syntaxErr *json.SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
		})
	})

	t.Run("will support concurrent API calls", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(strconv.Quote(r.URL.Path)))
		}))
		defer srv.Close()

		factory := NewAPICallFactory(HTTPCallback(srv.URL, WithHTTPClient(srv.Client())))
		call, err := MakeAPICall(factory, APICallSpec[string]{
			Method:   http.MethodGet,
			URL:      URL("/notes/", URLParam("id", data.NewDecoder[int](openapi3.NewIntegerSchema()))),
			Response: data.NewDecoder[string](openapi3.NewStringSchema()),
		})
		require.NoError(t, err)

		results := make([]string, 10)
		eg, ctx := errgroup.WithContext(context.Background())
		for i := range results {
			eg.Go(func() error {
				resp, err := call(ctx, CallArgs{URL: map[string]any{"id": i}})
				if err != nil {
					return err
				}
				results[i] = resp
				return nil
			})
		}
		require.NoError(t, eg.Wait())

		for i, resp := range results {
			require.Equal(t, "/notes/"+strconv.Itoa(i), resp)
		}
	})
}
