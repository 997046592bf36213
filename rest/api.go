// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"log/slog"
	"net/http"

	"github.com/z5labs/kinrest"
	"github.com/z5labs/kinrest/backend"
	"github.com/z5labs/kinrest/metadata/jsonschema"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/swaggest/openapi-go/openapi3"
)

const instrumentationName = "github.com/z5labs/kinrest/rest"

// StateProviderFunc extracts the raw request state, e.g. the
// authenticated user, which is then validated against the
// state requirements of each endpoint.
type StateProviderFunc func(*http.Request) (map[string]any, error)

// ApiOptions holds configuration values used when constructing an [Api].
type ApiOptions struct {
	mux           *chi.Mux
	def           *openapi3.Spec
	functionality jsonschema.Functionality
	stateProvider StateProviderFunc
	readiness     *probe
	liveness      *probe
	endpoints     []func(*ApiOptions)
}

// ApiOption configures an [Api].
type ApiOption interface {
	ApplyApiOption(*ApiOptions)
}

type apiOptionFunc func(*ApiOptions)

func (f apiOptionFunc) ApplyApiOption(ao *ApiOptions) {
	f(ao)
}

// StateProvider sets the source of request state for endpoints
// which declare a [state.Spec].
func StateProvider(f StateProviderFunc) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.stateProvider = f
	})
}

// SchemaFunctionality overrides how validators are described in the
// OpenAPI document served at /openapi.json.
func SchemaFunctionality(f jsonschema.Functionality) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.functionality = f
	})
}

// NotFound configures a custom handler for requests that don't match any registered routes.
func NotFound(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.NotFound(h.ServeHTTP)
	})
}

// MethodNotAllowed configures a custom handler for requests to registered
// routes with an unsupported HTTP method.
func MethodNotAllowed(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.MethodNotAllowed(h.ServeHTTP)
	})
}

// Api is an OpenAPI-compliant [http.Handler].
//
// Every Api provides:
//   - the OpenAPI 3.0 document at GET /openapi.json
//   - a liveness probe at GET /health/liveness
//   - a readiness probe at GET /health/readiness
//
// Endpoints are registered with [Handle]:
//
//	api := rest.NewApi("Notes", "v1.0.0", rest.Handle(http.MethodGet, path, spec, handler))
type Api struct {
	router    *chi.Mux
	readiness *probe
}

// NewApi creates a new [Api] with the specified title and version.
// Endpoints are registered after every other option has been applied,
// so the order of options does not matter.
func NewApi(title, version string, opts ...ApiOption) *Api {
	log := kinrest.Logger(instrumentationName)

	ao := &ApiOptions{
		mux: chi.NewMux(),
		def: &openapi3.Spec{
			Openapi: "3.0.3",
			Info: openapi3.Info{
				Title:   title,
				Version: version,
			},
		},
		functionality: jsonschema.NewFunctionality(jsonschema.FunctionalityOptions{
			ContentTypes: []string{backend.ContentType},
		}),
		stateProvider: func(*http.Request) (map[string]any, error) {
			return nil, nil
		},
		readiness: &probe{log: log},
		liveness:  &probe{log: log},
	}
	ao.mux.Method(http.MethodGet, "/health/liveness", ao.liveness)
	ao.mux.Method(http.MethodGet, "/health/readiness", ao.readiness)

	for _, opt := range opts {
		opt.ApplyApiOption(ao)
	}
	for _, register := range ao.endpoints {
		register(ao)
	}

	ao.mux.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", backend.ContentType)

		enc := json.NewEncoder(w)
		err := enc.Encode(ao.def)
		if err == nil {
			return
		}
		log.ErrorContext(
			r.Context(),
			"failed to encode openapi schema to json",
			slog.Any("error", err),
		)
	})

	return &Api{
		router:    ao.mux,
		readiness: ao.readiness,
	}
}

// ServeHTTP implements the [http.Handler] interface.
func (api *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.router.ServeHTTP(w, r)
}
