// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package rest hosts schema validated endpoints over HTTP.
//
// # Overview
//
// An endpoint is described by an [EndpointSpec] built from the validators
// of the backend package. Every request is validated before it reaches
// the [Handler] and every [Response] is validated before it is written.
// The same spec is used to generate the OpenAPI document served at
// GET /openapi.json.
//
//	id := backend.URLParameter("id", data.NewDecoder[string](openapi3.NewUUIDSchema()), nil)
//	body := backend.RequestBody(data.NewDecoder[Note](noteSchema))
//
//	createNote := rest.Handle(
//	    http.MethodPut,
//	    rest.BasePath("/notes").Param(id),
//	    rest.EndpointSpec[Note, Note]{
//	        Body:     &body,
//	        Response: backend.ResponseBody(data.NewEncoder[Note, any](noteSchema)),
//	    },
//	    rest.HandlerFunc[Note, Note](func(ctx context.Context, req *rest.Request[Note]) (*rest.Response[Note], error) {
//	        return &rest.Response[Note]{Body: req.Body}, nil
//	    }),
//	)
//	api := rest.NewApi("Notes", "v1.0.0", createNote)
//
// # Error Handling
//
// Invalid requests are answered with a 400, 413 or 415 and a JSON body
// of the form {"message": "..."}. A [data.ProtocolError], e.g. from an
// unauthenticated [state.Spec], is answered with its own status code.
// Errors implementing [HttpResponseWriter] write their own response and
// every other error results in a 500. Use [OnError] to customize this.
package rest
