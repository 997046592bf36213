// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"net/http"

	"github.com/z5labs/kinrest/backend"
	"github.com/z5labs/kinrest/data"
	"github.com/z5labs/kinrest/example/notes/note"
	"github.com/z5labs/kinrest/rest"

	"github.com/getkin/kin-openapi/openapi3"
)

type createNoteHandler struct {
	store *note.Store
}

// CreateNote registers POST /notes. Bodies larger than maxBodySize
// bytes are rejected, unless maxBodySize is zero.
func CreateNote(store *note.Store, maxBodySize int64) rest.ApiOption {
	body := backend.RequestBody(
		data.NewDecoder[note.Draft](DraftSchema()),
		backend.MaxBodySize(maxBodySize),
	)
	respHeaders := backend.ResponseHeaders(map[string]data.AnyEncoder{
		"Location": data.NewEncoder[string, any](openapi3.NewStringSchema()),
	})

	return rest.Handle(
		http.MethodPost,
		rest.BasePath("/notes"),
		rest.EndpointSpec[note.Draft, note.Note]{
			Summary:         "Create a note",
			Tags:            []string{"notes"},
			Body:            &body,
			Response:        noteResponse(),
			ResponseHeaders: &respHeaders,
			State:           &authenticated,
			Status:          http.StatusCreated,
		},
		&createNoteHandler{store: store},
	)
}

func (h *createNoteHandler) Handle(ctx context.Context, req *rest.Request[note.Draft]) (*rest.Response[note.Note], error) {
	n := h.store.Create(user(req.State), req.Body)

	resp := &rest.Response[note.Note]{
		Headers: map[string]any{"Location": "/notes/" + n.ID},
		Body:    n,
	}
	return resp, nil
}
