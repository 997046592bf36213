// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"net/http"

	"github.com/z5labs/kinrest/example/notes/note"
	"github.com/z5labs/kinrest/rest"
)

type getNoteHandler struct {
	store *note.Store
}

// GetNote registers GET /notes/{id}.
func GetNote(store *note.Store) rest.ApiOption {
	return rest.Handle(
		http.MethodGet,
		rest.BasePath("/notes").Param(noteIDParam()),
		rest.EndpointSpec[any, note.Note]{
			Summary:  "Get a note",
			Tags:     []string{"notes"},
			Response: noteResponse(),
			State:    &authenticated,
		},
		&getNoteHandler{store: store},
	)
}

func (h *getNoteHandler) Handle(ctx context.Context, req *rest.Request[any]) (*rest.Response[note.Note], error) {
	id, _ := req.URL["id"].(string)

	n, err := h.store.Get(user(req.State), id)
	if err != nil {
		return nil, storeError(err)
	}
	return &rest.Response[note.Note]{Body: n}, nil
}
