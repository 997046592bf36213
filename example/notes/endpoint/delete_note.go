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

type deleteNoteHandler struct {
	store *note.Store
}

// DeleteNote registers DELETE /notes/{id}.
func DeleteNote(store *note.Store) rest.ApiOption {
	return rest.Handle(
		http.MethodDelete,
		rest.BasePath("/notes").Param(noteIDParam()),
		rest.EndpointSpec[any, any]{
			Summary: "Delete a note",
			Tags:    []string{"notes"},
			State:   &authenticated,
		},
		&deleteNoteHandler{store: store},
	)
}

func (h *deleteNoteHandler) Handle(ctx context.Context, req *rest.Request[any]) (*rest.Response[any], error) {
	id, _ := req.URL["id"].(string)

	err := h.store.Delete(user(req.State), id)
	if err != nil {
		return nil, storeError(err)
	}
	return nil, nil
}
