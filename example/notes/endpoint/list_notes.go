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

type listNotesHandler struct {
	store *note.Store
}

type listNotesQuery struct {
	Done  *bool `json:"done"`
	Limit int   `json:"limit"`
}

// ListNotes registers GET /notes.
func ListNotes(store *note.Store) rest.ApiOption {
	query := backend.Query(map[string]data.AnyDecoder{
		"done":  data.NewDecoder[bool](data.Optional(openapi3.NewBoolSchema())),
		"limit": data.NewDecoder[int](data.Optional(openapi3.NewIntegerSchema().WithMin(1).WithMax(100))),
	})

	return rest.Handle(
		http.MethodGet,
		rest.BasePath("/notes"),
		rest.EndpointSpec[any, NoteList]{
			Summary:  "List notes",
			Tags:     []string{"notes"},
			Query:    &query,
			Response: backend.ResponseBody(data.NewEncoder[NoteList, any](NoteListSchema())),
			State:    &authenticated,
		},
		&listNotesHandler{store: store},
	)
}

func (h *listNotesHandler) Handle(ctx context.Context, req *rest.Request[any]) (*rest.Response[NoteList], error) {
	q, err := backend.Bind[listNotesQuery](req.Query)
	if err != nil {
		return nil, err
	}

	notes := h.store.List(user(req.State), note.Filter{
		Done:  q.Done,
		Limit: q.Limit,
	})
	return &rest.Response[NoteList]{Body: NoteList{Notes: notes}}, nil
}
