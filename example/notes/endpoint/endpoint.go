// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package endpoint defines the REST endpoints of the notes service.
package endpoint

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/z5labs/kinrest/backend"
	"github.com/z5labs/kinrest/data"
	"github.com/z5labs/kinrest/example/notes/note"
	"github.com/z5labs/kinrest/state"

	"github.com/getkin/kin-openapi/openapi3"
)

const uuidPattern = `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`

// UserHeader carries the authenticated user. It is expected to be
// set by an authenticating proxy in front of the service.
const UserHeader = "X-User"

var stateFactory = state.NewValidatorFactory(state.FullValidationInfo(
	map[string]data.AnyDecoder{
		"user": data.NewDecoder[string](openapi3.NewStringSchema().WithMinLength(1)),
	},
	nil,
))

// authenticated requires the "user" state property.
var authenticated = stateFactory.MustBuild(map[string]any{"user": true})

// UserFromHeader provides the request state from [UserHeader].
func UserFromHeader(r *http.Request) (map[string]any, error) {
	st := make(map[string]any)
	if user := r.Header.Get(UserHeader); user != "" {
		st["user"] = user
	}
	return st, nil
}

func user(st map[string]any) string {
	s, _ := st["user"].(string)
	return s
}

// DraftSchema validates the body of a create request.
func DraftSchema() *openapi3.Schema {
	return data.StrictObject(map[string]*openapi3.Schema{
		"title": openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(200),
		"body":  data.Optional(openapi3.NewStringSchema()),
		"tags":  data.Optional(openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())),
		"done":  data.Optional(openapi3.NewBoolSchema()),
	})
}

// NoteSchema validates a stored note.
func NoteSchema() *openapi3.Schema {
	return data.Object(map[string]*openapi3.Schema{
		"id":         openapi3.NewStringSchema().WithPattern("^" + uuidPattern + "$"),
		"owner":      openapi3.NewStringSchema(),
		"title":      openapi3.NewStringSchema(),
		"body":       data.Optional(openapi3.NewStringSchema()),
		"tags":       data.Optional(openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())),
		"done":       openapi3.NewBoolSchema(),
		"created_at": openapi3.NewStringSchema(),
	})
}

// NoteListSchema validates the response of listing notes.
func NoteListSchema() *openapi3.Schema {
	return data.Object(map[string]*openapi3.Schema{
		"notes": openapi3.NewArraySchema().WithItems(NoteSchema()),
	})
}

// NoteList is the response body of listing notes.
type NoteList struct {
	Notes []note.Note `json:"notes"`
}

func noteIDParam() backend.URLParameterInfo[string] {
	return backend.URLParameter(
		"id",
		data.NewDecoder[string](openapi3.NewStringSchema()),
		regexp.MustCompile(uuidPattern),
	)
}

func noteResponse() backend.ResponseBodySpec[note.Note] {
	return backend.ResponseBody(data.NewEncoder[note.Note, any](NoteSchema()))
}

func storeError(err error) error {
	if errors.Is(err, note.ErrNotFound) {
		return &data.ProtocolError{
			StatusCode: http.StatusNotFound,
			Body:       map[string]any{"message": "note not found"},
		}
	}
	return err
}
