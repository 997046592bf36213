// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"

	"github.com/z5labs/kinrest/example/notes/endpoint"
	"github.com/z5labs/kinrest/example/notes/note"
	"github.com/z5labs/kinrest/rest"
)

type Config struct {
	rest.Config `config:",squash"`

	Notes struct {
		MaxBodySize int64 `config:"max_body_size"`
	} `config:"notes"`
}

func Init(ctx context.Context, cfg Config) (*rest.Api, error) {
	store := note.NewStore()

	api := rest.NewApi(
		cfg.OpenApi.Title,
		cfg.OpenApi.Version,
		rest.StateProvider(endpoint.UserFromHeader),
		endpoint.CreateNote(store, cfg.Notes.MaxBodySize),
		endpoint.ListNotes(store),
		endpoint.GetNote(store),
		endpoint.DeleteNote(store),
	)

	return api, nil
}
