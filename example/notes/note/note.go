// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package note stores notes in memory.
package note

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the note does not exist or
// belongs to another owner.
var ErrNotFound = errors.New("note: not found")

// Draft holds the user provided fields of a [Note].
type Draft struct {
	Title string   `json:"title"`
	Body  string   `json:"body,omitempty"`
	Tags  []string `json:"tags,omitempty"`
	Done  bool     `json:"done,omitempty"`
}

// Note is a stored [Draft].
type Note struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter narrows down the notes returned by [Store.List].
type Filter struct {
	Done  *bool
	Limit int
}

// Store is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	notes map[string]Note
	now   func() time.Time
}

// NewStore initializes an empty [Store].
func NewStore() *Store {
	return &Store{
		notes: make(map[string]Note),
		now:   time.Now,
	}
}

// Create stores d as a new note of owner.
func (s *Store) Create(owner string, d Draft) Note {
	n := Note{
		ID:        uuid.NewString(),
		Owner:     owner,
		Title:     d.Title,
		Body:      d.Body,
		Tags:      slices.Clone(d.Tags),
		Done:      d.Done,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[n.ID] = n
	return n
}

// Get returns the note of owner with the given id.
func (s *Store) Get(owner, id string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notes[id]
	if !ok || n.Owner != owner {
		return Note{}, ErrNotFound
	}
	return n, nil
}

// List returns the notes of owner, oldest first.
func (s *Store) List(owner string, f Filter) []Note {
	s.mu.RLock()
	notes := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		if n.Owner != owner {
			continue
		}
		if f.Done != nil && n.Done != *f.Done {
			continue
		}
		notes = append(notes, n)
	}
	s.mu.RUnlock()

	slices.SortFunc(notes, func(a, b Note) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if f.Limit > 0 && len(notes) > f.Limit {
		notes = notes[:f.Limit]
	}
	return notes
}

// Delete removes the note of owner with the given id.
func (s *Store) Delete(owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok || n.Owner != owner {
		return ErrNotFound
	}
	delete(s.notes, id)
	return nil
}
