// Package store provides the entity store for SkillRadar and its persistence.
// The in-memory Store is the single source of truth during a session; the
// persisters only load and save a JSON document of it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kittclouds/skillradar/pkg/model"
)

// DefaultKey is the key the persisted document is stored under.
const DefaultKey = "vevo-skill-data"

var (
	// ErrEmptyName is returned when a task or competency name is blank after trimming.
	ErrEmptyName = errors.New("store: name is empty")
	// ErrNotFound is returned when an operation references an id that no longer exists.
	ErrNotFound = errors.New("store: not found")
	// ErrReadOnly is returned by every mutation on a store built from a snapshot.
	ErrReadOnly = errors.New("store: read-only")
	// ErrNoDocument is returned by a Persister that has nothing saved yet.
	ErrNoDocument = errors.New("store: no saved document")
)

// Document is the persisted form of a Store.
// Maps 1:1 to the browser's local storage document.
type Document struct {
	Tasks            []model.Task       `json:"tasks"`
	Competencies     []model.Competency `json:"competencies"`
	Scores           model.Scores       `json:"scores"`
	NextTaskID       int                `json:"nextTaskId"`
	NextCompetencyID int                `json:"nextCompetencyId"`
}

// Persister saves and loads the session document.
type Persister interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
	Close() error
}

// encodeDocument serializes a document for storage.
func encodeDocument(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("encode document: nil document")
	}
	return json.Marshal(doc)
}

// decodeDocument parses a stored document. Empty input is ErrNoDocument.
func decodeDocument(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrNoDocument
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Scores == nil {
		doc.Scores = make(model.Scores)
	}
	return &doc, nil
}
