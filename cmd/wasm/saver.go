//go:build js && wasm

package main

import (
	"context"
	"log/slog"

	"github.com/kittclouds/skillradar/internal/store"
)

// backgroundSaver hands saves to a goroutine. IndexedDB calls wait on JS
// promises, which must not happen on the callback that triggered the edit.
// Only the newest pending document is kept.
type backgroundSaver struct {
	inner  store.Persister
	docs   chan *store.Document
	logger *slog.Logger
}

func newBackgroundSaver(inner store.Persister, logger *slog.Logger) *backgroundSaver {
	s := &backgroundSaver{inner: inner, docs: make(chan *store.Document, 1), logger: logger}
	go s.run()
	return s
}

func (s *backgroundSaver) run() {
	for doc := range s.docs {
		if err := s.inner.Save(context.Background(), doc); err != nil {
			s.logger.Warn("could not save state, continuing in memory", "error", err)
		}
	}
}

func (s *backgroundSaver) Load(ctx context.Context) (*store.Document, error) {
	return s.inner.Load(ctx)
}

// Save queues doc, replacing any save that has not started yet.
func (s *backgroundSaver) Save(_ context.Context, doc *store.Document) error {
	select {
	case s.docs <- doc:
	default:
		select {
		case <-s.docs:
		default:
		}
		s.docs <- doc
	}
	return nil
}

func (s *backgroundSaver) Close() error {
	close(s.docs)
	return s.inner.Close()
}
