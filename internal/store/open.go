package store

import (
	"context"
	"errors"
	"log/slog"
)

// Open rehydrates a store from p. A missing or unreadable document never
// fails startup: the store built by fallback is returned instead.
func Open(ctx context.Context, p Persister, fallback func() *Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if fallback == nil {
		fallback = New
	}
	if p == nil {
		return fallback()
	}

	doc, err := p.Load(ctx)
	switch {
	case errors.Is(err, ErrNoDocument):
		logger.Info("no saved state, using defaults")
		return fallback()
	case err != nil:
		logger.Warn("saved state unreadable, using defaults", "error", err)
		return fallback()
	}
	s := FromDocument(doc)
	logger.Debug("state loaded", "tasks", len(doc.Tasks), "competencies", len(doc.Competencies))
	return s
}
