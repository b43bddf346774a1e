// Package store persists wizard sessions. Two implementations exist: an
// in-memory map for development and tests, and Redis for deployments where
// a session must survive a process restart and be visible to every instance.
package store

import (
	"context"

	"leadgate/internal/wizard/models"
	"leadgate/pkg/sentinel"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = sentinel.ErrNotFound

// Store is the session persistence contract. Save overwrites; sessions are
// created through Save with a fresh ID.
type Store interface {
	Save(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}
