package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgate/internal/wizard/models"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save and find round trip", func(t *testing.T) {
		s := NewMemory()
		session := &models.Session{ID: "s1", CurrentStep: 3}
		require.NoError(t, s.Save(ctx, session))

		got, err := s.FindByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 3, got.CurrentStep)
	})

	t.Run("unknown id", func(t *testing.T) {
		s := NewMemory()
		_, err := s.FindByID(ctx, "missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("stored sessions are isolated from callers", func(t *testing.T) {
		s := NewMemory()
		session := &models.Session{ID: "s1"}
		session.State.FirstName = "Sam"
		require.NoError(t, s.Save(ctx, session))

		// Mutating the original after save must not leak into the store.
		session.State.FirstName = "Changed"
		got, err := s.FindByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "Sam", got.State.FirstName)

		// Nor may mutating a fetched copy.
		got.State.FirstName = "AlsoChanged"
		again, err := s.FindByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "Sam", again.State.FirstName)
	})

	t.Run("delete", func(t *testing.T) {
		s := NewMemory()
		require.NoError(t, s.Save(ctx, &models.Session{ID: "s1"}))
		require.NoError(t, s.Delete(ctx, "s1"))
		_, err := s.FindByID(ctx, "s1")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}
