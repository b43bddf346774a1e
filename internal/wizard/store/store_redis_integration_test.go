//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgate/internal/wizard/models"
	"leadgate/pkg/testutil/containers"
)

func TestRedisStore(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	t.Run("save and find round trip", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		s := NewRedis(rc.Client, time.Hour)

		session := &models.Session{ID: "s1", CurrentStep: 9}
		session.State.FirstName = "Sam"
		session.State.PreviousAddresses = []models.PreviousAddress{{Address: "7 Low Lane, York, YO1 7HT"}}
		require.NoError(t, s.Save(ctx, session))

		got, err := s.FindByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 9, got.CurrentStep)
		assert.Equal(t, "Sam", got.State.FirstName)
		require.Len(t, got.State.PreviousAddresses, 1)
	})

	t.Run("unknown id", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		s := NewRedis(rc.Client, time.Hour)
		_, err := s.FindByID(ctx, "missing")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("sessions expire after the ttl", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		s := NewRedis(rc.Client, 500*time.Millisecond)

		require.NoError(t, s.Save(ctx, &models.Session{ID: "s1"}))
		time.Sleep(time.Second)

		_, err := s.FindByID(ctx, "s1")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		s := NewRedis(rc.Client, time.Hour)
		require.NoError(t, s.Save(ctx, &models.Session{ID: "s1"}))
		require.NoError(t, s.Delete(ctx, "s1"))
		_, err := s.FindByID(ctx, "s1")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}
