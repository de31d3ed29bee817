// Package docstoretest tiene la batería común que todo backend de docstore.Store debe pasar.
package docstoretest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nyanpass/internal/platform/doccodec"
	"nyanpass/internal/ports/docstore"
)

// Factory crea un store vacío para cada subtest.
type Factory func(t *testing.T) docstore.Store

// Run ejecuta el contrato contra el backend que devuelve newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), "users/u1/cats/nope")
		require.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "users/u1/cats/c1", map[string]any{"name": "Luna", "traits": []any{"playful"}}))

		doc, err := s.Get(ctx, "users/u1/cats/c1")
		require.NoError(t, err)
		require.Equal(t, "c1", doc.ID)
		require.Equal(t, "users/u1/cats/c1", doc.Path)
		require.Equal(t, "Luna", doc.Fields["name"])
		require.Equal(t, []any{"playful"}, doc.Fields["traits"])
	})

	t.Run("merge keeps unlisted fields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "users/u1/settings/user_settings", map[string]any{"language": "es", "darkMode": true}))
		require.NoError(t, s.Set(ctx, "users/u1/settings/user_settings", map[string]any{"language": "en"}))

		doc, err := s.Get(ctx, "users/u1/settings/user_settings")
		require.NoError(t, err)
		require.Equal(t, "en", doc.Fields["language"])
		require.Equal(t, true, doc.Fields["darkMode"])
	})

	t.Run("explicit nil clears field", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "users/u1/cats/c1/treatments/t1", map[string]any{"endDate": time.Now().UTC()}))
		require.NoError(t, s.Set(ctx, "users/u1/cats/c1/treatments/t1", map[string]any{"endDate": nil}))

		doc, err := s.Get(ctx, "users/u1/cats/c1/treatments/t1")
		require.NoError(t, err)
		require.Nil(t, doc.Fields["endDate"])
	})

	t.Run("date round trip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		want := time.Date(2024, 1, 10, 15, 4, 5, 0, time.UTC)
		require.NoError(t, s.Set(ctx, "users/u1/cats/c1/vaccines/v1", map[string]any{"applicationDate": want}))

		doc, err := s.Get(ctx, "users/u1/cats/c1/vaccines/v1")
		require.NoError(t, err)
		got, err := doccodec.ToTime(doc.Fields["applicationDate"])
		require.NoError(t, err)
		require.True(t, got.Equal(want), "got %s want %s", got, want)
	})

	t.Run("list direct children sorted", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for _, p := range []string{
			"users/u1/cats/b",
			"users/u1/cats/a",
			"users/u1/cats/a/vaccines/v1",
			"users/u2/cats/z",
		} {
			require.NoError(t, s.Set(ctx, p, map[string]any{"name": p}))
		}

		docs, err := s.List(ctx, "users/u1/cats")
		require.NoError(t, err)
		require.Len(t, docs, 2)
		require.Equal(t, "a", docs[0].ID)
		require.Equal(t, "b", docs[1].ID)

		empty, err := s.List(ctx, "users/u3/cats")
		require.NoError(t, err)
		require.Empty(t, empty)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "users/u1/cats/c1", map[string]any{"name": "Luna"}))
		require.NoError(t, s.Delete(ctx, "users/u1/cats/c1"))
		require.NoError(t, s.Delete(ctx, "users/u1/cats/c1"))

		_, err := s.Get(ctx, "users/u1/cats/c1")
		require.True(t, errors.Is(err, docstore.ErrNotFound))
	})

	t.Run("invalid paths", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		_, err := s.Get(ctx, "users/u1/cats")
		require.ErrorIs(t, err, docstore.ErrInvalidPath)
		_, err = s.List(ctx, "users/u1")
		require.ErrorIs(t, err, docstore.ErrInvalidPath)
		require.ErrorIs(t, s.Set(ctx, "users//cats/c1", map[string]any{}), docstore.ErrInvalidPath)
	})
}
