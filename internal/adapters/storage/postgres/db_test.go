package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"nyanpass/internal/ports/docstore"
	"nyanpass/internal/ports/docstore/docstoretest"
)

// Requiere una base real: TEST_DB_DSN=postgres://... go test ./internal/adapters/storage/postgres
func TestStore_Contract(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewStore(db)
	require.NoError(t, s.Migrate(ctx))

	docstoretest.Run(t, func(t *testing.T) docstore.Store {
		_, err := db.ExecContext(ctx, `TRUNCATE documents`)
		require.NoError(t, err)
		return s
	})
}
