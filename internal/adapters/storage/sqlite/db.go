// Package sqlite es el backend local (modo offline, un solo dispositivo) del docstore.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"nyanpass/internal/adapters/storage/sqldoc"
)

// Open abre (o crea) el archivo SQLite. Una sola conexión: SQLite serializa escrituras igual.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Dialect: data es TEXT con JSON; el merge usa json_patch.
// json_patch elimina las claves que llegan en null, que para el dominio equivale a ausente.
var Dialect = sqldoc.Dialect{
	Name: "sqlite",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS documents (
			path       TEXT PRIMARY KEY,
			parent     TEXT NOT NULL,
			data       TEXT NOT NULL DEFAULT '{}',
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS documents_parent_idx ON documents (parent)`,
	},
	Upsert: `
		INSERT INTO documents (path, parent, data, updated_at)
		VALUES (?, ?, json(?), ?)
		ON CONFLICT (path) DO UPDATE
		SET data = json_patch(documents.data, excluded.data),
		    updated_at = excluded.updated_at
	`,
	Get:    `SELECT data FROM documents WHERE path = ?`,
	List:   `SELECT path, data FROM documents WHERE parent = ? ORDER BY path`,
	Delete: `DELETE FROM documents WHERE path = ?`,
}

func NewStore(db *sql.DB) *sqldoc.Store {
	return sqldoc.New(db, Dialect)
}
