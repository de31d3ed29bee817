package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"nyanpass/internal/adapters/storage/sqldoc"
)

// Límites del pool; la API hace pocas escrituras cortas por request.
const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxIdleTime = 5 * time.Minute
	connMaxLifetime = 30 * time.Minute
	pingTimeout     = 3 * time.Second
)

// Open abre el pool de pgx (vía database/sql) y verifica que responda.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

// Dialect: data es JSONB y el merge es el operador || (nivel superior del documento).
var Dialect = sqldoc.Dialect{
	Name: "postgres",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS documents (
			path       TEXT PRIMARY KEY,
			parent     TEXT NOT NULL,
			data       JSONB NOT NULL DEFAULT '{}'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS documents_parent_idx ON documents (parent)`,
	},
	Upsert: `
		INSERT INTO documents (path, parent, data, updated_at)
		VALUES ($1, $2, $3::jsonb, $4)
		ON CONFLICT (path) DO UPDATE
		SET data = documents.data || EXCLUDED.data,
		    updated_at = EXCLUDED.updated_at
	`,
	Get:    `SELECT data FROM documents WHERE path = $1`,
	List:   `SELECT path, data FROM documents WHERE parent = $1 ORDER BY path`,
	Delete: `DELETE FROM documents WHERE path = $1`,
}

// NewStore devuelve el docstore sobre una conexión ya abierta.
func NewStore(db *sql.DB) *sqldoc.Store {
	return sqldoc.New(db, Dialect)
}
