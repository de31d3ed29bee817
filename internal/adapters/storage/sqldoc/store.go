// Package sqldoc guarda documentos jerárquicos en una tabla SQL (path, parent, data JSON).
// Postgres y SQLite solo difieren en el dialecto.
package sqldoc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"nyanpass/internal/ports/docstore"
)

// Dialect reúne las sentencias de un motor. Parámetros en orden:
// Upsert(path, parent, data, updatedAt), Get(path), List(parent), Delete(path).
type Dialect struct {
	Name   string
	Schema []string
	Upsert string
	Get    string
	List   string
	Delete string
}

type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func New(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, dialect: d, now: time.Now}
}

var _ docstore.Store = (*Store)(nil)

// Migrate crea la tabla e índices si faltan.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.Schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s migrate: %w", s.dialect.Name, err)
		}
	}
	return nil
}

func (s *Store) Get(ctx context.Context, docPath string) (docstore.Document, error) {
	_, id, err := docstore.SplitDoc(docPath)
	if err != nil {
		return docstore.Document{}, err
	}

	var raw []byte
	err = s.db.QueryRowContext(ctx, s.dialect.Get, docPath).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.Document{}, docstore.ErrNotFound
	}
	if err != nil {
		return docstore.Document{}, fmt.Errorf("%s get %s: %w", s.dialect.Name, docPath, err)
	}

	fields, err := decodeFields(raw)
	if err != nil {
		return docstore.Document{}, fmt.Errorf("%s get %s: %w", s.dialect.Name, docPath, err)
	}
	return docstore.Document{ID: id, Path: docPath, Fields: fields}, nil
}

func (s *Store) List(ctx context.Context, collectionPath string) ([]docstore.Document, error) {
	if err := docstore.ValidateCollectionPath(collectionPath); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.List, collectionPath)
	if err != nil {
		return nil, fmt.Errorf("%s list %s: %w", s.dialect.Name, collectionPath, err)
	}
	defer rows.Close()

	out := make([]docstore.Document, 0)
	for rows.Next() {
		var (
			p   string
			raw []byte
		)
		if err := rows.Scan(&p, &raw); err != nil {
			return nil, fmt.Errorf("%s list %s: %w", s.dialect.Name, collectionPath, err)
		}
		fields, err := decodeFields(raw)
		if err != nil {
			return nil, fmt.Errorf("%s list %s: %w", s.dialect.Name, collectionPath, err)
		}
		out = append(out, docstore.Document{
			ID:     strings.TrimPrefix(p, collectionPath+"/"),
			Path:   p,
			Fields: fields,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s list %s: %w", s.dialect.Name, collectionPath, err)
	}
	return out, nil
}

func (s *Store) Set(ctx context.Context, docPath string, fields map[string]any) error {
	parent, _, err := docstore.SplitDoc(docPath)
	if err != nil {
		return err
	}
	if fields == nil {
		fields = map[string]any{}
	}

	// time.Time sale como RFC3339Nano; doccodec lo vuelve a leer por tipo de campo.
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%s set %s: encode: %w", s.dialect.Name, docPath, err)
	}

	_, err = s.db.ExecContext(ctx, s.dialect.Upsert, docPath, parent, string(raw), s.now().UTC())
	if err != nil {
		return fmt.Errorf("%s set %s: %w", s.dialect.Name, docPath, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, docPath string) error {
	if err := docstore.ValidateDocPath(docPath); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.Delete, docPath); err != nil {
		return fmt.Errorf("%s delete %s: %w", s.dialect.Name, docPath, err)
	}
	return nil
}

func decodeFields(raw []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(raw) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return fields, nil
}
