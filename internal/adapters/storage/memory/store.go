package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"nyanpass/internal/ports/docstore"
)

// Store es el backend en memoria de docstore.Store (dev y tests).
// Guarda copias profundas: nadie fuera del store comparte maps con él.
type Store struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

func NewStore() *Store {
	return &Store{docs: make(map[string]map[string]any)}
}

var _ docstore.Store = (*Store)(nil)

func (s *Store) Get(ctx context.Context, docPath string) (docstore.Document, error) {
	_, id, err := docstore.SplitDoc(docPath)
	if err != nil {
		return docstore.Document{}, err
	}
	if err := ctx.Err(); err != nil {
		return docstore.Document{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.docs[docPath]
	if !ok {
		return docstore.Document{}, docstore.ErrNotFound
	}
	return docstore.Document{ID: id, Path: docPath, Fields: copyMap(fields)}, nil
}

func (s *Store) List(ctx context.Context, collectionPath string) ([]docstore.Document, error) {
	if err := docstore.ValidateCollectionPath(collectionPath); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := collectionPath + "/"

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]docstore.Document, 0)
	for p, fields := range s.docs {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		id := strings.TrimPrefix(p, prefix)
		// solo hijos directos, no subcolecciones
		if strings.Contains(id, "/") {
			continue
		}
		out = append(out, docstore.Document{ID: id, Path: p, Fields: copyMap(fields)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Set(ctx context.Context, docPath string, fields map[string]any) error {
	if err := docstore.ValidateDocPath(docPath); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.docs[docPath]
	if !ok {
		cur = make(map[string]any, len(fields))
		s.docs[docPath] = cur
	}
	for k, v := range fields {
		cur[k] = copyValue(v)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, docPath string) error {
	if err := docstore.ValidateDocPath(docPath); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, docPath)
	return nil
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = copyValue(t[i])
		}
		return out
	default:
		return v
	}
}
