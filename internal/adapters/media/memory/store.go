package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"nyanpass/internal/ports/media"
)

// Object es lo que queda guardado (expuesto para tests).
type Object struct {
	ContentType string
	Data        []byte
}

type Store struct {
	mu      sync.RWMutex
	objects map[string]Object
}

func NewStore() *Store {
	return &Store{objects: make(map[string]Object)}
}

var _ media.Store = (*Store)(nil)

func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if size > media.MaxObjectSize {
		return "", media.ErrTooLarge
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, media.MaxObjectSize+1))
	if err != nil {
		return "", fmt.Errorf("media put %s: %w", key, err)
	}
	if n > media.MaxObjectSize {
		return "", media.ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{ContentType: contentType, Data: buf.Bytes()}
	return key, nil
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, ref)
	return nil
}

// Get devuelve un objeto guardado.
func (s *Store) Get(ref string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[ref]
	return o, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
