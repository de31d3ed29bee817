package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrInvalidPath = errors.New("invalid document path")

	// ErrNoIdentity: se intentó operar sin un usuario resuelto.
	// No existe un bucket anónimo compartido.
	ErrNoIdentity = errors.New("no authenticated user")
)

// Document es un documento leído del store. ID es el último segmento del path.
type Document struct {
	ID     string
	Path   string
	Fields map[string]any
}

// Store es el contrato que la app espera de la base documental jerárquica
// (colección/documento/colección/...). Los backends viven en adapters/storage.
type Store interface {
	// Get lee un documento; ErrNotFound si no existe.
	Get(ctx context.Context, docPath string) (Document, error)

	// List devuelve los hijos directos de una colección, ordenados por ID.
	List(ctx context.Context, collectionPath string) ([]Document, error)

	// Set hace merge a nivel documento: crea si no existe, y las claves que no
	// vienen en fields se conservan. Un valor nil deja el campo vacío.
	Set(ctx context.Context, docPath string, fields map[string]any) error

	// Delete borra un documento (no sus subcolecciones). Borrar algo inexistente no es error.
	Delete(ctx context.Context, docPath string) error
}

// Join arma un path con segmentos ya validados.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// SplitDoc separa "a/b/c/d" en colección "a/b/c" e id "d".
func SplitDoc(docPath string) (collection, id string, err error) {
	if err := ValidateDocPath(docPath); err != nil {
		return "", "", err
	}
	i := strings.LastIndex(docPath, "/")
	return docPath[:i], docPath[i+1:], nil
}

// ValidateDocPath: cantidad par de segmentos, ninguno vacío.
func ValidateDocPath(p string) error {
	n, err := countSegments(p)
	if err != nil {
		return err
	}
	if n%2 != 0 {
		return fmt.Errorf("%w: %q is a collection path", ErrInvalidPath, p)
	}
	return nil
}

// ValidateCollectionPath: cantidad impar de segmentos, ninguno vacío.
func ValidateCollectionPath(p string) error {
	n, err := countSegments(p)
	if err != nil {
		return err
	}
	if n%2 != 1 {
		return fmt.Errorf("%w: %q is a document path", ErrInvalidPath, p)
	}
	return nil
}

// Segment valida un segmento suelto (uid, id de documento).
func Segment(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "/") {
		return "", fmt.Errorf("%w: bad segment %q", ErrInvalidPath, s)
	}
	return s, nil
}

func countSegments(p string) (int, error) {
	if strings.TrimSpace(p) == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	parts := strings.Split(p, "/")
	for _, s := range parts {
		if strings.TrimSpace(s) == "" {
			return 0, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, p)
		}
	}
	return len(parts), nil
}
