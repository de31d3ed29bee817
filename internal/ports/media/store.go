package media

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnavailable = errors.New("media store not configured")
	ErrTooLarge    = errors.New("media object too large")
)

// MaxObjectSize limita fotos y adjuntos.
const MaxObjectSize = 10 << 20

// Store guarda fotos y adjuntos. La referencia devuelta es opaca para el dominio.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (ref string, err error)
	// Delete de una referencia inexistente no es error.
	Delete(ctx context.Context, ref string) error
}

// NewKey arma una key única bajo el prefijo del usuario: users/{uid}/{scope...}/{uuid}{ext}.
func NewKey(uid string, contentType string, scope ...string) string {
	parts := append([]string{"users", uid}, scope...)
	return path.Join(append(parts, uuid.NewString()+extFor(contentType))...)
}

func extFor(contentType string) string {
	ct := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	switch ct {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "application/pdf":
		return ".pdf"
	}
	exts, err := mime.ExtensionsByType(ct)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
