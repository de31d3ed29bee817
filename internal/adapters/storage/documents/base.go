package documents

import (
	"context"
	"errors"

	"nyanpass/internal/platform/doccodec"
	"nyanpass/internal/platform/ids"
	"nyanpass/internal/platform/logger"
	"nyanpass/internal/platform/metrics"
	"nyanpass/internal/ports/docstore"
)

const (
	resultOK        = "ok"
	resultNotFound  = "not_found"
	resultError     = "error"
	resultSwallowed = "swallowed"
)

// base concentra la política de errores:
// lecturas fallidas se loguean, se cuentan y vuelven como vacío/ausente;
// escrituras fallidas se propagan.
type base struct {
	store docstore.Store
	log   logger.Logger
	newID ids.Generator
}

func (b *base) record(entity, op, result string) {
	metrics.StorageOperations.WithLabelValues(entity, op, result).Inc()
}

// read devuelve el documento o docstore.ErrNotFound (también cuando la lectura falló).
func (b *base) read(ctx context.Context, entity, path string) (docstore.Document, error) {
	doc, err := b.store.Get(ctx, path)
	switch {
	case err == nil:
		b.record(entity, "get", resultOK)
		return doc, nil
	case errors.Is(err, docstore.ErrNotFound):
		b.record(entity, "get", resultNotFound)
		return docstore.Document{}, docstore.ErrNotFound
	default:
		b.record(entity, "get", resultSwallowed)
		b.log.Warn("document read failed", map[string]any{"entity": entity, "path": path, "error": err})
		return docstore.Document{}, docstore.ErrNotFound
	}
}

// readAll devuelve la colección o vacío si la lectura falló.
func (b *base) readAll(ctx context.Context, entity, collection string) []docstore.Document {
	docs, err := b.store.List(ctx, collection)
	if err != nil {
		b.record(entity, "list", resultSwallowed)
		b.log.Warn("collection read failed", map[string]any{"entity": entity, "path": collection, "error": err})
		return []docstore.Document{}
	}
	b.record(entity, "list", resultOK)
	return docs
}

func (b *base) write(ctx context.Context, entity, path string, v any) error {
	fields, err := doccodec.Encode(v)
	if err != nil {
		b.record(entity, "set", resultError)
		return err
	}
	if err := b.store.Set(ctx, path, fields); err != nil {
		b.record(entity, "set", resultError)
		return err
	}
	b.record(entity, "set", resultOK)
	return nil
}

func (b *base) remove(ctx context.Context, entity, path string) error {
	if err := b.store.Delete(ctx, path); err != nil {
		b.record(entity, "delete", resultError)
		return err
	}
	b.record(entity, "delete", resultOK)
	return nil
}

// decode traduce un documento; un documento ilegible se trata como lectura fallida.
func (b *base) decode(entity string, doc docstore.Document, out any) bool {
	if err := doccodec.Decode(doc.Fields, out); err != nil {
		b.record(entity, "decode", resultSwallowed)
		b.log.Warn("document decode failed", map[string]any{"entity": entity, "path": doc.Path, "error": err})
		return false
	}
	return true
}

// readErr: sin identidad se propaga, cualquier otro problema de path es "ausente".
func readErr(err error, notFound error) error {
	if errors.Is(err, docstore.ErrNoIdentity) {
		return err
	}
	return notFound
}
