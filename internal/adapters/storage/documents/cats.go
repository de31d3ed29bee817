package documents

import (
	"context"
	"fmt"

	"nyanpass/internal/domain/cats"
	"nyanpass/internal/ports/docstore"
)

const catEntity = "cat"

type CatsRepo struct {
	base
}

var _ cats.Repository = (*CatsRepo)(nil)

func (r *CatsRepo) List(ctx context.Context, uid string) ([]cats.Profile, error) {
	col, err := catsCollection(uid)
	if err != nil {
		return nil, err
	}

	docs := r.readAll(ctx, catEntity, col)
	out := make([]cats.Profile, 0, len(docs))
	for _, d := range docs {
		var p cats.Profile
		if !r.decode(catEntity, d, &p) {
			continue
		}
		p.ID = d.ID
		out = append(out, p)
	}
	return out, nil
}

func (r *CatsRepo) Get(ctx context.Context, uid, id string) (cats.Profile, error) {
	path, err := catPath(uid, id)
	if err != nil {
		return cats.Profile{}, readErr(err, cats.ErrNotFound)
	}

	doc, err := r.read(ctx, catEntity, path)
	if err != nil {
		return cats.Profile{}, cats.ErrNotFound
	}
	var p cats.Profile
	if !r.decode(catEntity, doc, &p) {
		return cats.Profile{}, cats.ErrNotFound
	}
	p.ID = doc.ID
	return p, nil
}

func (r *CatsRepo) Add(ctx context.Context, uid string, p cats.Profile) (cats.Profile, error) {
	p.ID = r.newID()
	path, err := catPath(uid, p.ID)
	if err != nil {
		return cats.Profile{}, err
	}
	if err := r.write(ctx, catEntity, path, p); err != nil {
		return cats.Profile{}, fmt.Errorf("add cat: %w", err)
	}
	return p, nil
}

func (r *CatsRepo) Update(ctx context.Context, uid string, p cats.Profile) error {
	path, err := catPath(uid, p.ID)
	if err != nil {
		return err
	}
	if err := r.write(ctx, catEntity, path, p); err != nil {
		return fmt.Errorf("update cat: %w", err)
	}
	return nil
}

// Delete borra primero cada documento de las subcolecciones y después el perfil.
// Si no se puede listar una subcolección se corta: borrar el perfil dejaría huérfanos.
func (r *CatsRepo) Delete(ctx context.Context, uid, id string) error {
	path, err := catPath(uid, id)
	if err != nil {
		return err
	}

	for _, sub := range catChildren {
		col := docstore.Join(path, sub)
		docs, err := r.store.List(ctx, col)
		if err != nil {
			r.record(catEntity, "cascade", resultError)
			return fmt.Errorf("delete cat: list %s: %w", sub, err)
		}
		for _, d := range docs {
			if err := r.remove(ctx, sub, d.Path); err != nil {
				return fmt.Errorf("delete cat: %w", err)
			}
		}
	}

	if err := r.remove(ctx, catEntity, path); err != nil {
		return fmt.Errorf("delete cat: %w", err)
	}
	return nil
}
