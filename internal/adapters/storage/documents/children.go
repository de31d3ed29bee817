package documents

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"nyanpass/internal/domain/allergies"
	"nyanpass/internal/domain/treatments"
	"nyanpass/internal/domain/vaccines"
	"nyanpass/internal/ports/docstore"
)

// Tope de lecturas simultáneas en ListAll.
const fanOutLimit = 8

// kind describe una subcolección de gato: dónde vive y cómo se accede al id y al catId.
type kind[T any] struct {
	entity     string
	collection string
	notFound   error
	id         func(*T) *string
	catID      func(*T) *string
}

// ChildRepo implementa el CRUD de vacunas, alergias y tratamientos.
type ChildRepo[T any] struct {
	base
	kind kind[T]
}

var (
	_ vaccines.Repository   = (*ChildRepo[vaccines.Vaccine])(nil)
	_ allergies.Repository  = (*ChildRepo[allergies.Allergy])(nil)
	_ treatments.Repository = (*ChildRepo[treatments.Treatment])(nil)
)

func newVaccinesRepo(b base) *ChildRepo[vaccines.Vaccine] {
	return &ChildRepo[vaccines.Vaccine]{base: b, kind: kind[vaccines.Vaccine]{
		entity:     "vaccine",
		collection: colVaccines,
		notFound:   vaccines.ErrNotFound,
		id:         func(v *vaccines.Vaccine) *string { return &v.ID },
		catID:      func(v *vaccines.Vaccine) *string { return &v.CatID },
	}}
}

func newAllergiesRepo(b base) *ChildRepo[allergies.Allergy] {
	return &ChildRepo[allergies.Allergy]{base: b, kind: kind[allergies.Allergy]{
		entity:     "allergy",
		collection: colAllergies,
		notFound:   allergies.ErrNotFound,
		id:         func(a *allergies.Allergy) *string { return &a.ID },
		catID:      func(a *allergies.Allergy) *string { return &a.CatID },
	}}
}

func newTreatmentsRepo(b base) *ChildRepo[treatments.Treatment] {
	return &ChildRepo[treatments.Treatment]{base: b, kind: kind[treatments.Treatment]{
		entity:     "treatment",
		collection: colTreatments,
		notFound:   treatments.ErrNotFound,
		id:         func(t *treatments.Treatment) *string { return &t.ID },
		catID:      func(t *treatments.Treatment) *string { return &t.CatID },
	}}
}

func (r *ChildRepo[T]) ListByCat(ctx context.Context, uid, catID string) ([]T, error) {
	col, err := childCollection(uid, catID, r.kind.collection)
	if err != nil {
		if errors.Is(err, docstore.ErrNoIdentity) {
			return nil, err
		}
		return []T{}, nil
	}

	docs := r.readAll(ctx, r.kind.entity, col)
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		if item, ok := r.fromDoc(d, catID); ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// ListAll lee los gatos del usuario y después cada subcolección en paralelo.
// El resultado queda agrupado por gato (en el orden de la lista de gatos).
func (r *ChildRepo[T]) ListAll(ctx context.Context, uid string) ([]T, error) {
	col, err := catsCollection(uid)
	if err != nil {
		return nil, err
	}
	catDocs := r.readAll(ctx, catEntity, col)

	perCat := make([][]T, len(catDocs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for i, c := range catDocs {
		g.Go(func() error {
			items, err := r.ListByCat(gctx, uid, c.ID)
			if err != nil {
				return err
			}
			perCat[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]T, 0)
	for _, items := range perCat {
		out = append(out, items...)
	}
	return out, nil
}

func (r *ChildRepo[T]) Get(ctx context.Context, uid, catID, id string) (T, error) {
	var zero T
	path, err := childPath(uid, catID, r.kind.collection, id)
	if err != nil {
		return zero, readErr(err, r.kind.notFound)
	}

	doc, err := r.read(ctx, r.kind.entity, path)
	if err != nil {
		return zero, r.kind.notFound
	}
	item, ok := r.fromDoc(doc, catID)
	if !ok {
		return zero, r.kind.notFound
	}
	return item, nil
}

// Add genera el id, escribe el documento completo y devuelve el registro con id.
func (r *ChildRepo[T]) Add(ctx context.Context, uid string, item T) (T, error) {
	var zero T
	*r.kind.id(&item) = r.newID()

	path, err := childPath(uid, *r.kind.catID(&item), r.kind.collection, *r.kind.id(&item))
	if err != nil {
		return zero, err
	}
	if err := r.write(ctx, r.kind.entity, path, item); err != nil {
		return zero, fmt.Errorf("add %s: %w", r.kind.entity, err)
	}
	return item, nil
}

// Update hace merge-write del documento completo.
func (r *ChildRepo[T]) Update(ctx context.Context, uid string, item T) error {
	path, err := childPath(uid, *r.kind.catID(&item), r.kind.collection, *r.kind.id(&item))
	if err != nil {
		return err
	}
	if err := r.write(ctx, r.kind.entity, path, item); err != nil {
		return fmt.Errorf("update %s: %w", r.kind.entity, err)
	}
	return nil
}

func (r *ChildRepo[T]) Delete(ctx context.Context, uid, catID, id string) error {
	path, err := childPath(uid, catID, r.kind.collection, id)
	if err != nil {
		return err
	}
	if err := r.remove(ctx, r.kind.entity, path); err != nil {
		return fmt.Errorf("delete %s: %w", r.kind.entity, err)
	}
	return nil
}

func (r *ChildRepo[T]) fromDoc(d docstore.Document, catID string) (T, bool) {
	var item T
	if !r.decode(r.kind.entity, d, &item) {
		return item, false
	}
	*r.kind.id(&item) = d.ID
	if *r.kind.catID(&item) == "" {
		*r.kind.catID(&item) = catID
	}
	return item, true
}
