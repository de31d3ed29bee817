package vaccines

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"nyanpass/internal/analytics"
	"nyanpass/internal/domain/cats"
	"nyanpass/internal/platform/validation"
	"nyanpass/internal/ports/docstore"
)

var (
	ErrInvalidInput = validation.ErrInvalidInput
	ErrNotFound     = errors.New("vaccine not found")
)

type Repository interface {
	ListByCat(ctx context.Context, uid, catID string) ([]Vaccine, error)
	// ListAll recorre todos los gatos del usuario; orden: gato, luego registro.
	ListAll(ctx context.Context, uid string) ([]Vaccine, error)
	Get(ctx context.Context, uid, catID, id string) (Vaccine, error)
	Add(ctx context.Context, uid string, v Vaccine) (Vaccine, error)
	Update(ctx context.Context, uid string, v Vaccine) error
	Delete(ctx context.Context, uid, catID, id string) error
}

// CatLookup confirma que el gato padre existe antes de escribir debajo de él.
type CatLookup interface {
	Get(ctx context.Context, uid, id string) (cats.Profile, error)
}

type Service struct {
	repo    Repository
	cats    CatLookup
	tracker analytics.Tracker
	now     func() time.Time
}

func NewService(repo Repository, catLookup CatLookup, tracker analytics.Tracker) *Service {
	if tracker == nil {
		tracker = analytics.Nop()
	}
	return &Service{repo: repo, cats: catLookup, tracker: tracker, now: time.Now}
}

func (s *Service) Create(ctx context.Context, uid string, in Input) (Vaccine, error) {
	if strings.TrimSpace(uid) == "" {
		return Vaccine{}, docstore.ErrNoIdentity
	}
	v, err := New(in, s.now())
	if err != nil {
		return Vaccine{}, err
	}
	if _, err := s.cats.Get(ctx, uid, v.CatID); err != nil {
		return Vaccine{}, err
	}

	saved, err := s.repo.Add(ctx, uid, v)
	if err != nil {
		return Vaccine{}, err
	}
	s.tracker.Track(ctx, analytics.EventVaccineCreated, map[string]any{"cat_id": saved.CatID, "vaccine_id": saved.ID})
	return saved, nil
}

func (s *Service) Get(ctx context.Context, uid, catID, id string) (Vaccine, error) {
	if strings.TrimSpace(uid) == "" {
		return Vaccine{}, docstore.ErrNoIdentity
	}
	return s.repo.Get(ctx, uid, catID, id)
}

// ListByCat ordena por fecha de aplicación, más reciente primero.
func (s *Service) ListByCat(ctx context.Context, uid, catID string) ([]Vaccine, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, docstore.ErrNoIdentity
	}
	items, err := s.repo.ListByCat(ctx, uid, catID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ApplicationDate.After(items[j].ApplicationDate)
	})
	return items, nil
}

func (s *Service) ListAll(ctx context.Context, uid string) ([]Vaccine, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, docstore.ErrNoIdentity
	}
	return s.repo.ListAll(ctx, uid)
}

// Update reemplaza los campos editables; createdAt se conserva. No se mueve de gato.
func (s *Service) Update(ctx context.Context, uid, catID, id string, in Input) (Vaccine, error) {
	current, err := s.Get(ctx, uid, catID, id)
	if err != nil {
		return Vaccine{}, err
	}

	in.CatID = current.CatID
	next, err := New(in, s.now())
	if err != nil {
		return Vaccine{}, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt

	if err := s.repo.Update(ctx, uid, next); err != nil {
		return Vaccine{}, err
	}
	return next, nil
}

func (s *Service) Delete(ctx context.Context, uid, catID, id string) error {
	if strings.TrimSpace(uid) == "" {
		return docstore.ErrNoIdentity
	}
	if err := s.repo.Delete(ctx, uid, catID, id); err != nil {
		return err
	}
	s.tracker.Track(ctx, analytics.EventRecordDeleted, map[string]any{"kind": "vaccine", "cat_id": catID, "id": id})
	return nil
}

// StatusOf evalúa la próxima dosis contra el reloj del servicio.
func (s *Service) StatusOf(v Vaccine) (Status, int) {
	return v.StatusAt(s.now())
}
