package allergies

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
	ErrNotFound     = errors.New("allergy not found")
)

type Repository interface {
	ListByCat(ctx context.Context, uid, catID string) ([]Allergy, error)
	ListAll(ctx context.Context, uid string) ([]Allergy, error)
	Get(ctx context.Context, uid, catID, id string) (Allergy, error)
	Add(ctx context.Context, uid string, a Allergy) (Allergy, error)
	Update(ctx context.Context, uid string, a Allergy) error
	Delete(ctx context.Context, uid, catID, id string) error
}

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

func (s *Service) Create(ctx context.Context, uid string, in Input) (Allergy, error) {
	if strings.TrimSpace(uid) == "" {
		return Allergy{}, docstore.ErrNoIdentity
	}
	a, err := New(in, s.now())
	if err != nil {
		return Allergy{}, err
	}
	if _, err := s.cats.Get(ctx, uid, a.CatID); err != nil {
		return Allergy{}, err
	}

	saved, err := s.repo.Add(ctx, uid, a)
	if err != nil {
		return Allergy{}, err
	}
	s.tracker.Track(ctx, analytics.EventAllergyCreated, map[string]any{
		"cat_id":   saved.CatID,
		"severity": string(saved.Severity),
	})
	return saved, nil
}

func (s *Service) Get(ctx context.Context, uid, catID, id string) (Allergy, error) {
	if strings.TrimSpace(uid) == "" {
		return Allergy{}, docstore.ErrNoIdentity
	}
	return s.repo.Get(ctx, uid, catID, id)
}

// ListByCat: diagnósticos más recientes primero.
func (s *Service) ListByCat(ctx context.Context, uid, catID string) ([]Allergy, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, docstore.ErrNoIdentity
	}
	items, err := s.repo.ListByCat(ctx, uid, catID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DiagnosisDate.After(items[j].DiagnosisDate)
	})
	return items, nil
}

func (s *Service) ListAll(ctx context.Context, uid string) ([]Allergy, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, docstore.ErrNoIdentity
	}
	return s.repo.ListAll(ctx, uid)
}

// Update: sin fecha de diagnóstico se conserva la guardada.
func (s *Service) Update(ctx context.Context, uid, catID, id string, in Input) (Allergy, error) {
	current, err := s.Get(ctx, uid, catID, id)
	if err != nil {
		return Allergy{}, err
	}

	in.CatID = current.CatID
	if in.DiagnosisDate == nil || in.DiagnosisDate.IsZero() {
		d := current.DiagnosisDate
		in.DiagnosisDate = &d
	}
	next, err := New(in, s.now())
	if err != nil {
		return Allergy{}, err
	}
	next.ID = current.ID

	if err := s.repo.Update(ctx, uid, next); err != nil {
		return Allergy{}, err
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
	s.tracker.Track(ctx, analytics.EventRecordDeleted, map[string]any{"kind": "allergy", "cat_id": catID, "id": id})
	return nil
}
