package treatments

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"nyanpass/internal/analytics"
	"nyanpass/internal/domain/cats"
	"nyanpass/internal/platform/logger"
	"nyanpass/internal/platform/validation"
	"nyanpass/internal/ports/docstore"
	"nyanpass/internal/ports/media"
)

var (
	ErrInvalidInput = validation.ErrInvalidInput
	ErrNotFound     = errors.New("treatment not found")
)

const maxAttachments = 10

type Repository interface {
	ListByCat(ctx context.Context, uid, catID string) ([]Treatment, error)
	ListAll(ctx context.Context, uid string) ([]Treatment, error)
	Get(ctx context.Context, uid, catID, id string) (Treatment, error)
	Add(ctx context.Context, uid string, t Treatment) (Treatment, error)
	Update(ctx context.Context, uid string, t Treatment) error
	Delete(ctx context.Context, uid, catID, id string) error
}

type CatLookup interface {
	Get(ctx context.Context, uid, id string) (cats.Profile, error)
}

type Service struct {
	repo    Repository
	cats    CatLookup
	media   media.Store
	tracker analytics.Tracker
	log     logger.Logger
	now     func() time.Time
}

// NewService: m puede ser nil (sin adjuntos).
func NewService(repo Repository, catLookup CatLookup, m media.Store, tracker analytics.Tracker, log logger.Logger) *Service {
	if tracker == nil {
		tracker = analytics.Nop()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{repo: repo, cats: catLookup, media: m, tracker: tracker, log: log, now: time.Now}
}

func (s *Service) Create(ctx context.Context, uid string, in Input) (Treatment, error) {
	if strings.TrimSpace(uid) == "" {
		return Treatment{}, docstore.ErrNoIdentity
	}
	// Las reglas de fecha se chequean acá, antes de tocar el store.
	t, err := New(in, s.now())
	if err != nil {
		return Treatment{}, err
	}
	if _, err := s.cats.Get(ctx, uid, t.CatID); err != nil {
		return Treatment{}, err
	}

	saved, err := s.repo.Add(ctx, uid, t)
	if err != nil {
		return Treatment{}, err
	}
	s.tracker.Track(ctx, analytics.EventTreatmentCreated, map[string]any{"cat_id": saved.CatID, "treatment_id": saved.ID})
	return saved, nil
}

func (s *Service) Get(ctx context.Context, uid, catID, id string) (Treatment, error) {
	if strings.TrimSpace(uid) == "" {
		return Treatment{}, docstore.ErrNoIdentity
	}
	return s.repo.Get(ctx, uid, catID, id)
}

// ListByCat: los que empezaron más recientemente primero.
func (s *Service) ListByCat(ctx context.Context, uid, catID string) ([]Treatment, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, docstore.ErrNoIdentity
	}
	items, err := s.repo.ListByCat(ctx, uid, catID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartDate.After(items[j].StartDate)
	})
	return items, nil
}

func (s *Service) ListAll(ctx context.Context, uid string) ([]Treatment, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, docstore.ErrNoIdentity
	}
	return s.repo.ListAll(ctx, uid)
}

// Update conserva los adjuntos.
func (s *Service) Update(ctx context.Context, uid, catID, id string, in Input) (Treatment, error) {
	current, err := s.Get(ctx, uid, catID, id)
	if err != nil {
		return Treatment{}, err
	}

	in.CatID = current.CatID
	next, err := New(in, s.now())
	if err != nil {
		return Treatment{}, err
	}
	next.ID = current.ID
	next.Attachments = current.Attachments

	if err := s.repo.Update(ctx, uid, next); err != nil {
		return Treatment{}, err
	}
	return next, nil
}

// Delete borra el tratamiento y, si puede, sus adjuntos.
func (s *Service) Delete(ctx context.Context, uid, catID, id string) error {
	if strings.TrimSpace(uid) == "" {
		return docstore.ErrNoIdentity
	}

	var attachments []string
	if current, err := s.repo.Get(ctx, uid, catID, id); err == nil {
		attachments = current.Attachments
	}

	if err := s.repo.Delete(ctx, uid, catID, id); err != nil {
		return err
	}
	for _, ref := range attachments {
		s.removeMedia(ctx, ref)
	}
	s.tracker.Track(ctx, analytics.EventRecordDeleted, map[string]any{"kind": "treatment", "cat_id": catID, "id": id})
	return nil
}

// AddAttachment sube un archivo y agrega su referencia al tratamiento.
func (s *Service) AddAttachment(ctx context.Context, uid, catID, id string, r io.Reader, size int64, contentType string) (Treatment, error) {
	if s.media == nil {
		return Treatment{}, media.ErrUnavailable
	}
	t, err := s.Get(ctx, uid, catID, id)
	if err != nil {
		return Treatment{}, err
	}
	if len(t.Attachments) >= maxAttachments {
		verr := &validation.Error{}
		return Treatment{}, verr.Add("attachments", "max")
	}

	ref, err := s.media.Put(ctx, media.NewKey(uid, contentType, "cats", catID, "treatments", id), r, size, contentType)
	if err != nil {
		return Treatment{}, err
	}
	t.Attachments = append(t.Attachments, ref)
	if err := s.repo.Update(ctx, uid, t); err != nil {
		s.removeMedia(ctx, ref)
		return Treatment{}, err
	}
	return t, nil
}

// Ongoing filtra los tratamientos en curso de todos los gatos.
func (s *Service) Ongoing(ctx context.Context, uid string) ([]Treatment, error) {
	items, err := s.ListAll(ctx, uid)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]Treatment, 0, len(items))
	for _, t := range items {
		if t.Ongoing(now) {
			out = append(out, t)
		}
	}
	return out, nil
}

// IsOngoing usa el reloj del servicio.
func (s *Service) IsOngoing(t Treatment) bool {
	return t.Ongoing(s.now())
}

func (s *Service) removeMedia(ctx context.Context, ref string) {
	if ref == "" || s.media == nil {
		return
	}
	if err := s.media.Delete(ctx, ref); err != nil {
		s.log.Warn("media delete failed", map[string]any{"ref": ref, "error": err})
	}
}
