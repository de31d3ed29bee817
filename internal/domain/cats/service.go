package cats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"nyanpass/internal/analytics"
	"nyanpass/internal/i18n"
	"nyanpass/internal/platform/logger"
	"nyanpass/internal/platform/validation"
	"nyanpass/internal/ports/docstore"
	"nyanpass/internal/ports/media"
)

var (
	ErrInvalidInput = validation.ErrInvalidInput
	ErrNotFound     = errors.New("cat not found")
)

type Service struct {
	repo    Repository
	media   media.Store
	tracker analytics.Tracker
	log     logger.Logger
	now     func() time.Time
}

type Option func(*Service)

func WithMedia(m media.Store) Option            { return func(s *Service) { s.media = m } }
func WithTracker(t analytics.Tracker) Option    { return func(s *Service) { s.tracker = t } }
func WithLogger(l logger.Logger) Option         { return func(s *Service) { s.log = l } }
func WithClock(now func() time.Time) Option     { return func(s *Service) { s.now = now } }

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		tracker: analytics.Nop(),
		log:     logger.NewNop(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, uid string, in ProfileInput) (Profile, error) {
	if strings.TrimSpace(uid) == "" {
		return Profile{}, docstore.ErrNoIdentity
	}
	p, err := NewProfile(in, s.now())
	if err != nil {
		return Profile{}, err
	}

	saved, err := s.repo.Add(ctx, uid, p)
	if err != nil {
		return Profile{}, err
	}
	s.tracker.Track(ctx, analytics.EventCatCreated, map[string]any{"cat_id": saved.ID})
	return saved, nil
}

func (s *Service) Get(ctx context.Context, uid, id string) (Profile, error) {
	if strings.TrimSpace(uid) == "" {
		return Profile{}, docstore.ErrNoIdentity
	}
	return s.repo.Get(ctx, uid, id)
}

// List devuelve los perfiles ordenados por nombre.
func (s *Service) List(ctx context.Context, uid string) ([]Profile, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, docstore.ErrNoIdentity
	}
	items, err := s.repo.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	sortByName(items)
	return items, nil
}

// Update reemplaza los campos editables. Conserva ID, createdAt, foto e historial de peso;
// si viene Weight se agrega un registro nuevo.
func (s *Service) Update(ctx context.Context, uid, id string, in ProfileInput) (Profile, error) {
	current, err := s.Get(ctx, uid, id)
	if err != nil {
		return Profile{}, err
	}

	now := s.now()
	next, err := NewProfile(in, now)
	if err != nil {
		return Profile{}, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.Image = current.Image
	next.WeightRecords = current.WeightRecords
	if in.Weight != nil {
		next.WeightRecords = append(next.WeightRecords, WeightRecord{Date: now, Weight: *in.Weight, Unit: next.WeightUnit})
	}
	if err := next.Validate(now); err != nil {
		return Profile{}, err
	}

	if err := s.repo.Update(ctx, uid, next); err != nil {
		return Profile{}, err
	}
	return next, nil
}

// Delete borra el perfil con todos sus registros y, si puede, la foto.
// Borrar un gato inexistente no es error (limpia posibles huérfanos igual).
func (s *Service) Delete(ctx context.Context, uid, id string) error {
	if strings.TrimSpace(uid) == "" {
		return docstore.ErrNoIdentity
	}

	var image string
	if current, err := s.repo.Get(ctx, uid, id); err == nil {
		image = current.Image
	}

	if err := s.repo.Delete(ctx, uid, id); err != nil {
		return err
	}
	s.removeMedia(ctx, image)
	s.tracker.Track(ctx, analytics.EventCatDeleted, map[string]any{"cat_id": id})
	return nil
}

// DeleteAll borra todos los gatos del usuario (en cascada).
func (s *Service) DeleteAll(ctx context.Context, uid string) error {
	items, err := s.List(ctx, uid)
	if err != nil {
		return err
	}
	for _, p := range items {
		if err := s.Delete(ctx, uid, p.ID); err != nil {
			return fmt.Errorf("delete cat %s: %w", p.ID, err)
		}
	}
	return nil
}

// AddWeight agrega una observación de peso (fecha zero = ahora).
func (s *Service) AddWeight(ctx context.Context, uid, id string, w WeightRecord) (Profile, error) {
	p, err := s.Get(ctx, uid, id)
	if err != nil {
		return Profile{}, err
	}

	now := s.now()
	if w.Date.IsZero() {
		w.Date = now
	}
	if w.Unit == "" {
		w.Unit = p.WeightUnit
	}
	p.WeightRecords = append(p.WeightRecords, w)
	p.UpdatedAt = now
	if err := p.Validate(now); err != nil {
		return Profile{}, err
	}

	if err := s.repo.Update(ctx, uid, p); err != nil {
		return Profile{}, err
	}
	s.tracker.Track(ctx, analytics.EventWeightAdded, map[string]any{"cat_id": id})
	return p, nil
}

// WeightHistory: unit vacío usa la unidad preferida del gato.
func (s *Service) WeightHistory(ctx context.Context, uid, id string, r Range, unit i18n.WeightUnit) ([]WeightPoint, error) {
	p, err := s.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if !unit.Valid() {
		unit = p.WeightUnit
	}
	return History(p.WeightRecords, r, unit, s.now()), nil
}

// SetPhoto sube la foto y reemplaza la referencia; la anterior se borra si se puede.
func (s *Service) SetPhoto(ctx context.Context, uid, id string, r io.Reader, size int64, contentType string) (Profile, error) {
	if s.media == nil {
		return Profile{}, media.ErrUnavailable
	}
	p, err := s.Get(ctx, uid, id)
	if err != nil {
		return Profile{}, err
	}

	ref, err := s.media.Put(ctx, media.NewKey(uid, contentType, "cats", id, "photo"), r, size, contentType)
	if err != nil {
		return Profile{}, err
	}

	previous := p.Image
	p.Image = ref
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, uid, p); err != nil {
		s.removeMedia(ctx, ref)
		return Profile{}, err
	}
	s.removeMedia(ctx, previous)
	return p, nil
}

func (s *Service) removeMedia(ctx context.Context, ref string) {
	if ref == "" || s.media == nil {
		return
	}
	if err := s.media.Delete(ctx, ref); err != nil {
		s.log.Warn("media delete failed", map[string]any{"ref": ref, "error": err})
	}
}
