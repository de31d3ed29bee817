package settings

import (
	"context"
	"errors"
	"strings"

	"nyanpass/internal/analytics"
	"nyanpass/internal/i18n"
	"nyanpass/internal/platform/logger"
	"nyanpass/internal/platform/validation"
	"nyanpass/internal/ports/docstore"
)

var (
	ErrInvalidInput = validation.ErrInvalidInput
	ErrNotFound     = errors.New("settings not found")
)

// Repository lee y escribe users/{uid}/settings/user_settings.
type Repository interface {
	Get(ctx context.Context, uid string) (Settings, error)
	Save(ctx context.Context, uid string, s Settings) error
	Delete(ctx context.Context, uid string) error
}

type Service struct {
	repo    Repository
	tracker analytics.Tracker
	log     logger.Logger
}

func NewService(repo Repository, tracker analytics.Tracker, log logger.Logger) *Service {
	if tracker == nil {
		tracker = analytics.Nop()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{repo: repo, tracker: tracker, log: log}
}

// Get nunca falla por lectura: si no hay documento (o no se pudo leer) devuelve los defaults.
// Solo falla sin identidad.
func (s *Service) Get(ctx context.Context, uid string) (Settings, error) {
	if strings.TrimSpace(uid) == "" {
		return Settings{}, docstore.ErrNoIdentity
	}
	st, err := s.repo.Get(ctx, uid)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("settings read failed, using defaults", map[string]any{"uid": uid, "error": err})
		}
		return Defaults(), nil
	}
	return fillDefaults(st), nil
}

// Save hace merge-write; los errores de escritura se propagan.
func (s *Service) Save(ctx context.Context, uid string, st Settings) (Settings, error) {
	if strings.TrimSpace(uid) == "" {
		return Settings{}, docstore.ErrNoIdentity
	}
	st = fillDefaults(st)
	if err := st.Validate(); err != nil {
		return Settings{}, err
	}
	if err := s.repo.Save(ctx, uid, st); err != nil {
		return Settings{}, err
	}
	return st, nil
}

// ChangeLanguage: read-modify-write del idioma.
func (s *Service) ChangeLanguage(ctx context.Context, uid string, lang i18n.Language) (Settings, error) {
	if !lang.Valid() {
		verr := &validation.Error{}
		return Settings{}, verr.Add("language", "oneof")
	}
	st, err := s.Get(ctx, uid)
	if err != nil {
		return Settings{}, err
	}
	from := st.Language
	st.Language = lang

	saved, err := s.Save(ctx, uid, st)
	if err != nil {
		return Settings{}, err
	}
	s.tracker.Track(ctx, analytics.EventLanguageChanged, map[string]any{"from": string(from), "to": string(lang)})
	return saved, nil
}

// Reset borra el documento; el próximo Get devuelve defaults.
func (s *Service) Reset(ctx context.Context, uid string) error {
	if strings.TrimSpace(uid) == "" {
		return docstore.ErrNoIdentity
	}
	return s.repo.Delete(ctx, uid)
}

// DataOwner es cualquier servicio que sabe borrar todo lo del usuario.
type DataOwner interface {
	DeleteAll(ctx context.Context, uid string) error
}

// ClearAll borra los datos de cada owner y después las preferencias.
// Se corta en el primer error; lo ya borrado queda borrado.
func (s *Service) ClearAll(ctx context.Context, uid string, owners ...DataOwner) error {
	if strings.TrimSpace(uid) == "" {
		return docstore.ErrNoIdentity
	}
	for _, o := range owners {
		if err := o.DeleteAll(ctx, uid); err != nil {
			return err
		}
	}
	if err := s.Reset(ctx, uid); err != nil {
		return err
	}
	s.tracker.Track(ctx, analytics.EventDataCleared, nil)
	return nil
}

// Campos vacíos (documentos viejos o parciales) toman el default.
func fillDefaults(st Settings) Settings {
	d := Defaults()
	if st.Language == "" {
		st.Language = d.Language
	}
	if st.WeightUnit == "" {
		st.WeightUnit = d.WeightUnit
	}
	if st.LengthUnit == "" {
		st.LengthUnit = d.LengthUnit
	}
	if st.DateFormat == "" {
		st.DateFormat = d.DateFormat
	}
	return st
}
