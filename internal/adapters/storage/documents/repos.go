package documents

import (
	"nyanpass/internal/domain/allergies"
	"nyanpass/internal/domain/treatments"
	"nyanpass/internal/domain/vaccines"
	"nyanpass/internal/platform/ids"
	"nyanpass/internal/platform/logger"
	"nyanpass/internal/ports/docstore"
)

// Repos agrupa los repositorios sobre un mismo store. Se construye una vez en main
// y se inyecta en los servicios.
type Repos struct {
	Cats       *CatsRepo
	Vaccines   *ChildRepo[vaccines.Vaccine]
	Allergies  *ChildRepo[allergies.Allergy]
	Treatments *ChildRepo[treatments.Treatment]
	Settings   *SettingsRepo
}

type Option func(*base)

// WithIDGenerator reemplaza el generador de ids (tests).
func WithIDGenerator(gen ids.Generator) Option {
	return func(b *base) { b.newID = gen }
}

func New(store docstore.Store, log logger.Logger, opts ...Option) *Repos {
	if log == nil {
		log = logger.NewNop()
	}
	b := base{
		store: store,
		log:   log.With(map[string]any{"component": "documents"}),
		newID: ids.New,
	}
	for _, o := range opts {
		o(&b)
	}

	return &Repos{
		Cats:       &CatsRepo{base: b},
		Vaccines:   newVaccinesRepo(b),
		Allergies:  newAllergiesRepo(b),
		Treatments: newTreatmentsRepo(b),
		Settings:   &SettingsRepo{base: b},
	}
}
