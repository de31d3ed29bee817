package cats

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"nyanpass/internal/i18n"
	"nyanpass/internal/platform/validation"
)

// WeightRecord es una observación de peso.
type WeightRecord struct {
	Date   time.Time       `doc:"date" json:"date" validate:"required"`
	Weight float64         `doc:"weight" json:"weight" validate:"gte=0,lte=100"`
	Unit   i18n.WeightUnit `doc:"unit" json:"unit" validate:"oneof=kg lbs"`
}

// Profile es el perfil del gato; vacunas, alergias y tratamientos cuelgan de él.
type Profile struct {
	ID string `json:"id"`

	Name      string    `doc:"name" json:"name" validate:"required,min=2,max=30"`
	Nickname  string    `doc:"nickname" json:"nickname,omitempty" validate:"omitempty,min=2,max=20"`
	Birthdate time.Time `doc:"birthdate" json:"birthdate" validate:"required"`
	Breed     string    `doc:"breed" json:"breed" validate:"required,min=2,max=30"`
	Traits    []string  `doc:"traits" json:"traits"`
	Image     string    `doc:"image" json:"image,omitempty"` // referencia opaca del media store

	WeightRecords []WeightRecord  `doc:"weightRecords" json:"weightRecords" validate:"dive"`
	WeightUnit    i18n.WeightUnit `doc:"weightUnit" json:"weightUnit" validate:"oneof=kg lbs"`

	CreatedAt time.Time `doc:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `doc:"updatedAt" json:"updatedAt"`
}

// ProfileInput es lo que llega del formulario.
type ProfileInput struct {
	Name       string
	Nickname   string
	Birthdate  time.Time
	Breed      string
	Traits     []string
	WeightUnit i18n.WeightUnit
	// Peso inicial opcional; si viene se agrega como primer registro.
	Weight *float64
}

// NewProfile normaliza y valida. El ID lo asigna el repositorio al guardar.
func NewProfile(in ProfileInput, now time.Time) (Profile, error) {
	p := Profile{
		Name:       strings.TrimSpace(in.Name),
		Nickname:   strings.TrimSpace(in.Nickname),
		Birthdate:  in.Birthdate,
		Breed:      strings.TrimSpace(in.Breed),
		Traits:     cleanTraits(in.Traits),
		WeightUnit: in.WeightUnit,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if p.WeightUnit == "" {
		p.WeightUnit = i18n.Kilograms
	}
	if in.Weight != nil {
		p.WeightRecords = []WeightRecord{{Date: now, Weight: *in.Weight, Unit: p.WeightUnit}}
	} else {
		p.WeightRecords = []WeightRecord{}
	}

	if err := p.Validate(now); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate chequea tags y fechas; devuelve *validation.Error o nil.
func (p Profile) Validate(now time.Time) error {
	verr := validation.Struct(p)
	if !p.Birthdate.IsZero() && p.Birthdate.After(now) {
		verr.Add("birthdate", "lte")
	}
	for i, w := range p.WeightRecords {
		if w.Date.After(now) {
			verr.Add("weightRecords["+strconv.Itoa(i)+"].date", "lte")
		}
	}
	return verr.OrNil()
}

// LatestWeight es el registro más reciente, si hay.
func (p Profile) LatestWeight() (WeightRecord, bool) {
	if len(p.WeightRecords) == 0 {
		return WeightRecord{}, false
	}
	latest := p.WeightRecords[0]
	for _, w := range p.WeightRecords[1:] {
		if w.Date.After(latest.Date) {
			latest = w
		}
	}
	return latest, true
}

func cleanTraits(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(t)]; ok {
			continue
		}
		seen[strings.ToLower(t)] = struct{}{}
		out = append(out, t)
	}
	return out
}

func sortByName(items []Profile) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}
