package treatments

import (
	"strings"
	"time"

	"nyanpass/internal/platform/validation"
)

type Treatment struct {
	ID    string `json:"id"`
	CatID string `doc:"catId" json:"catId" validate:"required"`

	Name      string     `doc:"name" json:"name" validate:"required,min=2,max=30"`
	StartDate time.Time  `doc:"startDate" json:"startDate" validate:"required"`
	EndDate   *time.Time `doc:"endDate" json:"endDate,omitempty"`

	Dosage       string `doc:"dosage" json:"dosage,omitempty"`
	Frequency    string `doc:"frequency" json:"frequency,omitempty"`
	Veterinarian string `doc:"veterinarian" json:"veterinarian,omitempty"`
	Notes        string `doc:"notes" json:"notes,omitempty" validate:"max=250"`

	// Referencias opacas del media store.
	Attachments []string `doc:"attachments" json:"attachments"`
}

type Input struct {
	CatID        string
	Name         string
	StartDate    time.Time
	EndDate      *time.Time
	Dosage       string
	Frequency    string
	Veterinarian string
	Notes        string
}

// New valida también las reglas de fecha del formulario:
// inicio y fin no pueden ser futuros y el fin no puede ser anterior al inicio.
func New(in Input, now time.Time) (Treatment, error) {
	t := Treatment{
		CatID:        strings.TrimSpace(in.CatID),
		Name:         strings.TrimSpace(in.Name),
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Dosage:       strings.TrimSpace(in.Dosage),
		Frequency:    strings.TrimSpace(in.Frequency),
		Veterinarian: strings.TrimSpace(in.Veterinarian),
		Notes:        strings.TrimSpace(in.Notes),
		Attachments:  []string{},
	}
	if t.EndDate != nil && t.EndDate.IsZero() {
		t.EndDate = nil
	}
	if err := t.Validate(now); err != nil {
		return Treatment{}, err
	}
	return t, nil
}

func (t Treatment) Validate(now time.Time) error {
	verr := validation.Struct(t)
	if t.StartDate.After(now) {
		verr.Add("startDate", "lte")
	}
	if t.EndDate != nil {
		if t.EndDate.After(now) {
			verr.Add("endDate", "lte")
		}
		if t.EndDate.Before(t.StartDate) {
			verr.Add("endDate", "gtefield")
		}
	}
	return verr.OrNil()
}

// Ongoing: sin fecha de fin, o con fin posterior a now.
func (t Treatment) Ongoing(now time.Time) bool {
	return t.EndDate == nil || t.EndDate.After(now)
}
