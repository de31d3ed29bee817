package vaccines

import (
	"math"
	"strings"
	"time"

	"nyanpass/internal/platform/validation"
)

type Vaccine struct {
	ID    string `json:"id"`
	CatID string `doc:"catId" json:"catId" validate:"required"`

	Name            string     `doc:"name" json:"name" validate:"required,max=60"`
	ApplicationDate time.Time  `doc:"applicationDate" json:"applicationDate" validate:"required"`
	NextDoseDate    *time.Time `doc:"nextDoseDate" json:"nextDoseDate,omitempty"`
	Notes           string     `doc:"notes" json:"notes,omitempty" validate:"max=250"`

	CreatedAt time.Time `doc:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `doc:"updatedAt" json:"updatedAt"`
}

type Input struct {
	CatID           string
	Name            string
	ApplicationDate time.Time
	NextDoseDate    *time.Time
	Notes           string
}

func New(in Input, now time.Time) (Vaccine, error) {
	v := Vaccine{
		CatID:           strings.TrimSpace(in.CatID),
		Name:            strings.TrimSpace(in.Name),
		ApplicationDate: in.ApplicationDate,
		NextDoseDate:    in.NextDoseDate,
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := v.Validate(); err != nil {
		return Vaccine{}, err
	}
	return v, nil
}

// Validate: la próxima dosis no puede ser anterior a la aplicación.
func (v Vaccine) Validate() error {
	verr := validation.Struct(v)
	if v.NextDoseDate != nil && v.NextDoseDate.Before(v.ApplicationDate) {
		verr.Add("nextDoseDate", "gtefield")
	}
	return verr.OrNil()
}

type Status string

const (
	StatusOK       Status = "ok"
	StatusUpcoming Status = "upcoming"
	StatusExpired  Status = "expired"

	upcomingWindowDays = 30
)

// StatusAt clasifica la próxima dosis. Days son días restantes (o vencidos, en positivo),
// redondeando hacia arriba como la pantalla de vacunas.
func (v Vaccine) StatusAt(now time.Time) (Status, int) {
	if v.NextDoseDate == nil {
		return StatusOK, 0
	}
	days := int(math.Ceil(v.NextDoseDate.Sub(now).Hours() / 24))
	switch {
	case days < 0:
		return StatusExpired, -days
	case days <= upcomingWindowDays:
		return StatusUpcoming, days
	default:
		return StatusOK, days
	}
}
