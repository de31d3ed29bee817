package allergies

import (
	"strings"
	"time"

	"nyanpass/internal/platform/validation"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Allergy struct {
	ID    string `json:"id"`
	CatID string `doc:"catId" json:"catId" validate:"required"`

	Name          string    `doc:"name" json:"name" validate:"required,min=2,max=60"`
	Symptoms      string    `doc:"symptoms" json:"symptoms" validate:"required,min=2,max=250"`
	Severity      Severity  `doc:"severity" json:"severity" validate:"oneof=low medium high"`
	Notes         string    `doc:"notes" json:"notes,omitempty" validate:"max=250"`
	DiagnosisDate time.Time `doc:"diagnosisDate" json:"diagnosisDate" validate:"required"`
}

type Input struct {
	CatID    string
	Name     string
	Symptoms string
	Severity Severity
	Notes    string
	// Sin fecha se toma el momento de alta.
	DiagnosisDate *time.Time
}

func New(in Input, now time.Time) (Allergy, error) {
	a := Allergy{
		CatID:         strings.TrimSpace(in.CatID),
		Name:          strings.TrimSpace(in.Name),
		Symptoms:      strings.TrimSpace(in.Symptoms),
		Severity:      Severity(strings.ToLower(strings.TrimSpace(string(in.Severity)))),
		Notes:         strings.TrimSpace(in.Notes),
		DiagnosisDate: now,
	}
	if in.DiagnosisDate != nil && !in.DiagnosisDate.IsZero() {
		a.DiagnosisDate = *in.DiagnosisDate
	}
	if err := a.Validate(now); err != nil {
		return Allergy{}, err
	}
	return a, nil
}

func (a Allergy) Validate(now time.Time) error {
	verr := validation.Struct(a)
	if a.DiagnosisDate.After(now) {
		verr.Add("diagnosisDate", "lte")
	}
	return verr.OrNil()
}
