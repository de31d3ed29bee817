package settings

import (
	"nyanpass/internal/i18n"
	"nyanpass/internal/platform/validation"
)

// Settings es el único documento de preferencias por usuario.
type Settings struct {
	Language    i18n.Language   `doc:"language" json:"language" validate:"oneof=es en fr pt"`
	WeightUnit  i18n.WeightUnit `doc:"weightUnit" json:"weightUnit" validate:"oneof=kg lbs"`
	LengthUnit  i18n.LengthUnit `doc:"lengthUnit" json:"lengthUnit" validate:"oneof=cm in"`
	DateFormat  i18n.DateFormat `doc:"dateFormat" json:"dateFormat" validate:"oneof=DD/MM/YYYY MM/DD/YYYY"`
	DarkMode    bool            `doc:"darkMode" json:"darkMode"`
	OfflineMode bool            `doc:"offlineMode" json:"offlineMode"`
}

func Defaults() Settings {
	return Settings{
		Language:   i18n.DefaultLanguage,
		WeightUnit: i18n.Kilograms,
		LengthUnit: i18n.Centimeters,
		DateFormat: i18n.DayMonthYear,
	}
}

func (s Settings) Validate() error {
	return validation.Struct(s).OrNil()
}

// ConvertWeightFromKg pasa un peso en kg a la unidad preferida (1 decimal).
func (s Settings) ConvertWeightFromKg(kg float64) float64 {
	return i18n.Round1(i18n.ConvertWeight(kg, i18n.Kilograms, s.WeightUnit))
}
