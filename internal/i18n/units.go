package i18n

import (
	"fmt"
	"math"
	"time"
)

type WeightUnit string

const (
	Kilograms WeightUnit = "kg"
	Pounds    WeightUnit = "lbs"
)

func (u WeightUnit) Valid() bool { return u == Kilograms || u == Pounds }

type LengthUnit string

const (
	Centimeters LengthUnit = "cm"
	Inches      LengthUnit = "in"
)

func (u LengthUnit) Valid() bool { return u == Centimeters || u == Inches }

type DateFormat string

const (
	DayMonthYear DateFormat = "DD/MM/YYYY"
	MonthDayYear DateFormat = "MM/DD/YYYY"
)

func (f DateFormat) Valid() bool { return f == DayMonthYear || f == MonthDayYear }

const (
	lbsPerKg = 2.20462
	inPerCm  = 0.393701
)

func ConvertWeight(v float64, from, to WeightUnit) float64 {
	if from == to {
		return v
	}
	if from == Kilograms && to == Pounds {
		return v * lbsPerKg
	}
	return v / lbsPerKg
}

func ConvertLength(v float64, from, to LengthUnit) float64 {
	if from == to {
		return v
	}
	if from == Centimeters && to == Inches {
		return v * inPerCm
	}
	return v / inPerCm
}

// FormatDate usa el día del calendario en la zona de t. Cualquier formato
// desconocido se trata como DD/MM/YYYY.
func FormatDate(t time.Time, f DateFormat) string {
	if f == MonthDayYear {
		return fmt.Sprintf("%02d/%02d/%d", int(t.Month()), t.Day(), t.Year())
	}
	return fmt.Sprintf("%02d/%02d/%d", t.Day(), int(t.Month()), t.Year())
}

// Round1 redondea a un decimal (lo que muestran los gráficos de peso).
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
