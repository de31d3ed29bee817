package cats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"nyanpass/internal/i18n"
)

// Range filtra el historial de peso.
type Range string

const (
	RangeMonth    Range = "1m"
	RangeQuarter  Range = "3m"
	RangeSemester Range = "6m"
	RangeYear     Range = "1y"
	RangeAll      Range = "all"
)

const defaultRange = RangeAll

func ParseRange(s string) (Range, error) {
	r := Range(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case "":
		return defaultRange, nil
	case RangeMonth, RangeQuarter, RangeSemester, RangeYear, RangeAll:
		return r, nil
	}
	return "", fmt.Errorf("%w: range %q", ErrInvalidInput, s)
}

// Since devuelve el inicio del rango (zero para "all").
func (r Range) Since(now time.Time) time.Time {
	switch r {
	case RangeMonth:
		return now.AddDate(0, -1, 0)
	case RangeQuarter:
		return now.AddDate(0, -3, 0)
	case RangeSemester:
		return now.AddDate(0, -6, 0)
	case RangeYear:
		return now.AddDate(-1, 0, 0)
	default:
		return time.Time{}
	}
}

// WeightPoint es un punto del gráfico, ya en la unidad pedida.
type WeightPoint struct {
	Date   time.Time       `json:"date"`
	Weight float64         `json:"weight"`
	Unit   i18n.WeightUnit `json:"unit"`
}

// History filtra por rango, ordena por fecha ascendente y convierte a unit (1 decimal).
func History(records []WeightRecord, r Range, unit i18n.WeightUnit, now time.Time) []WeightPoint {
	since := r.Since(now)

	filtered := make([]WeightRecord, 0, len(records))
	for _, w := range records {
		if !since.IsZero() && w.Date.Before(since) {
			continue
		}
		filtered = append(filtered, w)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Date.Before(filtered[j].Date) })

	out := make([]WeightPoint, 0, len(filtered))
	for _, w := range filtered {
		out = append(out, WeightPoint{
			Date:   w.Date,
			Weight: i18n.Round1(i18n.ConvertWeight(w.Weight, w.Unit, unit)),
			Unit:   unit,
		})
	}
	return out
}
