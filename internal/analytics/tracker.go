// Package analytics registra eventos de uso (alta/baja de registros, login, etc.)
// como logs estructurados y contadores Prometheus.
package analytics

import (
	"context"
	"strings"

	"nyanpass/internal/platform/logger"
	"nyanpass/internal/platform/metrics"
)

// Eventos conocidos. Cualquier otro nombre también se acepta.
const (
	EventCatCreated       = "cat_created"
	EventCatDeleted       = "cat_deleted"
	EventVaccineCreated   = "vaccine_created"
	EventAllergyCreated   = "allergy_created"
	EventTreatmentCreated = "treatment_created"
	EventRecordDeleted    = "record_deleted"
	EventWeightAdded      = "weight_added"
	EventSignUp           = "sign_up"
	EventLogin            = "login"
	EventLogout           = "logout"
	EventPasswordReset    = "password_reset"
	EventLanguageChanged  = "language_changed"
	EventDataCleared      = "data_cleared"
)

type Tracker interface {
	Track(ctx context.Context, event string, params map[string]any)
}

type logTracker struct {
	log logger.Logger
}

func New(log logger.Logger) Tracker {
	if log == nil {
		log = logger.NewNop()
	}
	return &logTracker{log: log.With(map[string]any{"component": "analytics"})}
}

func (t *logTracker) Track(_ context.Context, event string, params map[string]any) {
	event = strings.TrimSpace(event)
	if event == "" {
		return
	}
	metrics.AnalyticsEvents.WithLabelValues(event).Inc()

	fields := make(map[string]any, len(params)+1)
	for k, v := range params {
		fields[k] = v
	}
	fields["event"] = event
	t.log.Info("analytics event", fields)
}

type nop struct{}

func (nop) Track(context.Context, string, map[string]any) {}

// Nop descarta todo; útil en tests.
func Nop() Tracker { return nop{} }
