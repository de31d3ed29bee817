package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "nyanpass/docs"
	"nyanpass/internal/adapters/storage/documents"
	"nyanpass/internal/analytics"
	"nyanpass/internal/domain/accounts"
	"nyanpass/internal/domain/allergies"
	"nyanpass/internal/domain/cats"
	"nyanpass/internal/domain/settings"
	"nyanpass/internal/domain/treatments"
	"nyanpass/internal/domain/vaccines"
	"nyanpass/internal/i18n"
	"nyanpass/internal/middleware"
	"nyanpass/internal/platform/logger"
	"nyanpass/internal/ports/auth"
	"nyanpass/internal/ports/docstore"
	"nyanpass/internal/ports/media"
)

type Options struct {
	Store docstore.Store // requerido
	Media media.Store    // puede ser nil (sin fotos ni adjuntos)

	// AuthProvider puede ser nil: modo dev, la identidad sale de X-Debug-User-ID
	// y no se montan las rutas /auth.
	AuthProvider auth.Provider
	// AuthLimiter limita las rutas de /auth con contraseña; puede ser nil.
	AuthLimiter *middleware.RateLimiter

	Logger   logger.Logger
	Tracker  analytics.Tracker
	Gatherer prometheus.Gatherer // nil => sin /metrics

	RepoOptions []documents.Option
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	tracker := opts.Tracker
	if tracker == nil {
		tracker = analytics.New(log)
	}

	// Repos y services por módulo
	repos := documents.New(opts.Store, log, opts.RepoOptions...)

	catsSvc := cats.NewService(repos.Cats,
		cats.WithMedia(opts.Media),
		cats.WithTracker(tracker),
		cats.WithLogger(log),
	)
	vaccinesSvc := vaccines.NewService(repos.Vaccines, catsSvc, tracker)
	allergiesSvc := allergies.NewService(repos.Allergies, catsSvc, tracker)
	treatmentsSvc := treatments.NewService(repos.Treatments, catsSvc, opts.Media, tracker, log)
	settingsSvc := settings.NewService(repos.Settings, tracker, log)

	var (
		accountsSvc *accounts.Service
		verifier    auth.AuthVerifier
	)
	if opts.AuthProvider != nil {
		accountsSvc = accounts.NewService(opts.AuthProvider, tracker, log)
		verifier = accountsSvc
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLog(log))

	r.Use(middleware.AuthContext(verifier))
	r.Use(middleware.Language(storedLanguage(repos.Settings)))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Rutas por módulo
	if accountsSvc != nil {
		var limit func(http.Handler) http.Handler
		if opts.AuthLimiter != nil {
			limit = opts.AuthLimiter.Middleware
		}
		accounts.RegisterRoutes(r, accountsSvc, limit)
	}
	cats.RegisterRoutes(r, catsSvc)
	vaccines.RegisterRoutes(r, vaccinesSvc)
	allergies.RegisterRoutes(r, allergiesSvc)
	treatments.RegisterRoutes(r, treatmentsSvc)
	settings.RegisterRoutes(r, settingsSvc, catsSvc)

	return r
}

// storedLanguage lee directo del repo: sin documento no hay preferencia
// y manda Accept-Language (el servicio devolvería el default).
func storedLanguage(repo settings.Repository) middleware.LanguageLookup {
	return func(ctx context.Context, uid string) (i18n.Language, bool) {
		st, err := repo.Get(ctx, uid)
		if err != nil || st.Language == "" {
			return "", false
		}
		return st.Language, true
	}
}
