package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"nyanpass/internal/analytics"
	"nyanpass/internal/middleware"
	"nyanpass/internal/platform/config"
	"nyanpass/internal/platform/logger"
	"nyanpass/internal/platform/metrics"
	"nyanpass/internal/router"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "nyanpass",
	Short: "nyanpass - historia clínica de gatos",
	Long: `API HTTP de nyanpass: perfiles de gatos, peso, vacunas, alergias,
tratamientos y preferencias por usuario.

Sin subcomando arranca el servidor (igual que "serve").`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Arranca el servidor HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Crea tablas e índices del store configurado",
	Long: `Crea el esquema del docstore según STORE_DRIVER:
  postgres/sqlite - tabla documents e índice por parent
  mongo           - índice por _parent
  memory          - nada que hacer`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		st, err := openStore(cmd.Context(), cfg.Store, log)
		if err != nil {
			return err
		}
		defer st.close()

		if err := st.migrate(cmd.Context()); err != nil {
			return err
		}
		log.Info("migration done", map[string]any{"driver": cfg.Store.Driver})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "archivo .env opcional")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func bootstrap() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	return cfg, log, nil
}

func runServe(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	st, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer st.close()
	if err := st.migrate(ctx); err != nil {
		return err
	}

	mediaStore, err := openMedia(ctx, cfg.Media)
	if err != nil {
		return err
	}

	provider, closeAuth, err := openAuth(ctx, cfg.Auth, log)
	if err != nil {
		return err
	}
	defer closeAuth()
	if provider == nil {
		log.Warn("auth disabled: identity comes from X-Debug-User-ID", nil)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(reg)

	r := router.NewRouter(router.Options{
		Store:        st.store,
		Media:        mediaStore,
		AuthProvider: provider,
		AuthLimiter:  middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
		Logger:       log,
		Tracker:      analytics.New(log),
		Gatherer:     reg,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr": srv.Addr, "store": cfg.Store.Driver, "auth": cfg.Auth.Driver, "media": cfg.Media.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
