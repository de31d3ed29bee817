package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"nyanpass/internal/adapters/auth/identitytoolkit"
	"nyanpass/internal/adapters/auth/local"
	memmedia "nyanpass/internal/adapters/media/memory"
	"nyanpass/internal/adapters/media/miniostore"
	memstore "nyanpass/internal/adapters/storage/memory"
	"nyanpass/internal/adapters/storage/mongo"
	"nyanpass/internal/adapters/storage/postgres"
	"nyanpass/internal/adapters/storage/sqlite"
	"nyanpass/internal/platform/config"
	"nyanpass/internal/platform/logger"
	"nyanpass/internal/ports/auth"
	"nyanpass/internal/ports/docstore"
	"nyanpass/internal/ports/media"
)

// openedStore junta el docstore con su migración y su cierre.
type openedStore struct {
	store   docstore.Store
	migrate func(ctx context.Context) error
	close   func()
}

func openStore(ctx context.Context, cfg config.StoreConfig, log logger.Logger) (*openedStore, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Driver {
	case "mongo":
		client, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoTimeout)
		if err != nil {
			return nil, err
		}
		st := mongo.NewStore(client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection))
		return &openedStore{
			store:   st,
			migrate: st.EnsureIndexes,
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Warn("mongo disconnect failed", map[string]any{"error": err})
				}
			},
		}, nil

	case "postgres":
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		st := postgres.NewStore(db)
		return &openedStore{store: st, migrate: st.Migrate, close: func() { _ = db.Close() }}, nil

	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		st := sqlite.NewStore(db)
		return &openedStore{store: st, migrate: st.Migrate, close: func() { _ = db.Close() }}, nil

	default:
		log.Warn("using in-memory store: data is lost on restart", nil)
		return &openedStore{store: memstore.NewStore(), migrate: noop, close: func() {}}, nil
	}
}

func openMedia(ctx context.Context, cfg config.MediaConfig) (media.Store, error) {
	if cfg.Driver != "minio" {
		return memmedia.NewStore(), nil
	}
	st, err := miniostore.New(ctx, miniostore.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// openAuth devuelve nil sin driver (modo dev). El cierre siempre es llamable.
func openAuth(ctx context.Context, cfg config.AuthConfig, log logger.Logger) (auth.Provider, func(), error) {
	switch cfg.Driver {
	case "local":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, func() {}, fmt.Errorf("redis ping: %w", err)
		}
		p, err := local.New(rdb, local.Config{
			Secret:          cfg.JWTSecret,
			TokenTTL:        cfg.TokenTTL,
			MaxFailedLogins: cfg.MaxFailedLogins,
			FailedLoginsTTL: cfg.FailedLoginsTTL,
			ResetTTL:        cfg.PasswordResetTTL,
		}, local.LogMailer(log))
		if err != nil {
			_ = rdb.Close()
			return nil, func() {}, err
		}
		return p, func() { _ = rdb.Close() }, nil

	case "identitytoolkit":
		c, err := identitytoolkit.NewClient(identitytoolkit.Config{
			BaseURL: cfg.IdentityToolkitURL,
			APIKey:  cfg.IdentityToolkitAPIKey,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, func() {}, err
		}
		return c, func() {}, nil

	default:
		return nil, func() {}, nil
	}
}
