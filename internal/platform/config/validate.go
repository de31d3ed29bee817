package config

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid config")

// Validate chequea solo combinaciones imposibles; los valores por defecto cubren el resto.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "":
	case "mongo":
		if c.Store.MongoURI == "" {
			return fmt.Errorf("%w: MONGODB_URI is required for mongo store", ErrInvalidConfig)
		}
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("%w: DB_DSN is required for postgres store", ErrInvalidConfig)
		}
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH is required for sqlite store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown STORE_DRIVER %q", ErrInvalidConfig, c.Store.Driver)
	}

	switch c.Auth.Driver {
	case "":
	case "local":
		if len(c.Auth.JWTSecret) < 32 {
			return fmt.Errorf("%w: JWT_SECRET must have at least 32 chars", ErrInvalidConfig)
		}
	case "identitytoolkit":
		if c.Auth.IdentityToolkitAPIKey == "" {
			return fmt.Errorf("%w: IDENTITY_TOOLKIT_API_KEY is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown AUTH_DRIVER %q", ErrInvalidConfig, c.Auth.Driver)
	}

	switch c.Media.Driver {
	case "memory", "":
	case "minio":
		if c.Media.Endpoint == "" {
			return fmt.Errorf("%w: MINIO_ENDPOINT is required for minio media", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown MEDIA_DRIVER %q", ErrInvalidConfig, c.Media.Driver)
	}
	return nil
}
