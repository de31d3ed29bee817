package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config agrupa la configuración del servicio. Todo viene de env (o .env).
type Config struct {
	Server ServerConfig
	Log    LogConfig
	Store  StoreConfig
	Auth   AuthConfig
	Media  MediaConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

type LogConfig struct {
	Level  string
	Format string
	App    string
}

type StoreConfig struct {
	Driver string // memory | mongo | postgres | sqlite

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	MongoTimeout    time.Duration

	PostgresDSN string
	SQLitePath  string
}

type AuthConfig struct {
	Driver string // "" (dev, sin auth) | local | identitytoolkit

	IdentityToolkitURL    string
	IdentityToolkitAPIKey string
	Timeout               time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret        string
	TokenTTL         time.Duration
	MaxFailedLogins  int
	FailedLoginsTTL  time.Duration
	PasswordResetTTL time.Duration
}

type MediaConfig struct {
	Driver string // memory | minio

	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load lee .env (si existe) y variables de entorno con defaults de desarrollo.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("READ_TIMEOUT_SECONDS", 5)
	v.SetDefault("WRITE_TIMEOUT_SECONDS", 10)
	v.SetDefault("RATE_LIMIT_RPS", 5.0)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("APP_NAME", "nyanpass")

	v.SetDefault("STORE_DRIVER", "memory")
	v.SetDefault("MONGODB_DATABASE", "nyanpass")
	v.SetDefault("MONGODB_COLLECTION", "documents")
	v.SetDefault("MONGODB_TIMEOUT_SECONDS", 10)
	v.SetDefault("SQLITE_PATH", "nyanpass.db")

	v.SetDefault("IDENTITY_TOOLKIT_URL", "https://identitytoolkit.googleapis.com")
	v.SetDefault("AUTH_TIMEOUT_SECONDS", 5)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_TTL_MINUTES", 60)
	v.SetDefault("AUTH_MAX_FAILED_LOGINS", 5)
	v.SetDefault("AUTH_FAILED_LOGINS_TTL_MINUTES", 15)
	v.SetDefault("PASSWORD_RESET_TTL_MINUTES", 60)

	v.SetDefault("MEDIA_DRIVER", "memory")
	v.SetDefault("MINIO_BUCKET", "nyanpass-media")

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			ReadTimeout:    time.Duration(v.GetInt("READ_TIMEOUT_SECONDS")) * time.Second,
			WriteTimeout:   time.Duration(v.GetInt("WRITE_TIMEOUT_SECONDS")) * time.Second,
			RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			App:    v.GetString("APP_NAME"),
		},
		Store: StoreConfig{
			Driver:          strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
			MongoURI:        v.GetString("MONGODB_URI"),
			MongoDatabase:   v.GetString("MONGODB_DATABASE"),
			MongoCollection: v.GetString("MONGODB_COLLECTION"),
			MongoTimeout:    time.Duration(v.GetInt("MONGODB_TIMEOUT_SECONDS")) * time.Second,
			PostgresDSN:     v.GetString("DB_DSN"),
			SQLitePath:      v.GetString("SQLITE_PATH"),
		},
		Auth: AuthConfig{
			Driver:                strings.ToLower(strings.TrimSpace(v.GetString("AUTH_DRIVER"))),
			IdentityToolkitURL:    v.GetString("IDENTITY_TOOLKIT_URL"),
			IdentityToolkitAPIKey: v.GetString("IDENTITY_TOOLKIT_API_KEY"),
			Timeout:               time.Duration(v.GetInt("AUTH_TIMEOUT_SECONDS")) * time.Second,
			RedisAddr:             v.GetString("REDIS_ADDR"),
			RedisPassword:         v.GetString("REDIS_PASSWORD"),
			RedisDB:               v.GetInt("REDIS_DB"),
			JWTSecret:             v.GetString("JWT_SECRET"),
			TokenTTL:              time.Duration(v.GetInt("JWT_TTL_MINUTES")) * time.Minute,
			MaxFailedLogins:       v.GetInt("AUTH_MAX_FAILED_LOGINS"),
			FailedLoginsTTL:       time.Duration(v.GetInt("AUTH_FAILED_LOGINS_TTL_MINUTES")) * time.Minute,
			PasswordResetTTL:      time.Duration(v.GetInt("PASSWORD_RESET_TTL_MINUTES")) * time.Minute,
		},
		Media: MediaConfig{
			Driver:    strings.ToLower(strings.TrimSpace(v.GetString("MEDIA_DRIVER"))),
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
