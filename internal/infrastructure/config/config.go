package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Identity strategy names accepted in AUTH_TYPE.
const (
	AuthTypeSession = "session"
	AuthTypeBasic   = "basic"
	AuthTypeBearer  = "bearer"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	AuthType    string        `env:"AUTH_TYPE,    default=session"`
	SessionName string        `env:"SESSION_NAME, default=_my_session_id"`
	SessionTTL  time.Duration `env:"SESSION_TTL,  default=24h"`
	JWTSecret   string        `env:"JWT_SECRET"`

	// ExemptPaths lists the paths reachable without authentication. When the
	// variable is unset the registration, login, reset, health, and metrics
	// endpoints are exempt.
	ExemptPaths []string `env:"EXEMPT_PATHS"`

	Database DatabaseConfig
	Redis    RedisConfig
}

type DatabaseConfig struct {
	DSN string `env:"DATABASE_URL, default=postgres://localhost:5432/auth?sslmode=disable"`
}

type RedisConfig struct {
	// Addr left empty disables Redis; sessions then cache in process memory.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

var defaultExemptPaths = []string{
	"/api/v1/users/",
	"/api/v1/sessions/",
	"/api/v1/reset_password/",
	"/health/",
	"/health/ready/",
	"/metrics/",
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	if len(cfg.ExemptPaths) == 0 {
		cfg.ExemptPaths = defaultExemptPaths
	}
	return &cfg
}
