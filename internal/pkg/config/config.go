package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port         string        `env:"PORT,          default=8080"`
	Env          string        `env:"ENV,           default=development"`
	JWTSecret    string        `env:"JWT_SECRET,    required"`
	TokenTTL     time.Duration `env:"TOKEN_TTL,     default=24h"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`
	CORSOrigins  []string      `env:"CORS_ORIGINS,  default=http://localhost:5173"`
	LogLevel     string        `env:"LOG_LEVEL,     default=info"`
	LogPretty    bool          `env:"LOG_PRETTY,    default=false"`
	// AdminEmails are given the admin role when they register.
	AdminEmails []string `env:"ADMIN_EMAILS"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Notify NotifyConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=qa_board"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
	// ViewWindow is how long a viewer is remembered per question.
	ViewWindow time.Duration `env:"VIEW_WINDOW, default=1h"`
}

type NotifyConfig struct {
	Workers   int `env:"NOTIFY_WORKERS,    default=4"`
	QueueSize int `env:"NOTIFY_QUEUE_SIZE, default=256"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
