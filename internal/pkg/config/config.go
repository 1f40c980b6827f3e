package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend    BackendConfig
	Session    SessionConfig
	Dispatcher DispatcherConfig

	Mongo MongoConfig
	Redis RedisConfig
}

// BackendConfig points at the REST backend the gateway fronts.
type BackendConfig struct {
	BaseURL string        `env:"BACKEND_BASE_URL, default=http://localhost:5000"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT,  default=10s"`
}

type SessionConfig struct {
	// Store selects the KV backend: memory, redis or mongo.
	Store        string        `env:"SESSION_BACKEND, default=memory"`
	TTL          time.Duration `env:"SESSION_TTL,     default=24h"`
	CookieName   string        `env:"SESSION_COOKIE,  default=rd_session"`
	CookieSecure bool          `env:"COOKIE_SECURE,   default=false"`
}

type DispatcherConfig struct {
	Workers int `env:"DISPATCH_WORKERS, default=64"`
}

type MongoConfig struct {
	URI         string        `env:"MONGO_URI,      default=mongodb://localhost:27017"`
	Database    string        `env:"MONGO_DB,       default=referral_dashboard"`
	Timeout     time.Duration `env:"MONGO_TIMEOUT,  default=10s"`
	MaxPoolSize uint64        `env:"MONGO_MAX_POOL, default=50"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,   default=5s"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=0"`
}

// IsDevelopment reports whether the service runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l and validates the result.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Session.Store = strings.ToLower(strings.TrimSpace(c.Session.Store))
	switch c.Session.Store {
	case BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("config: SESSION_BACKEND must be memory, redis or mongo, got %q", c.Session.Store)
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("config: SESSION_TTL must not be negative")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("config: BACKEND_BASE_URL is required")
	}
	return nil
}
