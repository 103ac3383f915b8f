package config

import (
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName    string `env:"APP_NAME" env-default:"wishwell-client"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs bool   `env:"PRETTY_LOGS" env-default:"false"`

	// Base URL of the Wishwell API
	APIBaseURL string `env:"API_BASE_URL" env-default:"http://localhost:8080"`
	// Request timeout for all outbound calls
	RequestTimeout time.Duration `env:"API_REQUEST_TIMEOUT" env-default:"10s"`
	// Max idle connections kept by the transport
	MaxIdleConns int `env:"API_MAX_IDLE_CONNS" env-default:"100"`
	// Idle connection timeout
	IdleConnTimeout time.Duration `env:"API_IDLE_CONN_TIMEOUT" env-default:"90s"`

	// Cache backend: "memory" or "redis"
	CacheBackend string `env:"CACHE_BACKEND" env-default:"memory"`
	// Staleness window for most entity families
	CacheStaleAfter time.Duration `env:"CACHE_STALE_AFTER" env-default:"5m"`
	// Staleness window for highly dynamic data (reservations, messages)
	CacheDynamicStaleAfter time.Duration `env:"CACHE_DYNAMIC_STALE_AFTER" env-default:"1m"`
	// Max attempts for background refetches of stale entries
	CacheRefetchAttempts int `env:"CACHE_REFETCH_ATTEMPTS" env-default:"3"`

	// Redis host
	RedisHost string `env:"REDIS_HOST" env-default:"localhost"`
	// Redis port
	RedisPort int `env:"REDIS_PORT" env-default:"6379"`
	// Redis password
	RedisPassword string `env:"REDIS_PASSWORD" env-default:""`
	// Redis database number
	RedisDB int `env:"REDIS_DB" env-default:"0"`

	// Path to the durable session store. Empty keeps the session in memory only.
	SessionStorePath string `env:"SESSION_STORE_PATH" env-default:""`

	// Tracing settings
	OTLPEnabled  bool   `env:"OTLP_ENABLED" env-default:"false"`
	OTLPEndpoint string `env:"OTLP_ENDPOINT" env-default:"localhost:4317"`
}

// Load reads .env (when present) and binds environment variables onto the config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
