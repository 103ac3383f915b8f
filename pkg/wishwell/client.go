// Package wishwell assembles the SDK: config, logging, HTTP transport, cache
// backend, durable session store, repositories and authorization, wired the
// way a consumer would otherwise have to do by hand.
package wishwell

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wishwell/wishwell-go/config"
	"github.com/wishwell/wishwell-go/pkg/api"
	"github.com/wishwell/wishwell-go/pkg/authz"
	"github.com/wishwell/wishwell-go/pkg/cache"
	"github.com/wishwell/wishwell-go/pkg/httpclient"
	"github.com/wishwell/wishwell-go/pkg/repositories"
	"github.com/wishwell/wishwell-go/pkg/session"
	"github.com/wishwell/wishwell-go/pkg/tracing"
)

// Client is the assembled SDK. All fields are ready to use after New returns;
// Session restoration runs in the background and authenticated queries block
// on it via the session gate.
type Client struct {
	Auth         repositories.AuthRepo
	Users        repositories.UserRepo
	Dependents   repositories.DependentRepo
	Wishlists    repositories.WishlistRepo
	Items        repositories.ItemRepo
	Reservations repositories.ReservationRepo
	Social       repositories.SocialRepo

	Authz   *authz.Service
	Session *session.Manager

	cache  cache.Cache
	store  session.Store
	logger ectologger.Logger
}

// New assembles a client from config and starts session restoration.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithLogger(ctx, cfg, logger)
}

// NewWithLogger assembles a client using the caller's logger.
func NewWithLogger(ctx context.Context, cfg *config.Config, logger ectologger.Logger) (*Client, error) {
	if cfg.OTLPEnabled {
		// The consumer installs the tracer provider (and its OTLP
		// exporter); this only binds the SDK's spans to it.
		tracing.SetTracer(otel.Tracer(cfg.AppName))
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	backend, err := newCacheBackend(cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	sessionManager := session.NewManager(store, logger)

	hc := httpclient.NewClient(httpclient.Config{
		Timeout:         cfg.RequestTimeout,
		MaxIdleConns:    cfg.MaxIdleConns,
		IdleConnTimeout: cfg.IdleConnTimeout,
	}, logger)

	apiClient, err := api.NewClient(cfg.APIBaseURL, hc, sessionManager, logger)
	if err != nil {
		_ = store.Close()
		_ = backend.Close()
		return nil, err
	}
	apiClient.SetUnauthorizedHook(sessionManager.Teardown)

	loader := cache.NewLoader(backend, cfg.CacheRefetchAttempts, logger)

	base := repositories.NewRepository(apiClient, loader, sessionManager, repositories.Options{
		StaleAfter:        cfg.CacheStaleAfter,
		DynamicStaleAfter: cfg.CacheDynamicStaleAfter,
	}, logger)

	dependents := repositories.NewDependentRepository(base)

	client := &Client{
		Auth:         repositories.NewAuthRepository(base),
		Users:        repositories.NewUserRepository(base),
		Dependents:   dependents,
		Wishlists:    repositories.NewWishlistRepository(base),
		Items:        repositories.NewItemRepository(base),
		Reservations: repositories.NewReservationRepository(base),
		Social:       repositories.NewSocialRepository(base),
		Authz:        authz.NewService(sessionManager, dependents, logger),
		Session:      sessionManager,
		cache:        backend,
		store:        store,
		logger:       logger,
	}

	// Restore runs detached; queries arriving before it completes wait in
	// AwaitReady instead of failing.
	go func() {
		restoreCtx := context.WithoutCancel(ctx)
		if err := sessionManager.Restore(restoreCtx); err != nil {
			logger.WithContext(restoreCtx).WithError(err).Errorf("session restore failed")
		}
	}()

	return client, nil
}

// Close releases the cache backend and the durable session store.
func (c *Client) Close() error {
	cacheErr := c.cache.Close()
	storeErr := c.store.Close()
	if cacheErr != nil {
		return cacheErr
	}
	return storeErr
}

func newLogger(cfg *config.Config) (ectologger.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}

	zapLogger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil), nil
}

func newSessionStore(cfg *config.Config) (session.Store, error) {
	if cfg.SessionStorePath == "" {
		return session.NewMemoryStore(), nil
	}
	return session.OpenSQLiteStore(cfg.SessionStorePath)
}

func newCacheBackend(cfg *config.Config, logger ectologger.Logger) (cache.Cache, error) {
	switch cfg.CacheBackend {
	case "", "memory":
		return cache.NewMemoryCache(), nil
	case "redis":
		return cache.NewRedisCache(cache.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
