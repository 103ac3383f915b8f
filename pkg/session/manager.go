// Package session owns the process-wide session state: the bearer token, the
// identity snapshot, their durable persistence, and the teardown that a 401
// response forces on all of them.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/golang-jwt/jwt/v5"

	"github.com/wishwell/wishwell-go/pkg/api"
	"github.com/wishwell/wishwell-go/pkg/models"
	"github.com/wishwell/wishwell-go/pkg/tracing"
)

// UnauthorizedListener is notified after a forced teardown, the SDK analog of
// the browser client's redirect to the login route.
type UnauthorizedListener func(ctx context.Context)

// Manager holds the current session and gates authenticated reads until
// restoration from the durable store has completed.
type Manager struct {
	mu        sync.RWMutex
	session   *models.Session
	restored  bool
	restoreCh chan struct{}

	store     Store
	listeners []UnauthorizedListener
	logger    ectologger.Logger
}

// NewManager creates a session manager backed by the given store.
func NewManager(store Store, logger ectologger.Logger) *Manager {
	return &Manager{
		store:     store,
		restoreCh: make(chan struct{}),
		logger:    logger,
	}
}

// Restore loads the persisted session snapshot. It must be called once at
// startup; authenticated queries block in AwaitReady until it completes.
func (m *Manager) Restore(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "session.Manager.Restore")
	defer span.End()

	session, err := m.store.Load(ctx)

	m.mu.Lock()
	established := m.restored
	if !m.restored {
		m.restored = true
		close(m.restoreCh)
	}
	// A login that completed while the load was in flight wins over the
	// persisted snapshot, which predates it.
	if err == nil && !established {
		m.session = session
	}
	m.mu.Unlock()

	if err != nil {
		m.logger.WithContext(ctx).WithError(err).Error("failed to restore session")
		return err
	}
	if session != nil {
		m.logger.WithContext(ctx).Debugf("session restored from durable store")
	}
	return nil
}

// AwaitReady blocks until session restoration has completed, then fails fast
// when no authenticated session exists. No authenticated request may fire
// before this returns nil.
func (m *Manager) AwaitReady(ctx context.Context) error {
	select {
	case <-m.restoreCh:
	case <-ctx.Done():
		return ctx.Err()
	}

	if m.Token() == "" {
		return api.NewError(http.StatusUnauthorized, "not authenticated")
	}
	return nil
}

// SetSession stores a freshly authenticated session in memory and in the
// durable store. It also satisfies the restore gate, so a login made before
// Restore completes unblocks waiting queries.
func (m *Manager) SetSession(ctx context.Context, token string, identity *models.Identity) error {
	m.mu.Lock()
	m.session = &models.Session{Token: token, Identity: identity}
	if !m.restored {
		m.restored = true
		close(m.restoreCh)
	}
	m.mu.Unlock()

	if err := m.store.Save(ctx, &models.Session{Token: token, Identity: identity}); err != nil {
		m.logger.WithContext(ctx).WithError(err).Error("failed to persist session")
		return err
	}
	return nil
}

// SetIdentity refreshes the in-memory and persisted identity snapshot without
// touching the token.
func (m *Manager) SetIdentity(ctx context.Context, identity *models.Identity) error {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return api.NewError(http.StatusUnauthorized, "not authenticated")
	}
	m.session.Identity = identity
	snapshot := *m.session
	m.mu.Unlock()

	return m.store.Save(ctx, &snapshot)
}

// Token returns the current bearer token, or "" when unauthenticated.
// Implements api.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return ""
	}
	return m.session.Token
}

// Identity returns the current identity snapshot, or nil.
func (m *Manager) Identity() *models.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	return m.session.Identity
}

// Clear wipes the session from memory and the durable store. Used by logout.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()

	return m.store.Clear(ctx)
}

// Teardown is the hard 401 reaction: clear everything and notify listeners.
// Registered as the API client's unauthorized hook.
func (m *Manager) Teardown(ctx context.Context) {
	if err := m.Clear(ctx); err != nil {
		m.logger.WithContext(ctx).WithError(err).Error("failed to clear session store during teardown")
	}

	m.mu.RLock()
	listeners := make([]UnauthorizedListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	for _, listener := range listeners {
		listener(ctx)
	}
}

// OnUnauthorized subscribes to forced teardowns.
func (m *Manager) OnUnauthorized(listener UnauthorizedListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

// TokenExpiresWithin reports whether the bearer token's exp claim falls within
// the given window. The signature is not verified; expiry is the server's
// call, this only lets consumers schedule a proactive refresh.
func (m *Manager) TokenExpiresWithin(window time.Duration) bool {
	token := m.Token()
	if token == "" {
		return true
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) <= window
}
