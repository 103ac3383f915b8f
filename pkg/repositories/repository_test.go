package repositories_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wishwell/wishwell-go/pkg/api"
	"github.com/wishwell/wishwell-go/pkg/cache"
	"github.com/wishwell/wishwell-go/pkg/httpclient"
	"github.com/wishwell/wishwell-go/pkg/models"
	"github.com/wishwell/wishwell-go/pkg/repositories"
	"github.com/wishwell/wishwell-go/pkg/session"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

// harness wires a repository base against an httptest server with an
// authenticated session already in place.
type harness struct {
	base    *repositories.Repository
	session *session.Manager
	server  *httptest.Server
	hits    atomic.Int32
}

func newHarness(t *testing.T, handler http.HandlerFunc) *harness {
	t.Helper()

	h := &harness{}
	h.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(h.server.Close)

	logger := getTestLogger()
	h.session = session.NewManager(session.NewMemoryStore(), logger)
	require.NoError(t, h.session.SetSession(context.Background(), "test-token", &models.Identity{
		ID:    uuid.New(),
		Name:  "Ada",
		Email: "ada@example.com",
	}))

	hc := httpclient.NewClient(httpclient.DefaultConfig(), logger)
	apiClient, err := api.NewClient(h.server.URL, hc, h.session, logger)
	require.NoError(t, err)
	apiClient.SetUnauthorizedHook(h.session.Teardown)

	loader := cache.NewLoader(cache.NewMemoryCache(), 3, logger)
	h.base = repositories.NewRepository(apiClient, loader, h.session, repositories.DefaultOptions(), logger)
	return h
}

// newUnauthenticatedHarness is like newHarness but with restoration completed
// and no session established.
func newUnauthenticatedHarness(t *testing.T, handler http.HandlerFunc) *harness {
	t.Helper()
	h := newHarness(t, handler)
	require.NoError(t, h.session.Clear(context.Background()))
	return h
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestQueriesFailFastWithoutSession(t *testing.T) {
	h := newUnauthenticatedHarness(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})

	wishlists := repositories.NewWishlistRepository(h.base)
	_, err := wishlists.Mine(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsAuthExpired(err))
	assert.Equal(t, int32(0), h.hits.Load(), "no request may fire without a session")
}

func TestMutationsFailFastWithoutSession(t *testing.T) {
	h := newUnauthenticatedHarness(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})

	items := repositories.NewItemRepository(h.base)
	err := items.DeleteByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, api.IsAuthExpired(err))
	assert.Equal(t, int32(0), h.hits.Load())
}

func TestValidationFailsBeforeRequest(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})

	wishlists := repositories.NewWishlistRepository(h.base)
	_, err := wishlists.Create(context.Background(), repositories.CreateWishlistInput{Title: ""})
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))
	assert.Contains(t, api.ValidationFields(err), "title")
	assert.Equal(t, int32(0), h.hits.Load(), "invalid payloads never reach the server")
}

func TestUnauthorizedResponseTearsDownSession(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	var notified atomic.Int32
	h.session.OnUnauthorized(func(ctx context.Context) {
		notified.Add(1)
	})

	wishlists := repositories.NewWishlistRepository(h.base)
	_, err := wishlists.Mine(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsAuthExpired(err))
	assert.Empty(t, h.session.Token(), "401 clears the session")
	assert.Equal(t, int32(1), notified.Load())

	// The next query fails fast at the gate instead of reaching the server
	hitsBefore := h.hits.Load()
	_, err = wishlists.Mine(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsAuthExpired(err))
	assert.Equal(t, hitsBefore, h.hits.Load())
}
