package repositories_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishwell/wishwell-go/pkg/api"
	"github.com/wishwell/wishwell-go/pkg/models"
	"github.com/wishwell/wishwell-go/pkg/repositories"
)

func TestLoginEstablishesSession(t *testing.T) {
	ctx := context.Background()
	identity := models.Identity{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"}

	h := newUnauthenticatedHarness(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "login itself is anonymous")

		var input repositories.LoginInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, "ada@example.com", input.Email)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"token": "fresh-token",
			"user":  identity,
		})
	})
	auth := repositories.NewAuthRepository(h.base)

	got, err := auth.Login(ctx, repositories.LoginInput{
		Email:    "ada@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, identity.ID, got.ID)
	assert.Equal(t, "fresh-token", h.session.Token())
	require.NotNil(t, h.session.Identity())
	assert.Equal(t, identity.ID, h.session.Identity().ID)
}

func TestLoginValidatesInput(t *testing.T) {
	h := newUnauthenticatedHarness(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})
	auth := repositories.NewAuthRepository(h.base)

	_, err := auth.Login(context.Background(), repositories.LoginInput{Email: "not-an-email", Password: "x"})
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))
	assert.Equal(t, int32(0), h.hits.Load())
}

func TestLoginBadCredentials(t *testing.T) {
	h := newUnauthenticatedHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	auth := repositories.NewAuthRepository(h.base)

	_, err := auth.Login(context.Background(), repositories.LoginInput{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.True(t, api.IsAuthExpired(err))
	assert.Empty(t, h.session.Token())
}

func TestLogoutClearsSessionAndCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/logout":
			w.WriteHeader(http.StatusNoContent)
		case "/users/me":
			writeJSON(t, w, http.StatusOK, models.Identity{ID: uuid.New()})
		default:
			t.Errorf("unhandled request %s %s", r.Method, r.URL.Path)
		}
	})
	auth := repositories.NewAuthRepository(h.base)
	users := repositories.NewUserRepository(h.base)

	_, err := users.Me(ctx)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx))
	assert.Empty(t, h.session.Token())

	// Nothing cached for the previous account may survive
	_, err = users.Me(ctx)
	require.Error(t, err)
	assert.True(t, api.IsAuthExpired(err))
}

func TestLogoutClearsLocallyWhenServerCallFails(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	})
	auth := repositories.NewAuthRepository(h.base)

	require.NoError(t, auth.Logout(ctx), "logout is best-effort server-side")
	assert.Empty(t, h.session.Token())
}
