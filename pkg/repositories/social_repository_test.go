package repositories_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishwell/wishwell-go/pkg/models"
	"github.com/wishwell/wishwell-go/pkg/repositories"
)

func TestSocialGetUserEscapesUsername(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/ada%2Flovelace", r.URL.EscapedPath())
		writeJSON(t, w, http.StatusOK, models.Profile{ID: uuid.New(), Username: "ada/lovelace"})
	})
	social := repositories.NewSocialRepository(h.base)

	got, err := social.GetUser(context.Background(), "ada/lovelace")
	require.NoError(t, err)
	assert.Equal(t, "ada/lovelace", got.Username)
}

func TestFollowInvalidatesFeedAndProfiles(t *testing.T) {
	ctx := context.Background()
	var following bool
	var mu sync.Mutex

	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/wishlists/following":
			if !following {
				writeJSON(t, w, http.StatusOK, []models.WishlistSummary{})
				return
			}
			writeJSON(t, w, http.StatusOK, []models.WishlistSummary{{ID: uuid.New(), Title: "Grace's list"}})
		case r.Method == http.MethodPost && r.URL.Path == "/users/grace/follow":
			following = true
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unhandled request %s %s", r.Method, r.URL.Path)
		}
	})
	social := repositories.NewSocialRepository(h.base)
	wishlists := repositories.NewWishlistRepository(h.base)

	feed, err := wishlists.Following(ctx)
	require.NoError(t, err)
	assert.Empty(t, feed)

	require.NoError(t, social.Follow(ctx, "grace"))

	feed, err = wishlists.Following(ctx)
	require.NoError(t, err)
	assert.Len(t, feed, 1, "the feed reflects the new follow immediately")
}

func TestFollowersCached(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/grace/followers", r.URL.Path)
		writeJSON(t, w, http.StatusOK, []models.Profile{{ID: uuid.New(), Username: "ada"}})
	})
	social := repositories.NewSocialRepository(h.base)

	first, err := social.Followers(ctx, "grace")
	require.NoError(t, err)
	require.Len(t, first, 1)

	hitsBefore := h.hits.Load()
	_, err = social.Followers(ctx, "grace")
	require.NoError(t, err)
	assert.Equal(t, hitsBefore, h.hits.Load(), "a fresh entry is served from cache")
}
