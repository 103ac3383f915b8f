package repositories

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wishwell/wishwell-go/pkg/cache"
	"github.com/wishwell/wishwell-go/pkg/models"
	"github.com/wishwell/wishwell-go/pkg/tracing"
)

// SocialRepository handles public profiles and the follow graph
type SocialRepository struct {
	*Repository
}

// NewSocialRepository creates a new social repository
func NewSocialRepository(base *Repository) *SocialRepository {
	return &SocialRepository{Repository: base}
}

// GetUser returns a public profile by username.
func (r *SocialRepository) GetUser(ctx context.Context, username string) (*models.Profile, error) {
	ctx, span := tracing.StartSpan(ctx, "SocialRepository.GetUser")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}

	key := cache.DetailKey(familyProfiles, username)
	return cache.GetOrFetch(ctx, r.loader, key, r.opts.StaleAfter, func(ctx context.Context) (*models.Profile, error) {
		var profile models.Profile
		if err := r.api.Get(ctx, fmt.Sprintf("/users/%s", url.PathEscape(username)), &profile); err != nil {
			return nil, err
		}
		return &profile, nil
	})
}

// Followers returns the profiles following the given user.
func (r *SocialRepository) Followers(ctx context.Context, username string) ([]models.Profile, error) {
	ctx, span := tracing.StartSpan(ctx, "SocialRepository.Followers")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}

	key := cache.ListKey(familyProfiles, username, "followers")
	return cache.GetOrFetch(ctx, r.loader, key, r.opts.StaleAfter, func(ctx context.Context) ([]models.Profile, error) {
		var profiles []models.Profile
		if err := r.api.Get(ctx, fmt.Sprintf("/users/%s/followers", url.PathEscape(username)), &profiles); err != nil {
			return nil, err
		}
		return profiles, nil
	})
}

// Following returns the profiles the given user follows.
func (r *SocialRepository) Following(ctx context.Context, username string) ([]models.Profile, error) {
	ctx, span := tracing.StartSpan(ctx, "SocialRepository.Following")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}

	key := cache.ListKey(familyProfiles, username, "following")
	return cache.GetOrFetch(ctx, r.loader, key, r.opts.StaleAfter, func(ctx context.Context) ([]models.Profile, error) {
		var profiles []models.Profile
		if err := r.api.Get(ctx, fmt.Sprintf("/users/%s/following", url.PathEscape(username)), &profiles); err != nil {
			return nil, err
		}
		return profiles, nil
	})
}

// Follow starts following a user. The feed is derived from the follow graph,
// so it goes stale together with the profiles.
func (r *SocialRepository) Follow(ctx context.Context, username string) error {
	ctx, span := tracing.StartSpan(ctx, "SocialRepository.Follow")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return err
	}

	if err := r.api.Post(ctx, fmt.Sprintf("/users/%s/follow", url.PathEscape(username)), nil, nil); err != nil {
		return err
	}

	r.invalidate(ctx,
		cache.FamilyKey(familyProfiles),
		cache.FamilyKey(familyFeed),
	)
	return nil
}

// Unfollow stops following a user.
func (r *SocialRepository) Unfollow(ctx context.Context, username string) error {
	ctx, span := tracing.StartSpan(ctx, "SocialRepository.Unfollow")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return err
	}

	if err := r.api.Delete(ctx, fmt.Sprintf("/users/%s/follow", url.PathEscape(username))); err != nil {
		return err
	}

	r.invalidate(ctx,
		cache.FamilyKey(familyProfiles),
		cache.FamilyKey(familyFeed),
	)
	return nil
}
