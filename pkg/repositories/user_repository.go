package repositories

import (
	"context"

	"github.com/wishwell/wishwell-go/pkg/cache"
	"github.com/wishwell/wishwell-go/pkg/models"
	"github.com/wishwell/wishwell-go/pkg/tracing"
)

// UserRepository handles the authenticated user's own resource
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(base *Repository) *UserRepository {
	return &UserRepository{Repository: base}
}

// UpdateUserInput is the payload for updating the authenticated user
type UpdateUserInput struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// UpdateProfileInput is the payload for updating the public profile
type UpdateProfileInput struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,url"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=500"`
}

// Me returns the authenticated identity, refreshing the session snapshot on
// every network fetch.
func (r *UserRepository) Me(ctx context.Context) (*models.Identity, error) {
	ctx, span := tracing.StartSpan(ctx, "UserRepository.Me")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}

	key := cache.DetailKey(familyUsers, "me")
	return cache.GetOrFetch(ctx, r.loader, key, r.opts.StaleAfter, func(ctx context.Context) (*models.Identity, error) {
		var identity models.Identity
		if err := r.api.Get(ctx, "/users/me", &identity); err != nil {
			return nil, err
		}
		if err := r.session.SetIdentity(ctx, &identity); err != nil {
			r.logger.WithContext(ctx).WithError(err).Warnf("failed to refresh identity snapshot")
		}
		return &identity, nil
	})
}

// UpdateMe updates the authenticated user and refreshes the snapshot.
func (r *UserRepository) UpdateMe(ctx context.Context, input UpdateUserInput) (*models.Identity, error) {
	ctx, span := tracing.StartSpan(ctx, "UserRepository.UpdateMe")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}
	if err := r.validateInput(input); err != nil {
		return nil, err
	}

	var identity models.Identity
	if err := r.api.Put(ctx, "/users/me", input, &identity); err != nil {
		return nil, err
	}

	if err := r.session.SetIdentity(ctx, &identity); err != nil {
		r.logger.WithContext(ctx).WithError(err).Warnf("failed to refresh identity snapshot")
	}
	r.invalidate(ctx, cache.FamilyKey(familyUsers))
	return &identity, nil
}

// UpdateProfile updates the public profile of the authenticated user.
func (r *UserRepository) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*models.Profile, error) {
	ctx, span := tracing.StartSpan(ctx, "UserRepository.UpdateProfile")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}
	if err := r.validateInput(input); err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := r.api.Put(ctx, "/users/profile", input, &profile); err != nil {
		return nil, err
	}

	// The profile is denormalized into follower lists and feed entries
	r.invalidate(ctx,
		cache.FamilyKey(familyUsers),
		cache.FamilyKey(familyProfiles),
		cache.FamilyKey(familyFeed),
	)
	return &profile, nil
}

// UpdateLanguage sets the preferred language of the authenticated user.
func (r *UserRepository) UpdateLanguage(ctx context.Context, language string) error {
	ctx, span := tracing.StartSpan(ctx, "UserRepository.UpdateLanguage")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return err
	}

	body := map[string]string{"language": language}
	if err := r.api.Put(ctx, "/users/me/language", body, nil); err != nil {
		return err
	}

	r.invalidate(ctx, cache.DetailKey(familyUsers, "me"))
	return nil
}
