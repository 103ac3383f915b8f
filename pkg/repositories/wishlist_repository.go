package repositories

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/wishwell/wishwell-go/pkg/appcontext"
	"github.com/wishwell/wishwell-go/pkg/cache"
	"github.com/wishwell/wishwell-go/pkg/models"
	"github.com/wishwell/wishwell-go/pkg/tracing"
)

// WishlistRepository handles wishlists, dependent-owned wishlists, the
// following feed and tokenized public reads.
type WishlistRepository struct {
	*Repository
}

// NewWishlistRepository creates a new wishlist repository
func NewWishlistRepository(base *Repository) *WishlistRepository {
	return &WishlistRepository{Repository: base}
}

// CreateWishlistInput is the payload for creating a wishlist
type CreateWishlistInput struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsPublic    bool    `json:"is_public"`
}

// UpdateWishlistInput is the payload for updating a wishlist
type UpdateWishlistInput struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// UpdateSharingInput toggles public visibility. Publishing makes the server
// mint a public link token; unpublishing invalidates it.
type UpdateSharingInput struct {
	IsPublic bool `json:"is_public"`
}

// Mine returns the authenticated user's own wishlists.
func (r *WishlistRepository) Mine(ctx context.Context) ([]models.WishlistSummary, error) {
	ctx, span := tracing.StartSpan(ctx, "WishlistRepository.Mine")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}

	key := cache.ListKey(familyWishlists, "mine")
	return cache.GetOrFetch(ctx, r.loader, key, r.opts.StaleAfter, func(ctx context.Context) ([]models.WishlistSummary, error) {
		var lists []models.WishlistSummary
		if err := r.api.Get(ctx, "/wishlists/mine", &lists); err != nil {
			return nil, err
		}
		return lists, nil
	})
}

// Get returns a wishlist with its items.
func (r *WishlistRepository) Get(ctx context.Context, id uuid.UUID) (*models.Wishlist, error) {
	ctx, span := tracing.StartSpan(ctx, "WishlistRepository.Get")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}

	key := cache.DetailKey(familyWishlists, id.String())
	return cache.GetOrFetch(ctx, r.loader, key, r.opts.StaleAfter, func(ctx context.Context) (*models.Wishlist, error) {
		var list models.Wishlist
		if err := r.api.Get(ctx, fmt.Sprintf("/wishlists/%s", id), &list); err != nil {
			return nil, err
		}
		return &list, nil
	})
}

// Create creates a wishlist owned by the authenticated user.
func (r *WishlistRepository) Create(ctx context.Context, input CreateWishlistInput) (*models.Wishlist, error) {
	ctx, span := tracing.StartSpan(ctx, "WishlistRepository.Create")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}
	if err := r.validateInput(input); err != nil {
		return nil, err
	}

	var list models.Wishlist
	if err := r.api.Post(ctx, "/wishlists", input, &list); err != nil {
		return nil, err
	}

	r.invalidate(ctx, cache.ListKey(familyWishlists, "mine"))
	return &list, nil
}

// Update updates a wishlist's title or description.
func (r *WishlistRepository) Update(ctx context.Context, id uuid.UUID, input UpdateWishlistInput) (*models.Wishlist, error) {
	ctx, span := tracing.StartSpan(ctx, "WishlistRepository.Update")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}
	if err := r.validateInput(input); err != nil {
		return nil, err
	}

	var list models.Wishlist
	if err := r.api.Put(ctx, fmt.Sprintf("/wishlists/%s", id), input, &list); err != nil {
		return nil, err
	}

	// Summaries embedding the title live in the owner's list, in
	// dependent-wishlist lists and in followers' feeds; the latter two
	// cannot be enumerated, so their families go wholesale.
	r.invalidate(ctx,
		cache.DetailKey(familyWishlists, id.String()),
		cache.ListKey(familyWishlists, "mine"),
		cache.FamilyKey(familyDependentWishlists),
		cache.FamilyKey(familyFeed),
	)
	return &list, nil
}

// Delete removes a wishlist. A read of the owner's list issued after this
// resolves must not include the id, and a detail read must miss.
func (r *WishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "WishlistRepository.Delete")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return err
	}

	if err := r.api.Delete(ctx, fmt.Sprintf("/wishlists/%s", id)); err != nil {
		return err
	}

	r.invalidate(ctx,
		cache.DetailKey(familyWishlists, id.String()),
		cache.ListKey(familyWishlists, "mine"),
		cache.FamilyKey(familyDependentWishlists),
		cache.FamilyKey(familyFeed),
		cache.FamilyKey(familyPublicWishlists),
	)
	return nil
}

// UpdateSharing toggles public visibility of a wishlist.
func (r *WishlistRepository) UpdateSharing(ctx context.Context, id uuid.UUID, input UpdateSharingInput) (*models.Wishlist, error) {
	ctx, span := tracing.StartSpan(ctx, "WishlistRepository.UpdateSharing")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}

	var list models.Wishlist
	if err := r.api.Patch(ctx, fmt.Sprintf("/wishlists/%s/sharing", id), input, &list); err != nil {
		return nil, err
	}

	// Summaries denormalize the visibility flag, so the owner's list and
	// dependent-wishlist lists go stale along with every feed that may
	// embed the list and every public read under its token.
	r.invalidate(ctx,
		cache.DetailKey(familyWishlists, id.String()),
		cache.ListKey(familyWishlists, "mine"),
		cache.FamilyKey(familyDependentWishlists),
		cache.FamilyKey(familyFeed),
		cache.FamilyKey(familyPublicWishlists),
	)
	return &list, nil
}

// Following returns the feed of wishlists owned by followed users.
func (r *WishlistRepository) Following(ctx context.Context) ([]models.WishlistSummary, error) {
	ctx, span := tracing.StartSpan(ctx, "WishlistRepository.Following")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}

	key := cache.ListKey(familyFeed, "me")
	return cache.GetOrFetch(ctx, r.loader, key, r.opts.StaleAfter, func(ctx context.Context) ([]models.WishlistSummary, error) {
		var lists []models.WishlistSummary
		if err := r.api.Get(ctx, "/wishlists/following", &lists); err != nil {
			return nil, err
		}
		return lists, nil
	})
}

// GetPublic returns a wishlist through its public link token. No session is
// required; an unpublished or deleted list reads as not found.
func (r *WishlistRepository) GetPublic(ctx context.Context, token string) (*models.Wishlist, error) {
	ctx, span := tracing.StartSpan(ctx, "WishlistRepository.GetPublic")
	defer span.End()

	ctx = appcontext.SetAnonymous(ctx)

	key := cache.DetailKey(familyPublicWishlists, token)
	return cache.GetOrFetch(ctx, r.loader, key, r.opts.StaleAfter, func(ctx context.Context) (*models.Wishlist, error) {
		var list models.Wishlist
		if err := r.api.Get(ctx, fmt.Sprintf("/public/wishlists/%s", url.PathEscape(token)), &list); err != nil {
			return nil, err
		}
		return &list, nil
	})
}

// ListForDependent returns the wishlists owned by a dependent.
func (r *WishlistRepository) ListForDependent(ctx context.Context, dependentID uuid.UUID) ([]models.WishlistSummary, error) {
	ctx, span := tracing.StartSpan(ctx, "WishlistRepository.ListForDependent")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}

	key := cache.ListKey(familyDependentWishlists, dependentID.String())
	return cache.GetOrFetch(ctx, r.loader, key, r.opts.StaleAfter, func(ctx context.Context) ([]models.WishlistSummary, error) {
		var lists []models.WishlistSummary
		if err := r.api.Get(ctx, fmt.Sprintf("/users/dependents/%s/wishlists", dependentID), &lists); err != nil {
			return nil, err
		}
		return lists, nil
	})
}

// CreateForDependent creates a wishlist owned by a dependent, on whose behalf
// the authenticated guardian acts.
func (r *WishlistRepository) CreateForDependent(ctx context.Context, dependentID uuid.UUID, input CreateWishlistInput) (*models.Wishlist, error) {
	ctx, span := tracing.StartSpan(ctx, "WishlistRepository.CreateForDependent")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}
	if err := r.validateInput(input); err != nil {
		return nil, err
	}

	var list models.Wishlist
	if err := r.api.Post(ctx, fmt.Sprintf("/users/dependents/%s/wishlists", dependentID), input, &list); err != nil {
		return nil, err
	}

	r.invalidate(ctx, cache.ListKey(familyDependentWishlists, dependentID.String()))
	return &list, nil
}
