package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wishwell/wishwell-go/pkg/cache"
	"github.com/wishwell/wishwell-go/pkg/models"
	"github.com/wishwell/wishwell-go/pkg/normalize"
	"github.com/wishwell/wishwell-go/pkg/tracing"
)

// ItemRepository handles wishlist items. Items have no cache family of their
// own: they live inside their parent wishlist's detail entry, so every item
// mutation invalidates through the wishlist families.
type ItemRepository struct {
	*Repository
}

// NewItemRepository creates a new item repository
func NewItemRepository(base *Repository) *ItemRepository {
	return &ItemRepository{Repository: base}
}

// CreateItemInput is the payload for adding an item to a wishlist
type CreateItemInput struct {
	Title       string             `json:"title" validate:"required,min=1,max=200"`
	Description *string            `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price       *normalize.Price   `json:"price,omitempty"`
	Currency    *string            `json:"currency,omitempty" validate:"omitempty,iso4217"`
	Quantity    normalize.Quantity `json:"quantity"`
	ItemType    models.ItemType    `json:"item_type" validate:"required,oneof=SPECIFIC_PRODUCT ONGOING_SUGGESTION"`
}

// UpdateItemInput is the payload for updating an item
type UpdateItemInput struct {
	Title       *string             `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string             `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price       *normalize.Price    `json:"price,omitempty"`
	Currency    *string             `json:"currency,omitempty" validate:"omitempty,iso4217"`
	Quantity    *normalize.Quantity `json:"quantity,omitempty"`
}

// itemParentKeys is the invalidation set for a mutation whose parent wishlist
// is known from the returned item.
func itemParentKeys(wishlistID uuid.UUID) []cache.Key {
	return []cache.Key{
		cache.DetailKey(familyWishlists, wishlistID.String()),
		cache.ListKey(familyWishlists, "mine"),
		cache.FamilyKey(familyDependentWishlists),
		cache.FamilyKey(familyFeed),
		cache.FamilyKey(familyPublicWishlists),
	}
}

// Create adds an item to a wishlist.
func (r *ItemRepository) Create(ctx context.Context, wishlistID uuid.UUID, input CreateItemInput) (*models.Item, error) {
	ctx, span := tracing.StartSpan(ctx, "ItemRepository.Create")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}
	if err := r.validateInput(input); err != nil {
		return nil, err
	}
	if input.Quantity.Desired < 1 {
		input.Quantity.Desired = 1
	}

	var item models.Item
	if err := r.api.Post(ctx, fmt.Sprintf("/wishlists/%s/items", wishlistID), input, &item); err != nil {
		return nil, err
	}

	r.invalidate(ctx, itemParentKeys(wishlistID)...)
	return &item, nil
}

// Update updates an item through its wishlist-scoped route.
func (r *ItemRepository) Update(ctx context.Context, wishlistID, itemID uuid.UUID, input UpdateItemInput) (*models.Item, error) {
	ctx, span := tracing.StartSpan(ctx, "ItemRepository.Update")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}
	if err := r.validateInput(input); err != nil {
		return nil, err
	}

	var item models.Item
	if err := r.api.Put(ctx, fmt.Sprintf("/wishlists/%s/items/%s", wishlistID, itemID), input, &item); err != nil {
		return nil, err
	}

	r.invalidate(ctx, itemParentKeys(wishlistID)...)
	return &item, nil
}

// UpdateByID updates an item through the flat route; the parent wishlist is
// learned from the response.
func (r *ItemRepository) UpdateByID(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*models.Item, error) {
	ctx, span := tracing.StartSpan(ctx, "ItemRepository.UpdateByID")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}
	if err := r.validateInput(input); err != nil {
		return nil, err
	}

	var item models.Item
	if err := r.api.Put(ctx, fmt.Sprintf("/items/%s", itemID), input, &item); err != nil {
		return nil, err
	}

	r.invalidate(ctx, itemParentKeys(item.WishlistID)...)
	return &item, nil
}

// Delete removes an item through its wishlist-scoped route.
func (r *ItemRepository) Delete(ctx context.Context, wishlistID, itemID uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "ItemRepository.Delete")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return err
	}

	if err := r.api.Delete(ctx, fmt.Sprintf("/wishlists/%s/items/%s", wishlistID, itemID)); err != nil {
		return err
	}

	r.invalidate(ctx, itemParentKeys(wishlistID)...)
	return nil
}

// DeleteByID removes an item through the flat route. The response carries no
// body, so the parent is unknown and the wishlist family goes wholesale.
func (r *ItemRepository) DeleteByID(ctx context.Context, itemID uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "ItemRepository.DeleteByID")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return err
	}

	if err := r.api.Delete(ctx, fmt.Sprintf("/items/%s", itemID)); err != nil {
		return err
	}

	r.invalidate(ctx,
		cache.FamilyKey(familyWishlists),
		cache.FamilyKey(familyDependentWishlists),
		cache.FamilyKey(familyFeed),
		cache.FamilyKey(familyPublicWishlists),
	)
	return nil
}

// UpdateQuantity adjusts the desired quantity of an item.
func (r *ItemRepository) UpdateQuantity(ctx context.Context, itemID uuid.UUID, desired int) (*models.Item, error) {
	ctx, span := tracing.StartSpan(ctx, "ItemRepository.UpdateQuantity")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}

	body := normalize.Quantity{Desired: desired}
	var item models.Item
	if err := r.api.Patch(ctx, fmt.Sprintf("/items/%s/quantity", itemID), body, &item); err != nil {
		return nil, err
	}

	r.invalidate(ctx, itemParentKeys(item.WishlistID)...)
	return &item, nil
}

// MarkAsReceived marks an item as received by its owner. Reservations on the
// item are settled server-side, so the reserver's view changes too.
func (r *ItemRepository) MarkAsReceived(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	ctx, span := tracing.StartSpan(ctx, "ItemRepository.MarkAsReceived")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}

	var item models.Item
	if err := r.api.Post(ctx, fmt.Sprintf("/items/%s/mark-as-received", itemID), nil, &item); err != nil {
		return nil, err
	}

	keys := append(itemParentKeys(item.WishlistID), cache.FamilyKey(familyReservations))
	r.invalidate(ctx, keys...)
	return &item, nil
}
