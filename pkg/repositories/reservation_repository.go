package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wishwell/wishwell-go/pkg/cache"
	"github.com/wishwell/wishwell-go/pkg/models"
	"github.com/wishwell/wishwell-go/pkg/tracing"
)

// ReservationRepository handles the authenticated user's reservations.
// Reservation state is the most dynamic data the client holds (another user
// can reserve an item at any moment), so reads use the shorter staleness
// window and conflicts from the server are surfaced verbatim.
type ReservationRepository struct {
	*Repository
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(base *Repository) *ReservationRepository {
	return &ReservationRepository{Repository: base}
}

// CreateReservationInput is the payload for reserving an item
type CreateReservationInput struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
	Message  *string   `json:"message,omitempty" validate:"omitempty,max=500"`
}

// UpdateReservationInput is the payload for adjusting a reservation
type UpdateReservationInput struct {
	Quantity *int    `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Message  *string `json:"message,omitempty" validate:"omitempty,max=500"`
}

// reservationKeys is the invalidation set for any reservation mutation. The
// reserved item lives in someone else's wishlist, which the client cannot map
// back to a detail key, so the wishlist families go wholesale.
func reservationKeys() []cache.Key {
	return []cache.Key{
		cache.FamilyKey(familyReservations),
		cache.FamilyKey(familyWishlists),
		cache.FamilyKey(familyDependentWishlists),
		cache.FamilyKey(familyFeed),
		cache.FamilyKey(familyPublicWishlists),
	}
}

// Create reserves an item. A 409 means another user won the race; the caller
// gets it as-is and should re-read the wishlist.
func (r *ReservationRepository) Create(ctx context.Context, input CreateReservationInput) (*models.Reservation, error) {
	ctx, span := tracing.StartSpan(ctx, "ReservationRepository.Create")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}
	if err := r.validateInput(input); err != nil {
		return nil, err
	}

	var reservation models.Reservation
	if err := r.api.Post(ctx, "/reservations", input, &reservation); err != nil {
		return nil, err
	}

	r.invalidate(ctx, reservationKeys()...)
	return &reservation, nil
}

// Mine returns the authenticated user's reservations.
func (r *ReservationRepository) Mine(ctx context.Context) ([]models.Reservation, error) {
	ctx, span := tracing.StartSpan(ctx, "ReservationRepository.Mine")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}

	key := cache.ListKey(familyReservations, "mine")
	return cache.GetOrFetch(ctx, r.loader, key, r.opts.DynamicStaleAfter, func(ctx context.Context) ([]models.Reservation, error) {
		var reservations []models.Reservation
		if err := r.api.Get(ctx, "/reservations/mine", &reservations); err != nil {
			return nil, err
		}
		return reservations, nil
	})
}

// Update adjusts the quantity or message of a pending reservation.
func (r *ReservationRepository) Update(ctx context.Context, id uuid.UUID, input UpdateReservationInput) (*models.Reservation, error) {
	ctx, span := tracing.StartSpan(ctx, "ReservationRepository.Update")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}
	if err := r.validateInput(input); err != nil {
		return nil, err
	}

	var reservation models.Reservation
	if err := r.api.Patch(ctx, fmt.Sprintf("/reservations/%s", id), input, &reservation); err != nil {
		return nil, err
	}

	r.invalidate(ctx, reservationKeys()...)
	return &reservation, nil
}

// ConfirmPurchase marks a reservation as purchased.
func (r *ReservationRepository) ConfirmPurchase(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	ctx, span := tracing.StartSpan(ctx, "ReservationRepository.ConfirmPurchase")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}

	var reservation models.Reservation
	if err := r.api.Post(ctx, fmt.Sprintf("/reservations/%s/confirm-purchase", id), nil, &reservation); err != nil {
		return nil, err
	}

	r.invalidate(ctx, reservationKeys()...)
	return &reservation, nil
}

// Cancel releases a reservation, making the item reservable again.
func (r *ReservationRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "ReservationRepository.Cancel")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return err
	}

	if err := r.api.Delete(ctx, fmt.Sprintf("/reservations/%s", id)); err != nil {
		return err
	}

	r.invalidate(ctx, reservationKeys()...)
	return nil
}
