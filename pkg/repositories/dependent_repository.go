package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wishwell/wishwell-go/pkg/cache"
	"github.com/wishwell/wishwell-go/pkg/models"
	"github.com/wishwell/wishwell-go/pkg/tracing"
)

// DependentRepository handles the authenticated user's dependents. The
// authorization layer derives guardianship from this repository's List, so
// every guardian mutation invalidates the whole family.
type DependentRepository struct {
	*Repository
}

// NewDependentRepository creates a new dependent repository
func NewDependentRepository(base *Repository) *DependentRepository {
	return &DependentRepository{Repository: base}
}

// CreateDependentInput is the payload for adding a dependent
type CreateDependentInput struct {
	Name         string     `json:"name" validate:"required,min=1"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Relationship string     `json:"relationship" validate:"required"`
}

// UpdateDependentInput is the payload for updating a dependent
type UpdateDependentInput struct {
	Name         *string    `json:"name,omitempty" validate:"omitempty,min=1"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Relationship *string    `json:"relationship,omitempty"`
}

// AddGuardianInput identifies the identity to add as second guardian
type AddGuardianInput struct {
	Email string `json:"email" validate:"required,email"`
}

// List returns the dependents the authenticated user is a guardian of.
func (r *DependentRepository) List(ctx context.Context) ([]models.Dependent, error) {
	ctx, span := tracing.StartSpan(ctx, "DependentRepository.List")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}

	key := cache.ListKey(familyDependents, "me")
	return cache.GetOrFetch(ctx, r.loader, key, r.opts.StaleAfter, func(ctx context.Context) ([]models.Dependent, error) {
		var dependents []models.Dependent
		if err := r.api.Get(ctx, "/users/me/dependents", &dependents); err != nil {
			return nil, err
		}
		return dependents, nil
	})
}

// Get returns a single dependent by id.
func (r *DependentRepository) Get(ctx context.Context, id uuid.UUID) (*models.Dependent, error) {
	ctx, span := tracing.StartSpan(ctx, "DependentRepository.Get")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}

	key := cache.DetailKey(familyDependents, id.String())
	return cache.GetOrFetch(ctx, r.loader, key, r.opts.StaleAfter, func(ctx context.Context) (*models.Dependent, error) {
		var dependent models.Dependent
		if err := r.api.Get(ctx, fmt.Sprintf("/users/dependents/%s", id), &dependent); err != nil {
			return nil, err
		}
		return &dependent, nil
	})
}

// Create adds a dependent with the authenticated user as primary guardian.
func (r *DependentRepository) Create(ctx context.Context, input CreateDependentInput) (*models.Dependent, error) {
	ctx, span := tracing.StartSpan(ctx, "DependentRepository.Create")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}
	if err := r.validateInput(input); err != nil {
		return nil, err
	}

	var dependent models.Dependent
	if err := r.api.Post(ctx, "/users/me/dependents", input, &dependent); err != nil {
		return nil, err
	}

	r.invalidate(ctx, cache.FamilyKey(familyDependents))
	return &dependent, nil
}

// Update updates a dependent's fields.
func (r *DependentRepository) Update(ctx context.Context, id uuid.UUID, input UpdateDependentInput) (*models.Dependent, error) {
	ctx, span := tracing.StartSpan(ctx, "DependentRepository.Update")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}
	if err := r.validateInput(input); err != nil {
		return nil, err
	}

	var dependent models.Dependent
	if err := r.api.Put(ctx, fmt.Sprintf("/users/%s", id), input, &dependent); err != nil {
		return nil, err
	}

	// The dependent's name is denormalized into wishlist summaries
	r.invalidate(ctx,
		cache.FamilyKey(familyDependents),
		cache.FamilyKey(familyDependentWishlists),
		cache.FamilyKey(familyFeed),
	)
	return &dependent, nil
}

// Delete removes a dependent and everything derived from it.
func (r *DependentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "DependentRepository.Delete")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return err
	}

	if err := r.api.Delete(ctx, fmt.Sprintf("/users/dependents/%s", id)); err != nil {
		return err
	}

	r.invalidate(ctx,
		cache.FamilyKey(familyDependents),
		cache.FamilyKey(familyDependentWishlists),
		cache.FamilyKey(familyFeed),
	)
	return nil
}

// AddGuardian grants another identity guardianship over the dependent.
func (r *DependentRepository) AddGuardian(ctx context.Context, id uuid.UUID, input AddGuardianInput) (*models.Dependent, error) {
	ctx, span := tracing.StartSpan(ctx, "DependentRepository.AddGuardian")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return nil, err
	}
	if err := r.validateInput(input); err != nil {
		return nil, err
	}

	var dependent models.Dependent
	if err := r.api.Post(ctx, fmt.Sprintf("/users/dependents/%s/add-guardian", id), input, &dependent); err != nil {
		return nil, err
	}

	r.invalidate(ctx, cache.FamilyKey(familyDependents))
	return &dependent, nil
}

// RemoveGuardianship gives up the authenticated user's guardianship.
func (r *DependentRepository) RemoveGuardianship(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "DependentRepository.RemoveGuardianship")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return err
	}

	if err := r.api.Delete(ctx, fmt.Sprintf("/users/dependents/%s/guardianship", id)); err != nil {
		return err
	}

	r.invalidate(ctx,
		cache.FamilyKey(familyDependents),
		cache.FamilyKey(familyDependentWishlists),
	)
	return nil
}
