// Package repositories implements one data-access repository per entity
// family. Each query resolves through the stale-while-revalidate cache under
// a declared key; each mutation declares the cache prefixes it invalidates
// and applies them as one batch only after the server confirms success.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"

	"github.com/wishwell/wishwell-go/pkg/api"
	"github.com/wishwell/wishwell-go/pkg/appcontext"
	"github.com/wishwell/wishwell-go/pkg/cache"
	"github.com/wishwell/wishwell-go/pkg/session"
)

// Entity families used in cache keys. A family prefix is the unit of fan-out
// invalidation.
const (
	familyUsers              = "users"
	familyDependents         = "dependents"
	familyWishlists          = "wishlists"
	familyDependentWishlists = "dependent-wishlists"
	familyFeed               = "feed"
	familyReservations       = "reservations"
	familyProfiles           = "profiles"
	familyPublicWishlists    = "public-wishlists"
)

// Options tunes the staleness windows shared by all repositories.
type Options struct {
	// StaleAfter is the window for most entity families
	StaleAfter time.Duration
	// DynamicStaleAfter is the window for highly dynamic data (reservations)
	DynamicStaleAfter time.Duration
}

// DefaultOptions returns the reference staleness windows.
func DefaultOptions() Options {
	return Options{
		StaleAfter:        5 * time.Minute,
		DynamicStaleAfter: time.Minute,
	}
}

// Repository carries the collaborators shared by every entity repository.
type Repository struct {
	api      *api.Client
	loader   *cache.Loader
	session  *session.Manager
	validate *validator.Validate
	opts     Options
	logger   ectologger.Logger
}

// NewRepository creates the shared repository base.
func NewRepository(apiClient *api.Client, loader *cache.Loader, sessionManager *session.Manager, opts Options, logger ectologger.Logger) *Repository {
	if opts.StaleAfter == 0 {
		opts.StaleAfter = DefaultOptions().StaleAfter
	}
	if opts.DynamicStaleAfter == 0 {
		opts.DynamicStaleAfter = DefaultOptions().DynamicStaleAfter
	}
	return &Repository{
		api:      apiClient,
		loader:   loader,
		session:  sessionManager,
		validate: validator.New(),
		opts:     opts,
		logger:   logger,
	}
}

// awaitSession gates authenticated operations on session readiness, so no
// request fires with an absent or half-restored token. Anonymous contexts
// (public wishlist reads) skip the gate.
func (r *Repository) awaitSession(ctx context.Context) error {
	if appcontext.GetAnonymous(ctx) {
		return nil
	}
	return r.session.AwaitReady(ctx)
}

// validateInput runs client-side payload validation. Failures become a 400
// validation error carrying per-field messages, and no request is issued.
func (r *Repository) validateInput(in any) error {
	err := r.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fmt.Sprintf("failed on '%s'", fe.Tag())
	}
	return &api.Error{
		Status:  http.StatusBadRequest,
		Message: "validation failed",
		Fields:  fields,
	}
}

// invalidate applies a mutation's declared invalidation set as one batch.
// Called only after the mutation succeeded; failures leave the cache stale
// rather than wrong, so they are logged and not surfaced.
func (r *Repository) invalidate(ctx context.Context, prefixes ...cache.Key) {
	if err := r.loader.Invalidate(ctx, prefixes...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Errorf("cache invalidation failed for %d prefixes", len(prefixes))
	}
}
