// Package authz derives management rights locally from session and dependent
// state. It is advisory only: the server re-checks every mutation, so a wrong
// local answer can hide a button but never widen access.
package authz

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectolinq"
	"github.com/google/uuid"

	"github.com/wishwell/wishwell-go/pkg/models"
	"github.com/wishwell/wishwell-go/pkg/repositories"
	"github.com/wishwell/wishwell-go/pkg/session"
	"github.com/wishwell/wishwell-go/pkg/tracing"
)

// Service answers management questions about wishlist owners. Every path that
// cannot prove a right answers false; an error never grants access.
type Service struct {
	session    *session.Manager
	dependents repositories.DependentRepo
	logger     ectologger.Logger
}

// NewService creates an authorization service.
func NewService(sessionManager *session.Manager, dependents repositories.DependentRepo, logger ectologger.Logger) *Service {
	return &Service{
		session:    sessionManager,
		dependents: dependents,
		logger:     logger,
	}
}

// CanManage reports whether the authenticated user may manage resources owned
// by ownerID: either the owner is the user, or the owner is a dependent the
// user is a guardian of.
func (s *Service) CanManage(ctx context.Context, ownerID uuid.UUID) bool {
	ctx, span := tracing.StartSpan(ctx, "authz.Service.CanManage")
	defer span.End()

	identity := s.session.Identity()
	if identity == nil {
		return false
	}
	if identity.ID == ownerID {
		return true
	}
	return s.isGuardianOf(ctx, identity.ID, ownerID)
}

// IsGuardianOfDependentOwner reports whether the owner is a dependent under
// the authenticated user's guardianship. Unlike CanManage it answers false
// for the user's own resources.
func (s *Service) IsGuardianOfDependentOwner(ctx context.Context, ownerID uuid.UUID) bool {
	ctx, span := tracing.StartSpan(ctx, "authz.Service.IsGuardianOfDependentOwner")
	defer span.End()

	identity := s.session.Identity()
	if identity == nil {
		return false
	}
	return s.isGuardianOf(ctx, identity.ID, ownerID)
}

func (s *Service) isGuardianOf(ctx context.Context, identityID, ownerID uuid.UUID) bool {
	if ownerID == uuid.Nil {
		return false
	}

	dependents, err := s.dependents.List(ctx)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Warnf("could not resolve dependents, denying management")
		return false
	}

	match := ectolinq.Find(dependents, func(d models.Dependent) bool {
		return d.ID == ownerID && d.HasGuardian(identityID)
	})
	return match.ID == ownerID
}
