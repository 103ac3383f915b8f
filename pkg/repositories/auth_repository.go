package repositories

import (
	"context"

	"github.com/wishwell/wishwell-go/pkg/models"
	"github.com/wishwell/wishwell-go/pkg/tracing"
)

// AuthRepository handles login, logout and the password flows
type AuthRepository struct {
	*Repository
}

// NewAuthRepository creates a new auth repository
func NewAuthRepository(base *Repository) *AuthRepository {
	return &AuthRepository{Repository: base}
}

// LoginInput is the login payload
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordInput is the change-password payload
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ResetPasswordInput is the reset-password payload
type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type loginResponse struct {
	Token string           `json:"token"`
	User  *models.Identity `json:"user"`
}

type refreshResponse struct {
	Token string `json:"token"`
}

// Login authenticates against the API and establishes the session. A login
// made while a restore is still pending also satisfies the readiness gate.
func (r *AuthRepository) Login(ctx context.Context, input LoginInput) (*models.Identity, error) {
	ctx, span := tracing.StartSpan(ctx, "AuthRepository.Login")
	defer span.End()

	if err := r.validateInput(input); err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := r.api.Post(ctx, "/auth/login", input, &resp); err != nil {
		return nil, err
	}

	if err := r.session.SetSession(ctx, resp.Token, resp.User); err != nil {
		return nil, err
	}

	r.logger.WithContext(ctx).Infof("logged in as %s", resp.User.Email)
	return resp.User, nil
}

// Logout ends the session server-side, clears the persisted session and drops
// the entire cache; nothing cached for one account may leak into the next.
func (r *AuthRepository) Logout(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "AuthRepository.Logout")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return err
	}

	if err := r.api.Post(ctx, "/auth/logout", nil, nil); err != nil {
		// The server call is best-effort; local teardown still happens
		r.logger.WithContext(ctx).WithError(err).Warnf("logout call failed, clearing local session anyway")
	}

	if err := r.session.Clear(ctx); err != nil {
		return err
	}
	if err := r.loader.Cache().Clear(ctx); err != nil {
		r.logger.WithContext(ctx).WithError(err).Errorf("failed to clear cache on logout")
	}
	return nil
}

// Refresh exchanges the current token for a fresh one. The client never calls
// this on its own: a 401 always tears the session down, and consumers that
// want proactive refresh schedule it via Session.TokenExpiresWithin.
func (r *AuthRepository) Refresh(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "AuthRepository.Refresh")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return err
	}

	var resp refreshResponse
	if err := r.api.Post(ctx, "/auth/refresh", nil, &resp); err != nil {
		return err
	}
	return r.session.SetSession(ctx, resp.Token, r.session.Identity())
}

// ChangePassword updates the password of the authenticated user.
func (r *AuthRepository) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	ctx, span := tracing.StartSpan(ctx, "AuthRepository.ChangePassword")
	defer span.End()

	if err := r.awaitSession(ctx); err != nil {
		return err
	}
	if err := r.validateInput(input); err != nil {
		return err
	}
	return r.api.Post(ctx, "/auth/change-password", input, nil)
}

// ForgotPassword requests a password-reset email. Anonymous by design.
func (r *AuthRepository) ForgotPassword(ctx context.Context, email string) error {
	ctx, span := tracing.StartSpan(ctx, "AuthRepository.ForgotPassword")
	defer span.End()

	body := map[string]string{"email": email}
	return r.api.Post(ctx, "/auth/forgot-password", body, nil)
}

// ResetPassword completes a password reset using an emailed token.
func (r *AuthRepository) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	ctx, span := tracing.StartSpan(ctx, "AuthRepository.ResetPassword")
	defer span.End()

	if err := r.validateInput(input); err != nil {
		return err
	}
	return r.api.Post(ctx, "/auth/reset-password", input, nil)
}
