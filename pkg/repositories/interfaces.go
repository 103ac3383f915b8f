package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/wishwell/wishwell-go/pkg/models"
)

// AuthRepo defines the authentication operations
type AuthRepo interface {
	Login(ctx context.Context, input LoginInput) (*models.Identity, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
	ChangePassword(ctx context.Context, input ChangePasswordInput) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
}

// UserRepo defines operations on the authenticated user
type UserRepo interface {
	Me(ctx context.Context) (*models.Identity, error)
	UpdateMe(ctx context.Context, input UpdateUserInput) (*models.Identity, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*models.Profile, error)
	UpdateLanguage(ctx context.Context, language string) error
}

// DependentRepo defines operations on the user's dependents
type DependentRepo interface {
	List(ctx context.Context) ([]models.Dependent, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Dependent, error)
	Create(ctx context.Context, input CreateDependentInput) (*models.Dependent, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateDependentInput) (*models.Dependent, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddGuardian(ctx context.Context, id uuid.UUID, input AddGuardianInput) (*models.Dependent, error)
	RemoveGuardianship(ctx context.Context, id uuid.UUID) error
}

// WishlistRepo defines operations on wishlists, including dependent-owned
// lists, the following feed and tokenized public reads
type WishlistRepo interface {
	Mine(ctx context.Context) ([]models.WishlistSummary, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Wishlist, error)
	Create(ctx context.Context, input CreateWishlistInput) (*models.Wishlist, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateWishlistInput) (*models.Wishlist, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateSharing(ctx context.Context, id uuid.UUID, input UpdateSharingInput) (*models.Wishlist, error)
	Following(ctx context.Context) ([]models.WishlistSummary, error)
	GetPublic(ctx context.Context, token string) (*models.Wishlist, error)
	ListForDependent(ctx context.Context, dependentID uuid.UUID) ([]models.WishlistSummary, error)
	CreateForDependent(ctx context.Context, dependentID uuid.UUID, input CreateWishlistInput) (*models.Wishlist, error)
}

// ItemRepo defines operations on wishlist items
type ItemRepo interface {
	Create(ctx context.Context, wishlistID uuid.UUID, input CreateItemInput) (*models.Item, error)
	Update(ctx context.Context, wishlistID, itemID uuid.UUID, input UpdateItemInput) (*models.Item, error)
	UpdateByID(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*models.Item, error)
	Delete(ctx context.Context, wishlistID, itemID uuid.UUID) error
	DeleteByID(ctx context.Context, itemID uuid.UUID) error
	UpdateQuantity(ctx context.Context, itemID uuid.UUID, desired int) (*models.Item, error)
	MarkAsReceived(ctx context.Context, itemID uuid.UUID) (*models.Item, error)
}

// ReservationRepo defines operations on the user's reservations
type ReservationRepo interface {
	Create(ctx context.Context, input CreateReservationInput) (*models.Reservation, error)
	Mine(ctx context.Context) ([]models.Reservation, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateReservationInput) (*models.Reservation, error)
	ConfirmPurchase(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

// SocialRepo defines the follow graph operations
type SocialRepo interface {
	GetUser(ctx context.Context, username string) (*models.Profile, error)
	Followers(ctx context.Context, username string) ([]models.Profile, error)
	Following(ctx context.Context, username string) ([]models.Profile, error)
	Follow(ctx context.Context, username string) error
	Unfollow(ctx context.Context, username string) error
}
