package models

import (
	"time"

	"github.com/google/uuid"
)

// Sharing describes the public visibility of a wishlist. PublicLinkToken is
// generated by the server when the list is published and is present iff
// IsPublic is true.
type Sharing struct {
	IsPublic        bool    `json:"is_public"`
	PublicLinkToken *string `json:"public_link_token,omitempty"`
}

// Wishlist is a list of desired items. The owner is either an identity or a
// dependent; exactly one owner exists per list.
type Wishlist struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id"`
	IsPublic    bool      `json:"is_public"`
	Items       []Item    `json:"items"`
	Sharing     Sharing   `json:"sharing"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WishlistSummary is the denormalized shape embedded in list and feed responses
type WishlistSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	OwnerID   uuid.UUID `json:"owner_id"`
	OwnerName string    `json:"owner_name"`
	IsPublic  bool      `json:"is_public"`
	ItemCount int       `json:"item_count"`
	UpdatedAt time.Time `json:"updated_at"`
}
