package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wishwell/wishwell-go/pkg/normalize"
)

// ItemType distinguishes a concrete product from an open-ended suggestion
type ItemType string

const (
	ItemTypeSpecificProduct   ItemType = "SPECIFIC_PRODUCT"
	ItemTypeOngoingSuggestion ItemType = "ONGOING_SUGGESTION"
)

// Item belongs to exactly one wishlist. ReservedBy is a projection maintained
// by the server from at most one active reservation.
type Item struct {
	ID          uuid.UUID          `json:"id"`
	WishlistID  uuid.UUID          `json:"wishlist_id"`
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	Price       *normalize.Price   `json:"price,omitempty"`
	Currency    *string            `json:"currency,omitempty"`
	Quantity    normalize.Quantity `json:"quantity"`
	ItemType    ItemType           `json:"item_type"`
	ReservedBy  *uuid.UUID         `json:"reserved_by,omitempty"`
	ReservedAt  *time.Time         `json:"reserved_at,omitempty"`
	ReceivedAt  *time.Time         `json:"received_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// IsReserved reports whether the item currently has a reserver.
func (i *Item) IsReserved() bool {
	return i.ReservedBy != nil
}
