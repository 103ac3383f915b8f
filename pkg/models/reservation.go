package models

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// Reservation is created when a non-owner reserves an item. It governs the
// reserved_by projection on the item; the server rejects conflicting creates.
type Reservation struct {
	ID        uuid.UUID         `json:"id"`
	ItemID    uuid.UUID         `json:"item_id"`
	UserID    uuid.UUID         `json:"user_id"`
	Quantity  int               `json:"quantity"`
	Status    ReservationStatus `json:"status"`
	Message   *string           `json:"message,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
