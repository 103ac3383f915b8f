package models

import (
	"time"

	"github.com/google/uuid"
)

// Dependent is a non-authenticating pseudo-identity managed by its guardians.
// It can own wishlists; every action on its behalf is performed by a guardian.
type Dependent struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	BirthDate        *time.Time `json:"birth_date,omitempty"`
	Relationship     string     `json:"relationship"`
	GuardianID       uuid.UUID  `json:"guardian_id"`
	SecondGuardianID *uuid.UUID `json:"second_guardian_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// HasGuardian reports whether the given identity is a guardian of the dependent.
func (d *Dependent) HasGuardian(identityID uuid.UUID) bool {
	if d.GuardianID == identityID {
		return true
	}
	return d.SecondGuardianID != nil && *d.SecondGuardianID == identityID
}
