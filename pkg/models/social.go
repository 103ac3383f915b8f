package models

import (
	"time"

	"github.com/google/uuid"
)

// FollowEdge is a directed follower -> followee relation
type FollowEdge struct {
	FollowerID uuid.UUID `json:"follower_id"`
	FolloweeID uuid.UUID `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
