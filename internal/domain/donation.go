package domain

import (
	"time"

	"github.com/google/uuid"
)

// Donation records a member's contribution to a campaign.
type Donation struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Amount    int64     `json:"amount"` // in sen
	Campaign  string    `json:"campaign"`
	CreatedAt time.Time `json:"created_at"`
}
