package models

import "time"

// GuestUser is an anonymous pre-login session. Rows tagged with its ID
// (cart lines, wishlist entries, orders) are folded into a registered
// user when the session owner signs in.
type GuestUser struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}
