package models

import "time"

// WishlistEntry is a saved product owned by either a guest session or a
// registered user. At most one entry per (owner, product) pair.
type WishlistEntry struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         *string   `gorm:"index" json:"user_id,omitempty"`
	GuestSessionID *string   `gorm:"index" json:"guest_session_id,omitempty"`
	ProductID      uint      `gorm:"index;not null" json:"product_id"`
	AddedAt        time.Time `json:"added_at"`
}
