package models

import "time"

// CartLine is a single cart row owned by either a guest session or a
// registered user. Exactly one of GuestSessionID / UserID is set; the
// merge flow clears the guest tag when it re-points a line.
// For a given owner there is at most one line per variant.
type CartLine struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	UserID              *string   `gorm:"index" json:"user_id,omitempty"`
	GuestSessionID      *string   `gorm:"index" json:"guest_session_id,omitempty"`
	VariantID           uint      `gorm:"index;not null" json:"variant_id"`
	ProductID           uint      `json:"product_id"`
	ProductEName        string    `json:"product_e_name"`  // English name of the product
	ProductArName       string    `json:"product_ar_name"` // Arabic name of the product
	ProductImage        string    `json:"product_image"`
	ProductSalePrice    float64   `json:"product_sale_price"`
	ProductRegularPrice float64   `json:"product_regular_price"`
	Weight              float64   `json:"weight"`
	Quantity            int       `json:"quantity"`
	AddedAt             time.Time `json:"added_at"`
}
