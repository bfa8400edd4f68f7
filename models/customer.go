package models

import (
	"time"

	"gorm.io/datatypes"
)

type CustomerVariant string
type CustomerStatus string

const (
	// A guest record is created by anonymous checkout flows before signup.
	CustomerVariantGuest      CustomerVariant = "guest"
	CustomerVariantRegistered CustomerVariant = "registered"

	CustomerStatusActive CustomerStatus = "active"
	CustomerStatusMerged CustomerStatus = "merged" // folded into a registered record, never deleted
)

// Metadata keys stamped when a guest record is retired.
const (
	MetaMergedIntoUserID = "merged_into_user_id"
	MetaMergedAt         = "merged_at"
)

// CustomerRecord represents one person in the customer directory.
// At most one registered record exists per auth user id; guest records
// may be duplicated across sessions.
type CustomerRecord struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	AuthUserID *string           `gorm:"uniqueIndex" json:"auth_user_id,omitempty"` // set only for registered
	Email      string            `gorm:"index" json:"email"`
	Phone      string            `gorm:"index" json:"phone"`
	Name       string            `json:"name"`
	Picture    string            `json:"picture"`
	Provider   string            `json:"provider"` // e.g. "google"
	Variant    CustomerVariant   `gorm:"type:VARCHAR(20);not null" json:"variant"`
	Status     CustomerStatus    `gorm:"type:VARCHAR(20);default:'active'" json:"status"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	Address    Address           `gorm:"embedded" json:"address"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Address model embedded in CustomerRecord
type Address struct {
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
}
