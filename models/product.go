package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID            uint    `gorm:"primaryKey;autoIncrement"`
	EName         string  `gorm:"not null"` // English Name
	ARName        string  // Arabic Name
	EDescription  string  // English Description
	ARDescription string  // Arabic Description
	SalePrice     float64 `gorm:"not null"` // Required
	RegularPrice  float64
	Image         string           `gorm:"not null"`
	Weight        float64          `gorm:"not null"` // Required
	Variants      []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Stock         int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// ProductVariant is a sellable size/color combination. Cart lines key on
// variants, not products.
type ProductVariant struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	ProductID uint   `gorm:"index"`
	SKU       string `gorm:"uniqueIndex"`
	Size      string // e.g. "M", "42R"
	Color     string
	Stock     int
}
