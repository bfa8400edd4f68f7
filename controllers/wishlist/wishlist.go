package wishlistControllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sartorialco/menswear-api/models"
)

type WishlistInput struct {
	ProductID uint `json:"product_id" binding:"required"`
}

func saveEntry(db *gorm.DB, owner *gorm.DB, userID, guestID *string, productID uint) (*models.WishlistEntry, int, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, http.StatusBadRequest, err
		}
		return nil, http.StatusInternalServerError, err
	}

	// One entry per (owner, product); re-adding is a no-op.
	var existing models.WishlistEntry
	err := owner.Where("product_id = ?", productID).First(&existing).Error
	if err == nil {
		return &existing, http.StatusOK, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, http.StatusInternalServerError, err
	}

	entry := models.WishlistEntry{
		UserID:         userID,
		GuestSessionID: guestID,
		ProductID:      productID,
		AddedAt:        time.Now(),
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &entry, http.StatusCreated, nil
}

// POST /user/wishlist
func AddWishlistEntry(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var input WishlistInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		owner := db.Where("user_id = ?", userID)
		entry, status, err := saveEntry(db, owner, &userID, nil, input.ProductID)
		if err != nil {
			msg := "Failed to save wishlist entry"
			if status == http.StatusBadRequest {
				msg = "Product does not exist"
			}
			c.JSON(status, gin.H{"error": msg})
			return
		}
		c.JSON(status, entry)
	}
}

// GET /user/wishlist
func GetUserWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var entries []models.WishlistEntry
		if err := db.Where("user_id = ?", userIDVal.(string)).Order("added_at desc").Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// DELETE /user/wishlist/:product_id
func DeleteWishlistEntry(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
			return
		}

		result := db.Where("user_id = ? AND product_id = ?", userIDVal.(string), uint(productID)).
			Delete(&models.WishlistEntry{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete entry"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wishlist entry not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Wishlist entry deleted"})
	}
}
