package wishlistControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sartorialco/menswear-api/models"
)

// POST /guest/wishlist
func AddGuestWishlistEntry(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.Query("guest_id")
		if guestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
			return
		}

		var input WishlistInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		owner := db.Where("guest_session_id = ?", guestID)
		entry, status, err := saveEntry(db, owner, nil, &guestID, input.ProductID)
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

// GET /guest/wishlist
func GetGuestWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.Query("guest_id")
		if guestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
			return
		}

		var entries []models.WishlistEntry
		if err := db.Where("guest_session_id = ?", guestID).Order("added_at desc").Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch guest wishlist"})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// DELETE /guest/wishlist/:product_id
func DeleteGuestWishlistEntry(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.Query("guest_id")
		if guestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
			return
		}

		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
			return
		}

		result := db.Where("guest_session_id = ? AND product_id = ?", guestID, uint(productID)).
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
