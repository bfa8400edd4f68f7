package cartControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sartorialco/menswear-api/models"
)

// POST /guest/cart
func UpdateGuestCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.Query("guest_id")
		if guestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		owner := db.Where("guest_session_id = ?", guestID)
		line, status, err := upsertLine(db, owner, nil, &guestID, input)
		if err != nil {
			msg := "Failed to update guest cart item"
			if status == http.StatusBadRequest {
				msg = "Variant does not exist"
			}
			c.JSON(status, gin.H{"error": msg})
			return
		}
		c.JSON(status, line)
	}
}

// GET /guest/cart
func GetGuestCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.Query("guest_id")
		if guestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
			return
		}

		var lines []models.CartLine
		if err := db.Where("guest_session_id = ?", guestID).Order("added_at desc").Find(&lines).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch guest cart"})
			return
		}
		c.JSON(http.StatusOK, lines)
	}
}

// DELETE /guest/cart/:variant_id
func DeleteGuestCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.Query("guest_id")
		if guestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
			return
		}

		variantID, err := strconv.ParseUint(c.Param("variant_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid variant_id"})
			return
		}

		result := db.Where("guest_session_id = ? AND variant_id = ?", guestID, uint(variantID)).
			Delete(&models.CartLine{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Guest cart item deleted"})
	}
}

// DELETE /guest/cart
func ClearGuestCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.Query("guest_id")
		if guestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
			return
		}

		if err := db.Where("guest_session_id = ?", guestID).Delete(&models.CartLine{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear guest cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Guest cart cleared"})
	}
}
