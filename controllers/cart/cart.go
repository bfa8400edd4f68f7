package cartControllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sartorialco/menswear-api/models"
)

type CartItemInput struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// lookupVariant fetches a variant together with its product snapshot fields.
func lookupVariant(db *gorm.DB, variantID uint) (*models.ProductVariant, *models.Product, error) {
	var variant models.ProductVariant
	if err := db.First(&variant, "id = ?", variantID).Error; err != nil {
		return nil, nil, err
	}
	var product models.Product
	if err := db.First(&product, "id = ?", variant.ProductID).Error; err != nil {
		return nil, nil, err
	}
	return &variant, &product, nil
}

// upsertLine creates or updates the single line an owner holds for a variant.
func upsertLine(db *gorm.DB, owner *gorm.DB, userID, guestID *string, input CartItemInput) (*models.CartLine, int, error) {
	variant, product, err := lookupVariant(db, input.VariantID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, http.StatusBadRequest, err
		}
		return nil, http.StatusInternalServerError, err
	}

	var line models.CartLine
	err = owner.Where("variant_id = ?", input.VariantID).First(&line).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, http.StatusInternalServerError, err
		}
		line = models.CartLine{
			UserID:              userID,
			GuestSessionID:      guestID,
			VariantID:           variant.ID,
			ProductID:           product.ID,
			ProductEName:        product.EName,
			ProductArName:       product.ARName,
			ProductImage:        product.Image,
			ProductSalePrice:    product.SalePrice,
			ProductRegularPrice: product.RegularPrice,
			Weight:              product.Weight,
			Quantity:            input.Quantity,
			AddedAt:             time.Now(),
		}
		if err := db.Create(&line).Error; err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return &line, http.StatusCreated, nil
	}

	line.Quantity = input.Quantity
	line.AddedAt = time.Now()
	if err := db.Save(&line).Error; err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &line, http.StatusOK, nil
}

// POST /user/cart
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		owner := db.Where("user_id = ?", userID)
		line, status, err := upsertLine(db, owner, &userID, nil, input)
		if err != nil {
			msg := "Failed to update cart item"
			if status == http.StatusBadRequest {
				msg = "Variant does not exist"
			}
			c.JSON(status, gin.H{"error": msg})
			return
		}
		c.JSON(status, line)
	}
}

// GET /user/cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var lines []models.CartLine
		if err := db.Where("user_id = ?", userIDVal.(string)).Order("added_at desc").Find(&lines).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, lines)
	}
}

// DELETE /user/cart/:variant_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		variantID, err := strconv.ParseUint(c.Param("variant_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid variant_id"})
			return
		}

		result := db.Where("user_id = ? AND variant_id = ?", userIDVal.(string), uint(variantID)).
			Delete(&models.CartLine{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /user/cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := db.Where("user_id = ?", userIDVal.(string)).Delete(&models.CartLine{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
