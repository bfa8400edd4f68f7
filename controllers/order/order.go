package orderControllers

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sartorialco/menswear-api/models"
)

// -------- Request Structs --------

// PlaceOrderRequest places an order for either a registered user or a
// guest session. Guest orders stay unowned (user_id NULL) until the
// guest signs in and the merge claims them.
type PlaceOrderRequest struct {
	UserID        string `json:"user_id"`
	GuestID       string `json:"guest_id"`
	GuestEmail    string `json:"guest_email"`
	PaymentMethod string `json:"payment_method" binding:"required"` // e.g. "card", "cod"
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// -------- Helpers --------

// Map string to OrderStatus
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusConfirmed):
		return models.OrderStatusConfirmed, nil
	case string(models.OrderStatusReadyToShip):
		return models.OrderStatusReadyToShip, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusReturned):
		return models.OrderStatusReturned, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// Map string to PaymentStatus
func mapPaymentStatus(status string) (models.PaymentStatus, error) {
	switch strings.ToLower(status) {
	case string(models.PaymentStatusPending):
		return models.PaymentStatusPending, nil
	case string(models.PaymentStatusPaid):
		return models.PaymentStatusPaid, nil
	case string(models.PaymentStatusFailed):
		return models.PaymentStatusFailed, nil
	case string(models.PaymentStatusRefunded):
		return models.PaymentStatusRefunded, nil
	default:
		return "", errors.New("invalid payment status")
	}
}

// Generate unique order reference
func generateOrderRef() string {
	return "ORD-" + time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// -------- Core Logic --------

// PlaceOrder creates a new order from the owner's cart lines
func PlaceOrder(db *gorm.DB, req PlaceOrderRequest) (*models.Order, error) {
	if req.UserID == "" && req.GuestID == "" {
		return nil, errors.New("user_id or guest_id is required")
	}

	var lines []models.CartLine
	q := db
	if req.UserID != "" {
		q = q.Where("user_id = ?", req.UserID)
	} else {
		q = q.Where("guest_session_id = ?", req.GuestID)
	}
	if err := q.Find(&lines).Error; err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errors.New("cart is empty")
	}

	var total, totalWeight float64
	var orderItems []models.OrderItem
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		// Process cart lines
		for _, line := range lines {
			var variant models.ProductVariant
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&variant, "id = ?", line.VariantID).Error; err != nil {
				return err
			}

			if variant.Stock < line.Quantity {
				return errors.New("insufficient stock for product: " + line.ProductEName)
			}

			// Deduct stock
			variant.Stock -= line.Quantity
			if err := tx.Save(&variant).Error; err != nil {
				return err
			}

			// Accumulate totals
			total += line.ProductSalePrice * float64(line.Quantity)
			totalWeight += line.Weight * float64(line.Quantity)

			orderItems = append(orderItems, models.OrderItem{
				ProductID:           line.ProductID,
				VariantID:           line.VariantID,
				ProductEName:        line.ProductEName,
				ProductArName:       line.ProductArName,
				ProductImage:        line.ProductImage,
				ProductSalePrice:    line.ProductSalePrice,
				ProductRegularPrice: line.ProductRegularPrice,
				Weight:              line.Weight,
				Quantity:            line.Quantity,
			})
		}

		// Shipping calculation
		shippingCost := 0.0
		if totalWeight > 0 {
			shippingCost = float64(int(math.Ceil((totalWeight-1)/30.0))) * 30.0
		}

		order = models.Order{
			OrderRef:      generateOrderRef(),
			Items:         orderItems,
			TotalAmount:   total + shippingCost,
			ShippingCost:  shippingCost,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			PaymentMethod: req.PaymentMethod,
			CreatedAt:     time.Now(),
		}
		if req.UserID != "" {
			order.UserID = &req.UserID
		} else {
			order.GuestSessionID = &req.GuestID
			if req.GuestEmail != "" {
				order.GuestEmail = &req.GuestEmail
			}
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Clear cart lines
		if req.UserID != "" {
			return tx.Where("user_id = ?", req.UserID).Delete(&models.CartLine{}).Error
		}
		return tx.Where("guest_session_id = ?", req.GuestID).Delete(&models.CartLine{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// Place order (user or guest)
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := PlaceOrder(db, req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		broadcastNewOrder(*order)
		c.JSON(http.StatusOK, gin.H{"message": "Order placed successfully", "order": order})
	}
}

func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userID is required"})
			return
		}
		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// Update order status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := db.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

// Update payment status
func UpdatePaymentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapPaymentStatus(req.PaymentStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := db.Model(&models.Order{}).Where("id = ?", orderID).
			Update("payment_status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update payment status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully"})
	}
}
