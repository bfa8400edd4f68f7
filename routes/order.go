package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/sartorialco/menswear-api/controllers/order"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	{
		// Create a new order (user or guest)
		orders.POST("/place", orderControllers.PlaceOrderHandler(db))

		// websocket endpoint for real-time order updates
		orders.GET("/ws/orders", orderControllers.OrderWebSocketHandler)

		// Fetch orders for a specific user
		orders.GET("/user/:userID", orderControllers.GetUserOrdersHandler(db))

		// Update order status (e.g., shipped, cancelled)
		orders.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))

		// Update payment status (e.g., paid, refunded)
		orders.PUT("/:orderID/payment-status", orderControllers.UpdatePaymentStatusHandler(db))
	}
}
