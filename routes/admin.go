package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	adminControllers "github.com/sartorialco/menswear-api/controllers/admin"
	customerControllers "github.com/sartorialco/menswear-api/controllers/customer"
	orderControllers "github.com/sartorialco/menswear-api/controllers/order"
	"github.com/sartorialco/menswear-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API key.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		adminGroup.GET("/customers", customerControllers.GetAllCustomers(db))            // GET /admin/customers
		adminGroup.GET("/customers/export", adminControllers.ExportCustomersToExcel(db)) // GET /admin/customers/export
		adminGroup.GET("/orders", orderControllers.GetAllOrdersHandler(db))              // GET /admin/orders
	}
}
