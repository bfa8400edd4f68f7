package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sartorialco/menswear-api/merge"
	"github.com/sartorialco/menswear-api/stores"
)

// SetupRoutes is the single entry-point that wires up Auth, User, Guest,
// Admin, and Order route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// The reconciler folds guest data into a registered user at login.
	reconciler := merge.NewReconciler(
		stores.NewCustomerStore(db),
		stores.NewCartStore(db),
		stores.NewWishlistStore(db),
		stores.NewOrderStore(db),
	)

	// Public Auth routes (no middleware)
	SetupAuthRoutes(r, db, reconciler)

	// User routes (JWT-protected)
	SetupUserRoutes(r, db)

	// Guest routes (guest_id-scoped, public)
	SetupGuestRoutes(r, db)

	// Admin routes (API-Key-protected)
	SetupAdminRoutes(r, db)

	// Order routes
	SetupOrderRoutes(r, db)
}
