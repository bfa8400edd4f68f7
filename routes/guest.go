package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/sartorialco/menswear-api/controllers/cart"
	wishlistControllers "github.com/sartorialco/menswear-api/controllers/wishlist"
)

// SetupGuestRoutes registers all "/guest/*" endpoints. Guest rows are
// tagged with the guest_id query param and claimed by the merge at login.
func SetupGuestRoutes(r *gin.Engine, db *gorm.DB) {
	guestGroup := r.Group("/guest")
	{
		cartGroup := guestGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetGuestCart(db))                      // GET /guest/cart
			cartGroup.POST("/", cartControllers.UpdateGuestCartItem(db))              // POST /guest/cart
			cartGroup.DELETE("/:variant_id", cartControllers.DeleteGuestCartItem(db)) // DELETE /guest/cart/:variant_id
			cartGroup.DELETE("/", cartControllers.ClearGuestCart(db))                 // DELETE /guest/cart
		}

		wishlistGroup := guestGroup.Group("/wishlist")
		{
			wishlistGroup.GET("/", wishlistControllers.GetGuestWishlist(db))                       // GET /guest/wishlist
			wishlistGroup.POST("/", wishlistControllers.AddGuestWishlistEntry(db))                 // POST /guest/wishlist
			wishlistGroup.DELETE("/:product_id", wishlistControllers.DeleteGuestWishlistEntry(db)) // DELETE /guest/wishlist/:product_id
		}
	}
}
