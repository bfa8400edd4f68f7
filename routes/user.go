package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/sartorialco/menswear-api/controllers/cart"
	customerControllers "github.com/sartorialco/menswear-api/controllers/customer"
	productControllers "github.com/sartorialco/menswear-api/controllers/product"
	wishlistControllers "github.com/sartorialco/menswear-api/controllers/wishlist"
	"github.com/sartorialco/menswear-api/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── Customer Profile ────────────────
		userGroup.GET("/", customerControllers.GetCustomer(db))    // GET /user/
		userGroup.PUT("/", customerControllers.UpdateCustomer(db)) // PUT /user/

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(db))                  // GET /user/cart
			cartGroup.POST("/", cartControllers.UpdateCartItem(db))              // POST /user/cart
			cartGroup.DELETE("/:variant_id", cartControllers.DeleteCartItem(db)) // DELETE /user/cart/:variant_id
			cartGroup.DELETE("/", cartControllers.ClearUserCart(db))             // DELETE /user/cart
		}

		// ──────────────── Wishlist ────────────────
		wishlistGroup := userGroup.Group("/wishlist")
		{
			wishlistGroup.GET("/", wishlistControllers.GetUserWishlist(db))                   // GET /user/wishlist
			wishlistGroup.POST("/", wishlistControllers.AddWishlistEntry(db))                 // POST /user/wishlist
			wishlistGroup.DELETE("/:product_id", wishlistControllers.DeleteWishlistEntry(db)) // DELETE /user/wishlist/:product_id
		}

		// ──────────────── Browse Products ────────────────
		userGroup.GET("/products", productControllers.GetProducts(db))        // GET /user/products
		userGroup.GET("/products/:id", productControllers.GetProductByID(db)) // GET /user/products/:id
	}
}
