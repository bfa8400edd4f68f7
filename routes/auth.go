package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sartorialco/menswear-api/auth"
	"github.com/sartorialco/menswear-api/merge"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, reconciler *merge.Reconciler) {
	authGroup := r.Group("/auth")
	{
		// Google login; triggers the guest merge before issuing a session.
		googleLogin := auth.GoogleUserLoginHandler(db, reconciler)
		authGroup.POST("/google-user", func(c *gin.Context) {
			googleLogin(c.Writer, c.Request)
		})

		authGroup.POST("/guest", auth.CreateGuestUser(db))
	}
}
