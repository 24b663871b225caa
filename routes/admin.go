package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Dantikal/electronik-shop/config"
	orderControllers "github.com/Dantikal/electronik-shop/controllers/order"
	reviewControllers "github.com/Dantikal/electronik-shop/controllers/review"
	"github.com/Dantikal/electronik-shop/middleware"
)

// SetupAdminRoutes registers the API-key-protected surface used by the
// manager after confirming a payment out of band.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAPIKey(cfg))
	{
		admin.PUT("/orders/:id/status", orderControllers.AdminUpdateOrderStatus(db))
		admin.PUT("/orders/:id/paid", orderControllers.AdminUpdateOrderPaid(db))
		admin.PUT("/reviews/:id/approve", reviewControllers.AdminApproveReview(db))
	}
}
