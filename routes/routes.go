package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Dantikal/electronik-shop/config"
	orderControllers "github.com/Dantikal/electronik-shop/controllers/order"
	"github.com/Dantikal/electronik-shop/middleware"
)

// SetupRoutes is the single entry-point wiring every route group.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, notifier orderControllers.PaymentNotifier) {
	// Bearer tokens are optional everywhere; handlers that need a user
	// enforce it themselves or sit behind RequireUser.
	r.Use(middleware.Identity(cfg))

	SetupAuthRoutes(r, db, cfg)
	SetupCatalogRoutes(r, db)
	SetupCartRoutes(r, db, cfg)
	SetupOrderRoutes(r, db, cfg, notifier)
	SetupAdminRoutes(r, db, cfg)
}
