package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Dantikal/electronik-shop/config"
	cartControllers "github.com/Dantikal/electronik-shop/controllers/cart"
)

func SetupCartRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	cart := r.Group("/cart")
	{
		cart.GET("/", cartControllers.GetCart(db))
		cart.POST("/add/:product_id", cartControllers.AddToCart(db))
		cart.POST("/remove/:product_id", cartControllers.RemoveFromCart(db))
	}
}
