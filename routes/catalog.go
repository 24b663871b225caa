package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productControllers "github.com/Dantikal/electronik-shop/controllers/product"
	reviewControllers "github.com/Dantikal/electronik-shop/controllers/review"
	"github.com/Dantikal/electronik-shop/middleware"
)

func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/", productControllers.Home(db))
	r.GET("/products", productControllers.GetProducts(db))
	r.GET("/products/:id", productControllers.GetProductByID(db))
	r.GET("/search", productControllers.SearchProducts(db))
	r.GET("/categories", productControllers.GetAllCategories(db))
	r.GET("/categories/:id", productControllers.GetCategoryByID(db))

	r.POST("/products/:id/reviews", middleware.RequireUser, reviewControllers.AddReviewHandler(db))
}
