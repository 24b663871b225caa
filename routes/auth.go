package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Dantikal/electronik-shop/auth"
	"github.com/Dantikal/electronik-shop/config"
)

func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	group := r.Group("/auth")
	{
		group.POST("/register", auth.Register(db, cfg))
		group.POST("/login", auth.Login(db, cfg))
		group.POST("/session", auth.CreateSession())
	}
}
