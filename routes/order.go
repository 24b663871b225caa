package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Dantikal/electronik-shop/config"
	orderControllers "github.com/Dantikal/electronik-shop/controllers/order"
	"github.com/Dantikal/electronik-shop/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, notifier orderControllers.PaymentNotifier) {
	r.POST("/checkout", orderControllers.CheckoutHandler(db, cfg))

	r.GET("/orders", middleware.RequireUser, orderControllers.ListUserOrders(db))
	r.GET("/orders/:id", orderControllers.GetOrder(db))

	api := r.Group("/api/orders")
	{
		api.GET("/ws", orderControllers.OrderUpdatesHandler)
		api.GET("/:id/status", orderControllers.GetOrderStatus(db))
		api.POST("/:id/payment-method", orderControllers.ChangePaymentMethodHandler(db))
		api.POST("/:id/payment-reference", orderControllers.GeneratePaymentReferenceHandler(db))
		api.POST("/:id/notify-payment", orderControllers.NotifyPaymentHandler(db, notifier))
	}
}
