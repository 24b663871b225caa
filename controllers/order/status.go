package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Dantikal/electronik-shop/middleware"
	"github.com/Dantikal/electronik-shop/models"
)

// authorized reports whether the caller may see the order. Users see their
// own orders; anonymous orders are matched by email.
func authorized(order *models.Order, userID *uint, email string) bool {
	if order.UserID != nil {
		return userID != nil && *userID == *order.UserID
	}
	return email != "" && email == order.Email
}

func orderID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}

// GET /api/orders/:id/status?email=
// Unauthorized access reads as not-found so order existence never leaks.
func GetOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := orderID(c)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"paid": false, "status": "error", "error": "order not found"})
			return
		}

		var order models.Order
		if err := db.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"paid": false, "status": "error", "error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"paid": false, "status": "error", "error": "failed to fetch order"})
			return
		}

		if !authorized(&order, middleware.CurrentUserID(c), c.Query("email")) {
			c.JSON(http.StatusNotFound, gin.H{"paid": false, "status": "error", "error": "order not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"paid":     order.Paid,
			"status":   order.Status,
			"order_id": order.ID,
		})
	}
}

// GET /orders — the caller's orders, newest first.
func ListUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)
		if userID == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var orders []models.Order
		if err := db.Where("user_id = ?", *userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:id?email=
func GetOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := orderID(c)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		var order models.Order
		if err := db.Preload("Items").First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		if !authorized(&order, middleware.CurrentUserID(c), c.Query("email")) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
