package orderControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Dantikal/electronik-shop/middleware"
	"github.com/Dantikal/electronik-shop/models"
)

var (
	ErrAlreadyPaid       = errors.New("payment method cannot be changed for a paid order")
	ErrUnsupportedMethod = errors.New("unsupported payment method")
)

// PaymentNotifier hands the payment claim off to the external messaging
// channel. Delivery failures are isolated from the already-committed order.
type PaymentNotifier interface {
	NotifyPayment(order *models.Order) error
}

type ChangePaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
	Email         string `json:"email"`
}

// ChangePaymentMethod validates and persists a new payment method. Paid
// orders and methods outside the accepted set are rejected unchanged.
func ChangePaymentMethod(db *gorm.DB, order *models.Order, newMethod string) error {
	if order.Paid {
		return ErrAlreadyPaid
	}
	if !models.IsAcceptedPaymentMethod(newMethod) {
		return ErrUnsupportedMethod
	}
	return db.Model(order).Update("payment_method", newMethod).Error
}

// POST /api/orders/:id/payment-method
func ChangePaymentMethodHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := orderID(c)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
			return
		}
		var req ChangePaymentMethodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "payment_method is required"})
			return
		}

		var order models.Order
		if err := db.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch order"})
			return
		}
		if !authorized(&order, middleware.CurrentUserID(c), req.Email) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "not allowed"})
			return
		}

		if err := ChangePaymentMethod(db, &order, req.PaymentMethod); err != nil {
			if errors.Is(err, ErrAlreadyPaid) || errors.Is(err, ErrUnsupportedMethod) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update payment method"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"message":        "Payment method changed to " + req.PaymentMethod,
			"payment_method": req.PaymentMethod,
		})
	}
}

// GeneratePaymentReference returns the order's payment reference, creating it
// on first call. The same code is returned on every call for that order.
func GeneratePaymentReference(db *gorm.DB, order *models.Order) (string, error) {
	if order.PaymentReference != "" {
		return order.PaymentReference, nil
	}
	ref := time.Now().Format("20060102150405") + "-" + uuid.NewString()
	if err := db.Model(order).Update("payment_reference", ref).Error; err != nil {
		return "", err
	}
	return ref, nil
}

// POST /api/orders/:id/payment-reference
func GeneratePaymentReferenceHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := orderID(c)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
			return
		}
		var order models.Order
		if err := db.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch order"})
			return
		}
		if !authorized(&order, middleware.CurrentUserID(c), c.Query("email")) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
			return
		}

		ref, err := GeneratePaymentReference(db, &order)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to generate payment reference"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"reference": ref,
			"message":   "Payment reference generated",
		})
	}
}

// POST /api/orders/:id/notify-payment
// Fire-and-forget relative to the order: a gateway failure is reported to the
// caller as retriable and never rolls anything back.
func NotifyPaymentHandler(db *gorm.DB, notifier PaymentNotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := orderID(c)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
			return
		}
		var order models.Order
		if err := db.Preload("Items").First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch order"})
			return
		}
		if !authorized(&order, middleware.CurrentUserID(c), c.Query("email")) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
			return
		}

		if err := notifier.NotifyPayment(&order); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to send notification: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification sent to the manager"})
	}
}
