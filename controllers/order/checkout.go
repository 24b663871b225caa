package orderControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Dantikal/electronik-shop/config"
	cartControllers "github.com/Dantikal/electronik-shop/controllers/cart"
	"github.com/Dantikal/electronik-shop/models"
	"github.com/Dantikal/electronik-shop/telegram"
)

var ErrEmptyCart = errors.New("cart is empty")

type CheckoutRequest struct {
	FirstName  string `form:"first_name" json:"first_name" binding:"required"`
	LastName   string `form:"last_name" json:"last_name"`
	Email      string `form:"email" json:"email" binding:"required,email"`
	Phone      string `form:"phone" json:"phone" binding:"required"`
	Address    string `form:"address" json:"address" binding:"required"`
	City       string `form:"city" json:"city" binding:"required"`
	PostalCode string `form:"postal_code" json:"postal_code"`
}

// Checkout turns a populated cart into an order in one transaction: the cart
// row is locked so two checkouts of the same cart cannot both succeed, every
// line snapshots the current product name and price, and the cart is cleared.
// The order never re-derives from the cart afterwards.
func Checkout(db *gorm.DB, cart *models.Cart, userID *uint, req CheckoutRequest) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var locked models.Cart
		if err := models.LockForUpdate(tx).First(&locked, "cart_id = ?", cart.CartID).Error; err != nil {
			return err
		}

		var items []models.CartItem
		if err := tx.Preload("Product").Where("cart_id = ?", locked.CartID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			total = total.Add(item.TotalPrice())
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   item.ProductID,
				ProductName: item.Product.Name,
				Price:       item.Product.Price,
				Quantity:    item.Quantity,
			})
		}

		order = models.Order{
			UserID:        userID,
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			Email:         req.Email,
			Phone:         req.Phone,
			Address:       req.Address,
			City:          req.City,
			PostalCode:    req.PostalCode,
			TotalPrice:    total,
			PaymentMethod: models.PaymentMethodTelegram,
			Status:        models.OrderStatusProcessing,
			Items:         orderItems,
			CreatedAt:     time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Where("cart_id = ?", locked.CartID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// POST /checkout
// On success redirects to the Telegram deep link carrying the composed
// payment message. An empty cart is a user-facing rejection, not a failure.
func CheckoutHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid checkout form: " + err.Error()})
			return
		}

		ident := cartControllers.CurrentIdentity(c)
		cart, err := cartControllers.ResolveCart(db, ident)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		order, err := Checkout(db, cart, ident.UserID, req)
		if errors.Is(err, ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			return
		}

		c.Redirect(http.StatusSeeOther, telegram.PaymentLink(cfg, order))
	}
}
