package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Dantikal/electronik-shop/middleware"
	"github.com/Dantikal/electronik-shop/models"
)

var (
	ErrProductNotFound = errors.New("product does not exist")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// Identity is the cart owner: an authenticated user or an anonymous session.
type Identity struct {
	UserID     *uint
	SessionKey string
}

// CurrentIdentity resolves the caller, allocating a session key for anonymous
// visitors on first use.
func CurrentIdentity(c *gin.Context) Identity {
	if uid := middleware.CurrentUserID(c); uid != nil {
		return Identity{UserID: uid}
	}
	return Identity{SessionKey: middleware.SessionKey(c)}
}

// ResolveCart returns the single cart for the identity, creating it lazily.
// User and session carts are never merged.
func ResolveCart(db *gorm.DB, id Identity) (*models.Cart, error) {
	var cart models.Cart
	q := db
	if id.UserID != nil {
		q = q.Where("user_id = ?", *id.UserID)
	} else {
		q = q.Where("session_key = ?", id.SessionKey)
	}

	err := q.First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: id.UserID}
		if id.UserID == nil {
			key := id.SessionKey
			cart.SessionKey = &key
		}
		if err := db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem creates the (cart, product) line with the given quantity, replaces
// the quantity when override is set, and accumulates otherwise. The row is
// locked for the read-modify-write so concurrent adds don't lose updates.
func AddItem(db *gorm.DB, cart *models.Cart, productID uint, quantity int, override bool) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		var item models.CartItem
		err := models.LockForUpdate(tx).
			Where("cart_id = ? AND product_id = ?", cart.CartID, productID).
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = models.CartItem{
				CartID:    cart.CartID,
				ProductID: product.ID,
				Quantity:  quantity,
				AddedAt:   time.Now(),
			}
			return tx.Create(&item).Error
		}
		if err != nil {
			return err
		}

		if override {
			item.Quantity = quantity
		} else {
			item.Quantity += quantity
		}
		item.AddedAt = time.Now()
		return tx.Save(&item).Error
	})
}

// RemoveItem deletes the matching line. Removing an absent item is a no-op.
func RemoveItem(db *gorm.DB, cart *models.Cart, productID uint) error {
	return db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).
		Delete(&models.CartItem{}).Error
}

// CartItems loads the cart lines with their products.
func CartItems(db *gorm.DB, cart *models.Cart) ([]models.CartItem, error) {
	var items []models.CartItem
	err := db.Preload("Product").
		Where("cart_id = ?", cart.CartID).
		Order("added_at").
		Find(&items).Error
	return items, err
}

// CartTotal recomputes the live total; cart totals are never stored.
func CartTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// GET /cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := ResolveCart(db, CurrentIdentity(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		items, err := CartItems(db, cart)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart items"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"cart_id":     cart.CartID,
			"items":       items,
			"total_price": CartTotal(items),
		})
	}
}

// POST /cart/add/:product_id
// Form fields: quantity (positive int), override (bool). Invalid input is a
// silent no-op; the client is redirected to the cart view either way.
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		cart, err := ResolveCart(db, CurrentIdentity(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		quantity, qErr := strconv.Atoi(c.PostForm("quantity"))
		override, _ := strconv.ParseBool(c.DefaultPostForm("override", "false"))

		if qErr == nil {
			if err := AddItem(db, cart, uint(productID), quantity, override); err != nil {
				if errors.Is(err, ErrProductNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
					return
				}
				if !errors.Is(err, ErrInvalidQuantity) {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
					return
				}
			}
		}

		c.Redirect(http.StatusSeeOther, "/cart")
	}
}

// POST /cart/remove/:product_id
func RemoveFromCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		cart, err := ResolveCart(db, CurrentIdentity(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if err := RemoveItem(db, cart, uint(productID)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
			return
		}

		c.Redirect(http.StatusSeeOther, "/cart")
	}
}
