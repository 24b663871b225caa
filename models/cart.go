package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart belongs to exactly one owner: an authenticated user or an anonymous
// session key. Both columns are nullable and unique so a single table serves
// both kinds of visitors; carts are created lazily on first interaction.
type Cart struct {
	CartID     uint       `gorm:"primaryKey" json:"cart_id"`
	UserID     *uint      `gorm:"uniqueIndex" json:"user_id,omitempty"`
	SessionKey *string    `gorm:"uniqueIndex" json:"-"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"index;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_product" json:"product_id"`
	Product   Product   `json:"product"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// TotalPrice is derived, never stored. Requires Product to be preloaded.
func (i CartItem) TotalPrice() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
