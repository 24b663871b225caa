package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing" // awaiting manual payment confirmation
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusError      OrderStatus = "error"
)

// Payment methods accepted for new orders. The set has narrowed over time;
// only the Telegram hand-off remains.
const PaymentMethodTelegram = "telegram"

func IsAcceptedPaymentMethod(method string) bool {
	return method == PaymentMethodTelegram
}

// Order is an immutable snapshot of a completed checkout. Only Paid, Status
// and PaymentMethod change afterwards, driven by the manual confirmation flow.
// UserID is nil for anonymous checkouts, which are identified by email.
type Order struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UserID           *uint           `gorm:"index" json:"user_id,omitempty"`
	FirstName        string          `gorm:"not null" json:"first_name"`
	LastName         string          `json:"last_name"`
	Email            string          `gorm:"index;not null" json:"email"`
	Phone            string          `json:"phone"`
	Address          string          `json:"address"`
	City             string          `json:"city"`
	PostalCode       string          `json:"postal_code"`
	TotalPrice       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
	PaymentMethod    string          `gorm:"type:varchar(20);not null;default:'telegram'" json:"payment_method"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	Paid             bool            `gorm:"not null;default:false" json:"paid"`
	Status           OrderStatus     `gorm:"type:varchar(20);not null;default:'processing'" json:"status"`
	Items            []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt        time.Time       `json:"created_at"`
}

// OrderItem carries the product name and price as they were at checkout, so
// later catalog edits never change a placed order.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index" json:"order_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `gorm:"not null" json:"product_name"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
}

func (i OrderItem) TotalPrice() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
