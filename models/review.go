package models

import "time"

// Review is unique per (product, user); resubmission updates the existing row
// and sends it back through moderation.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"index;uniqueIndex:idx_product_user" json:"product_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_product_user" json:"user_id"`
	User      User      `json:"user,omitempty"`
	Rating    int       `gorm:"not null" json:"rating"`
	Text      string    `json:"text"`
	Approved  bool      `gorm:"not null;default:false" json:"approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
