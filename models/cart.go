package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart holds a user's pending items. A user has at most one cart; it is
// deleted in the same transaction that creates the order.
type Cart struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	DiscountID *uuid.UUID `gorm:"type:uuid" json:"discount_id,omitempty"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// CartItem freezes the unit price at the time the item was added, not the
// live variant price.
type CartItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CartID      uuid.UUID `gorm:"type:uuid;not null;index" json:"cart_id"`
	VariantID   uuid.UUID `gorm:"type:uuid;not null;index" json:"variant_id"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Price       int64     `gorm:"not null" json:"price"`
	WeightGrams int       `gorm:"not null;default:0" json:"weight_grams"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CartTotals is the aggregate used by discount validation and checkout.
type CartTotals struct {
	Subtotal    int64 `json:"subtotal"`
	WeightGrams int   `json:"weight_grams"`
}

// AddItemRequest is the payload for adding a variant to the cart.
type AddItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateQuantityRequest sets the absolute quantity of a cart item.
// A quantity of zero removes the item.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}
