package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiscountType represents the kind of reduction a discount code provides.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFlat       DiscountType = "flat"
)

// Discount is a promotional code stored in Postgres. A discount is usable
// only while used_count < usage_limit (when capped), now is inside the
// validity window (when set) and the cart subtotal meets min_purchase.
type Discount struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code        string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Type        DiscountType   `gorm:"type:varchar(20);not null" json:"type"`
	Value       int64          `gorm:"not null" json:"value"`                   // percentage points or flat amount
	MaxDiscount int64          `gorm:"not null;default:0" json:"max_discount"`  // cap for percentage type, 0 = uncapped
	MinPurchase int64          `gorm:"not null;default:0" json:"min_purchase"`  // minimum cart subtotal
	StartsAt    *time.Time     `json:"starts_at,omitempty"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	UsageLimit  int            `gorm:"not null;default:0" json:"usage_limit"` // 0 = unlimited
	UsedCount   int            `gorm:"not null;default:0" json:"used_count"`
	Active      bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// DiscountUsage records one successful application of a discount to an order.
type DiscountUsage struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DiscountID uuid.UUID `gorm:"type:uuid;not null;index" json:"discount_id"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	Amount     int64     `gorm:"not null" json:"amount"`
	UsedAt     time.Time `gorm:"not null" json:"used_at"`
}

// CreateDiscountRequest is the admin payload for creating a discount code.
type CreateDiscountRequest struct {
	Code        string       `json:"code" binding:"required,min=3,max=64"`
	Type        DiscountType `json:"type" binding:"required,oneof=percentage flat"`
	Value       int64        `json:"value" binding:"required,gt=0"`
	MaxDiscount int64        `json:"max_discount" binding:"gte=0"`
	MinPurchase int64        `json:"min_purchase" binding:"gte=0"`
	StartsAt    *time.Time   `json:"starts_at"`
	ExpiresAt   *time.Time   `json:"expires_at"`
	UsageLimit  int          `json:"usage_limit" binding:"gte=0"`
}

// ApplyDiscountRequest attaches a discount code to the caller's cart.
type ApplyDiscountRequest struct {
	Code string `json:"code" binding:"required"`
}

// AppliedDiscount is returned after a code is validated against the cart.
type AppliedDiscount struct {
	Code           string       `json:"code"`
	Type           DiscountType `json:"type"`
	DiscountAmount int64        `json:"discount_amount"`
	Subtotal       int64        `json:"subtotal"`
}
