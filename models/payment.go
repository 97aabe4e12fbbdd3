package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment status states. Drives Order status transitions.
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusSettled  = "settled"
	PaymentStatusExpired  = "expired"
	PaymentStatusRefunded = "refunded"
)

// Refund status states, tracked independently of the payment's own status.
const (
	RefundStatusPending   = "pending"
	RefundStatusSucceeded = "succeeded"
	RefundStatusRejected  = "rejected"
	RefundStatusFailed    = "failed"
)

// Payment is one-to-one with Order and holds the gateway-issued token.
type Payment struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Token       string         `gorm:"type:varchar(256);uniqueIndex;not null" json:"token"`
	RedirectURL string         `gorm:"type:varchar(1024)" json:"redirect_url,omitempty"`
	Method      string         `gorm:"type:varchar(32);not null" json:"method"`
	Amount      int64          `gorm:"not null" json:"amount"`
	Status      string         `gorm:"type:varchar(20);not null;default:'unpaid'" json:"status"`
	PaidAt      *time.Time     `json:"paid_at,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Refund is created when a paid order is canceled.
type Refund struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	PaymentID uuid.UUID `gorm:"type:uuid;not null;index" json:"payment_id"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Reason    string    `gorm:"type:varchar(255)" json:"reason"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
