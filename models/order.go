package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order status states. Terminal states are completed, canceled and failed.
const (
	OrderStatusWaitingPayment  = "waiting_payment"
	OrderStatusPaymentReceived = "payment_received"
	OrderStatusProcessing      = "processing"
	OrderStatusShipping        = "shipping"
	OrderStatusCompleted       = "completed"
	OrderStatusCanceled        = "canceled"
	OrderStatusFailed          = "failed"
)

// Order is an immutable-after-creation snapshot of the checkout: shipping
// address, chosen courier service, and the derived amounts. Only Status and
// the cancellation/review bookkeeping fields change afterwards.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	// Shipping address snapshot.
	RecipientName string `gorm:"type:varchar(128);not null" json:"recipient_name"`
	Phone         string `gorm:"type:varchar(32);not null" json:"phone"`
	Address       string `gorm:"type:varchar(512);not null" json:"address"`
	PostalCode    string `gorm:"type:varchar(16);not null" json:"postal_code"`
	CityID        string `gorm:"type:varchar(16);not null" json:"city_id"`
	CityName      string `gorm:"type:varchar(128)" json:"city_name"`

	// Chosen courier service snapshot.
	CourierCode    string `gorm:"type:varchar(32);not null" json:"courier_code"`
	CourierService string `gorm:"type:varchar(64);not null" json:"courier_service"`
	ShippingCost   int64  `gorm:"not null" json:"shipping_cost"`
	EtdMinDays     int    `gorm:"not null;default:0" json:"etd_min_days"`
	EtdMaxDays     int    `gorm:"not null;default:0" json:"etd_max_days"`

	Subtotal       int64 `gorm:"not null" json:"subtotal"`
	DiscountAmount int64 `gorm:"not null;default:0" json:"discount_amount"` // stored as <= 0
	Total          int64 `gorm:"not null" json:"total"`

	Status       string `gorm:"type:varchar(20);not null;default:'waiting_payment';index" json:"status"`
	CancelReason string `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`
	Reviewed     bool   `gorm:"not null;default:false" json:"reviewed"`

	CanceledAt  *time.Time     `json:"canceled_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	OrderDetails []OrderDetail `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_details"`
	Payment      *Payment      `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
}

// OrderDetail is a frozen line item. Never mutated after creation.
type OrderDetail struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	VariantID   uuid.UUID `gorm:"type:uuid;not null" json:"variant_id"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`
	VariantName string    `gorm:"type:varchar(128)" json:"variant_name"`
	Price       int64     `gorm:"not null" json:"price"`
	Quantity    int       `gorm:"not null" json:"quantity"`
}

// CheckoutRequest is the payload for placing an order from the cart.
type CheckoutRequest struct {
	RecipientName  string `json:"recipient_name" binding:"required,min=2,max=128"`
	Phone          string `json:"phone" binding:"required,min=8,max=32"`
	Address        string `json:"address" binding:"required,min=10,max=512"`
	PostalCode     string `json:"postal_code" binding:"required,min=4,max=16"`
	CityID         string `json:"city_id" binding:"required"`
	CityName       string `json:"city_name"`
	CourierCode    string `json:"courier_code" binding:"required"`
	CourierService string `json:"courier_service" binding:"required"`
	ShippingCost   int64  `json:"shipping_cost" binding:"required,gt=0"`
	PaymentMethod  string `json:"payment_method" binding:"required"`
}

// CheckoutResponse returns the created order plus the gateway token the
// client uses to complete payment.
type CheckoutResponse struct {
	Order       *Order `json:"order"`
	SnapToken   string `json:"snap_token"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// CancelOrderRequest carries the mandatory cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=5,max=255"`
}
