package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a per-line-item rating left after an order completes.
// One review pass per order; the Order.Reviewed flag guards re-submission.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	VariantID uuid.UUID `gorm:"type:uuid;not null;index" json:"variant_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:varchar(255)" json:"comment,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ReviewInput is one review in a RateProductsRequest.
type ReviewInput struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Comment   string    `json:"comment" binding:"omitempty,min=5,max=255"`
}

// RateProductsRequest carries one review per order line item.
type RateProductsRequest struct {
	Reviews []ReviewInput `json:"reviews" binding:"required,min=1,dive"`
}
