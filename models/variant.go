package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductVariant is a purchasable SKU of a product, carrying its own
// price, stock and shipping weight.
type ProductVariant struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductName   string         `gorm:"type:varchar(255);not null" json:"product_name"`
	VariantName   string         `gorm:"type:varchar(128);not null" json:"variant_name"`
	SKU           string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`
	Price         int64          `gorm:"not null" json:"price"`
	PriceDiscount int64          `gorm:"not null;default:0" json:"price_discount"` // 0 = no discounted price
	Stock         int            `gorm:"not null;default:0" json:"stock"`
	WeightGrams   int            `gorm:"not null;default:0" json:"weight_grams"`
	Active        bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// SellingPrice returns the discounted price when one is set, otherwise the
// regular price.
func (v *ProductVariant) SellingPrice() int64 {
	if v.PriceDiscount > 0 {
		return v.PriceDiscount
	}
	return v.Price
}
