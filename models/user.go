package models

import (
	"time"

	"github.com/google/uuid"
)

// ShippingProfile stores the user's last-used shipping details. The phone,
// address and postal code columns hold ciphertext; the pii package encrypts
// them before they reach the repository.
type ShippingProfile struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	RecipientName string    `gorm:"type:varchar(128)" json:"recipient_name"`
	PhoneEnc      string    `gorm:"type:varchar(512)" json:"-"`
	AddressEnc    string    `gorm:"type:varchar(2048)" json:"-"`
	PostalCodeEnc string    `gorm:"type:varchar(512)" json:"-"`
	CityID        string    `gorm:"type:varchar(16)" json:"city_id"`
	CityName      string    `gorm:"type:varchar(128)" json:"city_name"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
