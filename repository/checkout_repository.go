package repository

import (
	"context"
	"time"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderItemParams is one frozen line item going into the order.
type OrderItemParams struct {
	VariantID   uuid.UUID
	ProductName string
	VariantName string
	Price       int64
	Quantity    int
}

// PlaceOrderParams carries everything the checkout transaction writes.
// Amounts are already derived and validated by the service layer;
// DiscountAmount is the positive amount to subtract.
type PlaceOrderParams struct {
	UserID      uuid.UUID
	OrderNumber string

	RecipientName string
	Phone         string
	Address       string
	PostalCode    string
	CityID        string
	CityName      string

	CourierCode    string
	CourierService string
	ShippingCost   int64
	EtdMinDays     int
	EtdMaxDays     int

	Subtotal       int64
	DiscountAmount int64
	Total          int64

	Items   []OrderItemParams
	Profile *models.ShippingProfile

	CartID     uuid.UUID
	DiscountID *uuid.UUID

	PaymentMethod string
}

// TokenFunc requests a payment token from the gateway for the order being
// created. It runs inside the checkout transaction; an error rolls
// everything back.
type TokenFunc func(order *models.Order) (token string, redirectURL string, err error)

// CheckoutRepository persists an order atomically: header, line items,
// stock decrement, discount usage, shipping profile, payment row and
// cart deletion commit together or not at all.
type CheckoutRepository interface {
	PlaceOrder(ctx context.Context, params *PlaceOrderParams, issueToken TokenFunc) (*models.Order, error)
}

// GormCheckoutRepository implements CheckoutRepository using GORM.
type GormCheckoutRepository struct {
	db *gorm.DB
}

// NewGormCheckoutRepository creates a new GormCheckoutRepository.
func NewGormCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &GormCheckoutRepository{db: db}
}

// PlaceOrder runs the whole multi-step write in one transaction.
// Variant and discount rows are locked with SELECT ... FOR UPDATE so
// concurrent checkouts serialize on stock and on the usage counter.
func (r *GormCheckoutRepository) PlaceOrder(ctx context.Context, params *PlaceOrderParams, issueToken TokenFunc) (*models.Order, error) {
	var order *models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		if len(params.Items) == 0 {
			return ErrEmptyCart
		}

		for _, item := range params.Items {
			var variant models.ProductVariant
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&variant, "id = ?", item.VariantID).Error; err != nil {
				return err
			}
			if !variant.Active {
				return ErrVariantInactive
			}
			if variant.Stock < item.Quantity {
				return ErrInsufficientStock
			}
			if err := tx.Model(&models.ProductVariant{}).
				Where("id = ?", item.VariantID).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return err
			}
		}

		order = &models.Order{
			OrderNumber:    params.OrderNumber,
			UserID:         params.UserID,
			RecipientName:  params.RecipientName,
			Phone:          params.Phone,
			Address:        params.Address,
			PostalCode:     params.PostalCode,
			CityID:         params.CityID,
			CityName:       params.CityName,
			CourierCode:    params.CourierCode,
			CourierService: params.CourierService,
			ShippingCost:   params.ShippingCost,
			EtdMinDays:     params.EtdMinDays,
			EtdMaxDays:     params.EtdMaxDays,
			Subtotal:       params.Subtotal,
			DiscountAmount: -params.DiscountAmount,
			Total:          params.Total,
			Status:         models.OrderStatusWaitingPayment,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		details := make([]models.OrderDetail, 0, len(params.Items))
		for _, item := range params.Items {
			details = append(details, models.OrderDetail{
				OrderID:     order.ID,
				VariantID:   item.VariantID,
				ProductName: item.ProductName,
				VariantName: item.VariantName,
				Price:       item.Price,
				Quantity:    item.Quantity,
			})
		}
		if err := tx.Create(&details).Error; err != nil {
			return err
		}
		order.OrderDetails = details

		if params.DiscountID != nil {
			var discount models.Discount
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&discount, "id = ?", *params.DiscountID).Error; err != nil {
				return err
			}
			if !discountUsable(&discount, now) {
				return ErrDiscountNotUsable
			}
			if discount.UsageLimit > 0 && discount.UsedCount >= discount.UsageLimit {
				return ErrDiscountExhausted
			}
			if err := tx.Model(&models.Discount{}).
				Where("id = ?", discount.ID).
				UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
				return err
			}
			usage := models.DiscountUsage{
				DiscountID: discount.ID,
				OrderID:    order.ID,
				Amount:     params.DiscountAmount,
				UsedAt:     now,
			}
			if err := tx.Create(&usage).Error; err != nil {
				return err
			}
		}

		if params.Profile != nil {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				UpdateAll: true,
			}).Create(params.Profile).Error; err != nil {
				return err
			}
		}

		token, redirectURL, err := issueToken(order)
		if err != nil {
			return err
		}

		payment := models.Payment{
			OrderID:     order.ID,
			UserID:      params.UserID,
			Token:       token,
			RedirectURL: redirectURL,
			Method:      params.PaymentMethod,
			Amount:      params.Total,
			Status:      models.PaymentStatusUnpaid,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		order.Payment = &payment

		if err := tx.Delete(&models.CartItem{}, "cart_id = ?", params.CartID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Cart{}, "id = ?", params.CartID).Error
	})

	if err != nil {
		return nil, err
	}
	return order, nil
}

// discountUsable checks the active flag and validity window on the locked row.
func discountUsable(d *models.Discount, now time.Time) bool {
	if !d.Active {
		return false
	}
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return false
	}
	if d.ExpiresAt != nil && now.After(*d.ExpiresAt) {
		return false
	}
	return true
}
