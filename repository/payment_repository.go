package repository

import (
	"context"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentRepository defines read access to payments. Status mutations go
// through OrderRepository so they stay paired with the order transition.
type PaymentRepository interface {
	FindByToken(ctx context.Context, token string) (*models.Payment, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
}

// GormPaymentRepository implements PaymentRepository using GORM.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository.
func NewGormPaymentRepository(db *gorm.DB) PaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByToken retrieves a payment by its gateway token.
func (r *GormPaymentRepository) FindByToken(ctx context.Context, token string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindByOrderID retrieves the payment for an order.
func (r *GormPaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}
