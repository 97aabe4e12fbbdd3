package repository

import (
	"context"
	"time"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access and the
// transactional lifecycle transitions.
type OrderRepository interface {
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindByIDAndUserID(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error)

	// UpdateStatusFrom transitions the order from exactly one status to
	// another. Returns ErrStateConflict if the order is not in `from`,
	// which makes duplicate submissions harmless.
	UpdateStatusFrom(ctx context.Context, orderID uuid.UUID, from, to string) error

	// Cancel marks the order canceled with a reason, moves the payment to
	// paymentStatus (expired or refunded) and, when refund is non-nil,
	// inserts the refund record. All in one transaction.
	Cancel(ctx context.Context, orderID uuid.UUID, reason string, fromStatuses []string, paymentStatus string, refund *models.Refund) error

	// MarkPaid flips the payment to paid and the order to payment_received.
	MarkPaid(ctx context.Context, orderID uuid.UUID, paidAt time.Time) error

	// MarkFailed flips the payment to expired and the order to failed.
	MarkFailed(ctx context.Context, orderID uuid.UUID) error

	// SaveReviews inserts the reviews and sets the reviewed flag, guarding
	// against a second review pass.
	SaveReviews(ctx context.Context, orderID uuid.UUID, reviews []models.Review) error
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID retrieves an order with its line items and payment.
func (r *GormOrderRepository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("OrderDetails").
		Preload("Payment").
		First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDAndUserID retrieves a specific order for a user.
func (r *GormOrderRepository) FindByIDAndUserID(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("OrderDetails").
		Preload("Payment").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByUserID retrieves orders for a specific user with pagination.
func (r *GormOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("OrderDetails").
		Preload("Payment").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// FindAll retrieves all orders with pagination.
func (r *GormOrderRepository) FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("OrderDetails").
		Preload("Payment").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateStatusFrom performs a compare-and-swap style status transition.
func (r *GormOrderRepository) UpdateStatusFrom(ctx context.Context, orderID uuid.UUID, from, to string) error {
	updates := map[string]interface{}{"status": to}
	if to == models.OrderStatusCompleted {
		now := time.Now()
		updates["completed_at"] = &now
	}

	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStateConflict
	}
	return nil
}

// Cancel transitions the order and its payment together.
func (r *GormOrderRepository) Cancel(ctx context.Context, orderID uuid.UUID, reason string, fromStatuses []string, paymentStatus string, refund *models.Refund) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		result := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", orderID, fromStatuses).
			Updates(map[string]interface{}{
				"status":        models.OrderStatusCanceled,
				"cancel_reason": reason,
				"canceled_at":   &now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStateConflict
		}

		if err := tx.Model(&models.Payment{}).
			Where("order_id = ?", orderID).
			Update("status", paymentStatus).Error; err != nil {
			return err
		}

		if refund != nil {
			return tx.Create(refund).Error
		}
		return nil
	})
}

// MarkPaid applies a successful payment notification.
func (r *GormOrderRepository) MarkPaid(ctx context.Context, orderID uuid.UUID, paidAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Payment{}).
			Where("order_id = ? AND status = ?", orderID, models.PaymentStatusUnpaid).
			Updates(map[string]interface{}{
				"status":  models.PaymentStatusPaid,
				"paid_at": &paidAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStateConflict
		}

		result = tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.OrderStatusWaitingPayment).
			Update("status", models.OrderStatusPaymentReceived)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStateConflict
		}
		return nil
	})
}

// MarkFailed applies an expired or denied payment notification.
func (r *GormOrderRepository) MarkFailed(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Payment{}).
			Where("order_id = ? AND status = ?", orderID, models.PaymentStatusUnpaid).
			Update("status", models.PaymentStatusExpired)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStateConflict
		}

		result = tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.OrderStatusWaitingPayment).
			Update("status", models.OrderStatusFailed)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStateConflict
		}
		return nil
	})
}

// SaveReviews persists one review pass for a completed order.
func (r *GormOrderRepository) SaveReviews(ctx context.Context, orderID uuid.UUID, reviews []models.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Order{}).
			Where("id = ? AND reviewed = ?", orderID, false).
			Update("reviewed", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyReviewed
		}
		return tx.Create(&reviews).Error
	})
}
