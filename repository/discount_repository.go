package repository

import (
	"context"
	"strings"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiscountRepository defines the interface for discount data access.
// The used_count increment is deliberately absent here: it only ever
// happens inside the checkout transaction, under a row lock.
type DiscountRepository interface {
	Create(ctx context.Context, discount *models.Discount) error
	FindByCode(ctx context.Context, code string) (*models.Discount, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Discount, error)
	Deactivate(ctx context.Context, code string) error
	FindAll(ctx context.Context, page, limit int) ([]models.Discount, int64, error)
}

// GormDiscountRepository implements DiscountRepository using GORM.
type GormDiscountRepository struct {
	db *gorm.DB
}

// NewGormDiscountRepository creates a new GormDiscountRepository.
func NewGormDiscountRepository(db *gorm.DB) DiscountRepository {
	return &GormDiscountRepository{db: db}
}

// Create inserts a new discount.
func (r *GormDiscountRepository) Create(ctx context.Context, discount *models.Discount) error {
	return r.db.WithContext(ctx).Create(discount).Error
}

// FindByCode retrieves an active discount by its code (case-insensitive).
func (r *GormDiscountRepository) FindByCode(ctx context.Context, code string) (*models.Discount, error) {
	var discount models.Discount
	err := r.db.WithContext(ctx).
		Where("LOWER(code) = ? AND active = ?", strings.ToLower(code), true).
		First(&discount).Error
	if err != nil {
		return nil, err
	}
	return &discount, nil
}

// FindByID retrieves a discount by id regardless of active flag.
func (r *GormDiscountRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Discount, error) {
	var discount models.Discount
	if err := r.db.WithContext(ctx).First(&discount, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

// Deactivate sets active = false for a discount code.
func (r *GormDiscountRepository) Deactivate(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Discount{}).
		Where("LOWER(code) = ?", strings.ToLower(code)).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindAll retrieves paginated discounts, newest first.
func (r *GormDiscountRepository) FindAll(ctx context.Context, page, limit int) ([]models.Discount, int64, error) {
	var discounts []models.Discount
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Discount{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&discounts).Error; err != nil {
		return nil, 0, err
	}

	return discounts, total, nil
}
