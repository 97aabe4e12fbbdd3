package repository

import (
	"context"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VariantRepository defines read access to product variants.
type VariantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
}

// GormVariantRepository implements VariantRepository using GORM.
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository.
func NewGormVariantRepository(db *gorm.DB) VariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByID retrieves an active variant by id.
func (r *GormVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}
