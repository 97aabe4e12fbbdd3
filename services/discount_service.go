package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/caesariomj/jogjaelectrik-sub000/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DiscountService defines discount validation and the admin operations.
type DiscountService interface {
	Validate(ctx context.Context, code string, subtotal int64) (*models.Discount, *ServiceError)
	Create(ctx context.Context, req *models.CreateDiscountRequest) (*models.Discount, *ServiceError)
	Deactivate(ctx context.Context, code string) *ServiceError
	List(ctx context.Context, page, limit int) ([]models.Discount, int64, *ServiceError)
}

// ComputeDiscountAmount derives the amount a discount takes off a subtotal.
// Percentage discounts are capped at MaxDiscount (0 = uncapped); flat
// discounts never exceed the subtotal, so totals cannot go negative.
func ComputeDiscountAmount(d *models.Discount, subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}
	var amount int64
	switch d.Type {
	case models.DiscountTypePercentage:
		amount = subtotal * d.Value / 100
		if d.MaxDiscount > 0 && amount > d.MaxDiscount {
			amount = d.MaxDiscount
		}
	case models.DiscountTypeFlat:
		amount = d.Value
	}
	if amount > subtotal {
		amount = subtotal
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}

type discountServiceImpl struct {
	repo   repository.DiscountRepository
	logger *zap.Logger
}

// NewDiscountService creates a new DiscountService.
func NewDiscountService(repo repository.DiscountRepository, logger *zap.Logger) DiscountService {
	return &discountServiceImpl{repo: repo, logger: logger}
}

// Validate checks a code against its usability window, usage cap and
// minimum purchase for the given subtotal.
func (s *discountServiceImpl) Validate(ctx context.Context, code string, subtotal int64) (*models.Discount, *ServiceError) {
	discount, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError("Discount code not found")
	}
	if err != nil {
		s.logger.Error("Failed to fetch discount",
			zap.String("operation", "ValidateDiscount"),
			zap.String("code", code),
			zap.Error(err),
		)
		return nil, persistenceError()
	}

	if svcErr := usableDiscount(discount, subtotal); svcErr != nil {
		return nil, svcErr
	}
	return discount, nil
}

// Create inserts a new discount code.
func (s *discountServiceImpl) Create(ctx context.Context, req *models.CreateDiscountRequest) (*models.Discount, *ServiceError) {
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return nil, validationError("Expiry date must be in the future")
	}
	if req.Type == models.DiscountTypePercentage && req.Value > 100 {
		return nil, validationError("Percentage discount cannot exceed 100")
	}
	if req.StartsAt != nil && req.ExpiresAt != nil && req.ExpiresAt.Before(*req.StartsAt) {
		return nil, validationError("Expiry date must be after the start date")
	}

	discount := &models.Discount{
		Code:        strings.ToUpper(req.Code),
		Type:        req.Type,
		Value:       req.Value,
		MaxDiscount: req.MaxDiscount,
		MinPurchase: req.MinPurchase,
		StartsAt:    req.StartsAt,
		ExpiresAt:   req.ExpiresAt,
		UsageLimit:  req.UsageLimit,
		Active:      true,
	}

	if err := s.repo.Create(ctx, discount); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{Kind: KindValidation, StatusCode: 409, Message: "Discount code already exists"}
		}
		s.logger.Error("Failed to create discount",
			zap.String("operation", "CreateDiscount"),
			zap.String("code", req.Code),
			zap.Error(err),
		)
		return nil, persistenceError()
	}

	s.logger.Info("Discount created",
		zap.String("code", discount.Code),
		zap.String("type", string(discount.Type)),
	)
	return discount, nil
}

// Deactivate disables a discount code.
func (s *discountServiceImpl) Deactivate(ctx context.Context, code string) *ServiceError {
	if err := s.repo.Deactivate(ctx, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("Discount code not found")
		}
		s.logger.Error("Failed to deactivate discount",
			zap.String("operation", "DeactivateDiscount"),
			zap.String("code", code),
			zap.Error(err),
		)
		return persistenceError()
	}
	s.logger.Info("Discount deactivated", zap.String("code", code))
	return nil
}

// List returns paginated discounts.
func (s *discountServiceImpl) List(ctx context.Context, page, limit int) ([]models.Discount, int64, *ServiceError) {
	discounts, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list discounts",
			zap.String("operation", "ListDiscounts"),
			zap.Error(err),
		)
		return nil, 0, persistenceError()
	}
	return discounts, total, nil
}
