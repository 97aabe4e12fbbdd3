package services

import (
	"context"
	"errors"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/caesariomj/jogjaelectrik-sub000/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CartService defines the cart operations plus the pure aggregation used
// by discount validation and checkout.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, *ServiceError)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, *ServiceError)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.Cart, *ServiceError)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) *ServiceError
	ClearCart(ctx context.Context, userID uuid.UUID) *ServiceError
	ApplyDiscount(ctx context.Context, userID uuid.UUID, code string) (*models.AppliedDiscount, *ServiceError)
	RemoveDiscount(ctx context.Context, userID uuid.UUID) *ServiceError
}

// Totals computes the cart subtotal and total shipping weight. Pure read;
// a nil or empty cart yields zero totals.
func Totals(cart *models.Cart) models.CartTotals {
	var totals models.CartTotals
	if cart == nil {
		return totals
	}
	for _, item := range cart.Items {
		totals.Subtotal += int64(item.Quantity) * item.Price
		totals.WeightGrams += item.Quantity * item.WeightGrams
	}
	return totals
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	variantRepo repository.VariantRepository
	discountSvc DiscountService
	logger      *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(
	cartRepo repository.CartRepository,
	variantRepo repository.VariantRepository,
	discountSvc DiscountService,
	logger *zap.Logger,
) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		variantRepo: variantRepo,
		discountSvc: discountSvc,
		logger:      logger,
	}
}

// GetCart returns the user's cart, or an empty one when none exists yet.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, *ServiceError) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		s.logger.Error("Failed to fetch cart",
			zap.String("operation", "GetCart"),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, persistenceError()
	}
	return cart, nil
}

// AddItem adds a variant to the cart, freezing the current selling price.
// Re-adding the same variant increments its quantity instead.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, *ServiceError) {
	variant, err := s.variantRepo.FindByID(ctx, req.VariantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError("Product variant not found")
	}
	if err != nil {
		s.logger.Error("Failed to fetch variant",
			zap.String("operation", "AddItem"),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, persistenceError()
	}
	if variant.Stock < req.Quantity {
		return nil, validationError("Not enough stock for this variant")
	}

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = &models.Cart{UserID: userID}
		if err := s.cartRepo.Create(ctx, cart); err != nil {
			s.logger.Error("Failed to create cart",
				zap.String("operation", "AddItem"),
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			return nil, persistenceError()
		}
	} else if err != nil {
		s.logger.Error("Failed to fetch cart",
			zap.String("operation", "AddItem"),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, persistenceError()
	}

	var existing *models.CartItem
	for i := range cart.Items {
		if cart.Items[i].VariantID == req.VariantID {
			existing = &cart.Items[i]
			break
		}
	}

	if existing != nil {
		if err := s.cartRepo.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+req.Quantity); err != nil {
			s.logger.Error("Failed to update cart item",
				zap.String("operation", "AddItem"),
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			return nil, persistenceError()
		}
	} else {
		item := &models.CartItem{
			CartID:      cart.ID,
			VariantID:   variant.ID,
			Quantity:    req.Quantity,
			Price:       variant.SellingPrice(),
			WeightGrams: variant.WeightGrams,
		}
		if err := s.cartRepo.AddItem(ctx, item); err != nil {
			s.logger.Error("Failed to add cart item",
				zap.String("operation", "AddItem"),
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			return nil, persistenceError()
		}
	}

	return s.GetCart(ctx, userID)
}

// UpdateQuantity sets the absolute quantity of a cart item; zero removes it.
func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.Cart, *ServiceError) {
	if _, svcErr := s.ownedCart(ctx, userID, itemID, "UpdateQuantity"); svcErr != nil {
		return nil, svcErr
	}

	var err error
	if quantity == 0 {
		err = s.cartRepo.RemoveItem(ctx, itemID)
	} else {
		err = s.cartRepo.UpdateItemQuantity(ctx, itemID, quantity)
	}
	if err != nil {
		s.logger.Error("Failed to update cart item quantity",
			zap.String("operation", "UpdateQuantity"),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, persistenceError()
	}
	return s.GetCart(ctx, userID)
}

// RemoveItem deletes a cart item owned by the user.
func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) *ServiceError {
	if _, svcErr := s.ownedCart(ctx, userID, itemID, "RemoveItem"); svcErr != nil {
		return svcErr
	}
	if err := s.cartRepo.RemoveItem(ctx, itemID); err != nil {
		s.logger.Error("Failed to remove cart item",
			zap.String("operation", "RemoveItem"),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return persistenceError()
	}
	return nil
}

// ClearCart deletes the user's cart with all its items. Clearing an
// absent cart is a no-op.
func (s *cartServiceImpl) ClearCart(ctx context.Context, userID uuid.UUID) *ServiceError {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Error("Failed to fetch cart",
			zap.String("operation", "ClearCart"),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return persistenceError()
	}
	if err := s.cartRepo.Delete(ctx, cart.ID); err != nil {
		s.logger.Error("Failed to delete cart",
			zap.String("operation", "ClearCart"),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return persistenceError()
	}
	return nil
}

// ApplyDiscount validates a code against the current subtotal and attaches
// it to the cart. Selecting a new code replaces the previous one.
func (s *cartServiceImpl) ApplyDiscount(ctx context.Context, userID uuid.UUID, code string) (*models.AppliedDiscount, *ServiceError) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationError("Your cart is empty")
	}
	if err != nil {
		s.logger.Error("Failed to fetch cart",
			zap.String("operation", "ApplyDiscount"),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, persistenceError()
	}

	totals := Totals(cart)
	discount, svcErr := s.discountSvc.Validate(ctx, code, totals.Subtotal)
	if svcErr != nil {
		return nil, svcErr
	}

	if err := s.cartRepo.SetDiscount(ctx, cart.ID, &discount.ID); err != nil {
		s.logger.Error("Failed to attach discount",
			zap.String("operation", "ApplyDiscount"),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, persistenceError()
	}

	return &models.AppliedDiscount{
		Code:           discount.Code,
		Type:           discount.Type,
		DiscountAmount: ComputeDiscountAmount(discount, totals.Subtotal),
		Subtotal:       totals.Subtotal,
	}, nil
}

// RemoveDiscount clears the cart's discount reference.
func (s *cartServiceImpl) RemoveDiscount(ctx context.Context, userID uuid.UUID) *ServiceError {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Error("Failed to fetch cart",
			zap.String("operation", "RemoveDiscount"),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return persistenceError()
	}
	if err := s.cartRepo.SetDiscount(ctx, cart.ID, nil); err != nil {
		s.logger.Error("Failed to clear discount",
			zap.String("operation", "RemoveDiscount"),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return persistenceError()
	}
	return nil
}

// ownedCart loads the user's cart and checks the item belongs to it.
func (s *cartServiceImpl) ownedCart(ctx context.Context, userID, itemID uuid.UUID, op string) (*models.Cart, *ServiceError) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError("Cart not found")
	}
	if err != nil {
		s.logger.Error("Failed to fetch cart",
			zap.String("operation", op),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, persistenceError()
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			return cart, nil
		}
	}
	return nil, notFoundError("Cart item not found")
}
