package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caesariomj/jogjaelectrik-sub000/authz"
	"github.com/caesariomj/jogjaelectrik-sub000/kafka"
	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/caesariomj/jogjaelectrik-sub000/pii"
	aws_pkg "github.com/caesariomj/jogjaelectrik-sub000/pkg/aws"
	"github.com/caesariomj/jogjaelectrik-sub000/providers"
	"github.com/caesariomj/jogjaelectrik-sub000/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckoutService turns the caller's cart into an order.
type CheckoutService interface {
	Checkout(ctx context.Context, actor authz.Actor, req *models.CheckoutRequest) (*models.CheckoutResponse, *ServiceError)
}

type checkoutServiceImpl struct {
	cartRepo     repository.CartRepository
	variantRepo  repository.VariantRepository
	checkoutRepo repository.CheckoutRepository
	discountRepo repository.DiscountRepository
	shippingSvc  ShippingService
	gateway      providers.PaymentGateway
	policy       authz.Policy
	codec        *pii.Codec
	events       *orderEventPublisher
	metrics      *aws_pkg.MetricsClient
	logger       *zap.Logger
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	cartRepo repository.CartRepository,
	variantRepo repository.VariantRepository,
	checkoutRepo repository.CheckoutRepository,
	discountRepo repository.DiscountRepository,
	shippingSvc ShippingService,
	gateway providers.PaymentGateway,
	policy authz.Policy,
	codec *pii.Codec,
	producer kafka.ProducerAPI,
	snsClient aws_pkg.SNSPublisher,
	snsTopicArn string,
	metrics *aws_pkg.MetricsClient,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		cartRepo:     cartRepo,
		variantRepo:  variantRepo,
		checkoutRepo: checkoutRepo,
		discountRepo: discountRepo,
		shippingSvc:  shippingSvc,
		gateway:      gateway,
		policy:       policy,
		codec:        codec,
		events: &orderEventPublisher{
			producer:    producer,
			snsClient:   snsClient,
			snsTopicArn: snsTopicArn,
			logger:      logger,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Checkout validates the form, re-derives every amount server-side and
// persists the order in one transaction. Nothing is committed when any
// step inside the transaction fails, including the gateway token request.
func (s *checkoutServiceImpl) Checkout(ctx context.Context, actor authz.Actor, req *models.CheckoutRequest) (*models.CheckoutResponse, *ServiceError) {
	if decision := s.policy.Can(actor, "order:create", "order"); !decision.Allowed {
		return nil, authorizationError(decision.Reason)
	}
	userID, err := uuid.Parse(actor.ID)
	if err != nil {
		return nil, unauthenticatedError()
	}

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationError("Your cart is empty")
	}
	if err != nil {
		s.logger.Error("Failed to fetch cart",
			zap.String("operation", "Checkout"),
			zap.String("user_id", actor.ID),
			zap.Error(err),
		)
		return nil, persistenceError()
	}
	if len(cart.Items) == 0 {
		return nil, validationError("Your cart is empty")
	}

	totals := Totals(cart)

	// Re-validate the attached discount against the final subtotal; an
	// unusable code fails checkout instead of silently pricing without it.
	var discountAmount int64
	if cart.DiscountID != nil {
		discount, err := s.discountRepo.FindByID(ctx, *cart.DiscountID)
		if err != nil {
			s.logger.Error("Failed to fetch cart discount",
				zap.String("operation", "Checkout"),
				zap.String("user_id", actor.ID),
				zap.Error(err),
			)
			return nil, persistenceError()
		}
		if svcErr := usableDiscount(discount, totals.Subtotal); svcErr != nil {
			return nil, svcErr
		}
		discountAmount = ComputeDiscountAmount(discount, totals.Subtotal)
	}

	option, svcErr := s.shippingSvc.VerifySelection(ctx, userID, req.CityID, totals.WeightGrams, req.CourierCode, req.CourierService, req.ShippingCost)
	if svcErr != nil {
		return nil, svcErr
	}

	profile, svcErr := s.encryptShippingProfile(userID, req)
	if svcErr != nil {
		return nil, svcErr
	}

	items := make([]repository.OrderItemParams, 0, len(cart.Items))
	for _, item := range cart.Items {
		variant, err := s.variantRepo.FindByID(ctx, item.VariantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, validationError("A product in your cart is no longer available")
			}
			s.logger.Error("Failed to fetch variant",
				zap.String("operation", "Checkout"),
				zap.String("user_id", actor.ID),
				zap.Error(err),
			)
			return nil, persistenceError()
		}
		items = append(items, repository.OrderItemParams{
			VariantID:   variant.ID,
			ProductName: variant.ProductName,
			VariantName: variant.VariantName,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}

	total := totals.Subtotal - discountAmount + option.Cost
	if total < 0 {
		return nil, validationError("Order total cannot be negative")
	}

	params := &repository.PlaceOrderParams{
		UserID:         userID,
		OrderNumber:    newOrderNumber(),
		RecipientName:  req.RecipientName,
		Phone:          req.Phone,
		Address:        req.Address,
		PostalCode:     req.PostalCode,
		CityID:         req.CityID,
		CityName:       req.CityName,
		CourierCode:    option.Courier,
		CourierService: option.Service,
		ShippingCost:   option.Cost,
		EtdMinDays:     option.EtdMinDays,
		EtdMaxDays:     option.EtdMaxDays,
		Subtotal:       totals.Subtotal,
		DiscountAmount: discountAmount,
		Total:          total,
		Items:          items,
		Profile:        profile,
		CartID:         cart.ID,
		DiscountID:     cart.DiscountID,
		PaymentMethod:  req.PaymentMethod,
	}

	order, err := s.checkoutRepo.PlaceOrder(ctx, params, func(order *models.Order) (string, string, error) {
		return s.gateway.CreateToken(ctx, order)
	})
	if err != nil {
		return nil, s.mapPlaceOrderError(actor.ID, err)
	}

	s.events.publish(ctx, order, models.EventOrderCreated)
	if s.metrics != nil {
		if err := s.metrics.RecordCount(ctx, aws_pkg.MetricOrdersCreated, nil); err != nil {
			s.logger.Warn("Failed to record order metric", zap.Error(err))
		}
	}

	return &models.CheckoutResponse{
		Order:       order,
		SnapToken:   order.Payment.Token,
		RedirectURL: order.Payment.RedirectURL,
	}, nil
}

// encryptShippingProfile seals the PII fields of the checkout form. The
// resulting profile is persisted inside the checkout transaction so a
// failed checkout never touches the stored profile.
func (s *checkoutServiceImpl) encryptShippingProfile(userID uuid.UUID, req *models.CheckoutRequest) (*models.ShippingProfile, *ServiceError) {
	phoneEnc, err1 := s.codec.Encrypt(req.Phone)
	addressEnc, err2 := s.codec.Encrypt(req.Address)
	postalEnc, err3 := s.codec.Encrypt(req.PostalCode)
	if err1 != nil || err2 != nil || err3 != nil {
		s.logger.Error("Failed to encrypt shipping profile",
			zap.String("operation", "Checkout"),
			zap.String("user_id", userID.String()),
		)
		return nil, persistenceError()
	}

	return &models.ShippingProfile{
		UserID:        userID,
		RecipientName: req.RecipientName,
		PhoneEnc:      phoneEnc,
		AddressEnc:    addressEnc,
		PostalCodeEnc: postalEnc,
		CityID:        req.CityID,
		CityName:      req.CityName,
	}, nil
}

func (s *checkoutServiceImpl) mapPlaceOrderError(actorID string, err error) *ServiceError {
	switch {
	case errors.Is(err, repository.ErrEmptyCart):
		return validationError("Your cart is empty")
	case errors.Is(err, repository.ErrInsufficientStock):
		return validationError("Not enough stock for a product in your cart")
	case errors.Is(err, repository.ErrVariantInactive):
		return validationError("A product in your cart is no longer available")
	case errors.Is(err, repository.ErrDiscountExhausted):
		return validationError("Discount code usage limit reached")
	case errors.Is(err, repository.ErrDiscountNotUsable):
		return validationError("The applied discount code is no longer usable")
	}

	var gatewayErr *providers.GatewayError
	if errors.As(err, &gatewayErr) {
		s.logger.Error("Payment gateway rejected checkout",
			zap.String("operation", "Checkout"),
			zap.String("user_id", actorID),
			zap.Error(err),
		)
		return upstreamError()
	}

	s.logger.Error("Checkout transaction failed",
		zap.String("operation", "Checkout"),
		zap.String("user_id", actorID),
		zap.Error(err),
	)
	return persistenceError()
}

// usableDiscount mirrors the evaluator's checks for a discount already
// attached to the cart.
func usableDiscount(d *models.Discount, subtotal int64) *ServiceError {
	now := time.Now()
	if !d.Active {
		return validationError("The applied discount code is no longer active")
	}
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return validationError("Discount code is not active yet")
	}
	if d.ExpiresAt != nil && now.After(*d.ExpiresAt) {
		return validationError("Discount code has expired")
	}
	if d.UsageLimit > 0 && d.UsedCount >= d.UsageLimit {
		return validationError("Discount code usage limit reached")
	}
	if subtotal < d.MinPurchase {
		return validationError(fmt.Sprintf("A minimum purchase of %d is required for this discount", d.MinPurchase))
	}
	return nil
}

// newOrderNumber generates a human-readable unique order number.
func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}
