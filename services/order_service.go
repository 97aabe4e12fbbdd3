package services

import (
	"context"
	"errors"

	"github.com/caesariomj/jogjaelectrik-sub000/authz"
	"github.com/caesariomj/jogjaelectrik-sub000/kafka"
	"github.com/caesariomj/jogjaelectrik-sub000/models"
	aws_pkg "github.com/caesariomj/jogjaelectrik-sub000/pkg/aws"
	"github.com/caesariomj/jogjaelectrik-sub000/providers"
	"github.com/caesariomj/jogjaelectrik-sub000/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MetaData describes one page of a listing.
type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

// OrderListResponse is a page of orders plus pagination metadata.
type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

// OrderService tracks an order through its lifecycle after checkout.
type OrderService interface {
	GetOrder(ctx context.Context, actor authz.Actor, orderID uuid.UUID) (*models.Order, *ServiceError)
	GetUserOrders(ctx context.Context, actor authz.Actor, page, limit int) (*OrderListResponse, *ServiceError)
	GetAllOrders(ctx context.Context, actor authz.Actor, page, limit int) (*OrderListResponse, *ServiceError)

	// HandlePaymentNotification applies a verified gateway webhook. It is
	// idempotent: replaying a notification for an order that already moved
	// on is a no-op, not an error.
	HandlePaymentNotification(ctx context.Context, notif *providers.PaymentNotification) *ServiceError

	CancelOrder(ctx context.Context, actor authz.Actor, orderID uuid.UUID, req *models.CancelOrderRequest) *ServiceError
	ConfirmProcessing(ctx context.Context, actor authz.Actor, orderID uuid.UUID) *ServiceError
	ShipOrder(ctx context.Context, actor authz.Actor, orderID uuid.UUID) *ServiceError
	FinishOrder(ctx context.Context, actor authz.Actor, orderID uuid.UUID) *ServiceError
	RateProducts(ctx context.Context, actor authz.Actor, orderID uuid.UUID, req *models.RateProductsRequest) *ServiceError
}

type orderServiceImpl struct {
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	gateway     providers.PaymentGateway
	policy      authz.Policy
	events      *orderEventPublisher
	metrics     *aws_pkg.MetricsClient
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	gateway providers.PaymentGateway,
	policy authz.Policy,
	producer kafka.ProducerAPI,
	snsClient aws_pkg.SNSPublisher,
	snsTopicArn string,
	metrics *aws_pkg.MetricsClient,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		policy:      policy,
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

// GetOrder returns one order. Customers see only their own orders; a
// missing or foreign order is reported as not found either way.
func (s *orderServiceImpl) GetOrder(ctx context.Context, actor authz.Actor, orderID uuid.UUID) (*models.Order, *ServiceError) {
	if decision := s.policy.Can(actor, "order:read", "order"); !decision.Allowed {
		return nil, authorizationError(decision.Reason)
	}

	order, svcErr := s.loadOrderFor(ctx, actor, orderID)
	if svcErr != nil {
		return nil, svcErr
	}
	return order, nil
}

// GetUserOrders returns the caller's orders, newest first.
func (s *orderServiceImpl) GetUserOrders(ctx context.Context, actor authz.Actor, page, limit int) (*OrderListResponse, *ServiceError) {
	if decision := s.policy.Can(actor, "order:read", "order"); !decision.Allowed {
		return nil, authorizationError(decision.Reason)
	}
	userID, err := uuid.Parse(actor.ID)
	if err != nil {
		return nil, unauthenticatedError()
	}

	orders, total, err := s.orderRepo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders",
			zap.String("operation", "GetUserOrders"),
			zap.String("user_id", actor.ID),
			zap.Error(err),
		)
		return nil, persistenceError()
	}
	return listResponse(orders, total, page, limit), nil
}

// GetAllOrders returns every order, admin only.
func (s *orderServiceImpl) GetAllOrders(ctx context.Context, actor authz.Actor, page, limit int) (*OrderListResponse, *ServiceError) {
	if decision := s.policy.Can(actor, "order:read_all", "order"); !decision.Allowed {
		return nil, authorizationError(decision.Reason)
	}

	orders, total, err := s.orderRepo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders",
			zap.String("operation", "GetAllOrders"),
			zap.Error(err),
		)
		return nil, persistenceError()
	}
	return listResponse(orders, total, page, limit), nil
}

func (s *orderServiceImpl) HandlePaymentNotification(ctx context.Context, notif *providers.PaymentNotification) *ServiceError {
	payment, err := s.paymentRepo.FindByToken(ctx, notif.Token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundError("Payment not found")
	}
	if err != nil {
		s.logger.Error("Failed to fetch payment by token",
			zap.String("operation", "HandlePaymentNotification"),
			zap.Error(err),
		)
		return persistenceError()
	}

	switch notif.Status {
	case models.PaymentStatusPaid:
		err = s.orderRepo.MarkPaid(ctx, payment.OrderID, notif.PaidAt)
		if errors.Is(err, repository.ErrStateConflict) {
			// Duplicate delivery of the same notification.
			return nil
		}
		if err != nil {
			s.logger.Error("Failed to mark order paid",
				zap.String("operation", "HandlePaymentNotification"),
				zap.String("order_id", payment.OrderID.String()),
				zap.Error(err),
			)
			return persistenceError()
		}
		s.publishByID(ctx, payment.OrderID, models.EventOrderPaid)
		s.recordCount(ctx, aws_pkg.MetricPaymentSucceeded)
		return nil

	case models.PaymentStatusExpired:
		err = s.orderRepo.MarkFailed(ctx, payment.OrderID)
		if errors.Is(err, repository.ErrStateConflict) {
			return nil
		}
		if err != nil {
			s.logger.Error("Failed to mark order failed",
				zap.String("operation", "HandlePaymentNotification"),
				zap.String("order_id", payment.OrderID.String()),
				zap.Error(err),
			)
			return persistenceError()
		}
		s.publishByID(ctx, payment.OrderID, models.EventOrderFailed)
		s.recordCount(ctx, aws_pkg.MetricPaymentFailed)
		return nil
	}

	// Unrecognized statuses are acknowledged so the gateway stops retrying.
	return nil
}

// CancelOrder cancels an order with a mandatory reason. An unpaid order has
// its open invoice expired; a paid order additionally gets a pending refund.
func (s *orderServiceImpl) CancelOrder(ctx context.Context, actor authz.Actor, orderID uuid.UUID, req *models.CancelOrderRequest) *ServiceError {
	if decision := s.policy.Can(actor, "order:cancel", "order"); !decision.Allowed {
		return authorizationError(decision.Reason)
	}
	if req == nil || req.Reason == "" {
		return validationError("A cancellation reason is required")
	}

	order, svcErr := s.loadOrderFor(ctx, actor, orderID)
	if svcErr != nil {
		return svcErr
	}
	if order.Payment == nil {
		s.logger.Error("Order has no payment record",
			zap.String("operation", "CancelOrder"),
			zap.String("order_id", orderID.String()),
		)
		return persistenceError()
	}

	switch order.Status {
	case models.OrderStatusWaitingPayment:
		// Close the open invoice so a late payment cannot land on a
		// canceled order. A gateway failure here is logged, not fatal:
		// the webhook handler tolerates paid-after-cancel replays.
		if err := s.gateway.ExpireInvoice(ctx, order.Payment.Token); err != nil {
			s.logger.Warn("Failed to expire invoice on cancel",
				zap.String("operation", "CancelOrder"),
				zap.String("order_id", orderID.String()),
				zap.Error(err),
			)
		}
		err := s.orderRepo.Cancel(ctx, orderID, req.Reason,
			[]string{models.OrderStatusWaitingPayment},
			models.PaymentStatusExpired, nil)
		if svcErr := s.mapCancelError(orderID, err); svcErr != nil {
			return svcErr
		}

	case models.OrderStatusPaymentReceived, models.OrderStatusProcessing:
		if decision := s.policy.Can(actor, "refund:create", "refund"); !decision.Allowed {
			return authorizationError(decision.Reason)
		}
		refund := &models.Refund{
			OrderID:   order.ID,
			PaymentID: order.Payment.ID,
			Amount:    order.Payment.Amount,
			Reason:    req.Reason,
			Status:    models.RefundStatusPending,
		}
		err := s.orderRepo.Cancel(ctx, orderID, req.Reason,
			[]string{models.OrderStatusPaymentReceived, models.OrderStatusProcessing},
			models.PaymentStatusRefunded, refund)
		if svcErr := s.mapCancelError(orderID, err); svcErr != nil {
			return svcErr
		}

	default:
		return stateConflictError("This order can no longer be canceled")
	}

	order.Status = models.OrderStatusCanceled
	s.events.publish(ctx, order, models.EventOrderCanceled)
	s.recordCount(ctx, aws_pkg.MetricOrdersCanceled)
	return nil
}

// ConfirmProcessing moves a paid order into fulfilment, admin only.
func (s *orderServiceImpl) ConfirmProcessing(ctx context.Context, actor authz.Actor, orderID uuid.UUID) *ServiceError {
	return s.advance(ctx, actor, orderID, models.OrderStatusPaymentReceived, models.OrderStatusProcessing, "")
}

// ShipOrder marks a processing order as handed to the courier, admin only.
func (s *orderServiceImpl) ShipOrder(ctx context.Context, actor authz.Actor, orderID uuid.UUID) *ServiceError {
	return s.advance(ctx, actor, orderID, models.OrderStatusProcessing, models.OrderStatusShipping, models.EventOrderShipped)
}

func (s *orderServiceImpl) advance(ctx context.Context, actor authz.Actor, orderID uuid.UUID, from, to, eventType string) *ServiceError {
	if decision := s.policy.Can(actor, "order:advance", "order"); !decision.Allowed {
		return authorizationError(decision.Reason)
	}

	err := s.orderRepo.UpdateStatusFrom(ctx, orderID, from, to)
	if errors.Is(err, repository.ErrStateConflict) {
		return stateConflictError("The order is not in a state that allows this transition")
	}
	if err != nil {
		s.logger.Error("Failed to advance order status",
			zap.String("operation", "AdvanceOrder"),
			zap.String("order_id", orderID.String()),
			zap.String("to", to),
			zap.Error(err),
		)
		return persistenceError()
	}

	if eventType != "" {
		s.publishByID(ctx, orderID, eventType)
	}
	return nil
}

// FinishOrder lets the customer confirm delivery of their own order.
func (s *orderServiceImpl) FinishOrder(ctx context.Context, actor authz.Actor, orderID uuid.UUID) *ServiceError {
	if decision := s.policy.Can(actor, "order:finish", "order"); !decision.Allowed {
		return authorizationError(decision.Reason)
	}

	order, svcErr := s.loadOrderFor(ctx, actor, orderID)
	if svcErr != nil {
		return svcErr
	}

	err := s.orderRepo.UpdateStatusFrom(ctx, orderID, models.OrderStatusShipping, models.OrderStatusCompleted)
	if errors.Is(err, repository.ErrStateConflict) {
		return stateConflictError("Only an order in shipping can be completed")
	}
	if err != nil {
		s.logger.Error("Failed to complete order",
			zap.String("operation", "FinishOrder"),
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return persistenceError()
	}

	order.Status = models.OrderStatusCompleted
	s.events.publish(ctx, order, models.EventOrderCompleted)
	s.recordCount(ctx, aws_pkg.MetricOrdersCompleted)
	return nil
}

// RateProducts records one review per line item of a completed order. An
// order can be reviewed exactly once.
func (s *orderServiceImpl) RateProducts(ctx context.Context, actor authz.Actor, orderID uuid.UUID, req *models.RateProductsRequest) *ServiceError {
	if decision := s.policy.Can(actor, "order:review", "order"); !decision.Allowed {
		return authorizationError(decision.Reason)
	}

	order, svcErr := s.loadOrderFor(ctx, actor, orderID)
	if svcErr != nil {
		return svcErr
	}
	if order.Status != models.OrderStatusCompleted {
		return stateConflictError("Only a completed order can be reviewed")
	}
	if order.Reviewed {
		return stateConflictError("This order has already been reviewed")
	}

	inOrder := make(map[uuid.UUID]bool, len(order.OrderDetails))
	for _, detail := range order.OrderDetails {
		inOrder[detail.VariantID] = true
	}

	seen := make(map[uuid.UUID]bool, len(req.Reviews))
	reviews := make([]models.Review, 0, len(req.Reviews))
	for _, input := range req.Reviews {
		if !inOrder[input.VariantID] {
			return validationError("A reviewed product does not belong to this order")
		}
		if seen[input.VariantID] {
			return validationError("Each product can only be reviewed once")
		}
		seen[input.VariantID] = true
		reviews = append(reviews, models.Review{
			OrderID:   order.ID,
			VariantID: input.VariantID,
			UserID:    order.UserID,
			Rating:    input.Rating,
			Comment:   input.Comment,
		})
	}
	// The reviewed flag flips after one pass, so a partial set would
	// leave the remaining products unratable forever.
	if len(seen) != len(inOrder) {
		return validationError("Every product in the order must be reviewed")
	}

	err := s.orderRepo.SaveReviews(ctx, orderID, reviews)
	if errors.Is(err, repository.ErrAlreadyReviewed) {
		return stateConflictError("This order has already been reviewed")
	}
	if err != nil {
		s.logger.Error("Failed to save reviews",
			zap.String("operation", "RateProducts"),
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return persistenceError()
	}
	return nil
}

// loadOrderFor fetches the order with visibility scoped to the actor.
func (s *orderServiceImpl) loadOrderFor(ctx context.Context, actor authz.Actor, orderID uuid.UUID) (*models.Order, *ServiceError) {
	var (
		order *models.Order
		err   error
	)
	if actor.Role == authz.RoleAdmin {
		order, err = s.orderRepo.FindByID(ctx, orderID)
	} else {
		userID, parseErr := uuid.Parse(actor.ID)
		if parseErr != nil {
			return nil, unauthenticatedError()
		}
		order, err = s.orderRepo.FindByIDAndUserID(ctx, orderID, userID)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError("Order not found")
	}
	if err != nil {
		s.logger.Error("Failed to fetch order",
			zap.String("operation", "GetOrder"),
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return nil, persistenceError()
	}
	return order, nil
}

func (s *orderServiceImpl) mapCancelError(orderID uuid.UUID, err error) *ServiceError {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrStateConflict) {
		return stateConflictError("This order can no longer be canceled")
	}
	s.logger.Error("Failed to cancel order",
		zap.String("operation", "CancelOrder"),
		zap.String("order_id", orderID.String()),
		zap.Error(err),
	)
	return persistenceError()
}

// publishByID publishes an event for transitions where the full order was
// not already loaded.
func (s *orderServiceImpl) publishByID(ctx context.Context, orderID uuid.UUID, eventType string) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to load order for event",
			zap.String("event_type", eventType),
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return
	}
	s.events.publish(ctx, order, eventType)
}

func (s *orderServiceImpl) recordCount(ctx context.Context, metricName string) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.RecordCount(ctx, metricName, nil); err != nil {
		s.logger.Warn("Failed to record metric", zap.String("metric", metricName), zap.Error(err))
	}
}

func listResponse(orders []models.Order, total int64, page, limit int) *OrderListResponse {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return &OrderListResponse{
		Orders: orders,
		Meta: MetaData{
			Page:        page,
			Limit:       limit,
			TotalOrders: total,
			TotalPages:  totalPages,
			HasMore:     total > int64(page*limit),
		},
	}
}
