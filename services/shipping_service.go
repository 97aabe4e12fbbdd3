package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/caesariomj/jogjaelectrik-sub000/providers"
	"github.com/caesariomj/jogjaelectrik-sub000/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShippingService resolves courier rate options and verifies the
// selection submitted at checkout against what was actually quoted.
type ShippingService interface {
	Quote(ctx context.Context, userID uuid.UUID, cityID string, weightGrams int, courier string) ([]models.RateOption, *ServiceError)
	VerifySelection(ctx context.Context, userID uuid.UUID, cityID string, weightGrams int, courier, service string, cost int64) (*models.RateOption, *ServiceError)
}

// ParseEtd splits a courier ETD string into min/max day bounds. A plain
// integer counts as both bounds; anything unparsable yields (0, 0).
func ParseEtd(etd string) (int, int) {
	etd = strings.TrimSpace(strings.TrimSuffix(strings.ToLower(etd), "hari"))
	etd = strings.TrimSpace(etd)
	if etd == "" {
		return 0, 0
	}
	if minStr, maxStr, ok := strings.Cut(etd, "-"); ok {
		minDays, err1 := strconv.Atoi(strings.TrimSpace(minStr))
		maxDays, err2 := strconv.Atoi(strings.TrimSpace(maxStr))
		if err1 != nil || err2 != nil {
			return 0, 0
		}
		return minDays, maxDays
	}
	days, err := strconv.Atoi(etd)
	if err != nil {
		return 0, 0
	}
	return days, days
}

type shippingServiceImpl struct {
	gateway providers.CourierGateway
	cache   repository.RateCache
	logger  *zap.Logger
}

// NewShippingService creates a new ShippingService.
func NewShippingService(gateway providers.CourierGateway, cache repository.RateCache, logger *zap.Logger) ShippingService {
	return &shippingServiceImpl{gateway: gateway, cache: cache, logger: logger}
}

// Quote fetches rate options from the courier gateway, parses the ETD
// bounds and caches the result per user for the checkout tamper check.
func (s *shippingServiceImpl) Quote(ctx context.Context, userID uuid.UUID, cityID string, weightGrams int, courier string) ([]models.RateOption, *ServiceError) {
	options, err := s.gateway.Quote(ctx, cityID, weightGrams, courier)
	if err != nil {
		s.logger.Error("Courier rate lookup failed",
			zap.String("operation", "QuoteShipping"),
			zap.String("user_id", userID.String()),
			zap.String("city_id", cityID),
			zap.String("courier", courier),
			zap.Error(err),
		)
		return nil, upstreamError()
	}
	if len(options) == 0 {
		return nil, notFoundError("No shipping services available for this destination")
	}

	for i := range options {
		options[i].EtdMinDays, options[i].EtdMaxDays = ParseEtd(options[i].Etd)
	}

	if err := s.cache.Set(ctx, userID, cityID, courier, weightGrams, options); err != nil {
		// Cache miss at checkout falls back to a fresh quote.
		s.logger.Warn("Failed to cache rate options",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}

	return options, nil
}

// VerifySelection confirms the submitted service and cost exactly match a
// quoted option. Client-submitted shipping costs are never trusted.
func (s *shippingServiceImpl) VerifySelection(ctx context.Context, userID uuid.UUID, cityID string, weightGrams int, courier, service string, cost int64) (*models.RateOption, *ServiceError) {
	options, err := s.cache.Get(ctx, userID, cityID, courier, weightGrams)
	if err != nil {
		s.logger.Warn("Rate cache read failed, refetching",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		options = nil
	}
	if options == nil {
		var svcErr *ServiceError
		options, svcErr = s.Quote(ctx, userID, cityID, weightGrams, courier)
		if svcErr != nil {
			return nil, svcErr
		}
	}

	for i := range options {
		opt := options[i]
		if opt.Courier == courier && opt.Service == service && opt.Cost == cost {
			return &opt, nil
		}
	}
	return nil, validationError("The selected shipping service does not match the quoted options")
}
