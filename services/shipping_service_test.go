package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/caesariomj/jogjaelectrik-sub000/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// --- Mock Courier Gateway ---

type mockCourierGateway struct {
	options []models.RateOption
	err     error
	calls   int
}

func (m *mockCourierGateway) Quote(_ context.Context, _ string, _ int, _ string) ([]models.RateOption, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return append([]models.RateOption(nil), m.options...), nil
}

// --- Mock Rate Cache ---

type mockRateCache struct {
	entries map[string][]models.RateOption
	getErr  error
}

func newMockRateCache() *mockRateCache {
	return &mockRateCache{entries: make(map[string][]models.RateOption)}
}

func (m *mockRateCache) key(userID uuid.UUID, cityID, courier string, weightGrams int) string {
	return fmt.Sprintf("%s|%s|%s|%d", userID, cityID, courier, weightGrams)
}

func (m *mockRateCache) Get(_ context.Context, userID uuid.UUID, cityID, courier string, weightGrams int) ([]models.RateOption, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.entries[m.key(userID, cityID, courier, weightGrams)], nil
}

func (m *mockRateCache) Set(_ context.Context, userID uuid.UUID, cityID, courier string, weightGrams int, options []models.RateOption) error {
	m.entries[m.key(userID, cityID, courier, weightGrams)] = options
	return nil
}

// --- Helpers ---

func jneOptions() []models.RateOption {
	return []models.RateOption{
		{Courier: "jne", Service: "REG", Cost: 18000, Etd: "2-3"},
		{Courier: "jne", Service: "YES", Cost: 32000, Etd: "1"},
	}
}

func newShippingService(gateway *mockCourierGateway, cache *mockRateCache) services.ShippingService {
	logger, _ := zap.NewDevelopment()
	return services.NewShippingService(gateway, cache, logger)
}

// --- ParseEtd ---

func TestParseEtd(t *testing.T) {
	cases := []struct {
		in       string
		min, max int
	}{
		{"2-3", 2, 3},
		{"2", 2, 2},
		{"1-1", 1, 1},
		{"2-3 hari", 2, 3},
		{"", 0, 0},
		{"soon", 0, 0},
	}
	for _, tc := range cases {
		min, max := services.ParseEtd(tc.in)
		assert.Equal(t, tc.min, min, "min for %q", tc.in)
		assert.Equal(t, tc.max, max, "max for %q", tc.in)
	}
}

// --- Quote ---

func TestQuote_FillsEtdBoundsAndCaches(t *testing.T) {
	gateway := &mockCourierGateway{options: jneOptions()}
	cache := newMockRateCache()
	svc := newShippingService(gateway, cache)
	userID := uuid.New()

	options, svcErr := svc.Quote(context.Background(), userID, "501", 1500, "jne")
	assert.Nil(t, svcErr)
	assert.Len(t, options, 2)
	assert.Equal(t, 2, options[0].EtdMinDays)
	assert.Equal(t, 3, options[0].EtdMaxDays)
	assert.Equal(t, 1, options[1].EtdMinDays)
	assert.Equal(t, 1, options[1].EtdMaxDays)

	cached, err := cache.Get(context.Background(), userID, "501", "jne", 1500)
	assert.NoError(t, err)
	assert.Len(t, cached, 2, "quote result is cached")
}

func TestQuote_GatewayFailure(t *testing.T) {
	gateway := &mockCourierGateway{err: errors.New("connection refused")}
	svc := newShippingService(gateway, newMockRateCache())

	_, svcErr := svc.Quote(context.Background(), uuid.New(), "501", 1500, "jne")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 502, svcErr.StatusCode)
}

func TestQuote_NoServices(t *testing.T) {
	gateway := &mockCourierGateway{options: []models.RateOption{}}
	svc := newShippingService(gateway, newMockRateCache())

	_, svcErr := svc.Quote(context.Background(), uuid.New(), "501", 1500, "jne")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

// --- VerifySelection ---

func TestVerifySelection_MatchesCachedQuote(t *testing.T) {
	gateway := &mockCourierGateway{options: jneOptions()}
	cache := newMockRateCache()
	svc := newShippingService(gateway, cache)
	userID := uuid.New()

	_, svcErr := svc.Quote(context.Background(), userID, "501", 1500, "jne")
	assert.Nil(t, svcErr)
	gatewayCallsAfterQuote := gateway.calls

	option, svcErr := svc.VerifySelection(context.Background(), userID, "501", 1500, "jne", "REG", 18000)
	assert.Nil(t, svcErr)
	assert.Equal(t, "REG", option.Service)
	assert.Equal(t, gatewayCallsAfterQuote, gateway.calls, "verification served from cache")
}

func TestVerifySelection_TamperedCostRejected(t *testing.T) {
	gateway := &mockCourierGateway{options: jneOptions()}
	cache := newMockRateCache()
	svc := newShippingService(gateway, cache)
	userID := uuid.New()

	_, _ = svc.Quote(context.Background(), userID, "501", 1500, "jne")

	_, svcErr := svc.VerifySelection(context.Background(), userID, "501", 1500, "jne", "REG", 1)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestVerifySelection_CacheMissRefetches(t *testing.T) {
	gateway := &mockCourierGateway{options: jneOptions()}
	svc := newShippingService(gateway, newMockRateCache())

	option, svcErr := svc.VerifySelection(context.Background(), uuid.New(), "501", 1500, "jne", "YES", 32000)
	assert.Nil(t, svcErr)
	assert.Equal(t, "YES", option.Service)
	assert.Equal(t, 1, gateway.calls, "fresh quote fetched on cache miss")
}

func TestVerifySelection_UnknownService(t *testing.T) {
	gateway := &mockCourierGateway{options: jneOptions()}
	svc := newShippingService(gateway, newMockRateCache())

	_, svcErr := svc.VerifySelection(context.Background(), uuid.New(), "501", 1500, "jne", "OKE", 15000)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}
