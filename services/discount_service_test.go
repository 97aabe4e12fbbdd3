package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/caesariomj/jogjaelectrik-sub000/repository"
	"github.com/caesariomj/jogjaelectrik-sub000/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- Mock Repository ---

type mockDiscountRepo struct {
	byCode map[string]*models.Discount
	byID   map[uuid.UUID]*models.Discount
}

func newMockDiscountRepo() *mockDiscountRepo {
	return &mockDiscountRepo{
		byCode: make(map[string]*models.Discount),
		byID:   make(map[uuid.UUID]*models.Discount),
	}
}

func (m *mockDiscountRepo) Create(_ context.Context, d *models.Discount) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if _, exists := m.byCode[strings.ToLower(d.Code)]; exists {
		return gorm.ErrDuplicatedKey
	}
	d.Active = true
	m.byCode[strings.ToLower(d.Code)] = d
	m.byID[d.ID] = d
	return nil
}

func (m *mockDiscountRepo) FindByCode(_ context.Context, code string) (*models.Discount, error) {
	d, ok := m.byCode[strings.ToLower(code)]
	if !ok || !d.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (m *mockDiscountRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Discount, error) {
	d, ok := m.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (m *mockDiscountRepo) Deactivate(_ context.Context, code string) error {
	d, ok := m.byCode[strings.ToLower(code)]
	if !ok || !d.Active {
		return gorm.ErrRecordNotFound
	}
	d.Active = false
	return nil
}

func (m *mockDiscountRepo) FindAll(_ context.Context, _, _ int) ([]models.Discount, int64, error) {
	var result []models.Discount
	for _, d := range m.byID {
		result = append(result, *d)
	}
	return result, int64(len(result)), nil
}

// --- Helpers ---

func newDiscountService(repo repository.DiscountRepository) services.DiscountService {
	logger, _ := zap.NewDevelopment()
	return services.NewDiscountService(repo, logger)
}

func activeDiscount(code string, dtype models.DiscountType, value, maxDiscount, minPurchase int64, usageLimit, usedCount int) *models.Discount {
	expires := time.Now().Add(24 * time.Hour)
	return &models.Discount{
		ID:          uuid.New(),
		Code:        code,
		Type:        dtype,
		Value:       value,
		MaxDiscount: maxDiscount,
		MinPurchase: minPurchase,
		UsageLimit:  usageLimit,
		UsedCount:   usedCount,
		ExpiresAt:   &expires,
		Active:      true,
	}
}

// --- ComputeDiscountAmount ---

func TestComputeDiscountAmount_Percentage(t *testing.T) {
	d := activeDiscount("TENOFF", models.DiscountTypePercentage, 10, 0, 0, 0, 0)
	assert.Equal(t, int64(10000), services.ComputeDiscountAmount(d, 100000))
}

func TestComputeDiscountAmount_PercentageCapped(t *testing.T) {
	d := activeDiscount("TENOFF", models.DiscountTypePercentage, 10, 5000, 0, 0, 0)
	assert.Equal(t, int64(5000), services.ComputeDiscountAmount(d, 100000))
}

func TestComputeDiscountAmount_Flat(t *testing.T) {
	d := activeDiscount("FLAT20K", models.DiscountTypeFlat, 20000, 0, 0, 0, 0)
	assert.Equal(t, int64(20000), services.ComputeDiscountAmount(d, 100000))
}

func TestComputeDiscountAmount_FlatCappedAtSubtotal(t *testing.T) {
	d := activeDiscount("BIGSAVE", models.DiscountTypeFlat, 200000, 0, 0, 0, 0)
	assert.Equal(t, int64(50000), services.ComputeDiscountAmount(d, 50000), "flat discount never exceeds subtotal")
}

func TestComputeDiscountAmount_ZeroSubtotal(t *testing.T) {
	d := activeDiscount("TENOFF", models.DiscountTypePercentage, 10, 0, 0, 0, 0)
	assert.Equal(t, int64(0), services.ComputeDiscountAmount(d, 0))
}

// --- Validate ---

func TestValidate_Success(t *testing.T) {
	repo := newMockDiscountRepo()
	svc := newDiscountService(repo)
	_ = repo.Create(context.Background(), activeDiscount("TENOFF", models.DiscountTypePercentage, 10, 0, 0, 0, 0))

	d, svcErr := svc.Validate(context.Background(), "TENOFF", 100000)
	assert.Nil(t, svcErr)
	assert.Equal(t, "TENOFF", d.Code)
}

func TestValidate_NotFound(t *testing.T) {
	svc := newDiscountService(newMockDiscountRepo())

	_, svcErr := svc.Validate(context.Background(), "NOPE", 100000)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestValidate_NotStartedYet(t *testing.T) {
	repo := newMockDiscountRepo()
	svc := newDiscountService(repo)
	d := activeDiscount("SOON", models.DiscountTypeFlat, 5000, 0, 0, 0, 0)
	starts := time.Now().Add(time.Hour)
	d.StartsAt = &starts
	_ = repo.Create(context.Background(), d)

	_, svcErr := svc.Validate(context.Background(), "SOON", 100000)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Contains(t, svcErr.Message, "not active yet")
}

func TestValidate_Expired(t *testing.T) {
	repo := newMockDiscountRepo()
	svc := newDiscountService(repo)
	d := activeDiscount("OLD", models.DiscountTypeFlat, 5000, 0, 0, 0, 0)
	expired := time.Now().Add(-time.Hour)
	d.ExpiresAt = &expired
	_ = repo.Create(context.Background(), d)

	_, svcErr := svc.Validate(context.Background(), "OLD", 100000)
	assert.NotNil(t, svcErr)
	assert.Contains(t, svcErr.Message, "expired")
}

func TestValidate_UsageLimitReached(t *testing.T) {
	repo := newMockDiscountRepo()
	svc := newDiscountService(repo)
	_ = repo.Create(context.Background(), activeDiscount("LIMITED", models.DiscountTypePercentage, 5, 0, 0, 10, 10))

	_, svcErr := svc.Validate(context.Background(), "LIMITED", 100000)
	assert.NotNil(t, svcErr)
	assert.Contains(t, svcErr.Message, "usage limit")
}

func TestValidate_BelowMinPurchase(t *testing.T) {
	repo := newMockDiscountRepo()
	svc := newDiscountService(repo)
	_ = repo.Create(context.Background(), activeDiscount("MIN100K", models.DiscountTypePercentage, 10, 0, 100000, 0, 0))

	_, svcErr := svc.Validate(context.Background(), "MIN100K", 50000)
	assert.NotNil(t, svcErr)
	assert.Contains(t, svcErr.Message, "minimum purchase")
}

// --- Create / Deactivate ---

func TestCreateDiscount_Success(t *testing.T) {
	svc := newDiscountService(newMockDiscountRepo())
	expires := time.Now().Add(24 * time.Hour)

	d, svcErr := svc.Create(context.Background(), &models.CreateDiscountRequest{
		Code:      "save10",
		Type:      models.DiscountTypePercentage,
		Value:     10,
		ExpiresAt: &expires,
	})
	assert.Nil(t, svcErr)
	assert.Equal(t, "SAVE10", d.Code, "code is uppercased")
}

func TestCreateDiscount_ExpiredDate(t *testing.T) {
	svc := newDiscountService(newMockDiscountRepo())
	expired := time.Now().Add(-time.Hour)

	_, svcErr := svc.Create(context.Background(), &models.CreateDiscountRequest{
		Code:      "OLD",
		Type:      models.DiscountTypeFlat,
		Value:     5000,
		ExpiresAt: &expired,
	})
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestCreateDiscount_PercentageOverHundred(t *testing.T) {
	svc := newDiscountService(newMockDiscountRepo())

	_, svcErr := svc.Create(context.Background(), &models.CreateDiscountRequest{
		Code:  "TOOMUCH",
		Type:  models.DiscountTypePercentage,
		Value: 150,
	})
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestDeactivateDiscount_TwiceFails(t *testing.T) {
	repo := newMockDiscountRepo()
	svc := newDiscountService(repo)
	_ = repo.Create(context.Background(), activeDiscount("GONE", models.DiscountTypeFlat, 5000, 0, 0, 0, 0))

	assert.Nil(t, svc.Deactivate(context.Background(), "GONE"))

	svcErr := svc.Deactivate(context.Background(), "GONE")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}
