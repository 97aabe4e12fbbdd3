package services_test

import (
	"context"
	"testing"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/caesariomj/jogjaelectrik-sub000/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- Mock Repositories ---

type mockCartRepo struct {
	carts map[uuid.UUID]*models.Cart // keyed by user id
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[uuid.UUID]*models.Cart)}
}

func (m *mockCartRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, ok := m.carts[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *cart
	copied.Items = append([]models.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (m *mockCartRepo) Create(_ context.Context, cart *models.Cart) error {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	m.carts[cart.UserID] = cart
	return nil
}

func (m *mockCartRepo) AddItem(_ context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	for _, cart := range m.carts {
		if cart.ID == item.CartID {
			cart.Items = append(cart.Items, *item)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockCartRepo) UpdateItemQuantity(_ context.Context, itemID uuid.UUID, quantity int) error {
	for _, cart := range m.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items[i].Quantity = quantity
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockCartRepo) RemoveItem(_ context.Context, itemID uuid.UUID) error {
	for _, cart := range m.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockCartRepo) SetDiscount(_ context.Context, cartID uuid.UUID, discountID *uuid.UUID) error {
	for _, cart := range m.carts {
		if cart.ID == cartID {
			cart.DiscountID = discountID
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockCartRepo) Delete(_ context.Context, cartID uuid.UUID) error {
	for userID, cart := range m.carts {
		if cart.ID == cartID {
			delete(m.carts, userID)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type mockVariantRepo struct {
	variants map[uuid.UUID]*models.ProductVariant
}

func newMockVariantRepo(variants ...*models.ProductVariant) *mockVariantRepo {
	m := &mockVariantRepo{variants: make(map[uuid.UUID]*models.ProductVariant)}
	for _, v := range variants {
		m.variants[v.ID] = v
	}
	return m
}

func (m *mockVariantRepo) FindByID(_ context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	v, ok := m.variants[id]
	if !ok || !v.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

// --- Helpers ---

func testVariant(price, priceDiscount int64, stock, weightGrams int) *models.ProductVariant {
	return &models.ProductVariant{
		ID:            uuid.New(),
		ProductName:   "Portable Fan",
		VariantName:   "Blue",
		SKU:           uuid.NewString()[:8],
		Price:         price,
		PriceDiscount: priceDiscount,
		Stock:         stock,
		WeightGrams:   weightGrams,
		Active:        true,
	}
}

func newCartService(cartRepo *mockCartRepo, variantRepo *mockVariantRepo) services.CartService {
	logger, _ := zap.NewDevelopment()
	discountSvc := services.NewDiscountService(newMockDiscountRepo(), logger)
	return services.NewCartService(cartRepo, variantRepo, discountSvc, logger)
}

// --- Totals ---

func TestTotals_EmptyCart(t *testing.T) {
	totals := services.Totals(&models.Cart{})
	assert.Equal(t, int64(0), totals.Subtotal)
	assert.Equal(t, 0, totals.WeightGrams)

	totals = services.Totals(nil)
	assert.Equal(t, int64(0), totals.Subtotal)
}

func TestTotals_SumsQuantityTimesUnit(t *testing.T) {
	cart := &models.Cart{Items: []models.CartItem{
		{Quantity: 2, Price: 150000, WeightGrams: 400},
		{Quantity: 1, Price: 75000, WeightGrams: 1200},
	}}

	totals := services.Totals(cart)
	assert.Equal(t, int64(375000), totals.Subtotal)
	assert.Equal(t, 2000, totals.WeightGrams)
}

// --- AddItem ---

func TestAddItem_FreezesDiscountedPrice(t *testing.T) {
	variant := testVariant(100000, 80000, 10, 500)
	svc := newCartService(newMockCartRepo(), newMockVariantRepo(variant))
	userID := uuid.New()

	cart, svcErr := svc.AddItem(context.Background(), userID, &models.AddItemRequest{VariantID: variant.ID, Quantity: 2})
	assert.Nil(t, svcErr)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, int64(80000), cart.Items[0].Price, "discounted price is the selling price")
	assert.Equal(t, 500, cart.Items[0].WeightGrams)
}

func TestAddItem_RegularPriceWhenNoDiscount(t *testing.T) {
	variant := testVariant(100000, 0, 10, 500)
	svc := newCartService(newMockCartRepo(), newMockVariantRepo(variant))

	cart, svcErr := svc.AddItem(context.Background(), uuid.New(), &models.AddItemRequest{VariantID: variant.ID, Quantity: 1})
	assert.Nil(t, svcErr)
	assert.Equal(t, int64(100000), cart.Items[0].Price)
}

func TestAddItem_InsufficientStock(t *testing.T) {
	variant := testVariant(100000, 0, 1, 500)
	svc := newCartService(newMockCartRepo(), newMockVariantRepo(variant))

	_, svcErr := svc.AddItem(context.Background(), uuid.New(), &models.AddItemRequest{VariantID: variant.ID, Quantity: 2})
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestAddItem_UnknownVariant(t *testing.T) {
	svc := newCartService(newMockCartRepo(), newMockVariantRepo())

	_, svcErr := svc.AddItem(context.Background(), uuid.New(), &models.AddItemRequest{VariantID: uuid.New(), Quantity: 1})
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestAddItem_SameVariantIncrementsQuantity(t *testing.T) {
	variant := testVariant(50000, 0, 10, 300)
	svc := newCartService(newMockCartRepo(), newMockVariantRepo(variant))
	userID := uuid.New()

	_, svcErr := svc.AddItem(context.Background(), userID, &models.AddItemRequest{VariantID: variant.ID, Quantity: 1})
	assert.Nil(t, svcErr)

	cart, svcErr := svc.AddItem(context.Background(), userID, &models.AddItemRequest{VariantID: variant.ID, Quantity: 2})
	assert.Nil(t, svcErr)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

// --- UpdateQuantity / RemoveItem ---

func TestUpdateQuantity_ZeroRemovesItem(t *testing.T) {
	variant := testVariant(50000, 0, 10, 300)
	svc := newCartService(newMockCartRepo(), newMockVariantRepo(variant))
	userID := uuid.New()

	cart, svcErr := svc.AddItem(context.Background(), userID, &models.AddItemRequest{VariantID: variant.ID, Quantity: 2})
	assert.Nil(t, svcErr)

	cart, svcErr = svc.UpdateQuantity(context.Background(), userID, cart.Items[0].ID, 0)
	assert.Nil(t, svcErr)
	assert.Empty(t, cart.Items)
}

func TestUpdateQuantity_ForeignItemRejected(t *testing.T) {
	variant := testVariant(50000, 0, 10, 300)
	svc := newCartService(newMockCartRepo(), newMockVariantRepo(variant))
	owner := uuid.New()

	cart, svcErr := svc.AddItem(context.Background(), owner, &models.AddItemRequest{VariantID: variant.ID, Quantity: 1})
	assert.Nil(t, svcErr)

	_, svcErr = svc.UpdateQuantity(context.Background(), uuid.New(), cart.Items[0].ID, 5)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestClearCart(t *testing.T) {
	variant := testVariant(50000, 0, 10, 300)
	svc := newCartService(newMockCartRepo(), newMockVariantRepo(variant))
	userID := uuid.New()

	_, svcErr := svc.AddItem(context.Background(), userID, &models.AddItemRequest{VariantID: variant.ID, Quantity: 2})
	assert.Nil(t, svcErr)

	assert.Nil(t, svc.ClearCart(context.Background(), userID))
	cart, svcErr := svc.GetCart(context.Background(), userID)
	assert.Nil(t, svcErr)
	assert.Empty(t, cart.Items)

	assert.Nil(t, svc.ClearCart(context.Background(), userID), "clearing an absent cart is a no-op")
}

// --- ApplyDiscount ---

func TestApplyDiscount_AttachesToCart(t *testing.T) {
	variant := testVariant(100000, 0, 10, 500)
	cartRepo := newMockCartRepo()
	discountRepo := newMockDiscountRepo()
	logger, _ := zap.NewDevelopment()
	discountSvc := services.NewDiscountService(discountRepo, logger)
	svc := services.NewCartService(cartRepo, newMockVariantRepo(variant), discountSvc, logger)

	_ = discountRepo.Create(context.Background(), activeDiscount("TENOFF", models.DiscountTypePercentage, 10, 0, 0, 0, 0))
	userID := uuid.New()
	_, svcErr := svc.AddItem(context.Background(), userID, &models.AddItemRequest{VariantID: variant.ID, Quantity: 2})
	assert.Nil(t, svcErr)

	applied, svcErr := svc.ApplyDiscount(context.Background(), userID, "TENOFF")
	assert.Nil(t, svcErr)
	assert.Equal(t, int64(20000), applied.DiscountAmount)
	assert.Equal(t, int64(200000), applied.Subtotal)

	cart, _ := svc.GetCart(context.Background(), userID)
	assert.NotNil(t, cart.DiscountID)
}

func TestApplyDiscount_EmptyCart(t *testing.T) {
	svc := newCartService(newMockCartRepo(), newMockVariantRepo())

	_, svcErr := svc.ApplyDiscount(context.Background(), uuid.New(), "TENOFF")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestRemoveDiscount_ClearsReference(t *testing.T) {
	variant := testVariant(100000, 0, 10, 500)
	cartRepo := newMockCartRepo()
	discountRepo := newMockDiscountRepo()
	logger, _ := zap.NewDevelopment()
	svc := services.NewCartService(cartRepo, newMockVariantRepo(variant), services.NewDiscountService(discountRepo, logger), logger)

	_ = discountRepo.Create(context.Background(), activeDiscount("TENOFF", models.DiscountTypePercentage, 10, 0, 0, 0, 0))
	userID := uuid.New()
	_, _ = svc.AddItem(context.Background(), userID, &models.AddItemRequest{VariantID: variant.ID, Quantity: 1})
	_, svcErr := svc.ApplyDiscount(context.Background(), userID, "TENOFF")
	assert.Nil(t, svcErr)

	assert.Nil(t, svc.RemoveDiscount(context.Background(), userID))
	cart, _ := svc.GetCart(context.Background(), userID)
	assert.Nil(t, cart.DiscountID)
}
