package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/caesariomj/jogjaelectrik-sub000/authz"
	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/caesariomj/jogjaelectrik-sub000/pii"
	"github.com/caesariomj/jogjaelectrik-sub000/providers"
	"github.com/caesariomj/jogjaelectrik-sub000/repository"
	"github.com/caesariomj/jogjaelectrik-sub000/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// --- Mock Checkout Repository ---

type mockCheckoutRepo struct {
	lastParams   *repository.PlaceOrderParams
	savedProfile *models.ShippingProfile
	err          error
}

// PlaceOrder mirrors the transactional contract: the profile only counts
// as saved when every step, the token request included, succeeds.
func (m *mockCheckoutRepo) PlaceOrder(_ context.Context, params *repository.PlaceOrderParams, issueToken repository.TokenFunc) (*models.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastParams = params

	order := &models.Order{
		ID:             uuid.New(),
		OrderNumber:    params.OrderNumber,
		UserID:         params.UserID,
		RecipientName:  params.RecipientName,
		CourierCode:    params.CourierCode,
		CourierService: params.CourierService,
		ShippingCost:   params.ShippingCost,
		Subtotal:       params.Subtotal,
		DiscountAmount: -params.DiscountAmount,
		Total:          params.Total,
		Status:         models.OrderStatusWaitingPayment,
	}
	token, redirectURL, err := issueToken(order)
	if err != nil {
		return nil, err
	}
	order.Payment = &models.Payment{
		OrderID:     order.ID,
		UserID:      params.UserID,
		Token:       token,
		RedirectURL: redirectURL,
		Amount:      params.Total,
		Status:      models.PaymentStatusUnpaid,
	}
	m.savedProfile = params.Profile
	return order, nil
}

// --- Mock Payment Gateway ---

type mockPaymentGateway struct {
	tokenErr error
	expired  []string
}

func (m *mockPaymentGateway) CreateToken(_ context.Context, order *models.Order) (string, string, error) {
	if m.tokenErr != nil {
		return "", "", m.tokenErr
	}
	return "tok_" + order.OrderNumber, "https://pay.example/" + order.OrderNumber, nil
}

func (m *mockPaymentGateway) ExpireInvoice(_ context.Context, token string) error {
	m.expired = append(m.expired, token)
	return nil
}

func (m *mockPaymentGateway) ParseNotification(_ *http.Request) (*providers.PaymentNotification, error) {
	return nil, nil
}

// --- Mock Event Sinks ---

type mockProducer struct {
	events []models.OrderEvent
}

func (m *mockProducer) PublishOrderEvent(evt models.OrderEvent) error {
	m.events = append(m.events, evt)
	return nil
}

type mockSNSPublisher struct {
	published []string
}

func (m *mockSNSPublisher) Publish(_ context.Context, topicArn string, _ []byte) error {
	m.published = append(m.published, topicArn)
	return nil
}

// --- Fixture ---

const testPIIKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

type checkoutFixture struct {
	svc          services.CheckoutService
	cartRepo     *mockCartRepo
	variantRepo  *mockVariantRepo
	checkoutRepo *mockCheckoutRepo
	discountRepo *mockDiscountRepo
	gateway      *mockPaymentGateway
	producer     *mockProducer
	sns          *mockSNSPublisher
	userID       uuid.UUID
	actor        authz.Actor
	variant      *models.ProductVariant
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	f := &checkoutFixture{
		cartRepo:     newMockCartRepo(),
		variantRepo:  newMockVariantRepo(),
		checkoutRepo: &mockCheckoutRepo{},
		discountRepo: newMockDiscountRepo(),
		gateway:      &mockPaymentGateway{},
		producer:     &mockProducer{},
		sns:          &mockSNSPublisher{},
		userID:       uuid.New(),
	}
	f.actor = authz.Actor{ID: f.userID.String(), Role: authz.RoleCustomer}

	f.variant = testVariant(100000, 0, 10, 1000)
	f.variantRepo.variants[f.variant.ID] = f.variant

	codec, err := pii.NewCodec(testPIIKey)
	assert.NoError(t, err)

	courierGateway := &mockCourierGateway{options: jneOptions()}
	shippingSvc := services.NewShippingService(courierGateway, newMockRateCache(), logger)

	f.svc = services.NewCheckoutService(
		f.cartRepo, f.variantRepo, f.checkoutRepo, f.discountRepo,
		shippingSvc, f.gateway, authz.NewRolePolicy(), codec,
		f.producer, f.sns, "arn:aws:sns:us-east-1:000000000000:order-events", nil, logger,
	)
	return f
}

func (f *checkoutFixture) fillCart(t *testing.T, quantity int) {
	t.Helper()
	cart := &models.Cart{ID: uuid.New(), UserID: f.userID}
	cart.Items = []models.CartItem{{
		ID:          uuid.New(),
		CartID:      cart.ID,
		VariantID:   f.variant.ID,
		Quantity:    quantity,
		Price:       f.variant.SellingPrice(),
		WeightGrams: f.variant.WeightGrams,
	}}
	f.cartRepo.carts[f.userID] = cart
}

func checkoutRequest() *models.CheckoutRequest {
	return &models.CheckoutRequest{
		RecipientName:  "Budi Santoso",
		Phone:          "081234567890",
		Address:        "Jl. Malioboro No. 1, Yogyakarta",
		PostalCode:     "55213",
		CityID:         "501",
		CityName:       "Yogyakarta",
		CourierCode:    "jne",
		CourierService: "REG",
		ShippingCost:   18000,
		PaymentMethod:  "card",
	}
}

// --- Tests ---

func TestCheckout_Success(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 2) // weight 2000g, subtotal 200000

	resp, svcErr := f.svc.Checkout(context.Background(), f.actor, checkoutRequest())
	assert.Nil(t, svcErr)
	assert.NotNil(t, resp)
	assert.NotEmpty(t, resp.SnapToken)
	assert.NotEmpty(t, resp.RedirectURL)

	params := f.checkoutRepo.lastParams
	assert.Equal(t, int64(200000), params.Subtotal)
	assert.Equal(t, int64(0), params.DiscountAmount)
	assert.Equal(t, int64(18000), params.ShippingCost)
	assert.Equal(t, int64(218000), params.Total)
	assert.Equal(t, 2, params.EtdMinDays)
	assert.Equal(t, 3, params.EtdMaxDays)

	assert.Len(t, f.producer.events, 1)
	assert.Equal(t, models.EventOrderCreated, f.producer.events[0].EventType)
	assert.Len(t, f.sns.published, 1)
}

func TestCheckout_EncryptsShippingProfile(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)
	req := checkoutRequest()

	_, svcErr := f.svc.Checkout(context.Background(), f.actor, req)
	assert.Nil(t, svcErr)

	saved := f.checkoutRepo.savedProfile
	assert.NotNil(t, saved)
	assert.Equal(t, req.RecipientName, saved.RecipientName)
	assert.NotEqual(t, req.Phone, saved.PhoneEnc, "phone is stored encrypted")
	assert.NotEqual(t, req.Address, saved.AddressEnc)

	codec, _ := pii.NewCodec(testPIIKey)
	phone, err := codec.Decrypt(saved.PhoneEnc)
	assert.NoError(t, err)
	assert.Equal(t, req.Phone, phone)
}

func TestCheckout_AppliedDiscountLowersTotal(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 2)

	discount := activeDiscount("TENOFF", models.DiscountTypePercentage, 10, 0, 0, 0, 0)
	_ = f.discountRepo.Create(context.Background(), discount)
	f.cartRepo.carts[f.userID].DiscountID = &discount.ID

	_, svcErr := f.svc.Checkout(context.Background(), f.actor, checkoutRequest())
	assert.Nil(t, svcErr)

	params := f.checkoutRepo.lastParams
	assert.Equal(t, int64(20000), params.DiscountAmount)
	assert.Equal(t, int64(198000), params.Total, "200000 - 20000 + 18000")
	assert.Equal(t, &discount.ID, params.DiscountID)
}

func TestCheckout_UnusableDiscountFails(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1) // subtotal 100000

	discount := activeDiscount("MIN500K", models.DiscountTypePercentage, 10, 0, 500000, 0, 0)
	_ = f.discountRepo.Create(context.Background(), discount)
	f.cartRepo.carts[f.userID].DiscountID = &discount.ID

	_, svcErr := f.svc.Checkout(context.Background(), f.actor, checkoutRequest())
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Nil(t, f.checkoutRepo.lastParams, "nothing written when the discount no longer applies")
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, svcErr := f.svc.Checkout(context.Background(), f.actor, checkoutRequest())
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestCheckout_TamperedShippingCost(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)

	req := checkoutRequest()
	req.ShippingCost = 1000 // not a quoted price

	_, svcErr := f.svc.Checkout(context.Background(), f.actor, req)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 2)
	f.checkoutRepo.err = repository.ErrInsufficientStock

	_, svcErr := f.svc.Checkout(context.Background(), f.actor, checkoutRequest())
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Empty(t, f.producer.events, "no event published for a failed checkout")
}

func TestCheckout_GatewayFailureRollsBack(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)
	f.gateway.tokenErr = &providers.GatewayError{Provider: "stripe", Op: "CreateToken", Err: assert.AnError}

	_, svcErr := f.svc.Checkout(context.Background(), f.actor, checkoutRequest())
	assert.NotNil(t, svcErr)
	assert.Equal(t, 502, svcErr.StatusCode)
	assert.Empty(t, f.producer.events)
	assert.Nil(t, f.checkoutRepo.savedProfile, "rolled-back checkout must not touch the stored profile")
}

func TestCheckout_FailedCheckoutDoesNotSaveProfile(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 2)
	f.checkoutRepo.err = repository.ErrInsufficientStock

	_, svcErr := f.svc.Checkout(context.Background(), f.actor, checkoutRequest())
	assert.NotNil(t, svcErr)
	assert.Nil(t, f.checkoutRepo.savedProfile, "the shipping profile commits with the order or not at all")
}

func TestCheckout_EmptyCartSentinelFromRepository(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)
	f.checkoutRepo.err = repository.ErrEmptyCart

	_, svcErr := f.svc.Checkout(context.Background(), f.actor, checkoutRequest())
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Equal(t, "Your cart is empty", svcErr.Message)
}

func TestCheckout_RequiresCustomerRole(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)

	_, svcErr := f.svc.Checkout(context.Background(), authz.Actor{ID: f.userID.String(), Role: "warehouse"}, checkoutRequest())
	assert.NotNil(t, svcErr)
	assert.Equal(t, 403, svcErr.StatusCode)
}
