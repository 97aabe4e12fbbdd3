package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
)

// CourierGateway defines the interface all courier-rate integrations must
// implement.
type CourierGateway interface {
	// Quote returns the selectable services for the destination city and
	// total parcel weight in grams.
	Quote(ctx context.Context, destinationCityID string, weightGrams int, courier string) ([]models.RateOption, error)
}

// GatewayError marks a failure that originated at an external provider,
// so callers can distinguish it from local persistence failures.
type GatewayError struct {
	Provider string
	Op       string
	Err      error
}

func (e *GatewayError) Error() string {
	return e.Provider + " " + e.Op + ": " + e.Err.Error()
}

func (e *GatewayError) Unwrap() error { return e.Err }

// PaymentNotification is a gateway-agnostic view of a payment webhook event.
type PaymentNotification struct {
	Token   string // gateway token identifying the payment
	OrderID string // order id from gateway metadata, may be empty
	Status  string // models.PaymentStatusPaid or models.PaymentStatusExpired
	PaidAt  time.Time
}

// PaymentGateway defines the interface for the payment provider.
type PaymentGateway interface {
	// CreateToken opens a payment session for the order and returns the
	// opaque token the client uses to pay, plus a hosted redirect URL.
	CreateToken(ctx context.Context, order *models.Order) (token string, redirectURL string, err error)

	// ExpireInvoice invalidates an open payment session so it can no
	// longer be paid.
	ExpireInvoice(ctx context.Context, token string) error

	// ParseNotification verifies and decodes a webhook request.
	ParseNotification(r *http.Request) (*PaymentNotification, error)
}
