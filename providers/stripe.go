package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// StripeGateway implements PaymentGateway on Stripe Checkout Sessions.
// The session id doubles as the snap token handed to the client.
type StripeGateway struct {
	webhookSecret string
	successURL    string
	cancelURL     string
	currency      string
}

// NewStripeGateway creates a new StripeGateway and sets the global API key.
func NewStripeGateway(secretKey, webhookSecret, successURL, cancelURL, currency string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
		currency:      currency,
	}
}

// CreateToken opens a hosted checkout session for the order total.
func (g *StripeGateway) CreateToken(ctx context.Context, order *models.Order) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(g.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Order " + order.OrderNumber),
					},
					UnitAmount: stripe.Int64(order.Total),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("order_number", order.OrderNumber)
	params.AddMetadata("user_id", order.UserID.String())

	sess, err := session.New(params)
	if err != nil {
		return "", "", &GatewayError{Provider: "stripe", Op: "CreateToken", Err: err}
	}
	return sess.ID, sess.URL, nil
}

// ExpireInvoice expires an open checkout session.
func (g *StripeGateway) ExpireInvoice(ctx context.Context, token string) error {
	params := &stripe.CheckoutSessionExpireParams{}
	params.Context = ctx
	if _, err := session.Expire(token, params); err != nil {
		return &GatewayError{Provider: "stripe", Op: "ExpireInvoice", Err: err}
	}
	return nil
}

// ParseNotification verifies the webhook signature and maps the event onto
// the gateway-agnostic notification.
func (g *StripeGateway) ParseNotification(r *http.Request) (*PaymentNotification, error) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read webhook body: %w", err)
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	var sess stripe.CheckoutSession
	switch event.Type {
	case "checkout.session.completed":
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		return &PaymentNotification{
			Token:   sess.ID,
			OrderID: sess.Metadata["order_id"],
			Status:  models.PaymentStatusPaid,
			PaidAt:  time.Unix(event.Created, 0),
		}, nil
	case "checkout.session.expired":
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		return &PaymentNotification{
			Token:   sess.ID,
			OrderID: sess.Metadata["order_id"],
			Status:  models.PaymentStatusExpired,
		}, nil
	}
	return nil, nil
}
