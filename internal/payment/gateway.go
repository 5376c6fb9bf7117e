// Package payment creates Stripe payment intents for checkout.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const DefaultCurrency = "usd"

var ErrNotConfigured = errors.New("payment provider is not configured")

// ToCents converts a price in major units to the smallest currency unit,
// truncating any fraction of a cent.
func ToCents(price float64) int64 {
	return decimal.NewFromFloat(price).Shift(2).IntPart()
}

type StripeGateway struct {
	api *client.API
}

// NewStripeGateway returns a gateway using secretKey. backends may be nil to
// talk to the live Stripe API.
func NewStripeGateway(secretKey string, backends *stripe.Backends) *StripeGateway {
	if secretKey == "" {
		return &StripeGateway{}
	}
	return &StripeGateway{api: client.New(secretKey, backends)}
}

// CreateIntent creates a card payment intent and returns its client secret.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if g.api == nil {
		return "", ErrNotConfigured
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}
