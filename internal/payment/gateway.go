package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

var (
	ErrInvalidAmount = errors.New("amount must be a positive number")
	ErrGateway       = errors.New("payment gateway error")
)

const DefaultCurrency = "usd"

// IntentCreator is the part of the Stripe client the gateway needs.
type IntentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type Gateway struct {
	intents  IntentCreator
	currency string
}

func NewGateway(intents IntentCreator, currency string) *Gateway {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Gateway{intents: intents, currency: currency}
}

// NewStripeGateway builds a gateway backed by the Stripe API client.
func NewStripeGateway(secretKey, currency string) *Gateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return NewGateway(sc.PaymentIntents, currency)
}

// ToMinorUnits converts a price to the smallest currency unit, rounding to
// the nearest cent.
func ToMinorUnits(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidAmount, price)
	}

	amount := math.Round(price * 100)
	if amount <= 0 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidAmount, price)
	}
	if amount > math.MaxInt64/2 {
		return 0, fmt.Errorf("%w: %v is too large", ErrInvalidAmount, price)
	}
	return int64(amount), nil
}

// CreateIntent opens a card payment intent for price and returns the client
// secret the storefront confirms the payment with.
func (g *Gateway) CreateIntent(ctx context.Context, price float64) (string, error) {
	amount, err := ToMinorUnits(price)
	if err != nil {
		return "", err
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(g.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := g.intents.New(params)
	if err != nil {
		zap.L().Warn("create payment intent failed",
			zap.Int64("amount", amount),
			zap.String("currency", g.currency),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if intent == nil || intent.ClientSecret == "" {
		return "", fmt.Errorf("%w: empty client secret", ErrGateway)
	}

	return intent.ClientSecret, nil
}
