// ABOUTME: Payment-intent creation against the Stripe API
// ABOUTME: Converts decimal prices to integer minor units with a single rounding step

package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ProcessorError marks a rejection by the payment processor, as opposed to an
// internal fault. Handlers map it to a client error instead of a 500.
type ProcessorError struct {
	Message string
	err     error
}

func (e *ProcessorError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("payment processor: %s: %v", e.Message, e.err)
	}
	return fmt.Sprintf("payment processor: %s", e.Message)
}

func (e *ProcessorError) Unwrap() error { return e.err }

// MinorUnits converts a decimal price to an integer amount of minor units
// (cents), rounding exactly once. Rounding the scaled value to 2 decimals
// first and then truncating can misstate fractional cents, so the scaled
// value is rounded straight to the nearest integer.
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// intentAPI is the slice of the Stripe client the creator needs. Satisfied by
// client.API.PaymentIntents.
type intentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// IntentCreator creates card payment intents in USD and returns the
// client-facing secret used to complete the charge out-of-band.
type IntentCreator struct {
	intents intentAPI
	logger  *slog.Logger
}

// NewIntentCreator creates an IntentCreator bound to the given Stripe secret key.
func NewIntentCreator(secretKey string, logger *slog.Logger) *IntentCreator {
	if logger == nil {
		logger = slog.Default()
	}

	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &IntentCreator{
		intents: sc.PaymentIntents,
		logger:  logger.With("component", "payments"),
	}
}

// CreateIntent creates a payment intent for the given price and returns its
// client secret. Non-positive prices and processor rejections surface as
// *ProcessorError; anything else is an internal fault.
func (c *IntentCreator) CreateIntent(ctx context.Context, price float64) (string, error) {
	if price <= 0 {
		return "", &ProcessorError{Message: fmt.Sprintf("invalid amount %.2f", price)}
	}

	amount := MinorUnits(price)

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := c.intents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			c.logger.Warn("payment intent rejected",
				"code", stripeErr.Code,
				"amount", amount,
			)
			return "", &ProcessorError{Message: stripeErr.Msg, err: err}
		}
		return "", fmt.Errorf("creating payment intent: %w", err)
	}

	c.logger.Info("payment intent created", "amount", amount, "currency", "usd")
	return intent.ClientSecret, nil
}
