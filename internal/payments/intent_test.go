// ABOUTME: Tests for minor-unit conversion and payment-intent creation
// ABOUTME: Uses a fake Stripe client to verify amounts, currency, and error mapping

package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v76"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		price float64
		want  int64
	}{
		{19.99, 1999},
		{0.01, 1},
		{1, 100},
		{5.2, 520},
		{10.556, 1056},  // rounds to the nearest cent, once
		{0.1 + 0.2, 30}, // float artifacts must not leak into the amount
		{100.004999, 10000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MinorUnits(tt.price), "price %v", tt.price)
	}
}

// fakeIntentAPI captures the params the creator sends.
type fakeIntentAPI struct {
	gotParams *stripe.PaymentIntentParams
	intent    *stripe.PaymentIntent
	err       error
}

func (f *fakeIntentAPI) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.gotParams = params
	if f.err != nil {
		return nil, f.err
	}
	return f.intent, nil
}

func newTestCreator(fake *fakeIntentAPI) *IntentCreator {
	c := NewIntentCreator("sk_test_fake", nil)
	c.intents = fake
	return c
}

func TestCreateIntent_SendsRoundedMinorUnits(t *testing.T) {
	fake := &fakeIntentAPI{intent: &stripe.PaymentIntent{ClientSecret: "pi_123_secret_456"}}
	creator := newTestCreator(fake)

	secret, err := creator.CreateIntent(context.Background(), 19.99)
	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret_456", secret)

	require.NotNil(t, fake.gotParams)
	assert.Equal(t, int64(1999), *fake.gotParams.Amount)
	assert.Equal(t, "usd", *fake.gotParams.Currency)
	require.Len(t, fake.gotParams.PaymentMethodTypes, 1)
	assert.Equal(t, "card", *fake.gotParams.PaymentMethodTypes[0])
}

func TestCreateIntent_NonPositivePrice(t *testing.T) {
	fake := &fakeIntentAPI{}
	creator := newTestCreator(fake)

	for _, price := range []float64{0, -5} {
		_, err := creator.CreateIntent(context.Background(), price)

		var pe *ProcessorError
		require.Error(t, err, "price %v", price)
		assert.True(t, errors.As(err, &pe), "price %v should fail as ProcessorError", price)
		assert.Nil(t, fake.gotParams, "processor must not be called for price %v", price)
	}
}

func TestCreateIntent_ProcessorRejection(t *testing.T) {
	fake := &fakeIntentAPI{err: &stripe.Error{Msg: "Amount must be at least $0.50 usd", Code: stripe.ErrorCodeAmountTooSmall}}
	creator := newTestCreator(fake)

	_, err := creator.CreateIntent(context.Background(), 0.01)

	var pe *ProcessorError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Message, "at least")
}

func TestCreateIntent_InternalFault(t *testing.T) {
	fake := &fakeIntentAPI{err: errors.New("connection reset")}
	creator := newTestCreator(fake)

	_, err := creator.CreateIntent(context.Background(), 19.99)

	var pe *ProcessorError
	require.Error(t, err)
	assert.False(t, errors.As(err, &pe), "transport faults are not processor errors")
}
