package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedProcessor(t *testing.T) {
	processor := NewSimulatedProcessor(time.Millisecond, zerolog.Nop())

	t.Run("Approves ordinary card", func(t *testing.T) {
		result, err := processor.Submit(context.Background(), PaymentRequest{
			Amount:   decimal.NewFromInt(1220),
			Currency: "INR",
			Details:  validDetails(),
		})

		require.NoError(t, err)
		assert.True(t, result.Approved)
		assert.Regexp(t, `^PAY-[0-9a-f-]{36}$`, result.Reference)
	})

	t.Run("Declines test card", func(t *testing.T) {
		details := validDetails()
		details.CardNumber = "4000 0000 0000 0002"

		result, err := processor.Submit(context.Background(), PaymentRequest{Details: details})

		require.NoError(t, err)
		assert.False(t, result.Approved)
		assert.Equal(t, "card declined", result.DeclineReason)
	})

	t.Run("Honours cancellation", func(t *testing.T) {
		slow := NewSimulatedProcessor(time.Hour, zerolog.Nop())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		result, err := slow.Submit(ctx, PaymentRequest{Details: validDetails()})

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Nil(t, result)
	})
}

func TestState_IsTerminal(t *testing.T) {
	assert.False(t, StateIdle.IsTerminal())
	assert.False(t, StateValidating.IsTerminal())
	assert.False(t, StateProcessing.IsTerminal())
	assert.True(t, StateSucceeded.IsTerminal())
	assert.True(t, StateFailed.IsTerminal())
	assert.Equal(t, "PROCESSING", StateProcessing.String())
}
