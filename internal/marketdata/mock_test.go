package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deltaspread/internal/models"
)

func TestMockExpiriesRange(t *testing.T) {
	anchor := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)
	svc := NewMockServiceAt(anchor)

	expiries, err := svc.GetExpiries(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, expiries)

	first := expiries[0]
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), first)

	// September 2026 anchor runs through the end of February 2027.
	last := expiries[len(expiries)-1]
	assert.Equal(t, time.Date(2027, 2, 28, 0, 0, 0, 0, time.UTC), last)

	for i := 1; i < len(expiries); i++ {
		assert.Equal(t, expiries[i-1].AddDate(0, 0, 1), expiries[i])
	}
}

func TestMockExpiriesLeapFebruary(t *testing.T) {
	// January anchor targets the same year's February; 2028 is a leap year.
	svc := NewMockServiceAt(time.Date(2028, 1, 15, 0, 0, 0, 0, time.UTC))

	expiries, err := svc.GetExpiries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC), expiries[len(expiries)-1])
}

func TestMockStrikesLadder(t *testing.T) {
	svc := NewMockServiceAt(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	expiry := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	strikes, err := svc.GetStrikes(context.Background(), "SPY", expiry)
	require.NoError(t, err)
	require.Len(t, strikes, 11)

	step := strikes[1] - strikes[0]
	assert.Contains(t, []float64{1, 5, 10}, step)
	for i := 1; i < len(strikes); i++ {
		assert.InDelta(t, step, strikes[i]-strikes[i-1], 1e-9, "uniform ladder")
	}

	// Base strike sits in the middle of the ladder, inside [50, 299].
	base := strikes[5]
	assert.GreaterOrEqual(t, base, 50.0)
	assert.LessOrEqual(t, base, 299.0)

	again, err := svc.GetStrikes(context.Background(), "SPY", expiry)
	require.NoError(t, err)
	assert.Equal(t, strikes, again)

	other, err := svc.GetStrikes(context.Background(), "QQQ", expiry)
	require.NoError(t, err)
	assert.NotEqual(t, strikes, other, "different symbols hash to different ladders")
}

func TestMockQuoteInvariants(t *testing.T) {
	svc := NewMockServiceAt(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	expiry := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	strikes, err := svc.GetStrikes(ctx, "SPY", expiry)
	require.NoError(t, err)

	for _, typ := range []models.OptionType{models.OptionCall, models.OptionPut} {
		for _, strike := range strikes {
			q, err := svc.GetQuote(ctx, "SPY", expiry, strike, typ)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, q.Bid, 0.0)
			assert.GreaterOrEqual(t, q.Ask, q.Bid)
			assert.GreaterOrEqual(t, q.Mid, q.Bid)
			assert.LessOrEqual(t, q.Mid, q.Ask)
			assert.GreaterOrEqual(t, q.IV, 0.1)
			assert.LessOrEqual(t, q.IV, 0.3)

			repeat, err := svc.GetQuote(ctx, "SPY", expiry, strike, typ)
			require.NoError(t, err)
			assert.Equal(t, q.Bid, repeat.Bid)
			assert.Equal(t, q.Ask, repeat.Ask)
			assert.Equal(t, q.Mid, repeat.Mid)
			assert.Equal(t, q.IV, repeat.IV)
		}
	}
}

func TestMockChainCoversBothTypes(t *testing.T) {
	svc := NewMockServiceAt(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	expiry := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	chain, err := svc.GetChain(context.Background(), "SPY", expiry)
	require.NoError(t, err)
	assert.Len(t, chain, 22)
}
