package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "deltaspread/internal/errors"
	"deltaspread/internal/models"
)

func newTradierFixture(t *testing.T) (*TradierService, *int64) {
	t.Helper()
	var hits int64

	mux := http.NewServeMux()
	mux.HandleFunc("/markets/options/expirations", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"expirations":{"date":["2026-11-20","2026-10-16"]}}`))
	})
	mux.HandleFunc("/markets/options/chains", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(`{"options":{"option":[
			{"strike":105,"option_type":"call","bid":0.8,"ask":1.0,"greeks":{"mid_iv":0.22}},
			{"strike":100,"option_type":"call","bid":1.0,"ask":1.2,"greeks":{"mid_iv":0.25}},
			{"strike":100,"option_type":"put","bid":0.9,"ask":1.1},
			{"strike":0,"option_type":"call","bid":0,"ask":0},
			{"strike":110,"option_type":"call","bid":0.5,"ask":0}
		]}}`))
	})
	mux.HandleFunc("/markets/quotes", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(`{"quotes":{"quote":{"last":450.5,"change":2.5,"change_percentage":0.56,"prevclose":448.0}}}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	svc := NewTradierService(TradierConfig{
		Symbol:  "SPY",
		BaseURL: server.URL,
		Token:   "test-token",
	}, zerolog.Nop())
	return svc, &hits
}

func TestTradierExpiriesSortedAndCached(t *testing.T) {
	svc, hits := newTradierFixture(t)
	ctx := context.Background()

	expiries, err := svc.GetExpiries(ctx)
	require.NoError(t, err)
	require.Len(t, expiries, 2)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), expiries[0])
	assert.Equal(t, time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC), expiries[1])

	_, err = svc.GetExpiries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(hits), "second call served from cache")

	svc.InvalidateCache()
	_, err = svc.GetExpiries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(hits), "invalidation forces refetch")
}

func TestTradierStrikesUniqueSorted(t *testing.T) {
	svc, _ := newTradierFixture(t)
	expiry := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	strikes, err := svc.GetStrikes(context.Background(), "SPY", expiry)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 105, 110}, strikes, "deduped, sorted, zero strike dropped")
}

func TestTradierChainSkipsBadRowsAndCaches(t *testing.T) {
	svc, hits := newTradierFixture(t)
	ctx := context.Background()
	expiry := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	chain, err := svc.GetChain(ctx, "SPY", expiry)
	require.NoError(t, err)
	// The one-sided 110 row fails validation and is skipped; the zero
	// strike row still parses as an empty quote.
	assert.Len(t, chain, 4)

	before := atomic.LoadInt64(hits)
	_, err = svc.GetChain(ctx, "SPY", expiry)
	require.NoError(t, err)
	assert.Equal(t, before, atomic.LoadInt64(hits), "chain served from cache")
}

func TestTradierGetQuote(t *testing.T) {
	svc, _ := newTradierFixture(t)
	ctx := context.Background()
	expiry := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	q, err := svc.GetQuote(ctx, "SPY", expiry, 100, models.OptionCall)
	require.NoError(t, err)
	assert.Equal(t, 1.1, q.Mid)
	assert.Equal(t, 0.25, q.IV)

	// Strike matching tolerates small float drift.
	q, err = svc.GetQuote(ctx, "SPY", expiry, 100.005, models.OptionPut)
	require.NoError(t, err)
	assert.Equal(t, 1.0, q.Mid)

	_, err = svc.GetQuote(ctx, "SPY", expiry, 999, models.OptionCall)
	assert.ErrorIs(t, err, apperrors.ErrQuoteNotFound)
}

func TestTradierGetStockQuote(t *testing.T) {
	svc, _ := newTradierFixture(t)

	q, err := svc.GetStockQuote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 450.5, q.Last)
	assert.Equal(t, 448.0, q.PrevClose)
}
