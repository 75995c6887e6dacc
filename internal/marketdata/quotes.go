package marketdata

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"deltaspread/internal/aggregation"
	"deltaspread/internal/models"
)

// QuoteService is a facade over a Service that answers quote questions
// in strategy terms: quotes per leg, IVs per strategy, mid prices.
type QuoteService struct {
	data   Service
	logger zerolog.Logger
}

// NewQuoteService creates a quote facade over the given data source.
func NewQuoteService(data Service, logger zerolog.Logger) *QuoteService {
	return &QuoteService{
		data:   data,
		logger: logger.With().Str("component", "quotes").Logger(),
	}
}

// DataService returns the underlying data source.
func (s *QuoteService) DataService() Service {
	return s.data
}

// SetDataService swaps the underlying data source (mock vs real).
func (s *QuoteService) SetDataService(data Service) {
	s.data = data
}

// QuoteForLeg fetches the quote for one strategy leg.
func (s *QuoteService) QuoteForLeg(ctx context.Context, leg models.OptionLeg, symbol string) (models.OptionQuote, error) {
	return s.data.GetQuote(ctx, symbol, leg.Contract.Expiry, leg.Contract.Strike, leg.Contract.Type)
}

// IVsForStrategy fetches the implied volatility for every leg of the
// strategy and returns the (strike, type) -> iv map the aggregation
// engine consumes. A leg whose quote cannot be fetched is omitted, so
// the engine falls back to its default IV for that contract.
func (s *QuoteService) IVsForStrategy(ctx context.Context, strategy *models.Strategy) aggregation.IVMap {
	ivs := make(aggregation.IVMap, len(strategy.Legs))
	for _, leg := range strategy.Legs {
		quote, err := s.data.GetQuote(ctx, strategy.Underlier.Symbol, leg.Contract.Expiry, leg.Contract.Strike, leg.Contract.Type)
		if err != nil {
			s.logger.Warn().Err(err).
				Float64("strike", leg.Contract.Strike).
				Str("type", string(leg.Contract.Type)).
				Msg("quote fetch failed, leg will use default IV")
			continue
		}
		ivs[aggregation.IVKey{Strike: leg.Contract.Strike, Type: leg.Contract.Type}] = quote.IV
	}
	return ivs
}

// MidPrice returns the mid price for one contract.
func (s *QuoteService) MidPrice(ctx context.Context, symbol string, expiry time.Time, strike float64, typ models.OptionType) (float64, error) {
	quote, err := s.data.GetQuote(ctx, symbol, expiry, strike, typ)
	if err != nil {
		return 0, err
	}
	return quote.Mid, nil
}

// Expiries returns the available expiry dates from the data source.
func (s *QuoteService) Expiries(ctx context.Context) ([]time.Time, error) {
	return s.data.GetExpiries(ctx)
}

// Strikes returns the available strikes for a symbol and expiry.
func (s *QuoteService) Strikes(ctx context.Context, symbol string, expiry time.Time) ([]float64, error) {
	return s.data.GetStrikes(ctx, symbol, expiry)
}
