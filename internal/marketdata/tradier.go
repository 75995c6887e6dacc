package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"deltaspread/internal/errors"
	"deltaspread/internal/models"
	"deltaspread/pkg/utils"
)

// strikeTolerance is the tolerance used when matching strikes against
// chain rows.
const strikeTolerance = 0.01

// TradierConfig holds configuration for the Tradier data service.
type TradierConfig struct {
	Symbol  string
	BaseURL string
	Token   string
	Timeout time.Duration
}

// StockQuote holds a stock quote for the underlying symbol.
type StockQuote struct {
	Last             float64
	Change           float64
	ChangePercentage float64
	PrevClose        float64
}

type chainKey struct {
	symbol string
	expiry string
}

// TradierService implements Service against the Tradier REST API.
// Expiries and chains are cached per instance, keyed by symbol+expiry;
// InvalidateCache resets both caches.
type TradierService struct {
	symbol  string
	baseURL string
	token   string
	client  *http.Client
	retry   utils.RetryConfig
	logger  zerolog.Logger

	mu       sync.RWMutex
	expiries []time.Time
	chains   map[chainKey][]models.OptionQuote
	raw      map[chainKey][]tradierOption
}

// NewTradierService creates a Tradier-backed data service.
func NewTradierService(cfg TradierConfig, logger zerolog.Logger) *TradierService {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &TradierService{
		symbol:  cfg.Symbol,
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
		retry:   utils.DefaultRetryConfig(),
		logger:  logger.With().Str("component", "tradier").Str("symbol", cfg.Symbol).Logger(),
		chains:  make(map[chainKey][]models.OptionQuote),
		raw:     make(map[chainKey][]tradierOption),
	}
}

// InvalidateCache drops the cached expiries and chains, forcing the
// next call to refetch from the API.
func (s *TradierService) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiries = nil
	s.chains = make(map[chainKey][]models.OptionQuote)
	s.raw = make(map[chainKey][]tradierOption)
	s.logger.Debug().Msg("market data cache invalidated")
}

// GetStockQuote fetches the latest stock quote for the service symbol.
func (s *TradierService) GetStockQuote(ctx context.Context) (*StockQuote, error) {
	var resp tradierQuotesResponse
	params := map[string]string{"symbols": s.symbol}
	if err := s.getJSON(ctx, "/markets/quotes", params, &resp); err != nil {
		return nil, errors.NewDataError("stock_quote", s.symbol, "request failed", err)
	}
	if len(resp.Quotes.Quote) == 0 {
		return nil, errors.NewDataError("stock_quote", s.symbol, "no quote in response", nil)
	}
	q := resp.Quotes.Quote[0]
	return &StockQuote{
		Last:             q.Last,
		Change:           q.Change,
		ChangePercentage: q.ChangePercentage,
		PrevClose:        q.PrevClose,
	}, nil
}

// GetExpiries implements Service. Results are cached for the lifetime
// of the service instance.
func (s *TradierService) GetExpiries(ctx context.Context) ([]time.Time, error) {
	s.mu.RLock()
	cached := s.expiries
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	var resp tradierExpirationsResponse
	params := map[string]string{
		"symbol":          s.symbol,
		"includeAllRoots": "true",
	}
	if err := s.getJSON(ctx, "/markets/options/expirations", params, &resp); err != nil {
		return nil, errors.NewDataError("expiries", s.symbol, "request failed", err)
	}

	expiries := make([]time.Time, 0, len(resp.Expirations.Date))
	for _, d := range resp.Expirations.Date {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			s.logger.Warn().Str("date", d).Msg("skipping unparsable expiry")
			continue
		}
		expiries = append(expiries, t)
	}
	sort.Slice(expiries, func(i, j int) bool { return expiries[i].Before(expiries[j]) })

	s.mu.Lock()
	s.expiries = expiries
	s.mu.Unlock()
	s.logger.Info().Int("count", len(expiries)).Msg("fetched expiries")
	return expiries, nil
}

// GetStrikes implements Service, deriving unique sorted strikes from
// the raw chain for the expiry.
func (s *TradierService) GetStrikes(ctx context.Context, symbol string, expiry time.Time) ([]float64, error) {
	raw, err := s.rawChain(ctx, symbol, expiry)
	if err != nil {
		return nil, err
	}
	seen := make(map[float64]struct{}, len(raw))
	var strikes []float64
	for _, opt := range raw {
		if opt.Strike <= 0 {
			continue
		}
		if _, ok := seen[opt.Strike]; !ok {
			seen[opt.Strike] = struct{}{}
			strikes = append(strikes, opt.Strike)
		}
	}
	sort.Float64s(strikes)
	return strikes, nil
}

// GetChain implements Service. Parsed chains are cached per
// symbol+expiry.
func (s *TradierService) GetChain(ctx context.Context, symbol string, expiry time.Time) ([]models.OptionQuote, error) {
	key := chainKey{symbol: symbol, expiry: expiry.Format("2006-01-02")}

	s.mu.RLock()
	cached, ok := s.chains[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	raw, err := s.rawChain(ctx, symbol, expiry)
	if err != nil {
		return nil, err
	}

	quotes := make([]models.OptionQuote, 0, len(raw))
	for _, opt := range raw {
		quote, err := parseOptionQuote(opt)
		if err != nil {
			s.logger.Warn().Err(err).Float64("strike", opt.Strike).Msg("skipping unparsable option")
			continue
		}
		quotes = append(quotes, quote)
	}

	s.mu.Lock()
	s.chains[key] = quotes
	s.mu.Unlock()
	s.logger.Info().Int("count", len(quotes)).Str("expiry", key.expiry).Msg("fetched option chain")
	return quotes, nil
}

// GetQuote implements Service. It fails with ErrQuoteNotFound when no
// chain row matches the strike and type.
func (s *TradierService) GetQuote(ctx context.Context, symbol string, expiry time.Time, strike float64, typ models.OptionType) (models.OptionQuote, error) {
	raw, err := s.rawChain(ctx, symbol, expiry)
	if err != nil {
		return models.OptionQuote{}, err
	}

	for _, opt := range raw {
		if math.Abs(opt.Strike-strike) < strikeTolerance && models.OptionType(opt.TypeUpper()) == typ {
			quote, err := parseOptionQuote(opt)
			if err != nil {
				continue
			}
			return quote, nil
		}
	}
	return models.OptionQuote{}, errors.Wrapf(errors.ErrQuoteNotFound,
		"%s %s %.2f %s", symbol, expiry.Format("2006-01-02"), strike, typ)
}

// rawChain fetches (or returns the cached) raw chain rows for a
// symbol+expiry.
func (s *TradierService) rawChain(ctx context.Context, symbol string, expiry time.Time) ([]tradierOption, error) {
	key := chainKey{symbol: symbol, expiry: expiry.Format("2006-01-02")}

	s.mu.RLock()
	cached, ok := s.raw[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	var resp tradierChainResponse
	params := map[string]string{
		"symbol":     symbol,
		"expiration": key.expiry,
		"greeks":     "true",
	}
	if err := s.getJSON(ctx, "/markets/options/chains", params, &resp); err != nil {
		return nil, errors.NewDataError("chain", symbol, "request failed", err)
	}

	s.mu.Lock()
	s.raw[key] = resp.Options.Option
	s.mu.Unlock()
	return resp.Options.Option, nil
}

// getJSON performs an authenticated GET against the Tradier API and
// decodes the JSON body into v, retrying transient failures.
func (s *TradierService) getJSON(ctx context.Context, path string, params map[string]string, v interface{}) error {
	_, err := utils.RetryWithResult(ctx, s.retry, func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
		if err != nil {
			return struct{}{}, fmt.Errorf("create request: %w", err)
		}
		q := req.URL.Query()
		for k, val := range params {
			q.Add(k, val)
		}
		req.URL.RawQuery = q.Encode()
		req.Header.Add("Accept", "application/json")
		req.Header.Add("Authorization", "Bearer "+s.token)

		res, err := s.client.Do(req)
		if err != nil {
			return struct{}{}, fmt.Errorf("fetch %s: %w", path, err)
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			return struct{}{}, fmt.Errorf("fetch %s: http status %s", path, res.Status)
		}
		if err := json.NewDecoder(res.Body).Decode(v); err != nil {
			return struct{}{}, fmt.Errorf("decode %s: %w", path, err)
		}
		return struct{}{}, nil
	})
	return err
}
