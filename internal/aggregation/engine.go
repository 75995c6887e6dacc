// Package aggregation computes strategy-level metrics from a multi-leg
// options strategy: net debit/credit, the expiration payoff curve over a
// price grid, max profit/loss, break-evens and aggregated Greeks.
package aggregation

import (
	"deltaspread/internal/models"
	"deltaspread/internal/pricing"
)

// gridSteps is the number of intervals in the sampled price grid, so the
// grid holds gridSteps+1 evenly spaced prices.
const gridSteps = 200

// DefaultIV is the implied volatility used for a leg whose (strike, type)
// pair is missing from the supplied IV map.
const DefaultIV = 0.20

// IVKey identifies the implied volatility for one contract within a
// strategy: strike plus option type.
type IVKey struct {
	Strike float64
	Type   models.OptionType
}

// IVMap maps contracts to their implied volatilities. The map may be
// partial; missing entries fall back to DefaultIV.
type IVMap map[IVKey]float64

// Engine aggregates per-leg data into StrategyMetrics. It is stateless
// apart from the injected pricing backend and safe for concurrent use.
type Engine struct {
	pricing pricing.Service
}

// NewEngine creates an aggregation engine backed by the given pricer.
func NewEngine(p pricing.Service) *Engine {
	return &Engine{pricing: p}
}

// PricingService returns the injected pricing backend.
func (e *Engine) PricingService() pricing.Service {
	return e.pricing
}

// Aggregate computes StrategyMetrics for the strategy at the given spot
// price. It is pure and deterministic: no I/O, no shared state, and it
// never fails on a well-formed strategy (Strategy construction already
// guarantees at least one leg).
func (e *Engine) Aggregate(strategy *models.Strategy, spot float64, ivs IVMap) models.StrategyMetrics {
	multiplier := strategy.Underlier.Multiplier
	net := computeNet(strategy)
	prices := buildPriceGrid(strategy)
	pnls := computePnLCurve(strategy, prices, multiplier)
	breakEvens := findBreakEvens(prices, pnls)
	delta, gamma, theta, vega := e.sumGreeks(strategy, spot, ivs)

	maxProfit, maxLoss := pnls[0], pnls[0]
	for _, pnl := range pnls[1:] {
		if pnl > maxProfit {
			maxProfit = pnl
		}
		if pnl < maxLoss {
			maxLoss = pnl
		}
	}

	return models.StrategyMetrics{
		NetDebitCredit: net,
		MaxProfit:      maxProfit,
		MaxLoss:        maxLoss,
		BreakEvens:     breakEvens,
		Delta:          delta,
		Gamma:          gamma,
		Theta:          theta,
		Vega:           vega,
		MarginEstimate: 0,
		Grid: &models.AggregationGrid{
			Prices: prices,
			PnLs:   pnls,
		},
	}
}

// computeNet sums the signed premium across legs. BUY legs are debits
// (positive cost), SELL legs are credits.
func computeNet(strategy *models.Strategy) float64 {
	multiplier := float64(strategy.Underlier.Multiplier)
	net := 0.0
	for _, leg := range strategy.Legs {
		sign := 1.0
		if leg.Side == models.SideSell {
			sign = -1.0
		}
		net += sign * leg.EntryPriceOrZero() * float64(leg.Quantity) * multiplier
	}
	return net
}

// buildPriceGrid produces gridSteps+1 evenly spaced sample prices. The
// span over-provisions around the strikes so the payoff tails and every
// break-even stay inside the grid.
func buildPriceGrid(strategy *models.Strategy) []float64 {
	strikes := strategy.Strikes()
	mn, mx := strikes[0], strikes[0]
	for _, k := range strikes[1:] {
		if k < mn {
			mn = k
		}
		if k > mx {
			mx = k
		}
	}

	span := (mx - mn) * 2.0
	if span < 50.0 {
		span = 50.0
	}
	start := mn - 0.2*span
	end := mx + 0.2*span

	prices := make([]float64, gridSteps+1)
	for i := range prices {
		prices[i] = start + float64(i)*(end-start)/gridSteps
	}
	return prices
}

// computePnLCurve evaluates the strategy's total P&L at expiration for
// each sampled price.
func computePnLCurve(strategy *models.Strategy, prices []float64, multiplier int) []float64 {
	m := float64(multiplier)
	pnls := make([]float64, len(prices))
	for i, s := range prices {
		pnl := 0.0
		for _, leg := range strategy.Legs {
			qty := float64(leg.Quantity)
			sign := 1.0
			if leg.Side == models.SideSell {
				sign = -1.0
			}
			var payoff float64
			if leg.Contract.Type == models.OptionCall {
				payoff = max(s-leg.Contract.Strike, 0) * m
			} else {
				payoff = max(leg.Contract.Strike-s, 0) * m
			}
			entry := leg.EntryPriceOrZero() * m
			pnl += qty * (sign*payoff - sign*entry)
		}
		pnls[i] = pnl
	}
	return pnls
}

// findBreakEvens scans consecutive grid samples for zero crossings.
// Exact zeros are recorded (deduplicated); sign changes are resolved by
// linear interpolation. The result is in ascending price order because
// the grid is ascending. An interpolated crossing adjacent to an exact
// zero can produce a near-duplicate entry; that is known behaviour.
func findBreakEvens(prices, pnls []float64) []float64 {
	var breakEvens []float64
	for i := 1; i < len(prices); i++ {
		a, b := pnls[i-1], pnls[i]
		if a == 0 || b == 0 {
			x := prices[i-1]
			if b == 0 {
				x = prices[i]
			}
			if !containsPrice(breakEvens, x) {
				breakEvens = append(breakEvens, x)
			}
			continue
		}
		if (a < 0 && b > 0) || (a > 0 && b < 0) {
			xa, xb := prices[i-1], prices[i]
			x := xb
			if b-a != 0 {
				x = xa + (0-a)*(xb-xa)/(b-a)
			}
			breakEvens = append(breakEvens, x)
		}
	}
	return breakEvens
}

func containsPrice(xs []float64, x float64) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// sumGreeks prices every leg and sums quantity-weighted Greeks. Greeks
// are per contract unit as returned by the pricer, so the contract
// multiplier is not applied here.
func (e *Engine) sumGreeks(strategy *models.Strategy, spot float64, ivs IVMap) (delta, gamma, theta, vega float64) {
	for _, leg := range strategy.Legs {
		iv, ok := ivs[IVKey{Strike: leg.Contract.Strike, Type: leg.Contract.Type}]
		if !ok {
			iv = DefaultIV
		}
		m := e.pricing.PriceAndGreeks(leg, spot, iv)
		qty := float64(leg.Quantity)
		delta += m.Delta * qty
		gamma += m.Gamma * qty
		theta += m.Theta * qty
		vega += m.Vega * qty
	}
	return delta, gamma, theta, vega
}
