package models

// LegMetrics holds the per-leg price and Greeks produced by a pricing
// backend. Values are per contract unit; quantity weighting happens in
// the aggregation engine.
type LegMetrics struct {
	Price float64
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
}

// AggregationGrid carries the sampled payoff curve for chart rendering.
// Prices and PnLs have the same length and are index-aligned.
type AggregationGrid struct {
	Prices []float64
	PnLs   []float64
}

// StrategyMetrics is the output of one aggregation pass over a strategy.
// It is recomputed from scratch on every call and never mutated in place.
type StrategyMetrics struct {
	NetDebitCredit float64 // positive = net cost paid by the holder
	MaxProfit      float64
	MaxLoss        float64
	BreakEvens     []float64 // ascending price order
	Delta          float64
	Gamma          float64
	Theta          float64
	Vega           float64
	MarginEstimate float64 // always 0: margin modelling is unimplemented
	Grid           *AggregationGrid
}
