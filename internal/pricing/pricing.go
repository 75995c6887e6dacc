// Package pricing defines the option pricing contract consumed by the
// aggregation engine, plus a deterministic mock backend.
package pricing

import "deltaspread/internal/models"

// Service prices a single leg and returns its Greeks. Implementations
// must be safe for concurrent use; the aggregation engine calls this
// once per leg per aggregation pass.
type Service interface {
	PriceAndGreeks(leg models.OptionLeg, spot, iv float64) models.LegMetrics
}
