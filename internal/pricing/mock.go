package pricing

import (
	"math"

	"deltaspread/internal/models"
)

// MockService is a synthetic pricing backend. It produces smooth,
// deterministic price/Greek shapes from moneyness and IV without any
// real option-pricing model, which is enough for charting and tests.
type MockService struct {
	vegaCoef  float64
	gammaCoef float64
	thetaCoef float64
}

// NewMockService creates a mock pricer with default coefficients.
func NewMockService() *MockService {
	return &MockService{
		vegaCoef:  0.1,
		gammaCoef: 0.02,
		thetaCoef: 0.01,
	}
}

// NewMockServiceWithCoefs creates a mock pricer with explicit vega,
// gamma and theta coefficients.
func NewMockServiceWithCoefs(vegaCoef, gammaCoef, thetaCoef float64) *MockService {
	return &MockService{
		vegaCoef:  vegaCoef,
		gammaCoef: gammaCoef,
		thetaCoef: thetaCoef,
	}
}

// PriceAndGreeks implements Service.
func (m *MockService) PriceAndGreeks(leg models.OptionLeg, spot, iv float64) models.LegMetrics {
	moneyness := spot - leg.Contract.Strike
	base := iv * leg.Contract.Strike * 0.001
	price := math.Max(0.01, base+math.Abs(moneyness)*0.002)

	sign := 1.0
	if leg.Side == models.SideSell {
		sign = -1.0
	}
	callDir := 1.0
	if leg.Contract.Type == models.OptionPut {
		callDir = -1.0
	}

	deltaMag := 0.5 + 0.4*math.Tanh(moneyness/math.Max(1.0, leg.Contract.Strike*0.05))
	return models.LegMetrics{
		Price: price,
		Delta: sign * callDir * deltaMag,
		Gamma: m.gammaCoef * iv,
		Theta: -sign * m.thetaCoef * iv,
		Vega:  m.vegaCoef * iv,
	}
}
