package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"deltaspread/internal/models"
)

func genLeg(strike float64, typ models.OptionType, side models.Side) models.OptionLeg {
	u, _ := models.NewUnderlier("SPY", 450, 100, "USD")
	expiry := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	contract, _ := models.NewOptionContract(u, expiry, strike, typ)
	entry := 1.0
	leg, _ := models.NewOptionLeg(contract, side, 1, &entry, "")
	return leg
}

func TestProperty_MockPricerBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	svc := NewMockService()

	typeGen := gen.OneConstOf(models.OptionCall, models.OptionPut)
	sideGen := gen.OneConstOf(models.SideBuy, models.SideSell)

	properties.Property("price is positive and delta within [-0.9, 0.9]", prop.ForAll(
		func(strike, spot, iv float64, typ models.OptionType, side models.Side) bool {
			m := svc.PriceAndGreeks(genLeg(strike, typ, side), spot, iv)
			if m.Price < 0.01 {
				return false
			}
			return math.Abs(m.Delta) <= 0.9
		},
		gen.Float64Range(10, 1000),
		gen.Float64Range(10, 1000),
		gen.Float64Range(0.01, 2.0),
		typeGen,
		sideGen,
	))

	properties.Property("vega is positive, theta sign opposes the position", prop.ForAll(
		func(strike, spot, iv float64, typ models.OptionType) bool {
			long := svc.PriceAndGreeks(genLeg(strike, typ, models.SideBuy), spot, iv)
			short := svc.PriceAndGreeks(genLeg(strike, typ, models.SideSell), spot, iv)
			if long.Vega <= 0 || short.Vega <= 0 {
				return false
			}
			return long.Theta <= 0 && short.Theta >= 0
		},
		gen.Float64Range(10, 1000),
		gen.Float64Range(10, 1000),
		gen.Float64Range(0.01, 2.0),
		typeGen,
	))

	properties.Property("call and put deltas point in opposite directions", prop.ForAll(
		func(strike, spot, iv float64) bool {
			call := svc.PriceAndGreeks(genLeg(strike, models.OptionCall, models.SideBuy), spot, iv)
			put := svc.PriceAndGreeks(genLeg(strike, models.OptionPut, models.SideBuy), spot, iv)
			return call.Delta > 0 && put.Delta < 0
		},
		gen.Float64Range(10, 1000),
		gen.Float64Range(10, 1000),
		gen.Float64Range(0.01, 2.0),
	))

	properties.TestingRun(t)
}
