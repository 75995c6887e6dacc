package present

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deltaspread/internal/models"
)

func TestPrepareChartEmptyGrid(t *testing.T) {
	for _, metrics := range []models.StrategyMetrics{
		{},
		{Grid: &models.AggregationGrid{}},
	} {
		chart := PrepareChart(metrics, []float64{100, 105}, 102.5)

		assert.Empty(t, chart.Prices)
		assert.Empty(t, chart.PnLs)
		assert.Equal(t, 0.0, chart.XMin)
		assert.Equal(t, 1.0, chart.XMax)
		assert.Equal(t, -1.0, chart.YMin)
		assert.Equal(t, 1.0, chart.YMax)
		assert.Equal(t, []float64{100, 105}, chart.StrikeLines)
		assert.Equal(t, 102.5, chart.CurrentPrice)
	}
}

func TestPrepareChartRanges(t *testing.T) {
	metrics := models.StrategyMetrics{Grid: &models.AggregationGrid{
		Prices: []float64{90, 100, 110},
		PnLs:   []float64{-500, -500, 500},
	}}

	chart := PrepareChart(metrics, nil, 100)
	assert.Equal(t, 90.0, chart.XMin)
	assert.Equal(t, 110.0, chart.XMax)
	assert.Equal(t, -500.0, chart.YMin)
	assert.Equal(t, 500.0, chart.YMax)
}

func TestPrepareChartXPadding(t *testing.T) {
	metrics := models.StrategyMetrics{Grid: &models.AggregationGrid{
		Prices: []float64{100, 200},
		PnLs:   []float64{0, 0},
	}}

	chart := PrepareChart(metrics, nil, 150, WithXPadding(0.02))
	assert.InDelta(t, 98.0, chart.XMin, 1e-9)
	assert.InDelta(t, 202.0, chart.XMax, 1e-9)
}

func TestPrepareChartCopiesStrikeLines(t *testing.T) {
	strikes := []float64{100}
	chart := PrepareChart(models.StrategyMetrics{}, strikes, 100)
	strikes[0] = 999
	require.Equal(t, []float64{100.0}, chart.StrikeLines)
}

func TestPrepareMetricsBreakEvenText(t *testing.T) {
	tests := []struct {
		name       string
		breakEvens []float64
		want       string
	}{
		{"none", nil, "-"},
		{"single", []float64{101.234}, "101.23"},
		{"pair", []float64{100, 110}, "Between 100.00 - 110.00"},
		{"unsorted triple", []float64{110, 95.5, 100}, "Between 95.50 - 110.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			panel := PrepareMetrics(models.StrategyMetrics{BreakEvens: tt.breakEvens})
			assert.Equal(t, tt.want, panel.BreakEvensText)
		})
	}
}

func TestPrepareMetricsCurrencyAndPop(t *testing.T) {
	panel := PrepareMetrics(models.StrategyMetrics{
		NetDebitCredit: 1234.5,
		MaxProfit:      500,
		MaxLoss:        -1234.56,
	})

	assert.Equal(t, "$1,234.50", panel.NetText)
	assert.Equal(t, "$500.00", panel.MaxProfitText)
	assert.Equal(t, "-$1,234.56", panel.MaxLossText)
	assert.Equal(t, "-", panel.PopText)
}
