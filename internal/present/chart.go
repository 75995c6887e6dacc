// Package present turns aggregated strategy metrics into chart-ready
// series and display strings. Everything here is stateless and pure.
package present

import "deltaspread/internal/models"

// ChartData is a chart-ready view of an aggregation grid: the payoff
// series plus axis ranges, strike markers and the current spot marker.
type ChartData struct {
	Prices       []float64
	PnLs         []float64
	XMin         float64
	XMax         float64
	YMin         float64
	YMax         float64
	StrikeLines  []float64
	CurrentPrice float64
}

// ChartOption configures PrepareChart.
type ChartOption func(*chartOptions)

type chartOptions struct {
	xPadding float64
}

// WithXPadding widens the x-range by the given fraction of its width on
// each side (0.02 gives the 2% padding some chart frames apply). The
// base form adds no padding.
func WithXPadding(fraction float64) ChartOption {
	return func(o *chartOptions) {
		o.xPadding = fraction
	}
}

// PrepareChart builds ChartData from metrics. When the metrics carry no
// grid (or an empty one) it returns a degenerate frame with x-range
// [0,1] and y-range [-1,1] so the chart can render empty-but-valid;
// strikeLines and currentPrice are echoed back unchanged either way.
func PrepareChart(metrics models.StrategyMetrics, strikeLines []float64, currentPrice float64, opts ...ChartOption) ChartData {
	var o chartOptions
	for _, opt := range opts {
		opt(&o)
	}

	echoed := append([]float64(nil), strikeLines...)
	grid := metrics.Grid
	if grid == nil || len(grid.Prices) == 0 {
		return ChartData{
			Prices:       []float64{},
			PnLs:         []float64{},
			XMin:         0,
			XMax:         1,
			YMin:         -1,
			YMax:         1,
			StrikeLines:  echoed,
			CurrentPrice: currentPrice,
		}
	}

	xMin, xMax := grid.Prices[0], grid.Prices[0]
	for _, p := range grid.Prices[1:] {
		if p < xMin {
			xMin = p
		}
		if p > xMax {
			xMax = p
		}
	}
	yMin, yMax := grid.PnLs[0], grid.PnLs[0]
	for _, v := range grid.PnLs[1:] {
		if v < yMin {
			yMin = v
		}
		if v > yMax {
			yMax = v
		}
	}

	if o.xPadding > 0 {
		pad := (xMax - xMin) * o.xPadding
		xMin -= pad
		xMax += pad
	}

	return ChartData{
		Prices:       grid.Prices,
		PnLs:         grid.PnLs,
		XMin:         xMin,
		XMax:         xMax,
		YMin:         yMin,
		YMax:         yMax,
		StrikeLines:  echoed,
		CurrentPrice: currentPrice,
	}
}
