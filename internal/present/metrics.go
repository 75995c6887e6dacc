package present

import (
	"fmt"

	"deltaspread/internal/models"
	"deltaspread/pkg/utils"
)

// PanelMetrics holds the display strings for a strategy metrics panel.
type PanelMetrics struct {
	NetText        string
	MaxLossText    string
	MaxProfitText  string
	BreakEvensText string
	PopText        string // chance of profit; no probability model exists, always "-"
}

// PrepareMetrics formats StrategyMetrics for display. Currency fields
// use "$1,234.56" style. Break-even text is "-" when there are none,
// the single value when there is exactly one, and a "Between lo - hi"
// range over the min/max when there are several.
func PrepareMetrics(metrics models.StrategyMetrics) PanelMetrics {
	var beText string
	switch len(metrics.BreakEvens) {
	case 0:
		beText = "-"
	case 1:
		beText = utils.FormatPrice(metrics.BreakEvens[0])
	default:
		lo, hi := metrics.BreakEvens[0], metrics.BreakEvens[0]
		for _, be := range metrics.BreakEvens[1:] {
			if be < lo {
				lo = be
			}
			if be > hi {
				hi = be
			}
		}
		beText = fmt.Sprintf("Between %s - %s", utils.FormatPrice(lo), utils.FormatPrice(hi))
	}

	return PanelMetrics{
		NetText:        utils.FormatUSD(metrics.NetDebitCredit),
		MaxLossText:    utils.FormatUSD(metrics.MaxLoss),
		MaxProfitText:  utils.FormatUSD(metrics.MaxProfit),
		BreakEvensText: beText,
		PopText:        "-",
	}
}
