package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"deltaspread/internal/logging"
	"deltaspread/internal/models"
	"deltaspread/internal/present"
)

// addAnalyzeCommand adds the strategy analysis command.
func addAnalyzeCommand(rootCmd *cobra.Command, app *App) {
	var (
		symbol   string
		spot     float64
		mult     int
		currency string
		legsPath string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a multi-leg options strategy",
		Long: `Build a strategy from a legs CSV file and print its metrics:
net debit/credit, max profit/loss, break-evens and aggregated Greeks.

The legs file has a header row:
  expiry,strike,type,side,quantity,entry_price,notes`,
		Example: `  deltaspread analyze --legs legs.csv --symbol SPY --spot 450
  deltaspread analyze --legs legs.csv --symbol AAPL --spot 185.5 --name "AAPL call spread"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			underlier, err := models.NewUnderlier(symbol, spot, mult, currency)
			if err != nil {
				return err
			}
			legs, err := loadLegsCSV(legsPath, underlier)
			if err != nil {
				return err
			}
			strategy, err := models.NewStrategy(name, underlier, legs)
			if err != nil {
				return err
			}

			ivs := app.Quotes.IVsForStrategy(cmd.Context(), strategy)
			metrics := app.Engine.Aggregate(strategy, spot, ivs)
			logging.LogAggregation(app.Logger, symbol, len(legs), metrics.NetDebitCredit, len(metrics.BreakEvens))

			printMetrics(strategy, metrics)
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "underlier symbol")
	cmd.Flags().Float64Var(&spot, "spot", 0, "underlier spot price")
	cmd.Flags().IntVar(&mult, "multiplier", 100, "contract multiplier")
	cmd.Flags().StringVar(&currency, "currency", "USD", "currency code")
	cmd.Flags().StringVar(&legsPath, "legs", "", "path to legs CSV file")
	cmd.Flags().StringVar(&name, "name", "strategy", "strategy name")
	cmd.MarkFlagRequired("symbol")
	cmd.MarkFlagRequired("spot")
	cmd.MarkFlagRequired("legs")

	rootCmd.AddCommand(cmd)
}

func printMetrics(strategy *models.Strategy, metrics models.StrategyMetrics) {
	panel := present.PrepareMetrics(metrics)
	chart := present.PrepareChart(metrics, strategy.Strikes(), strategy.Underlier.Spot)

	color.Cyan("Strategy: %s (%s, %d legs)", strategy.Name, strategy.Underlier.Symbol, len(strategy.Legs))
	for i, leg := range strategy.Legs {
		fmt.Printf("  [%d] %-4s %-4s strike %.2f x%d expiry %s\n",
			i, leg.Side, leg.Contract.Type, leg.Contract.Strike,
			leg.Quantity, leg.Contract.Expiry.Format("2006-01-02"))
	}

	fmt.Println()
	fmt.Printf("  Net debit/credit: %s\n", panel.NetText)
	fmt.Printf("  Max profit:       %s\n", panel.MaxProfitText)
	fmt.Printf("  Max loss:         %s\n", panel.MaxLossText)
	fmt.Printf("  Break-evens:      %s\n", panel.BreakEvensText)
	fmt.Printf("  Chance of profit: %s\n", panel.PopText)

	fmt.Println()
	fmt.Printf("  Delta: %+.4f  Gamma: %+.4f  Theta: %+.4f  Vega: %+.4f\n",
		metrics.Delta, metrics.Gamma, metrics.Theta, metrics.Vega)

	fmt.Println()
	fmt.Printf("  Payoff grid: %d samples, price %.2f..%.2f, P&L %.2f..%.2f\n",
		len(chart.Prices), chart.XMin, chart.XMax, chart.YMin, chart.YMax)
}
