package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"deltaspread/internal/models"
)

// addDataCommands adds market data inspection commands.
func addDataCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newExpiriesCmd(app))
	rootCmd.AddCommand(newStrikesCmd(app))
	rootCmd.AddCommand(newChainCmd(app))
	rootCmd.AddCommand(newQuoteCmd(app))
}

func newExpiriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "expiries",
		Short: "List available option expiries",
		RunE: func(cmd *cobra.Command, args []string) error {
			expiries, err := app.Quotes.Expiries(cmd.Context())
			if err != nil {
				return err
			}
			if len(expiries) > app.Config.Data.MaxExpiries {
				expiries = expiries[:app.Config.Data.MaxExpiries]
			}
			color.Cyan("Expiries (%s)", app.Config.Data.Symbol)
			for _, e := range expiries {
				fmt.Println("  " + e.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func newStrikesCmd(app *App) *cobra.Command {
	var expiryStr string
	cmd := &cobra.Command{
		Use:   "strikes <symbol>",
		Short: "List available strikes for an expiry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expiry, err := time.Parse("2006-01-02", expiryStr)
			if err != nil {
				return fmt.Errorf("invalid expiry %q: %w", expiryStr, err)
			}
			strikes, err := app.Quotes.Strikes(cmd.Context(), args[0], expiry)
			if err != nil {
				return err
			}
			color.Cyan("Strikes %s %s", args[0], expiryStr)
			for _, k := range strikes {
				fmt.Printf("  %.2f\n", k)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&expiryStr, "expiry", "", "expiry date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("expiry")
	return cmd
}

func newChainCmd(app *App) *cobra.Command {
	var expiryStr string
	cmd := &cobra.Command{
		Use:   "chain <symbol>",
		Short: "Display the option chain for an expiry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expiry, err := time.Parse("2006-01-02", expiryStr)
			if err != nil {
				return fmt.Errorf("invalid expiry %q: %w", expiryStr, err)
			}
			chain, err := app.Data.GetChain(cmd.Context(), args[0], expiry)
			if err != nil {
				return err
			}
			color.Cyan("Chain %s %s (%d quotes)", args[0], expiryStr, len(chain))
			fmt.Printf("  %-8s %-8s %-8s %-8s\n", "bid", "mid", "ask", "iv")
			for _, q := range chain {
				fmt.Printf("  %-8.2f %-8.2f %-8.2f %-8.4f\n", q.Bid, q.Mid, q.Ask, q.IV)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&expiryStr, "expiry", "", "expiry date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("expiry")
	return cmd
}

func newQuoteCmd(app *App) *cobra.Command {
	var (
		expiryStr string
		strike    float64
		typStr    string
	)
	cmd := &cobra.Command{
		Use:   "quote <symbol>",
		Short: "Fetch a single option quote",
		Example: `  deltaspread quote SPY --expiry 2026-10-16 --strike 450 --type CALL`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expiry, err := time.Parse("2006-01-02", expiryStr)
			if err != nil {
				return fmt.Errorf("invalid expiry %q: %w", expiryStr, err)
			}
			typ := models.OptionType(typStr)
			if !typ.Valid() {
				return fmt.Errorf("invalid option type %q", typStr)
			}
			quote, err := app.Data.GetQuote(cmd.Context(), args[0], expiry, strike, typ)
			if err != nil {
				return err
			}
			color.Cyan("%s %s %.2f %s", args[0], expiryStr, strike, typ)
			fmt.Printf("  bid %.2f  mid %.2f  ask %.2f  iv %.4f\n", quote.Bid, quote.Mid, quote.Ask, quote.IV)
			return nil
		},
	}
	cmd.Flags().StringVar(&expiryStr, "expiry", "", "expiry date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&strike, "strike", 0, "strike price")
	cmd.Flags().StringVar(&typStr, "type", "CALL", "option type (CALL or PUT)")
	cmd.MarkFlagRequired("expiry")
	cmd.MarkFlagRequired("strike")
	return cmd
}
