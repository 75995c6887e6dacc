package cli

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"deltaspread/internal/models"
)

// addTradesCommands adds saved-trade management commands.
func addTradesCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trades",
		Short: "Manage saved trades",
	}
	cmd.AddCommand(newTradesListCmd(app))
	cmd.AddCommand(newTradesShowCmd(app))
	cmd.AddCommand(newTradesSaveCmd(app))
	cmd.AddCommand(newTradesDeleteCmd(app))
	rootCmd.AddCommand(cmd)
}

func newTradesListCmd(app *App) *cobra.Command {
	var symbol string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.tradeService()
			if err != nil {
				return err
			}
			summaries, err := svc.SavedTrades(cmd.Context())
			if symbol != "" {
				summaries, err = svc.SavedTradesForSymbol(cmd.Context(), symbol)
			}
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("No saved trades.")
				return nil
			}
			color.Cyan("Saved trades")
			fmt.Printf("  %-5s %-30s %-8s %-5s %s\n", "id", "name", "symbol", "legs", "updated")
			for _, s := range summaries {
				fmt.Printf("  %-5d %-30s %-8s %-5d %s\n",
					s.ID, s.Name, s.Symbol, s.LegCount, s.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by underlier symbol")
	return cmd
}

func newTradesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.tradeService()
			if err != nil {
				return err
			}
			strategy, notes, err := svc.LoadTradeByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			color.Cyan("Trade: %s (%s, spot %.2f)", strategy.Name, strategy.Underlier.Symbol, strategy.Underlier.Spot)
			for i, leg := range strategy.Legs {
				fmt.Printf("  [%d] %-4s %-4s strike %.2f x%d expiry %s\n",
					i, leg.Side, leg.Contract.Type, leg.Contract.Strike,
					leg.Quantity, leg.Contract.Expiry.Format("2006-01-02"))
			}
			if notes != "" {
				fmt.Println("  Notes: " + notes)
			}
			return nil
		},
	}
}

func newTradesSaveCmd(app *App) *cobra.Command {
	var (
		symbol   string
		spot     float64
		mult     int
		currency string
		legsPath string
		notes    string
	)
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a strategy as a named trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			underlier, err := models.NewUnderlier(symbol, spot, mult, currency)
			if err != nil {
				return err
			}
			legs, err := loadLegsCSV(legsPath, underlier)
			if err != nil {
				return err
			}
			strategy, err := models.NewStrategy(args[0], underlier, legs)
			if err != nil {
				return err
			}
			svc, err := app.tradeService()
			if err != nil {
				return err
			}
			id, err := svc.SaveTrade(cmd.Context(), strategy, args[0], notes)
			if err != nil {
				return err
			}
			color.Green("Saved trade %q with ID %d", args[0], id)
			return nil
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "", "underlier symbol")
	cmd.Flags().Float64Var(&spot, "spot", 0, "underlier spot price")
	cmd.Flags().IntVar(&mult, "multiplier", 100, "contract multiplier")
	cmd.Flags().StringVar(&currency, "currency", "USD", "currency code")
	cmd.Flags().StringVar(&legsPath, "legs", "", "path to legs CSV file")
	cmd.Flags().StringVar(&notes, "notes", "", "notes about the trade")
	cmd.MarkFlagRequired("symbol")
	cmd.MarkFlagRequired("spot")
	cmd.MarkFlagRequired("legs")
	return cmd
}

func newTradesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid trade id %q", args[0])
			}
			svc, err := app.tradeService()
			if err != nil {
				return err
			}
			if err := svc.DeleteTrade(cmd.Context(), id); err != nil {
				return err
			}
			color.Green("Deleted trade %d", id)
			return nil
		},
	}
}
