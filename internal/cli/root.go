// Package cli provides the command-line interface for the application.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"deltaspread/internal/aggregation"
	"deltaspread/internal/config"
	"deltaspread/internal/marketdata"
	"deltaspread/internal/pricing"
	"deltaspread/internal/store"
	"deltaspread/internal/trade"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Data   marketdata.Service
	Quotes *marketdata.QuoteService
	Engine *aggregation.Engine

	tradeSvc *trade.Service
	repo     store.TradeRepository
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Data.UseRealData {
		app.Data = marketdata.NewTradierService(marketdata.TradierConfig{
			Symbol:  cfg.Data.Symbol,
			BaseURL: cfg.Tradier.BaseURL,
			Token:   cfg.Tradier.Token,
		}, logger)
		logger.Debug().Str("symbol", cfg.Data.Symbol).Msg("tradier data source initialized")
	} else {
		app.Data = marketdata.NewMockService()
		logger.Debug().Msg("mock data source initialized")
	}
	app.Quotes = marketdata.NewQuoteService(app.Data, logger)
	app.Engine = aggregation.NewEngine(pricing.NewMockService())

	rootCmd := &cobra.Command{
		Use:     "deltaspread",
		Short:   "Options strategy analytics",
		Long:    "Analyze multi-leg options strategies: payoff curves, break-evens, net debit/credit and Greeks.",
		Version: Version,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.closeRepo()
		},
	}

	addAnalyzeCommand(rootCmd, app)
	addDataCommands(rootCmd, app)
	addTradesCommands(rootCmd, app)

	return rootCmd
}

// tradeService lazily opens the trades database.
func (a *App) tradeService() (*trade.Service, error) {
	if a.tradeSvc != nil {
		return a.tradeSvc, nil
	}
	repo, err := store.NewSQLiteRepository(a.Config.Storage.DBPath)
	if err != nil {
		return nil, err
	}
	a.repo = repo
	a.tradeSvc = trade.NewService(repo, a.Logger)
	return a.tradeSvc, nil
}

func (a *App) closeRepo() {
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("closing trades database")
		}
		a.repo = nil
		a.tradeSvc = nil
	}
}
