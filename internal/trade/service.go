// Package trade provides business logic for saving and loading trades
// on top of a TradeRepository.
package trade

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"deltaspread/internal/errors"
	"deltaspread/internal/models"
	"deltaspread/internal/store"
)

// maxNameLength caps trade names.
const maxNameLength = 100

// Service manages saved trades with validation and business rules.
type Service struct {
	repo   store.TradeRepository
	logger zerolog.Logger
}

// NewService creates a trade service over the given repository.
func NewService(repo store.TradeRepository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "trade").Logger(),
	}
}

// SaveTrade saves a strategy under a name. The name is trimmed and must
// be non-empty and at most 100 characters.
func (s *Service) SaveTrade(ctx context.Context, trade *models.Strategy, name, notes string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.NewValidationError("name", name, "trade name cannot be empty")
	}
	if len(name) > maxNameLength {
		return 0, errors.NewValidationError("name", name, "trade name must be 100 characters or less")
	}
	if trade == nil || len(trade.Legs) == 0 {
		return 0, errors.NewValidationError("legs", 0, "trade must have at least one leg")
	}

	s.logger.Info().Str("name", name).Int("legs", len(trade.Legs)).Msg("saving trade")
	return s.repo.Save(ctx, trade, name, notes)
}

// UpdateTrade replaces an existing trade's contents.
func (s *Service) UpdateTrade(ctx context.Context, tradeID int64, trade *models.Strategy, notes string) error {
	if trade == nil || len(trade.Legs) == 0 {
		return errors.NewValidationError("legs", 0, "trade must have at least one leg")
	}
	s.logger.Info().Int64("id", tradeID).Msg("updating trade")
	return s.repo.Update(ctx, tradeID, trade, notes)
}

// LoadTrade loads a saved trade by ID.
func (s *Service) LoadTrade(ctx context.Context, tradeID int64) (*models.Strategy, string, error) {
	return s.repo.GetByID(ctx, tradeID)
}

// LoadTradeByName loads a saved trade by name.
func (s *Service) LoadTradeByName(ctx context.Context, name string) (*models.Strategy, string, error) {
	return s.repo.GetByName(ctx, name)
}

// DeleteTrade deletes a saved trade.
func (s *Service) DeleteTrade(ctx context.Context, tradeID int64) error {
	s.logger.Info().Int64("id", tradeID).Msg("deleting trade")
	return s.repo.Delete(ctx, tradeID)
}

// SavedTrades lists all saved trades.
func (s *Service) SavedTrades(ctx context.Context) ([]store.TradeSummary, error) {
	return s.repo.ListAll(ctx)
}

// SavedTradesForSymbol lists saved trades on one underlier.
func (s *Service) SavedTradesForSymbol(ctx context.Context, symbol string) ([]store.TradeSummary, error) {
	return s.repo.ListBySymbol(ctx, symbol)
}

// TradeNameExists reports whether a name is already in use.
func (s *Service) TradeNameExists(ctx context.Context, name string) (bool, error) {
	return s.repo.NameExists(ctx, strings.TrimSpace(name))
}
