// Package store provides trade persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"deltaspread/internal/models"
)

// TradeSummary is a lightweight trade row for list views.
type TradeSummary struct {
	ID        int64
	Name      string
	Symbol    string
	LegCount  int
	CreatedAt time.Time
	UpdatedAt time.Time
	Notes     string
}

// TradeRepository defines CRUD persistence for saved trades, keyed on a
// unique trade name.
type TradeRepository interface {
	Save(ctx context.Context, trade *models.Strategy, name, notes string) (int64, error)
	Update(ctx context.Context, tradeID int64, trade *models.Strategy, notes string) error
	Delete(ctx context.Context, tradeID int64) error
	GetByID(ctx context.Context, tradeID int64) (*models.Strategy, string, error)
	GetByName(ctx context.Context, name string) (*models.Strategy, string, error)
	ListAll(ctx context.Context) ([]TradeSummary, error)
	ListBySymbol(ctx context.Context, symbol string) ([]TradeSummary, error)
	NameExists(ctx context.Context, name string) (bool, error)
	Close() error
}
