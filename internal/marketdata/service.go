// Package marketdata provides options market data interfaces and
// implementations: a deterministic mock source and a Tradier-backed
// real source.
package marketdata

import (
	"context"
	"time"

	"deltaspread/internal/models"
)

// Service defines the interface for options market data operations.
type Service interface {
	// GetExpiries returns the available expiry dates, sorted ascending.
	GetExpiries(ctx context.Context) ([]time.Time, error)

	// GetStrikes returns the available strikes for a symbol and expiry,
	// sorted ascending.
	GetStrikes(ctx context.Context, symbol string, expiry time.Time) ([]float64, error)

	// GetChain returns quotes for every strike and type at the expiry.
	GetChain(ctx context.Context, symbol string, expiry time.Time) ([]models.OptionQuote, error)

	// GetQuote returns the quote for one specific contract. It fails
	// with errors.ErrQuoteNotFound if the instrument does not exist.
	GetQuote(ctx context.Context, symbol string, expiry time.Time, strike float64, typ models.OptionType) (models.OptionQuote, error)
}
