package store

import (
	"context"
	"sync"
	"time"

	"deltaspread/internal/errors"
	"deltaspread/internal/models"
)

type memoryTrade struct {
	id        int64
	name      string
	strategy  *models.Strategy
	notes     string
	createdAt time.Time
	updatedAt time.Time
}

// MemoryRepository is an in-memory TradeRepository for tests and quick
// experiments. It mirrors the SQLite implementation's semantics,
// including the unique-name rule.
type MemoryRepository struct {
	mu     sync.RWMutex
	trades map[int64]*memoryTrade
	nextID int64
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		trades: make(map[int64]*memoryTrade),
		nextID: 1,
	}
}

// Save implements TradeRepository.
func (r *MemoryRepository) Save(_ context.Context, trade *models.Strategy, name, notes string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.trades {
		if t.name == name {
			return 0, errors.Wrapf(errors.ErrTradeNameTaken, "%q", name)
		}
	}

	id := r.nextID
	r.nextID++
	now := time.Now()
	r.trades[id] = &memoryTrade{
		id:        id,
		name:      name,
		strategy:  trade,
		notes:     notes,
		createdAt: now,
		updatedAt: now,
	}
	return id, nil
}

// Update implements TradeRepository.
func (r *MemoryRepository) Update(_ context.Context, tradeID int64, trade *models.Strategy, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trades[tradeID]
	if !ok {
		return errors.Wrapf(errors.ErrTradeNotFound, "id %d", tradeID)
	}
	t.strategy = trade
	t.notes = notes
	t.updatedAt = time.Now()
	return nil
}

// Delete implements TradeRepository.
func (r *MemoryRepository) Delete(_ context.Context, tradeID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trades, tradeID)
	return nil
}

// GetByID implements TradeRepository.
func (r *MemoryRepository) GetByID(_ context.Context, tradeID int64) (*models.Strategy, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.trades[tradeID]
	if !ok {
		return nil, "", errors.ErrTradeNotFound
	}
	return t.strategy, t.notes, nil
}

// GetByName implements TradeRepository.
func (r *MemoryRepository) GetByName(_ context.Context, name string) (*models.Strategy, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.trades {
		if t.name == name {
			return t.strategy, t.notes, nil
		}
	}
	return nil, "", errors.ErrTradeNotFound
}

// ListAll implements TradeRepository.
func (r *MemoryRepository) ListAll(_ context.Context) ([]TradeSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	summaries := make([]TradeSummary, 0, len(r.trades))
	for _, t := range r.trades {
		summaries = append(summaries, r.summary(t))
	}
	return summaries, nil
}

// ListBySymbol implements TradeRepository.
func (r *MemoryRepository) ListBySymbol(_ context.Context, symbol string) ([]TradeSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var summaries []TradeSummary
	for _, t := range r.trades {
		if t.strategy.Underlier.Symbol == symbol {
			summaries = append(summaries, r.summary(t))
		}
	}
	return summaries, nil
}

// NameExists implements TradeRepository.
func (r *MemoryRepository) NameExists(_ context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.trades {
		if t.name == name {
			return true, nil
		}
	}
	return false, nil
}

// Close implements TradeRepository.
func (r *MemoryRepository) Close() error {
	return nil
}

func (r *MemoryRepository) summary(t *memoryTrade) TradeSummary {
	return TradeSummary{
		ID:        t.id,
		Name:      t.name,
		Symbol:    t.strategy.Underlier.Symbol,
		LegCount:  len(t.strategy.Legs),
		CreatedAt: t.createdAt,
		UpdatedAt: t.updatedAt,
		Notes:     t.notes,
	}
}
