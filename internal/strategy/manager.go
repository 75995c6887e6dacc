// Package strategy provides strategy state management: leg CRUD on top
// of the immutable Strategy model.
package strategy

import (
	"time"

	"github.com/rs/zerolog"

	"deltaspread/internal/errors"
	"deltaspread/internal/models"
)

// Manager holds the current strategy and applies leg operations to it.
// The Strategy model is immutable, so every mutation rebuilds it and
// the manager swaps in the new instance; callers holding an old pointer
// must re-fetch via Current.
type Manager struct {
	current *models.Strategy
	logger  zerolog.Logger
}

// NewManager creates a strategy manager. initial may be nil.
func NewManager(initial *models.Strategy, logger zerolog.Logger) *Manager {
	return &Manager{
		current: initial,
		logger:  logger.With().Str("component", "strategy").Logger(),
	}
}

// Current returns the managed strategy, or nil if none exists.
func (m *Manager) Current() *models.Strategy {
	return m.current
}

// Has reports whether a strategy is currently set.
func (m *Manager) Has() bool {
	return m.current != nil
}

// Underlier returns the current strategy's underlier.
func (m *Manager) Underlier() (models.Underlier, bool) {
	if m.current == nil {
		return models.Underlier{}, false
	}
	return m.current.Underlier, true
}

// Legs returns a copy of the current strategy's legs.
func (m *Manager) Legs() []models.OptionLeg {
	if m.current == nil {
		return nil
	}
	return append([]models.OptionLeg(nil), m.current.Legs...)
}

// Create starts a new strategy with an initial leg, replacing any
// existing one.
func (m *Manager) Create(name string, underlier models.Underlier, leg models.OptionLeg) (*models.Strategy, error) {
	s, err := models.NewStrategy(name, underlier, []models.OptionLeg{leg})
	if err != nil {
		return nil, err
	}
	m.current = s
	m.logger.Info().
		Str("side", string(leg.Side)).
		Str("type", string(leg.Contract.Type)).
		Float64("strike", leg.Contract.Strike).
		Msg("created strategy")
	return s, nil
}

// AddLeg appends a leg to the current strategy.
func (m *Manager) AddLeg(leg models.OptionLeg) (*models.Strategy, error) {
	if m.current == nil {
		return nil, errors.Wrap(errors.ErrNoStrategy, "cannot add leg")
	}
	s, err := m.current.WithLegAdded(leg)
	if err != nil {
		return nil, err
	}
	m.current = s
	m.logger.Info().
		Str("side", string(leg.Side)).
		Str("type", string(leg.Contract.Type)).
		Float64("strike", leg.Contract.Strike).
		Msg("added leg")
	return s, nil
}

// RemoveLeg removes the leg at idx. Removing the last leg clears the
// strategy and returns nil.
func (m *Manager) RemoveLeg(idx int) (*models.Strategy, error) {
	if m.current == nil {
		return nil, errors.Wrap(errors.ErrNoStrategy, "cannot remove leg")
	}
	s, err := m.current.WithLegRemoved(idx)
	if err != nil {
		return nil, err
	}
	m.current = s
	if s == nil {
		m.logger.Info().Msg("removed last leg, strategy cleared")
	} else {
		m.logger.Info().Int("index", idx).Msg("removed leg")
	}
	return s, nil
}

// UpdateLegType changes the option type of the leg at idx, repricing
// its entry.
func (m *Manager) UpdateLegType(idx int, newType models.OptionType, newEntryPrice float64) (*models.Strategy, error) {
	return m.updateLeg(idx, "type", func(leg models.OptionLeg) (models.OptionLeg, error) {
		contract, err := models.NewOptionContract(leg.Contract.Underlier, leg.Contract.Expiry, leg.Contract.Strike, newType)
		if err != nil {
			return models.OptionLeg{}, err
		}
		return models.NewOptionLeg(contract, leg.Side, leg.Quantity, &newEntryPrice, leg.Notes)
	})
}

// UpdateLegStrike changes the strike of the leg at idx, repricing its
// entry.
func (m *Manager) UpdateLegStrike(idx int, newStrike, newEntryPrice float64) (*models.Strategy, error) {
	return m.updateLeg(idx, "strike", func(leg models.OptionLeg) (models.OptionLeg, error) {
		contract, err := models.NewOptionContract(leg.Contract.Underlier, leg.Contract.Expiry, newStrike, leg.Contract.Type)
		if err != nil {
			return models.OptionLeg{}, err
		}
		return models.NewOptionLeg(contract, leg.Side, leg.Quantity, &newEntryPrice, leg.Notes)
	})
}

// UpdateLegExpiry changes the expiry of the leg at idx, repricing its
// entry.
func (m *Manager) UpdateLegExpiry(idx int, newExpiry time.Time, newEntryPrice float64) (*models.Strategy, error) {
	return m.updateLeg(idx, "expiry", func(leg models.OptionLeg) (models.OptionLeg, error) {
		contract, err := models.NewOptionContract(leg.Contract.Underlier, newExpiry, leg.Contract.Strike, leg.Contract.Type)
		if err != nil {
			return models.OptionLeg{}, err
		}
		return models.NewOptionLeg(contract, leg.Side, leg.Quantity, &newEntryPrice, leg.Notes)
	})
}

// PreviewStrike builds a strategy with the leg at idx moved to a new
// strike, without touching the managed state. Returns nil when there is
// no strategy or the index is out of range.
func (m *Manager) PreviewStrike(idx int, newStrike, newEntryPrice float64) *models.Strategy {
	if m.current == nil || idx < 0 || idx >= len(m.current.Legs) {
		return nil
	}
	leg := m.current.Legs[idx]
	contract, err := models.NewOptionContract(leg.Contract.Underlier, leg.Contract.Expiry, newStrike, leg.Contract.Type)
	if err != nil {
		return nil
	}
	newLeg, err := models.NewOptionLeg(contract, leg.Side, leg.Quantity, &newEntryPrice, leg.Notes)
	if err != nil {
		return nil
	}
	preview, err := m.current.WithLegReplaced(idx, newLeg)
	if err != nil {
		return nil
	}
	return preview
}

// Reset clears the managed strategy.
func (m *Manager) Reset() {
	m.current = nil
	m.logger.Info().Msg("strategy reset")
}

// ExpiryForNewLeg returns the expiry a new leg should use. Under the
// same-expiry constraint an existing strategy pins new legs to its
// first leg's expiry; otherwise the selected expiry passes through.
func (m *Manager) ExpiryForNewLeg(selected time.Time) time.Time {
	if m.current != nil && m.current.Constraints.SameExpiry && len(m.current.Legs) > 0 {
		return m.current.Legs[0].Contract.Expiry
	}
	return selected
}

func (m *Manager) updateLeg(idx int, field string, rebuild func(models.OptionLeg) (models.OptionLeg, error)) (*models.Strategy, error) {
	if m.current == nil {
		return nil, errors.Wrap(errors.ErrNoStrategy, "cannot update leg")
	}
	if idx < 0 || idx >= len(m.current.Legs) {
		return nil, errors.NewLegError(idx, "update", "leg index out of range")
	}
	newLeg, err := rebuild(m.current.Legs[idx])
	if err != nil {
		return nil, err
	}
	s, err := m.current.WithLegReplaced(idx, newLeg)
	if err != nil {
		return nil, err
	}
	m.current = s
	m.logger.Info().Int("index", idx).Str("field", field).Msg("updated leg")
	return s, nil
}
