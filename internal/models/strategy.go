package models

import (
	"time"

	"deltaspread/internal/errors"
)

// StrategyConstraints controls which invariants a Strategy enforces.
type StrategyConstraints struct {
	SameExpiry       bool
	SameUnderlier    bool
	MaxTotalShortQty *int // nil means no cap
}

// DefaultConstraints returns the default constraint set: single expiry,
// single underlier, no short-quantity cap.
func DefaultConstraints() StrategyConstraints {
	return StrategyConstraints{
		SameExpiry:    true,
		SameUnderlier: true,
	}
}

// Strategy represents a multi-leg options strategy. It is immutable:
// leg mutation helpers construct and return a new Strategy, leaving the
// receiver untouched. Callers must replace their reference.
type Strategy struct {
	Name        string
	Underlier   Underlier
	Legs        []OptionLeg
	CreatedAt   time.Time
	Tags        []string
	Constraints StrategyConstraints
}

// NewStrategy creates a validated Strategy with default constraints.
func NewStrategy(name string, underlier Underlier, legs []OptionLeg) (*Strategy, error) {
	return NewStrategyWithConstraints(name, underlier, legs, DefaultConstraints())
}

// NewStrategyWithConstraints creates a validated Strategy with the given
// constraint set. Construction fails if any enabled invariant is violated.
func NewStrategyWithConstraints(name string, underlier Underlier, legs []OptionLeg, constraints StrategyConstraints) (*Strategy, error) {
	if len(legs) == 0 {
		return nil, errors.NewValidationError("legs", len(legs), "strategy must contain at least one leg")
	}
	if constraints.SameUnderlier {
		for _, leg := range legs {
			if leg.Contract.Underlier.Symbol != underlier.Symbol {
				return nil, errors.NewValidationError("legs", leg.Contract.Underlier.Symbol, "all legs must share strategy underlier")
			}
		}
	}
	if constraints.SameExpiry {
		baseExpiry := legs[0].Contract.Expiry
		for _, leg := range legs[1:] {
			if !leg.Contract.Expiry.Equal(baseExpiry) {
				return nil, errors.NewValidationError("legs", leg.Contract.Expiry, "all legs must share same expiry")
			}
		}
	}
	if constraints.MaxTotalShortQty != nil {
		totalShort := 0
		for _, leg := range legs {
			if leg.Side == SideSell {
				totalShort += leg.Quantity
			}
		}
		if totalShort > *constraints.MaxTotalShortQty {
			return nil, errors.NewValidationError("legs", totalShort, "exceeds max total short quantity constraint")
		}
	}

	s := &Strategy{
		Name:        name,
		Underlier:   underlier,
		Legs:        append([]OptionLeg(nil), legs...),
		CreatedAt:   time.Now(),
		Constraints: constraints,
	}
	return s, nil
}

// TotalShortQuantity returns the summed quantity across SELL-side legs.
func (s *Strategy) TotalShortQuantity() int {
	total := 0
	for _, leg := range s.Legs {
		if leg.Side == SideSell {
			total += leg.Quantity
		}
	}
	return total
}

// Strikes returns the strike of every leg, in leg order.
func (s *Strategy) Strikes() []float64 {
	strikes := make([]float64, len(s.Legs))
	for i, leg := range s.Legs {
		strikes[i] = leg.Contract.Strike
	}
	return strikes
}

// WithLegAdded returns a new Strategy with the leg appended.
func (s *Strategy) WithLegAdded(leg OptionLeg) (*Strategy, error) {
	legs := append(append([]OptionLeg(nil), s.Legs...), leg)
	return NewStrategyWithConstraints(s.Name, s.Underlier, legs, s.Constraints)
}

// WithLegRemoved returns a new Strategy without the leg at idx.
// Removing the last remaining leg returns (nil, nil): an empty strategy
// cannot exist, so the caller must drop its reference entirely.
func (s *Strategy) WithLegRemoved(idx int) (*Strategy, error) {
	if idx < 0 || idx >= len(s.Legs) {
		return nil, errors.NewLegError(idx, "remove", "leg index out of range")
	}
	if len(s.Legs) == 1 {
		return nil, nil
	}
	legs := make([]OptionLeg, 0, len(s.Legs)-1)
	for i, leg := range s.Legs {
		if i != idx {
			legs = append(legs, leg)
		}
	}
	return NewStrategyWithConstraints(s.Name, s.Underlier, legs, s.Constraints)
}

// WithLegReplaced returns a new Strategy with the leg at idx replaced.
func (s *Strategy) WithLegReplaced(idx int, leg OptionLeg) (*Strategy, error) {
	if idx < 0 || idx >= len(s.Legs) {
		return nil, errors.NewLegError(idx, "replace", "leg index out of range")
	}
	legs := append([]OptionLeg(nil), s.Legs...)
	legs[idx] = leg
	return NewStrategyWithConstraints(s.Name, s.Underlier, legs, s.Constraints)
}
