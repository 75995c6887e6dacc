// Package models provides domain models for options strategies.
//
// All types here are value objects: they are validated at construction
// and never mutated afterwards. "Updates" always build new instances.
package models

import (
	"time"

	"deltaspread/internal/errors"
)

// OptionType represents the type of an option contract.
type OptionType string

const (
	OptionCall OptionType = "CALL"
	OptionPut  OptionType = "PUT"
)

// Valid reports whether the option type is CALL or PUT.
func (t OptionType) Valid() bool {
	return t == OptionCall || t == OptionPut
}

// Side represents the side of an option leg.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Valid reports whether the side is BUY or SELL.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Underlier represents the underlying instrument of an option contract.
type Underlier struct {
	Symbol     string
	Spot       float64
	Multiplier int // units per contract, typically 100
	Currency   string
}

// NewUnderlier creates a validated Underlier.
func NewUnderlier(symbol string, spot float64, multiplier int, currency string) (Underlier, error) {
	if spot < 0 {
		return Underlier{}, errors.NewValidationError("spot", spot, "spot must be non-negative")
	}
	if multiplier <= 0 {
		return Underlier{}, errors.NewValidationError("multiplier", multiplier, "multiplier must be positive")
	}
	return Underlier{
		Symbol:     symbol,
		Spot:       spot,
		Multiplier: multiplier,
		Currency:   currency,
	}, nil
}

// OptionContract represents a single option instrument.
type OptionContract struct {
	Underlier Underlier
	Expiry    time.Time
	Strike    float64
	Type      OptionType
}

// NewOptionContract creates a validated OptionContract.
func NewOptionContract(underlier Underlier, expiry time.Time, strike float64, typ OptionType) (OptionContract, error) {
	if strike <= 0 {
		return OptionContract{}, errors.NewValidationError("strike", strike, "strike must be positive")
	}
	if !typ.Valid() {
		return OptionContract{}, errors.NewValidationError("type", typ, "type must be CALL or PUT")
	}
	return OptionContract{
		Underlier: underlier,
		Expiry:    expiry,
		Strike:    strike,
		Type:      typ,
	}, nil
}

// OptionLeg represents one option position within a strategy.
type OptionLeg struct {
	Contract   OptionContract
	Side       Side
	Quantity   int
	EntryPrice *float64 // premium paid/received per unit, nil if unknown
	Notes      string
}

// NewOptionLeg creates a validated OptionLeg.
func NewOptionLeg(contract OptionContract, side Side, quantity int, entryPrice *float64, notes string) (OptionLeg, error) {
	if !side.Valid() {
		return OptionLeg{}, errors.NewValidationError("side", side, "side must be BUY or SELL")
	}
	if quantity <= 0 {
		return OptionLeg{}, errors.NewValidationError("quantity", quantity, "quantity must be positive")
	}
	if entryPrice != nil && *entryPrice < 0 {
		return OptionLeg{}, errors.NewValidationError("entry_price", *entryPrice, "entry_price must be non-negative")
	}
	return OptionLeg{
		Contract:   contract,
		Side:       side,
		Quantity:   quantity,
		EntryPrice: entryPrice,
		Notes:      notes,
	}, nil
}

// EntryPriceOrZero returns the entry price, or 0 when none is recorded.
func (l OptionLeg) EntryPriceOrZero() float64 {
	if l.EntryPrice == nil {
		return 0
	}
	return *l.EntryPrice
}

// OptionQuote represents a market quote for one option contract.
type OptionQuote struct {
	Bid         float64
	Ask         float64
	Mid         float64
	IV          float64
	LastUpdated time.Time
}

// NewOptionQuote creates a validated OptionQuote.
// Invariant: 0 <= bid <= mid <= ask, iv >= 0.
func NewOptionQuote(bid, ask, mid, iv float64, lastUpdated time.Time) (OptionQuote, error) {
	if bid < 0 || ask < 0 || mid < 0 {
		return OptionQuote{}, errors.NewValidationError("quote", bid, "quote prices must be non-negative")
	}
	if !(bid <= mid && mid <= ask) {
		return OptionQuote{}, errors.NewValidationError("quote", mid, "enforce bid <= mid <= ask")
	}
	if iv < 0 {
		return OptionQuote{}, errors.NewValidationError("iv", iv, "iv must be non-negative")
	}
	return OptionQuote{
		Bid:         bid,
		Ask:         ask,
		Mid:         mid,
		IV:          iv,
		LastUpdated: lastUpdated,
	}, nil
}
