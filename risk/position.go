// Package risk aggregates Black-Scholes valuations over positions: stress
// scenarios, portfolio Greeks with hedge sizes, and realised volatility.
package risk

import (
	"errors"
	"fmt"

	"github.com/banachtech/zebra-engine/option"
)

// Multiplier is the number of shares one option contract controls.
const Multiplier = 100

// Kind is what a position holds.
type Kind string

const (
	Contract Kind = "option"
	Stock    Kind = "stock"
)

var ErrInvalidPosition = errors.New("invalid position")

// Position is a signed holding. A positive Quantity is long. For a stock
// position only Params.Spot is used.
type Position struct {
	Symbol   string        `json:"symbol,omitempty"`
	Kind     Kind          `json:"kind,omitempty"`
	Params   option.Params `json:"params" binding:"required"`
	Quantity int64         `json:"quantity" binding:"required"`
}

func (p Position) stock() bool {
	return p.Kind == Stock
}

// multiplier is the Greek and value scale of one unit of quantity.
func (p Position) multiplier() float64 {
	if p.stock() {
		return float64(p.Quantity)
	}
	return float64(p.Quantity * Multiplier)
}

// Validate checks the quantity and, for options, the contract parameters.
func (p Position) Validate() error {
	if p.Quantity == 0 {
		return fmt.Errorf("%w: quantity must be non-zero", ErrInvalidPosition)
	}
	switch p.Kind {
	case "", Contract:
		if err := p.Params.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPosition, err)
		}
	case Stock:
		if p.Params.Spot <= 0 {
			return fmt.Errorf("%w: spot must be positive", ErrInvalidPosition)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPosition, p.Kind)
	}
	return nil
}
