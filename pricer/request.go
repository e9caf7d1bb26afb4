// Package pricer dispatches a pricing request to the model it names.
package pricer

import (
	"errors"
	"fmt"

	"github.com/banachtech/zebra-engine/option"
)

// Model names a pricing model.
type Model string

const (
	BlackScholes  Model = "black-scholes"
	MonteCarlo    Model = "monte-carlo"
	Binomial      Model = "binomial"
	Heston        Model = "heston"
	JumpDiffusion Model = "jump-diffusion"
	Asian         Model = "asian"
	Barrier       Model = "barrier"
	Digital       Model = "digital"
)

// Models lists every supported model.
var Models = []Model{BlackScholes, MonteCarlo, Binomial, Heston, JumpDiffusion, Asian, Barrier, Digital}

var (
	ErrUnknownModel     = errors.New("unknown model")
	ErrMissingExtension = errors.New("model parameters missing")
)

// Simulated reports whether m prices by Monte Carlo.
func (m Model) Simulated() bool {
	switch m {
	case MonteCarlo, Heston, JumpDiffusion, Asian, Barrier:
		return true
	}
	return false
}

// Request is one pricing call. Exactly the extension the model needs must be
// set; the others are ignored. Zero Paths and Steps take engine defaults.
type Request struct {
	Model   Model           `json:"model" binding:"required"`
	Params  option.Params   `json:"params" binding:"required"`
	Heston  *option.Heston  `json:"heston,omitempty"`
	Jump    *option.Jump    `json:"jump,omitempty"`
	Barrier *option.Barrier `json:"barrier,omitempty"`

	Paths          int     `json:"paths,omitempty" binding:"gte=0"`
	Steps          int     `json:"steps,omitempty" binding:"gte=0"`
	Antithetic     *bool   `json:"antithetic,omitempty"`
	ControlVariate *bool   `json:"controlVariate,omitempty"`
	American       bool    `json:"american,omitempty"`
	Payout         float64 `json:"payout,omitempty" binding:"gte=0"`
	Seed           *uint64 `json:"seed,omitempty"`
}

// Validate checks the request before any model runs and reports every
// problem found.
func (r Request) Validate() error {
	var errs []error
	if err := r.Params.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch r.Model {
	case Heston:
		if r.Heston == nil {
			errs = append(errs, fmt.Errorf("%w: heston", ErrMissingExtension))
		} else if err := r.Heston.Validate(); err != nil {
			errs = append(errs, err)
		}
	case JumpDiffusion:
		if r.Jump == nil {
			errs = append(errs, fmt.Errorf("%w: jump", ErrMissingExtension))
		} else if err := r.Jump.Validate(); err != nil {
			errs = append(errs, err)
		}
	case Barrier:
		if r.Barrier == nil {
			errs = append(errs, fmt.Errorf("%w: barrier", ErrMissingExtension))
		} else if err := r.Barrier.Validate(); err != nil {
			errs = append(errs, err)
		}
	case BlackScholes, MonteCarlo, Binomial, Asian, Digital:
	default:
		errs = append(errs, fmt.Errorf("%w %q", ErrUnknownModel, r.Model))
	}
	if r.Paths < 0 || r.Steps < 0 {
		errs = append(errs, fmt.Errorf("%w: paths and steps must be non-negative", option.ErrInvalidParams))
	}
	if r.Model == Binomial && r.Steps == 1 {
		errs = append(errs, fmt.Errorf("%w: binomial tree needs at least 2 steps", option.ErrInvalidParams))
	}
	if r.Payout < 0 {
		errs = append(errs, fmt.Errorf("%w: payout must be non-negative", option.ErrInvalidParams))
	}
	return errors.Join(errs...)
}
