package option

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is wrapped by every validation failure.
var ErrInvalidParams = errors.New("invalid option parameters")

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func invalid(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidParams, errors.Join(errs...))
}

// Validate checks p at the model boundary. Expired contracts (Maturity <= 0)
// and zero volatility are valid states.
func (p Params) Validate() error {
	var errs []error
	if !finite(p.Spot) || p.Spot <= 0 {
		errs = append(errs, fmt.Errorf("spot must be positive, got %v", p.Spot))
	}
	if !finite(p.Strike) || p.Strike <= 0 {
		errs = append(errs, fmt.Errorf("strike must be positive, got %v", p.Strike))
	}
	if !finite(p.Vol) || p.Vol < 0 {
		errs = append(errs, fmt.Errorf("volatility must be non-negative, got %v", p.Vol))
	}
	if !finite(p.Maturity) {
		errs = append(errs, fmt.Errorf("maturity must be finite, got %v", p.Maturity))
	}
	if !finite(p.Rate) || !finite(p.Dividend) {
		errs = append(errs, errors.New("rate and dividend must be finite"))
	}
	if p.Type != Call && p.Type != Put {
		errs = append(errs, fmt.Errorf("option type must be %q or %q, got %q", Call, Put, p.Type))
	}
	return invalid(errs)
}

// Validate checks the variance process parameters.
func (h Heston) Validate() error {
	var errs []error
	if !finite(h.Kappa) || h.Kappa < 0 {
		errs = append(errs, fmt.Errorf("kappa must be non-negative, got %v", h.Kappa))
	}
	if !finite(h.Theta) || h.Theta < 0 {
		errs = append(errs, fmt.Errorf("theta must be non-negative, got %v", h.Theta))
	}
	if !finite(h.Xi) || h.Xi < 0 {
		errs = append(errs, fmt.Errorf("xi must be non-negative, got %v", h.Xi))
	}
	if !finite(h.Rho) || h.Rho < -1 || h.Rho > 1 {
		errs = append(errs, fmt.Errorf("rho must lie in [-1, 1], got %v", h.Rho))
	}
	if !finite(h.V0) || h.V0 < 0 {
		errs = append(errs, fmt.Errorf("v0 must be non-negative, got %v", h.V0))
	}
	return invalid(errs)
}

// Validate checks the jump parameters.
func (j Jump) Validate() error {
	var errs []error
	if !finite(j.Lambda) || j.Lambda < 0 {
		errs = append(errs, fmt.Errorf("lambda must be non-negative, got %v", j.Lambda))
	}
	if !finite(j.MuJ) {
		errs = append(errs, fmt.Errorf("muJ must be finite, got %v", j.MuJ))
	}
	if !finite(j.SigmaJ) || j.SigmaJ < 0 {
		errs = append(errs, fmt.Errorf("sigmaJ must be non-negative, got %v", j.SigmaJ))
	}
	return invalid(errs)
}

// Validate checks the barrier definition.
func (b Barrier) Validate() error {
	var errs []error
	if !finite(b.Level) || b.Level <= 0 {
		errs = append(errs, fmt.Errorf("barrier level must be positive, got %v", b.Level))
	}
	switch b.Kind {
	case UpAndOut, UpAndIn, DownAndOut, DownAndIn:
	default:
		errs = append(errs, fmt.Errorf("unknown barrier kind %q", b.Kind))
	}
	if !finite(b.Rebate) || b.Rebate < 0 {
		errs = append(errs, fmt.Errorf("rebate must be non-negative, got %v", b.Rebate))
	}
	return invalid(errs)
}
