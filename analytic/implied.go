package analytic

import (
	"errors"
	"fmt"
	"math"

	"github.com/banachtech/zebra-engine/option"
)

// Volatility bounds applied to every Newton iterate.
const (
	MinVol = 0.001
	MaxVol = 5.0
)

const minVega = 1e-10

// ErrNotConverged is returned by IVResult.Err when the solver stopped short.
var ErrNotConverged = errors.New("implied volatility did not converge")

// IVOptions tunes the Newton-Raphson solver. Zero fields take the defaults.
type IVOptions struct {
	Guess         float64 `json:"guess,omitempty" mapstructure:"guess" validate:"gte=0"`
	Tolerance     float64 `json:"tolerance,omitempty" mapstructure:"tolerance" validate:"gte=0"`
	MaxIterations int     `json:"maxIterations,omitempty" mapstructure:"max_iterations" validate:"gte=0"`
}

// DefaultIVOptions returns guess 0.30, tolerance 1e-6 and 100 iterations.
func DefaultIVOptions() IVOptions {
	return IVOptions{Guess: 0.3, Tolerance: 1e-6, MaxIterations: 100}
}

func (o IVOptions) withDefaults() IVOptions {
	d := DefaultIVOptions()
	if o.Guess <= 0 {
		o.Guess = d.Guess
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	return o
}

// IVResult is the solver output. Vol is the last iterate whether or not the
// solver converged.
type IVResult struct {
	Vol        float64 `json:"impliedVol"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
}

// Err returns a wrapped ErrNotConverged when the result did not converge.
func (r IVResult) Err() error {
	if r.Converged {
		return nil
	}
	return fmt.Errorf("%w after %d iterations (last vol %.6f)", ErrNotConverged, r.Iterations, r.Vol)
}

// ImpliedVol finds the volatility at which BlackScholes reproduces
// marketPrice. p.Vol is ignored. The solver stops without converging when
// vega vanishes.
func ImpliedVol(marketPrice float64, p option.Params, opts IVOptions) IVResult {
	opts = opts.withDefaults()
	res := IVResult{Vol: opts.Guess}
	for i := 0; i < opts.MaxIterations; i++ {
		res.Iterations++
		p.Vol = res.Vol
		out := BlackScholes(p)
		diff := out.Price - marketPrice
		if math.Abs(diff) < opts.Tolerance {
			res.Converged = true
			break
		}
		vega := out.Greeks.Vega * 100
		if math.Abs(vega) < minVega {
			break
		}
		res.Vol = math.Max(MinVol, math.Min(res.Vol-diff/vega, MaxVol))
	}
	return res
}
