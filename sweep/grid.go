// Package sweep evaluates a pricing request over a grid of spots and days
// to expiry, the kernel behind Greek heatmaps and time-decay surfaces.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/banachtech/zebra-engine/option"
	"github.com/banachtech/zebra-engine/pricer"
	"github.com/banachtech/zebra-engine/util"
)

// Engine is the part of pricer.Engine a sweep needs.
type Engine interface {
	Price(ctx context.Context, req pricer.Request) (option.Outcome, error)
}

// DefaultDays are the days-to-expiry rows of a default grid.
var DefaultDays = []float64{1, 7, 14, 30, 60, 90, 180, 365}

// DefaultSpots returns 15 spots from 70% to 126% of strike in 4% steps.
func DefaultSpots(strike float64) []float64 {
	out := make([]float64, 15)
	for i := range out {
		out[i] = strike * (0.7 + 0.04*float64(i))
	}
	return out
}

// Grid describes a sweep. Base supplies the model and every parameter
// except spot and maturity, which vary along the axes. A seeded Base gives
// every cell the same random numbers.
type Grid struct {
	Base    pricer.Request `json:"base"`
	Spots   []float64      `json:"spots,omitempty"`
	Days    []float64      `json:"days,omitempty"`
	Workers int            `json:"workers,omitempty"`
	// OnCell is called after each cell completes. It may be called from
	// several goroutines.
	OnCell func(done, total int) `json:"-"`
}

// Surface is the sweep result. Cells[i][j] is the outcome at Days[i] and
// Spots[j].
type Surface struct {
	Spots []float64          `json:"spots"`
	Days  []float64          `json:"days"`
	Cells [][]option.Outcome `json:"cells"`
}

// Field names a scalar of an outcome.
type Field string

const (
	FieldPrice Field = "price"
	FieldDelta Field = "delta"
	FieldGamma Field = "gamma"
	FieldTheta Field = "theta"
	FieldVega  Field = "vega"
	FieldRho   Field = "rho"
)

var ErrUnknownField = errors.New("unknown field")

// Value extracts f from o.
func (f Field) Value(o option.Outcome) (float64, error) {
	switch f {
	case FieldPrice:
		return o.Price, nil
	case FieldDelta:
		return o.Greeks.Delta, nil
	case FieldGamma:
		return o.Greeks.Gamma, nil
	case FieldTheta:
		return o.Greeks.Theta, nil
	case FieldVega:
		return o.Greeks.Vega, nil
	case FieldRho:
		return o.Greeks.Rho, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownField, f)
}

// Matrix returns field f of every cell, laid out like Cells.
func (s Surface) Matrix(f Field) ([][]float64, error) {
	out := make([][]float64, len(s.Cells))
	for i, row := range s.Cells {
		out[i] = make([]float64, len(row))
		for j, o := range row {
			v, err := f.Value(o)
			if err != nil {
				return nil, err
			}
			out[i][j] = v
		}
	}
	return out, nil
}

// Run prices every cell of g. The first failing cell cancels the rest.
func Run(ctx context.Context, e Engine, g Grid) (Surface, error) {
	spots, days := g.Spots, g.Days
	if len(spots) == 0 {
		spots = DefaultSpots(g.Base.Params.Strike)
	}
	if len(days) == 0 {
		days = DefaultDays
	}
	for _, d := range days {
		if d < 0 {
			return Surface{}, fmt.Errorf("%w: negative days to expiry %v", option.ErrInvalidParams, d)
		}
	}
	workers := g.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	s := Surface{Spots: spots, Days: days, Cells: make([][]option.Outcome, len(days))}
	for i := range s.Cells {
		s.Cells[i] = make([]option.Outcome, len(spots))
	}

	total := len(spots) * len(days)
	var done atomic.Int64
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, d := range days {
		for j, spot := range spots {
			i, j, d, spot := i, j, d, spot
			eg.Go(func() error {
				req := g.Base
				req.Params.Spot = spot
				req.Params.Maturity = util.DaysToYears(d)
				out, err := e.Price(ctx, req)
				if err != nil {
					return fmt.Errorf("spot %v days %v: %w", spot, d, err)
				}
				s.Cells[i][j] = out
				if g.OnCell != nil {
					g.OnCell(int(done.Add(1)), total)
				}
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return Surface{}, err
	}
	return s, nil
}
