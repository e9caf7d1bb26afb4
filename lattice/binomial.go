// Package lattice prices European and American options on a recombining
// Cox-Ross-Rubinstein binomial tree.
package lattice

import (
	"errors"
	"fmt"
	"math"

	"github.com/banachtech/zebra-engine/analytic"
	"github.com/banachtech/zebra-engine/option"
)

const DefaultSteps = 200

var ErrSteps = errors.New("binomial tree needs at least 2 steps")

// Config selects the tree size and exercise style. Steps == 0 means
// DefaultSteps.
type Config struct {
	Steps    int  `mapstructure:"steps"`
	American bool `mapstructure:"american"`
}

func (c Config) steps() (int, error) {
	if c.Steps == 0 {
		return DefaultSteps, nil
	}
	if c.Steps < 2 {
		return 0, fmt.Errorf("%w, got %d", ErrSteps, c.Steps)
	}
	return c.Steps, nil
}

// tree holds the node values needed after backward induction.
type tree struct {
	price  float64
	level1 [2]float64
	level2 [3]float64
}

// induct runs backward induction over n steps. Node (j, i) has spot
// S*u^(j-i)*d^i.
func induct(p option.Params, n int, american bool) tree {
	dt := p.Maturity / float64(n)
	u := math.Exp(p.Vol * math.Sqrt(dt))
	d := 1 / u
	pu := (math.Exp((p.Rate-p.Dividend)*dt) - d) / (u - d)
	disc := math.Exp(-p.Rate * dt)

	v := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		v[i] = p.Payoff(p.Spot * math.Pow(u, float64(n-i)) * math.Pow(d, float64(i)))
	}

	var t tree
	t.keep(n, v)
	for j := n - 1; j >= 0; j-- {
		for i := 0; i <= j; i++ {
			v[i] = disc * (pu*v[i] + (1-pu)*v[i+1])
			if american {
				s := p.Spot * math.Pow(u, float64(j-i)) * math.Pow(d, float64(i))
				v[i] = math.Max(v[i], p.Payoff(s))
			}
		}
		t.keep(j, v)
	}
	t.price = v[0]
	return t
}

func (t *tree) keep(level int, v []float64) {
	switch level {
	case 2:
		copy(t.level2[:], v[:3])
	case 1:
		copy(t.level1[:], v[:2])
	}
}

// Binomial prices p on a CRR tree. Delta and gamma come from the first two
// tree levels; theta, vega and rho are the analytic values and are listed
// in Outcome.Borrowed. An American run also prices the European contract on
// the same tree and reports the difference as the early exercise premium.
func Binomial(p option.Params, cfg Config) (option.Outcome, error) {
	if err := p.Validate(); err != nil {
		return option.Outcome{}, err
	}
	n, err := cfg.steps()
	if err != nil {
		return option.Outcome{}, err
	}
	if p.Expired() {
		out := analytic.BlackScholes(p)
		out.GreeksSource = option.SourceLattice
		return out, nil
	}
	if p.Vol == 0 {
		return deterministic(p, n, cfg.American), nil
	}

	t := induct(p, n, cfg.American)
	dt := p.Maturity / float64(n)
	u := math.Exp(p.Vol * math.Sqrt(dt))
	d := 1 / u

	s1 := [2]float64{p.Spot * u, p.Spot * d}
	s2 := [3]float64{p.Spot * u * u, p.Spot, p.Spot * d * d}
	delta := (t.level1[0] - t.level1[1]) / (s1[0] - s1[1])
	up := (t.level2[0] - t.level2[1]) / (s2[0] - s2[1])
	dn := (t.level2[1] - t.level2[2]) / (s2[1] - s2[2])
	gamma := (up - dn) / ((s2[0] - s2[2]) / 2)

	bs := analytic.BlackScholes(p).Greeks
	out := option.Outcome{
		Price: t.price,
		Greeks: option.Greeks{
			Delta: delta,
			Gamma: gamma,
			Theta: bs.Theta,
			Vega:  bs.Vega,
			Rho:   bs.Rho,
		},
		GreeksSource: option.SourceLattice,
		Borrowed:     []string{option.GreekTheta, option.GreekVega, option.GreekRho},
		Diagnostics:  &option.Diagnostics{Steps: n},
	}
	if cfg.American {
		premium := t.price - induct(p, n, false).price
		out.Diagnostics.EarlyExercisePremium = &premium
	}
	return out, nil
}

// deterministic prices a zero-volatility contract, where the tree collapses
// onto the forward path. An American holder exercises at the grid time with
// the largest discounted exercise value.
func deterministic(p option.Params, n int, american bool) option.Outcome {
	out := analytic.BlackScholes(p)
	out.GreeksSource = option.SourceLattice
	out.Borrowed = []string{option.GreekTheta, option.GreekVega, option.GreekRho}
	out.Diagnostics = &option.Diagnostics{Steps: n}
	if !american {
		return out
	}
	european := out.Price
	best := european
	for i := 0; i < n; i++ {
		t := p.Maturity * float64(i) / float64(n)
		s := p.Spot * math.Exp((p.Rate-p.Dividend)*t)
		best = math.Max(best, math.Exp(-p.Rate*t)*p.Payoff(s))
	}
	premium := best - european
	out.Price = best
	out.Diagnostics.EarlyExercisePremium = &premium
	return out
}
