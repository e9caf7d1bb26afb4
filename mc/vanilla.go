package mc

import (
	"context"
	"math"

	"github.com/banachtech/zebra-engine/analytic"
	"github.com/banachtech/zebra-engine/option"
	"github.com/banachtech/zebra-engine/payoff"
	"github.com/banachtech/zebra-engine/util"
)

// ControlBeta is the fixed control-variate coefficient on the terminal spot.
const ControlBeta = -0.5

// Vanilla prices a European option by sampling the terminal spot in a single
// exact GBM step. Antithetic pairs share one normal draw with opposite
// signs; the control variate corrects the mean payoff by the sampling error
// of the terminal spot. Greeks are taken from the analytic model.
func Vanilla(ctx context.Context, p option.Params, cfg Config) (option.Outcome, error) {
	if err := p.Validate(); err != nil {
		return option.Outcome{}, err
	}
	if p.Expired() {
		return analytic.BlackScholes(p), nil
	}
	cfg = cfg.withDefaults(1)
	anti := !cfg.DisableAntithetic

	run := cfg
	if anti {
		run.Paths = max(cfg.Paths/2, 1)
		run.Workers = min(run.Workers, run.Paths)
	}

	gbm := GBM{Rate: p.Rate, Dividend: p.Dividend, Vol: p.Vol}
	s0, T := p.Spot, p.Maturity
	t, err := simulate(ctx, run, func(ctx context.Context, b batch, n *util.Normals, t *tally) error {
		return each(ctx, b, func(int) {
			d := gbm.Draw(n)
			st := gbm.Step(gbm.Start(s0), T, d).S
			t.add(p.Payoff(st))
			t.sumCtl += st
			if anti {
				d.Z = -d.Z
				st = gbm.Step(gbm.Start(s0), T, d).S
				t.add(p.Payoff(st))
				t.sumCtl += st
			}
		})
	})
	if err != nil {
		return option.Outcome{}, err
	}

	avg := t.mean()
	if !cfg.DisableControlVariate {
		avg += ControlBeta * (t.sumCtl/float64(t.n) - p.Forward())
	}
	df := p.Discount()
	out := option.Outcome{
		Price: avg * df,
		Diagnostics: &option.Diagnostics{
			StdErr: t.stdErr(avg) * df,
			Paths:  t.n,
			Steps:  1,
		},
	}
	return out.Borrow(analytic.BlackScholes(p)), nil
}

// Heston prices a European option under stochastic volatility. The
// diagnostics keep the terminal volatility of the first 100 paths. Greeks
// are Black-Scholes at vol sqrt(v0).
func Heston(ctx context.Context, p option.Params, h option.Heston, cfg Config) (option.Outcome, error) {
	if err := validate(p, h); err != nil {
		return option.Outcome{}, err
	}
	bs := p
	bs.Vol = math.Sqrt(h.V0)
	if p.Expired() {
		return analytic.BlackScholes(bs), nil
	}
	cfg = cfg.withDefaults(DefaultSteps)

	dyn := HestonSV{Rate: p.Rate, Dividend: p.Dividend, Heston: h}
	t, err := simulate(ctx, cfg, func(ctx context.Context, b batch, n *util.Normals, t *tally) error {
		return each(ctx, b, func(path int) {
			st := Terminal(dyn, p.Spot, p.Maturity, cfg.Steps, n)
			t.add(p.Payoff(st.S))
			if path < volSampleSize {
				t.vols = append(t.vols, dyn.Vol(st))
			}
		})
	})
	if err != nil {
		return option.Outcome{}, err
	}
	return finish(p, t, cfg.Steps, bs), nil
}

// JumpDiffusion prices a European option under Merton jump-diffusion. A
// warning is logged when the per-step jump probability is large enough for
// the single-jump approximation to bias the price.
func JumpDiffusion(ctx context.Context, p option.Params, j option.Jump, cfg Config) (option.Outcome, error) {
	if err := validate(p, j); err != nil {
		return option.Outcome{}, err
	}
	if p.Expired() {
		return analytic.BlackScholes(p), nil
	}
	cfg = cfg.withDefaults(DefaultSteps)

	dyn := MertonJump{Rate: p.Rate, Dividend: p.Dividend, Vol: p.Vol, Jump: j}
	if prob := dyn.StepJumpProbability(p.Maturity, cfg.Steps); prob > JumpWarnThreshold {
		cfg.Logger.WarnContext(ctx, "jump probability per step is high, increase steps",
			"lambda_dt", prob, "steps", cfg.Steps)
	}
	return Exotic(ctx, dyn, p, payoff.Vanilla{Params: p}, cfg)
}

type validator interface {
	Validate() error
}

func validate(vs ...validator) error {
	for _, v := range vs {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// finish discounts a plain tally and borrows Greeks from bs.
func finish(p option.Params, t tally, steps int, bs option.Params) option.Outcome {
	df := p.Discount()
	avg := t.mean()
	out := option.Outcome{
		Price: avg * df,
		Diagnostics: &option.Diagnostics{
			StdErr:       t.stdErr(avg) * df,
			Paths:        t.n,
			Steps:        steps,
			TerminalVols: t.vols,
		},
	}
	return out.Borrow(analytic.BlackScholes(bs))
}
