package mc

import (
	"context"

	"github.com/banachtech/zebra-engine/analytic"
	"github.com/banachtech/zebra-engine/option"
	"github.com/banachtech/zebra-engine/payoff"
	"github.com/banachtech/zebra-engine/util"
)

// Exotic prices any path payoff under dyn. Payoffs implementing
// payoff.Trigger have their trigger frequency reported as the knock-out
// probability. Greeks are Black-Scholes at p.Vol.
func Exotic(ctx context.Context, dyn Dynamics, p option.Params, pay payoff.Payoff, cfg Config) (option.Outcome, error) {
	if p.Expired() {
		out := analytic.BlackScholes(p)
		out.Price = pay.Payout([]float64{p.Spot, p.Spot})
		return out, nil
	}
	cfg = cfg.withDefaults(DefaultExoticSteps)
	trig, counted := pay.(payoff.Trigger)

	t, err := simulate(ctx, cfg, func(ctx context.Context, b batch, n *util.Normals, t *tally) error {
		buf := make([]float64, cfg.Steps+1)
		return each(ctx, b, func(int) {
			Fill(dyn, p.Spot, p.Maturity, buf, n)
			t.add(pay.Payout(buf))
			if counted && trig.Triggered(buf) {
				t.hits++
			}
		})
	})
	if err != nil {
		return option.Outcome{}, err
	}

	out := finish(p, t, cfg.Steps, p)
	if counted {
		prob := float64(t.hits) / float64(t.n)
		out.Diagnostics.KnockoutProbability = &prob
	}
	return out, nil
}

// Asian prices an arithmetic average-price option under GBM, observing at
// every step (252 by default).
func Asian(ctx context.Context, p option.Params, cfg Config) (option.Outcome, error) {
	if err := p.Validate(); err != nil {
		return option.Outcome{}, err
	}
	gbm := GBM{Rate: p.Rate, Dividend: p.Dividend, Vol: p.Vol}
	return Exotic(ctx, gbm, p, payoff.Asian{Params: p}, cfg)
}

// Barrier prices a discretely monitored single-barrier option under GBM.
// KnockoutProbability is the fraction of paths that touched the barrier,
// whichever the barrier kind.
func Barrier(ctx context.Context, p option.Params, b option.Barrier, cfg Config) (option.Outcome, error) {
	if err := validate(p, b); err != nil {
		return option.Outcome{}, err
	}
	gbm := GBM{Rate: p.Rate, Dividend: p.Dividend, Vol: p.Vol}
	return Exotic(ctx, gbm, p, payoff.Barrier{Params: p, Barrier: b}, cfg)
}
