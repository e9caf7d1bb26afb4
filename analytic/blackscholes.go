// Package analytic prices European options in closed form under
// Black-Scholes-Merton and inverts the price for implied volatility.
package analytic

import (
	"math"

	"github.com/banachtech/zebra-engine/option"
	"github.com/banachtech/zebra-engine/util"
)

// d1 and d2 of the Black-Scholes-Merton formula. Callers guarantee T > 0 and
// vol > 0.
func d12(p option.Params) (float64, float64) {
	sqrtT := math.Sqrt(p.Maturity)
	d1 := (math.Log(p.Spot/p.Strike) + (p.Rate-p.Dividend+0.5*p.Vol*p.Vol)*p.Maturity) / (p.Vol * sqrtT)
	return d1, d1 - p.Vol*sqrtT
}

// expired returns intrinsic value with zero Greeks.
func expired(p option.Params) option.Outcome {
	return option.Outcome{Price: p.Intrinsic(), GreeksSource: option.SourceAnalytic}
}

// deterministic handles vol == 0: the terminal spot is the forward, so the
// price is the discounted forward payoff and delta is a step.
func deterministic(p option.Params) option.Outcome {
	df := math.Exp(-p.Rate * p.Maturity)
	qf := math.Exp(-p.Dividend * p.Maturity)
	fwd := p.Spot*qf - p.Strike*df
	out := option.Outcome{GreeksSource: option.SourceAnalytic}
	if p.IsCall() {
		out.Price = math.Max(fwd, 0)
		if fwd > 0 {
			out.Greeks.Delta = qf
		}
	} else {
		out.Price = math.Max(-fwd, 0)
		if fwd < 0 {
			out.Greeks.Delta = -qf
		}
	}
	return out
}

// BlackScholes prices p in closed form with first-order and higher-order
// Greeks. Theta is per day, vega and rho per 1%.
func BlackScholes(p option.Params) option.Outcome {
	if p.Expired() {
		return expired(p)
	}
	if p.Vol == 0 {
		return deterministic(p)
	}

	S, K, sigma, T, r, q := p.Spot, p.Strike, p.Vol, p.Maturity, p.Rate, p.Dividend
	d1, d2 := d12(p)
	sqrtT := math.Sqrt(T)
	sst := sigma * sqrtT
	qf, df := math.Exp(-q*T), math.Exp(-r*T)
	pdf1 := util.NormPDF(d1)

	var price, delta, theta, rho, charm float64
	gamma := qf * pdf1 / (S * sst)
	vega := S * qf * pdf1 * sqrtT
	decay := -S * pdf1 * sigma * qf / (2 * sqrtT)
	// common term of charm
	drift := qf * pdf1 * (2*(r-q)*T - d2*sst) / (2 * T * sst)

	if p.IsCall() {
		nd1, nd2 := util.NormCDF(d1), util.NormCDF(d2)
		price = S*qf*nd1 - K*df*nd2
		delta = qf * nd1
		theta = decay - r*K*df*nd2 + q*S*qf*nd1
		rho = K * T * df * nd2
		charm = q*qf*nd1 - drift
	} else {
		nd1, nd2 := util.NormCDF(-d1), util.NormCDF(-d2)
		price = K*df*nd2 - S*qf*nd1
		delta = -qf * nd1
		theta = decay + r*K*df*nd2 - q*S*qf*nd1
		rho = -K * T * df * nd2
		charm = -q*qf*nd1 - drift
	}

	higher := &option.HigherOrderGreeks{
		Vanna: -qf * pdf1 * d2 / sigma,
		Volga: vega * d1 * d2 / sigma,
		Charm: charm,
		Veta:  -vega * (q + (r-q)*d1/sst - (1+d1*d2)/(2*T)),
		Speed: -gamma / S * (d1/sst + 1),
		Zomma: gamma * (d1*d2 - 1) / sigma,
		Color: -qf * pdf1 / (2 * S * T * sst) * (2*q*T + 1 + (2*(r-q)*T-d2*sst)*d1/sst),
	}

	return option.Outcome{
		Price: price,
		Greeks: option.Greeks{
			Delta: delta,
			Gamma: gamma,
			Theta: theta / util.CalendarDays,
			Vega:  vega / 100,
			Rho:   rho / 100,
		},
		HigherOrder:  higher,
		GreeksSource: option.SourceAnalytic,
	}
}

// Price is BlackScholes without the Greeks.
func Price(p option.Params) float64 {
	return BlackScholes(p).Price
}
