// Package option holds the value objects shared by every pricing model: the
// contract parameters, model extensions, Greeks and the pricing outcome.
package option

import "math"

// Type is the option right.
type Type string

const (
	Call Type = "call"
	Put  Type = "put"
)

// Params describes a European or American vanilla contract on a single
// underlying. Maturity is in years; Rate and Dividend are continuously
// compounded annual rates.
type Params struct {
	Spot     float64 `json:"spot" mapstructure:"spot"`
	Strike   float64 `json:"strike" mapstructure:"strike"`
	Vol      float64 `json:"vol" mapstructure:"vol"`
	Maturity float64 `json:"maturity" mapstructure:"maturity"`
	Rate     float64 `json:"rate" mapstructure:"rate"`
	Dividend float64 `json:"dividend" mapstructure:"dividend"`
	Type     Type    `json:"type" mapstructure:"type"`
}

// IsCall reports whether p is a call.
func (p Params) IsCall() bool {
	return p.Type == Call
}

// Expired reports whether the contract is at (or past) expiry.
func (p Params) Expired() bool {
	return p.Maturity <= 0
}

// Payoff returns the exercise value of the contract at underlying level s.
func (p Params) Payoff(s float64) float64 {
	if p.IsCall() {
		return math.Max(s-p.Strike, 0)
	}
	return math.Max(p.Strike-s, 0)
}

// Intrinsic returns the exercise value at the current spot.
func (p Params) Intrinsic() float64 {
	return p.Payoff(p.Spot)
}

// Discount returns exp(-rT).
func (p Params) Discount() float64 {
	return math.Exp(-p.Rate * p.Maturity)
}

// Forward returns the expected terminal spot S*exp((r-q)T).
func (p Params) Forward() float64 {
	return p.Spot * math.Exp((p.Rate-p.Dividend)*p.Maturity)
}

// Heston extends Params with the parameters of the Heston variance process.
type Heston struct {
	Kappa float64 `json:"kappa" mapstructure:"kappa"` // mean reversion speed
	Theta float64 `json:"theta" mapstructure:"theta"` // long-run variance
	Xi    float64 `json:"xi" mapstructure:"xi"`       // vol of vol
	Rho   float64 `json:"rho" mapstructure:"rho"`     // spot/variance correlation
	V0    float64 `json:"v0" mapstructure:"v0"`       // initial variance
}

// Jump extends Params with Merton jump-diffusion parameters.
type Jump struct {
	Lambda float64 `json:"lambda" mapstructure:"lambda"` // jumps per year
	MuJ    float64 `json:"muJ" mapstructure:"muJ"`       // mean log jump
	SigmaJ float64 `json:"sigmaJ" mapstructure:"sigmaJ"` // log jump volatility
}

// Compensator returns E[exp(J)] - 1, the expected relative jump size.
func (j Jump) Compensator() float64 {
	return math.Exp(j.MuJ+0.5*j.SigmaJ*j.SigmaJ) - 1
}

// BarrierKind is one of the four single-barrier styles.
type BarrierKind string

const (
	UpAndOut   BarrierKind = "up-and-out"
	UpAndIn    BarrierKind = "up-and-in"
	DownAndOut BarrierKind = "down-and-out"
	DownAndIn  BarrierKind = "down-and-in"
)

// Up reports whether the barrier sits above the spot.
func (k BarrierKind) Up() bool {
	return k == UpAndOut || k == UpAndIn
}

// KnockOut reports whether touching the barrier deactivates the option.
func (k BarrierKind) KnockOut() bool {
	return k == UpAndOut || k == DownAndOut
}

// Barrier extends Params with a single monitored barrier. Rebate is paid
// whenever the contingent condition fails.
type Barrier struct {
	Level  float64     `json:"level" mapstructure:"level"`
	Kind   BarrierKind `json:"kind" mapstructure:"kind"`
	Rebate float64     `json:"rebate" mapstructure:"rebate"`
}

// Breached reports whether s touches the barrier.
func (b Barrier) Breached(s float64) bool {
	if b.Kind.Up() {
		return s >= b.Level
	}
	return s <= b.Level
}
