package risk

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/banachtech/zebra-engine/analytic"
	"github.com/banachtech/zebra-engine/option"
)

// Level grades the size of an aggregate Greek.
type Level string

const (
	Low    Level = "low"
	Medium Level = "medium"
	High   Level = "high"
)

// Thresholds are the absolute exposures above which a Greek is graded
// medium. Twice the threshold is high.
var Thresholds = map[string]float64{
	option.GreekDelta: 1000,
	option.GreekGamma: 100,
	option.GreekTheta: 500,
	option.GreekVega:  1000,
}

const defaultThreshold = 1000

// Grade returns the risk level of an aggregate exposure to greek.
func Grade(greek string, v float64) Level {
	t, ok := Thresholds[greek]
	if !ok {
		t = defaultThreshold
	}
	switch a := math.Abs(v); {
	case a > 2*t:
		return High
	case a > t:
		return Medium
	}
	return Low
}

// PositionRisk is one position valued and scaled by its quantity.
type PositionRisk struct {
	Position
	Price  float64         `json:"price"`
	Value  decimal.Decimal `json:"value"`
	Greeks option.Greeks   `json:"greeks"`
}

// Hedge sizes the trades that flatten the book's exposures.
type Hedge struct {
	Shares int64   `json:"shares"`
	Gamma  float64 `json:"gammaContracts"`
	Vega   float64 `json:"vegaContracts"`
}

// Summary aggregates a book.
type Summary struct {
	Positions []PositionRisk   `json:"positions"`
	Value     decimal.Decimal  `json:"value"`
	Greeks    option.Greeks    `json:"greeks"`
	Hedge     Hedge            `json:"hedge"`
	Levels    map[string]Level `json:"levels"`
}

func scale(g option.Greeks, m float64) option.Greeks {
	return option.Greeks{Delta: g.Delta * m, Gamma: g.Gamma * m, Theta: g.Theta * m, Vega: g.Vega * m, Rho: g.Rho * m}
}

func add(a, b option.Greeks) option.Greeks {
	return option.Greeks{Delta: a.Delta + b.Delta, Gamma: a.Gamma + b.Gamma, Theta: a.Theta + b.Theta, Vega: a.Vega + b.Vega, Rho: a.Rho + b.Rho}
}

func assess(p Position) PositionRisk {
	r := PositionRisk{Position: p}
	if p.stock() {
		r.Price = p.Params.Spot
		r.Greeks = option.Greeks{Delta: float64(p.Quantity)}
	} else {
		out := analytic.BlackScholes(p.Params)
		r.Price = out.Price
		r.Greeks = scale(out.Greeks, p.multiplier())
	}
	r.Value = decimal.NewFromFloat(r.Price).Mul(decimal.NewFromFloat(p.multiplier())).Round(2)
	return r
}

// HedgeFor returns the share trade that neutralises delta and the option
// exposures needed to neutralise gamma and vega. Flat exposures give 0, not
// negative zero.
func HedgeFor(g option.Greeks) Hedge {
	return Hedge{
		Shares: -int64(math.Round(g.Delta)),
		Gamma:  0 - math.Round(g.Gamma*100)/100,
		Vega:   0 - math.Round(g.Vega*10)/10,
	}
}

// Assess values every position of book and totals the exposures.
func Assess(book []Position) (Summary, error) {
	s := Summary{Positions: make([]PositionRisk, len(book)), Value: decimal.Zero}
	for i, p := range book {
		if err := p.Validate(); err != nil {
			return Summary{}, fmt.Errorf("position %d: %w", i, err)
		}
		r := assess(p)
		s.Positions[i] = r
		s.Value = s.Value.Add(r.Value)
		s.Greeks = add(s.Greeks, r.Greeks)
	}
	s.Hedge = HedgeFor(s.Greeks)
	s.Levels = map[string]Level{
		option.GreekDelta: Grade(option.GreekDelta, s.Greeks.Delta),
		option.GreekGamma: Grade(option.GreekGamma, s.Greeks.Gamma),
		option.GreekTheta: Grade(option.GreekTheta, s.Greeks.Theta),
		option.GreekVega:  Grade(option.GreekVega, s.Greeks.Vega),
		option.GreekRho:   Grade(option.GreekRho, s.Greeks.Rho),
	}
	return s, nil
}
