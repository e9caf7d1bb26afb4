package risk

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/banachtech/zebra-engine/analytic"
)

// MinShockedVol floors the volatility after a shock.
const MinShockedVol = 0.01

// Scenario moves spot and volatility by relative percentages.
type Scenario struct {
	Name       string  `json:"name" binding:"required"`
	SpotChange float64 `json:"spotChange"` // percent
	VolChange  float64 `json:"volChange"`  // percent
}

// Scenarios are the predefined market stresses.
var Scenarios = []Scenario{
	{"Market Crash", -20, 80},
	{"Sharp Drop", -10, 40},
	{"Moderate Drop", -5, 15},
	{"Vol Spike", 0, 50},
	{"Vol Crush", 0, -50},
	{"Moderate Rally", 5, -10},
	{"Strong Rally", 10, -20},
	{"Explosive Rally", 20, -30},
	{"Black Swan Event", -35, 150},
	{"Euphoric Surge", 30, -40},
}

var ErrNoScenarios = errors.New("no scenarios to run")

// Shock returns p with spot and vol moved by s.
func (s Scenario) Shock(p Position) Position {
	p.Params.Spot *= 1 + s.SpotChange/100
	p.Params.Vol = math.Max(MinShockedVol, p.Params.Vol*(1+s.VolChange/100))
	return p
}

// ScenarioResult is the revaluation of a book under one scenario.
type ScenarioResult struct {
	Scenario
	Value      decimal.Decimal `json:"value"`
	PnL        decimal.Decimal `json:"pnl"`
	PnLPercent float64         `json:"pnlPercent"`
}

// StressReport holds every scenario result with the extremes picked out.
type StressReport struct {
	BaseValue decimal.Decimal  `json:"baseValue"`
	Results   []ScenarioResult `json:"results"`
	Worst     ScenarioResult   `json:"worst"`
	Best      ScenarioResult   `json:"best"`
}

// unitPrice is the Black-Scholes value of one unit of quantity before the
// contract multiplier.
func unitPrice(p Position) float64 {
	if p.stock() {
		return p.Params.Spot
	}
	return analytic.Price(p.Params)
}

// value is the signed market value of p.
func value(p Position) float64 {
	return unitPrice(p) * p.multiplier()
}

func money(x float64) decimal.Decimal {
	return decimal.NewFromFloat(x).Round(2)
}

// Stress revalues book under each scenario. With no scenarios given the
// predefined set is used. PnLPercent is relative to the gross base value, so
// a short book that loses money reports a negative percentage.
func Stress(book []Position, scenarios []Scenario) (StressReport, error) {
	if len(book) == 0 {
		return StressReport{}, fmt.Errorf("%w: empty book", ErrInvalidPosition)
	}
	for i, p := range book {
		if err := p.Validate(); err != nil {
			return StressReport{}, fmt.Errorf("position %d: %w", i, err)
		}
	}
	if scenarios == nil {
		scenarios = Scenarios
	}
	if len(scenarios) == 0 {
		return StressReport{}, ErrNoScenarios
	}

	var base, gross float64
	for _, p := range book {
		v := value(p)
		base += v
		gross += math.Abs(v)
	}

	rep := StressReport{BaseValue: money(base), Results: make([]ScenarioResult, len(scenarios))}
	for i, s := range scenarios {
		var shocked float64
		for _, p := range book {
			shocked += value(s.Shock(p))
		}
		pnl := shocked - base
		var pct float64
		if gross > 0 {
			pct = pnl / gross * 100
		}
		rep.Results[i] = ScenarioResult{Scenario: s, Value: money(shocked), PnL: money(pnl), PnLPercent: pct}
	}

	rep.Worst, rep.Best = rep.Results[0], rep.Results[0]
	for _, r := range rep.Results[1:] {
		if r.PnL.LessThan(rep.Worst.PnL) {
			rep.Worst = r
		}
		if r.PnL.GreaterThan(rep.Best.PnL) {
			rep.Best = r
		}
	}
	return rep, nil
}
