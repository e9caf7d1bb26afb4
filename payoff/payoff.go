// Package payoff holds path payout rules. A path is the simulated spot at
// every observation, starting with the initial spot.
package payoff

import "github.com/banachtech/zebra-engine/option"

// Payoff maps a simulated path to an undiscounted payout.
type Payoff interface {
	Payout(path []float64) float64
}

// Trigger is implemented by payoffs with a contingent event, such as a
// barrier touch, that callers want to count.
type Trigger interface {
	Triggered(path []float64) bool
}

// Vanilla pays the European exercise value at the last observation.
type Vanilla struct {
	option.Params
}

func (v Vanilla) Payout(path []float64) float64 {
	return v.Payoff(path[len(path)-1])
}
