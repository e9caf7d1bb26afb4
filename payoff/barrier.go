package payoff

import "github.com/banachtech/zebra-engine/option"

// Barrier is a single-barrier option monitored at every observation after
// the initial spot. A knock-out pays the vanilla value unless the barrier
// was touched; a knock-in pays it only if the barrier was touched. The rebate
// is paid otherwise.
type Barrier struct {
	option.Params
	option.Barrier
}

// Triggered reports whether the path touched the barrier.
func (b Barrier) Triggered(path []float64) bool {
	for _, s := range path[1:] {
		if b.Breached(s) {
			return true
		}
	}
	return false
}

func (b Barrier) Payout(path []float64) float64 {
	hit := b.Triggered(path)
	if hit == b.Kind.KnockOut() {
		return b.Rebate
	}
	return b.Payoff(path[len(path)-1])
}
