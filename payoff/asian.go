package payoff

import "github.com/banachtech/zebra-engine/option"

// Asian is an arithmetic average-price option. The average runs over every
// observation after the initial spot.
type Asian struct {
	option.Params
}

func (a Asian) Payout(path []float64) float64 {
	return a.Payoff(Average(path))
}

// Average is the mean of path excluding path[0].
func Average(path []float64) float64 {
	if len(path) < 2 {
		return path[0]
	}
	var sum float64
	for _, s := range path[1:] {
		sum += s
	}
	return sum / float64(len(path)-1)
}
