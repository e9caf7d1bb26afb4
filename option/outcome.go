package option

// Greeks are first-order sensitivities. Theta is per calendar day, Vega per
// one vol point (1%) and Rho per one rate point (1%).
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// HigherOrderGreeks are the second and third order cross sensitivities. Only
// the analytic model produces them.
type HigherOrderGreeks struct {
	Vanna float64 `json:"vanna"`
	Volga float64 `json:"volga"`
	Charm float64 `json:"charm"`
	Veta  float64 `json:"veta"`
	Speed float64 `json:"speed"`
	Zomma float64 `json:"zomma"`
	Color float64 `json:"color"`
}

// GreeksSource tells the caller where the Greeks of an Outcome came from.
type GreeksSource string

const (
	// SourceAnalytic means the Greeks are closed form for this model.
	SourceAnalytic GreeksSource = "analytic"
	// SourceLattice means delta and gamma come from the tree; the rest are
	// listed in Outcome.Borrowed.
	SourceLattice GreeksSource = "lattice"
	// SourceBorrowed means every Greek was taken from the Black-Scholes
	// model because the model's own estimates are too noisy.
	SourceBorrowed GreeksSource = "borrowed-analytic"
)

// Names of the first-order Greeks, as listed in Outcome.Borrowed.
const (
	GreekDelta = "delta"
	GreekGamma = "gamma"
	GreekTheta = "theta"
	GreekVega  = "vega"
	GreekRho   = "rho"
)

// AllGreeks lists every first-order Greek.
var AllGreeks = []string{GreekDelta, GreekGamma, GreekTheta, GreekVega, GreekRho}

// Diagnostics carries the simulation and lattice side results.
type Diagnostics struct {
	StdErr               float64   `json:"standardError,omitempty"`
	Paths                int       `json:"paths,omitempty"`
	Steps                int       `json:"steps,omitempty"`
	KnockoutProbability  *float64  `json:"knockoutProbability,omitempty"`
	EarlyExercisePremium *float64  `json:"earlyExercisePremium,omitempty"`
	TerminalVols         []float64 `json:"terminalVols,omitempty"`
}

// Outcome is the result of a single pricing call.
type Outcome struct {
	Price        float64            `json:"price"`
	Greeks       Greeks             `json:"greeks"`
	HigherOrder  *HigherOrderGreeks `json:"higherOrderGreeks,omitempty"`
	GreeksSource GreeksSource       `json:"greeksSource"`
	Borrowed     []string           `json:"borrowedGreeks,omitempty"`
	Diagnostics  *Diagnostics       `json:"diagnostics,omitempty"`
}

// IsBorrowed reports whether the named Greek was substituted from the
// analytic model.
func (o Outcome) IsBorrowed(greek string) bool {
	for _, g := range o.Borrowed {
		if g == greek {
			return true
		}
	}
	return false
}

// Borrow returns o with its Greeks replaced by those of the analytic outcome
// a and marked as borrowed.
func (o Outcome) Borrow(a Outcome) Outcome {
	o.Greeks = a.Greeks
	o.GreeksSource = SourceBorrowed
	o.Borrowed = append([]string(nil), AllGreeks...)
	return o
}
