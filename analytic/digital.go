package analytic

import (
	"math"

	"github.com/banachtech/zebra-engine/option"
	"github.com/banachtech/zebra-engine/util"
)

// Digital prices a cash-or-nothing option paying payout when it finishes in
// the money. Theta, vega and rho are reported as zero. Delta and gamma grow
// without bound near S=K as T goes to zero; that is the instrument, not a
// numerical fault.
func Digital(p option.Params, payout float64) option.Outcome {
	out := option.Outcome{GreeksSource: option.SourceAnalytic}
	if p.Expired() {
		if p.Intrinsic() > 0 {
			out.Price = payout
		}
		return out
	}

	df := math.Exp(-p.Rate * p.Maturity)
	if p.Vol == 0 {
		fwd := p.Forward()
		switch {
		case fwd == p.Strike:
			out.Price = 0.5 * payout * df
		case (fwd > p.Strike) == p.IsCall():
			out.Price = payout * df
		}
		return out
	}

	d1, d2 := d12(p)
	sst := p.Vol * math.Sqrt(p.Maturity)
	pdf2 := util.NormPDF(d2)
	sign := 1.0
	if !p.IsCall() {
		sign = -1
	}
	out.Price = payout * df * util.NormCDF(sign*d2)
	out.Greeks.Delta = sign * payout * df * pdf2 / (p.Spot * sst)
	out.Greeks.Gamma = -sign * payout * df * pdf2 * d1 / (p.Spot * p.Spot * sst * sst)
	return out
}
