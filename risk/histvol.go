package risk

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/banachtech/zebra-engine/util"
)

// DefaultWindow is the rolling window, in returns, of HistoricalVol.
const DefaultWindow = 30

// Regime classifies the latest volatility against its own history.
type Regime string

const (
	RegimeLow    Regime = "low"
	RegimeNormal Regime = "normal"
	RegimeHigh   Regime = "high"
)

var ErrShortSeries = errors.New("not enough prices for the window")

// VolSeries is annualised rolling volatility. Vols[i] covers the Window
// log returns ending at Returns[i+Window-1].
type VolSeries struct {
	Window  int       `json:"window"`
	Returns []float64 `json:"returns"`
	Vols    []float64 `json:"vols"`
	Stats   VolStats  `json:"stats"`
}

// VolStats summarise a VolSeries.
type VolStats struct {
	Current float64 `json:"current"`
	Mean    float64 `json:"mean"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	P25     float64 `json:"p25"`
	P75     float64 `json:"p75"`
	Regime  Regime  `json:"regime"`
}

// LogReturns returns ln(p[i]/p[i-1]).
func LogReturns(closes []float64) ([]float64, error) {
	for i, c := range closes {
		if !(c > 0) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("close %d: price must be positive, got %v", i, c)
		}
	}
	if len(closes) < 2 {
		return nil, nil
	}
	out := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		out[i-1] = math.Log(closes[i] / closes[i-1])
	}
	return out, nil
}

// HistoricalVol computes rolling annualised volatility, the square root of
// the sample variance of each window times the trading days in a year.
// A non-positive window uses DefaultWindow.
func HistoricalVol(closes []float64, window int) (VolSeries, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	if window < 2 {
		return VolSeries{}, fmt.Errorf("%w: window must be at least 2", ErrShortSeries)
	}
	rets, err := LogReturns(closes)
	if err != nil {
		return VolSeries{}, err
	}
	if len(rets) < window {
		return VolSeries{}, fmt.Errorf("%w: %d prices, window %d", ErrShortSeries, len(closes), window)
	}

	vols := make([]float64, len(rets)-window+1)
	for i := range vols {
		v := stat.Variance(rets[i:i+window], nil)
		vols[i] = math.Sqrt(v * util.TradingDays)
	}
	return VolSeries{Window: window, Returns: rets, Vols: vols, Stats: summarise(vols)}, nil
}

func summarise(vols []float64) VolStats {
	sorted := slices.Clone(vols)
	slices.Sort(sorted)
	s := VolStats{
		Current: vols[len(vols)-1],
		Mean:    stat.Mean(vols, nil),
		Min:     sorted[0],
		Max:     sorted[len(sorted)-1],
		P25:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		P75:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Regime:  RegimeNormal,
	}
	switch {
	case s.Current > s.P75:
		s.Regime = RegimeHigh
	case s.Current < s.P25:
		s.Regime = RegimeLow
	}
	return s
}
