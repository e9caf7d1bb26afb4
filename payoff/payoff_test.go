package payoff

import (
	"testing"

	"github.com/banachtech/zebra-engine/option"
	"github.com/stretchr/testify/require"
)

var call = option.Params{Spot: 100, Strike: 100, Vol: 0.2, Maturity: 1, Rate: 0.05, Type: option.Call}

func TestVanilla(t *testing.T) {
	require.Equal(t, 15.0, Vanilla{call}.Payout([]float64{100, 130, 115}))
	put := call
	put.Type = option.Put
	require.Equal(t, 0.0, Vanilla{put}.Payout([]float64{100, 130, 115}))
}

func TestAsian(t *testing.T) {
	path := []float64{100, 110, 120, 130}
	require.Equal(t, 120.0, Average(path))
	require.Equal(t, 20.0, Asian{call}.Payout(path))
	// initial spot is not observed
	require.Equal(t, 0.0, Asian{call}.Payout([]float64{1000, 90, 100}))
	require.Equal(t, 100.0, Average([]float64{100}))
}

func TestBarrier(t *testing.T) {
	type testCases struct {
		name   string
		kind   option.BarrierKind
		level  float64
		path   []float64
		hit    bool
		payout float64
	}

	for _, test := range []testCases{
		{name: "UP_OUT_NOT_HIT", kind: option.UpAndOut, level: 130, path: []float64{100, 110, 120}, hit: false, payout: 20},
		{name: "UP_OUT_HIT", kind: option.UpAndOut, level: 115, path: []float64{100, 110, 120}, hit: true, payout: 2},
		{name: "UP_OUT_TOUCH", kind: option.UpAndOut, level: 110, path: []float64{100, 110, 105}, hit: true, payout: 2},
		{name: "UP_IN_HIT", kind: option.UpAndIn, level: 115, path: []float64{100, 116, 108}, hit: true, payout: 8},
		{name: "UP_IN_NOT_HIT", kind: option.UpAndIn, level: 130, path: []float64{100, 116, 108}, hit: false, payout: 2},
		{name: "DOWN_OUT_HIT", kind: option.DownAndOut, level: 90, path: []float64{100, 89, 120}, hit: true, payout: 2},
		{name: "DOWN_IN_HIT", kind: option.DownAndIn, level: 90, path: []float64{100, 90, 120}, hit: true, payout: 20},
		{name: "DOWN_IN_NOT_HIT", kind: option.DownAndIn, level: 80, path: []float64{100, 90, 120}, hit: false, payout: 2},
		{name: "START_NOT_OBSERVED", kind: option.DownAndOut, level: 100, path: []float64{100, 101, 120}, hit: false, payout: 20},
	} {
		t.Run(test.name, func(t *testing.T) {
			b := Barrier{Params: call, Barrier: option.Barrier{Level: test.level, Kind: test.kind, Rebate: 2}}
			require.Equal(t, test.hit, b.Triggered(test.path))
			require.Equal(t, test.payout, b.Payout(test.path))
		})
	}
}

func TestInterfaces(t *testing.T) {
	var _ Payoff = Vanilla{}
	var _ Payoff = Asian{}
	var _ Payoff = Barrier{}
	var _ Trigger = Barrier{}
}
