package mc

import (
	"math"
	"testing"

	"github.com/banachtech/zebra-engine/option"
	"github.com/banachtech/zebra-engine/util"
	"github.com/stretchr/testify/require"
)

func TestGBMStep(t *testing.T) {
	m := GBM{Rate: 0.05, Dividend: 0.01, Vol: 0.2}
	st := m.Step(m.Start(100), 0.5, Draw{Z: 1.3})
	want := 100 * math.Exp((0.05-0.01-0.02)*0.5+0.2*math.Sqrt(0.5)*1.3)
	require.InDelta(t, want, st.S, 1e-12)
}

func TestHestonStep(t *testing.T) {
	m := HestonSV{Rate: 0.03, Heston: option.Heston{Kappa: 2, Theta: 0.04, Xi: 0.5, Rho: -0.6, V0: 0.04}}
	dt := 0.01

	st := m.Step(m.Start(100), dt, Draw{Z: 0.5, Z2: -1})
	v := 0.04 + 2*(0.04-0.04)*dt + 0.5*math.Sqrt(0.04*dt)*0.5
	zs := -0.6*0.5 + math.Sqrt(1-0.36)*(-1)
	s := 100 + 0.03*100*dt + 100*math.Sqrt(v*dt)*zs
	require.InDelta(t, v, st.V, 1e-15)
	require.InDelta(t, s, st.S, 1e-12)

	// negative variance is truncated in drift and diffusion but kept in state
	st = m.Step(State{S: 100, V: -0.01}, dt, Draw{Z: 3, Z2: 1})
	require.InDelta(t, -0.01+2*0.04*dt, st.V, 1e-15)
	require.InDelta(t, 100+0.03*100*dt, st.S, 1e-12)
	require.Zero(t, m.Vol(State{V: -1}))
}

func TestMertonStep(t *testing.T) {
	m := MertonJump{Rate: 0.05, Vol: 0.2, Jump: option.Jump{Lambda: 1, MuJ: -0.1, SigmaJ: 0.3}}
	dt := 0.01
	drift := (0.05 - 0.02 - m.Compensator()) * dt

	noJump := m.Step(m.Start(100), dt, Draw{Z: 0.4, Z2: 2, U: 0.5})
	require.InDelta(t, 100*math.Exp(drift+0.2*0.1*0.4), noJump.S, 1e-12)

	jump := m.Step(m.Start(100), dt, Draw{Z: 0.4, Z2: 2, U: 0.001})
	require.InDelta(t, noJump.S*math.Exp(-0.1+0.3*2), jump.S, 1e-12)
	require.InDelta(t, 0.01, m.StepJumpProbability(1, 100), 1e-15)
}

func TestWalkUsesInjectedDraws(t *testing.T) {
	m := GBM{Rate: 0.02, Vol: 0.3}
	draws := []Draw{{Z: 1}, {Z: -1}, {Z: 0.5}, {Z: -0.5}}
	var seen []float64
	end := Walk(m, 100, 1, draws, func(i int, st State) {
		seen = append(seen, st.S)
	})
	require.Len(t, seen, 4)
	require.Equal(t, end.S, seen[3])
	// the draws sum to zero, so only the drift remains
	require.InDelta(t, 100*math.Exp(0.02-0.045), end.S, 1e-12)
}

func TestPathAndTerminalAgree(t *testing.T) {
	m := GBM{Rate: 0.02, Vol: 0.3}
	path := Path(m, 100, 1, 50, util.NewNormals(util.NewSource(5)))
	require.Len(t, path, 51)
	require.Equal(t, 100.0, path[0])
	st := Terminal(m, 100, 1, 50, util.NewNormals(util.NewSource(5)))
	require.Equal(t, path[50], st.S)
}

func TestSplit(t *testing.T) {
	cfg := Config{Paths: 1003, Workers: 4, Source: util.NewSource(1)}
	bs := split(cfg)
	require.Len(t, bs, 4)
	total := 0
	for i, b := range bs {
		require.Equal(t, i, b.index)
		require.Equal(t, total, b.first)
		total += b.paths
	}
	require.Equal(t, 1003, total)
	require.Equal(t, 251, bs[0].paths)
	require.Equal(t, 250, bs[3].paths)
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}.withDefaults(DefaultExoticSteps)
	require.Equal(t, DefaultPaths, c.Paths)
	require.Equal(t, DefaultExoticSteps, c.Steps)
	require.Positive(t, c.Workers)
	require.NotNil(t, c.Source)
	require.NotNil(t, c.Logger)

	c = Config{Paths: 2, Workers: 8}.withDefaults(1)
	require.Equal(t, 2, c.Workers)
}
