// Package mc simulates price paths under pluggable dynamics and prices
// vanilla and path-dependent options by Monte Carlo.
package mc

import (
	"math"

	"github.com/banachtech/zebra-engine/util"
)

// State is the simulated state of one path. V is the instantaneous variance
// for stochastic volatility dynamics and unused otherwise.
type State struct {
	S, V float64
}

// Draw carries the random inputs of one time step. Z drives the asset, Z2 a
// second factor (variance or jump size) and U a uniform for jump arrival.
type Draw struct {
	Z, Z2, U float64
}

// Dynamics describes a price process. Step never draws random numbers
// itself; the caller supplies them so paths can be replayed or correlated.
type Dynamics interface {
	// Start returns the initial state for spot s.
	Start(s float64) State
	// Draw takes the random inputs for one step from n.
	Draw(n *util.Normals) Draw
	// Step advances st by dt.
	Step(st State, dt float64, d Draw) State
}

// GBM is geometric Brownian motion, stepped exactly in log space.
type GBM struct {
	Rate, Dividend, Vol float64
}

func (m GBM) Start(s float64) State {
	return State{S: s}
}

func (m GBM) Draw(n *util.Normals) Draw {
	return Draw{Z: n.Next()}
}

func (m GBM) Step(st State, dt float64, d Draw) State {
	drift := (m.Rate - m.Dividend - 0.5*m.Vol*m.Vol) * dt
	st.S *= math.Exp(drift + m.Vol*math.Sqrt(dt)*d.Z)
	return st
}

// Walk advances s0 over steps equal intervals of T using the supplied draws
// and calls visit after every step. Draws shorter than steps are an error of
// the caller.
func Walk(dyn Dynamics, s0, T float64, draws []Draw, visit func(i int, st State)) State {
	dt := T / float64(len(draws))
	st := dyn.Start(s0)
	for i, d := range draws {
		st = dyn.Step(st, dt, d)
		if visit != nil {
			visit(i, st)
		}
	}
	return st
}

// Path simulates one path and returns the spot at each step, starting with s0.
func Path(dyn Dynamics, s0, T float64, steps int, n *util.Normals) []float64 {
	out := make([]float64, steps+1)
	Fill(dyn, s0, T, out, n)
	return out
}

// Fill writes a path into buf, which must hold steps+1 values, and returns
// the final state.
func Fill(dyn Dynamics, s0, T float64, buf []float64, n *util.Normals) State {
	steps := len(buf) - 1
	buf[0] = s0
	dt := T / float64(steps)
	st := dyn.Start(s0)
	for i := 1; i <= steps; i++ {
		st = dyn.Step(st, dt, dyn.Draw(n))
		buf[i] = st.S
	}
	return st
}

// Terminal simulates one path and returns only its final state.
func Terminal(dyn Dynamics, s0, T float64, steps int, n *util.Normals) State {
	dt := T / float64(steps)
	st := dyn.Start(s0)
	for i := 0; i < steps; i++ {
		st = dyn.Step(st, dt, dyn.Draw(n))
	}
	return st
}
