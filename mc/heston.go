package mc

import (
	"math"

	"github.com/banachtech/zebra-engine/option"
	"github.com/banachtech/zebra-engine/util"
)

// HestonSV is the Heston stochastic volatility process discretised with a
// full-truncation Euler scheme. The variance may go negative between steps;
// only its positive part feeds the drift and diffusion.
type HestonSV struct {
	Rate, Dividend float64
	option.Heston
}

func (m HestonSV) Start(s float64) State {
	return State{S: s, V: m.V0}
}

// Draw returns independent normals; Step correlates them.
func (m HestonSV) Draw(n *util.Normals) Draw {
	return Draw{Z: n.Next(), Z2: n.Next()}
}

// Step treats d.Z as the variance shock and builds the asset shock
// rho*Z + sqrt(1-rho^2)*Z2 from it.
func (m HestonSV) Step(st State, dt float64, d Draw) State {
	zv := d.Z
	zs := m.Rho*zv + math.Sqrt(1-m.Rho*m.Rho)*d.Z2

	vp := math.Max(st.V, 0)
	v := st.V + m.Kappa*(m.Theta-vp)*dt + m.Xi*math.Sqrt(vp*dt)*zv

	s := st.S + (m.Rate-m.Dividend)*st.S*dt + st.S*math.Sqrt(math.Max(v, 0)*dt)*zs
	return State{S: s, V: v}
}

// Vol is the truncated instantaneous volatility of st.
func (m HestonSV) Vol(st State) float64 {
	return math.Sqrt(math.Max(st.V, 0))
}
