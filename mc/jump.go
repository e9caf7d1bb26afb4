package mc

import (
	"math"

	"github.com/banachtech/zebra-engine/option"
	"github.com/banachtech/zebra-engine/util"
)

// JumpWarnThreshold is the per-step jump probability above which the
// at-most-one-jump approximation starts to undercount jumps.
const JumpWarnThreshold = 0.1

// MertonJump is GBM with compensated lognormal jumps. At most one jump
// arrives per step, with probability Lambda*dt, so dt must be small
// relative to 1/Lambda.
type MertonJump struct {
	Rate, Dividend, Vol float64
	option.Jump
}

func (m MertonJump) Start(s float64) State {
	return State{S: s}
}

func (m MertonJump) Draw(n *util.Normals) Draw {
	return Draw{Z: n.Next(), Z2: n.Next(), U: n.Uniform()}
}

func (m MertonJump) Step(st State, dt float64, d Draw) State {
	drift := (m.Rate - m.Dividend - 0.5*m.Vol*m.Vol - m.Lambda*m.Compensator()) * dt
	st.S *= math.Exp(drift + m.Vol*math.Sqrt(dt)*d.Z)
	if d.U < m.Lambda*dt {
		st.S *= math.Exp(m.MuJ + m.SigmaJ*d.Z2)
	}
	return st
}

// StepJumpProbability returns Lambda*dt for a maturity split into steps.
func (m MertonJump) StepJumpProbability(T float64, steps int) float64 {
	return m.Lambda * T / float64(steps)
}
