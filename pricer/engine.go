package pricer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/banachtech/zebra-engine/analytic"
	"github.com/banachtech/zebra-engine/lattice"
	"github.com/banachtech/zebra-engine/mc"
	"github.com/banachtech/zebra-engine/option"
	"github.com/banachtech/zebra-engine/util"
)

// Settings are the engine-wide defaults applied when a request leaves a
// field at zero.
type Settings struct {
	Paths       int                `mapstructure:"paths" validate:"gte=0"`
	Steps       int                `mapstructure:"steps" validate:"gte=0"`
	ExoticSteps int                `mapstructure:"exotic_steps" validate:"gte=0"`
	TreeSteps   int                `mapstructure:"tree_steps" validate:"gte=0,ne=1"`
	Workers     int                `mapstructure:"workers" validate:"gte=0"`
	IV          analytic.IVOptions `mapstructure:"iv"`
}

// DefaultSettings uses a fixed worker count so that seeded runs reproduce
// across machines.
func DefaultSettings() Settings {
	return Settings{
		Paths:       mc.DefaultPaths,
		Steps:       mc.DefaultSteps,
		ExoticSteps: mc.DefaultExoticSteps,
		TreeSteps:   lattice.DefaultSteps,
		Workers:     8,
		IV:          analytic.DefaultIVOptions(),
	}
}

var ErrInvalidPrice = errors.New("market price must be positive and finite")

// Engine prices requests. It holds no state between calls and is safe for
// concurrent use.
type Engine struct {
	settings Settings
	log      *slog.Logger
}

func New(s Settings, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{settings: s, log: log}
}

// Settings returns the engine defaults.
func (e *Engine) Settings() Settings {
	return e.settings
}

func pick(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func (e *Engine) simConfig(req Request, steps int) mc.Config {
	cfg := mc.Config{
		Paths:   pick(req.Paths, e.settings.Paths),
		Steps:   pick(req.Steps, steps),
		Workers: e.settings.Workers,
		Logger:  e.log,
	}
	if req.Seed != nil {
		cfg.Source = util.NewSource(*req.Seed)
	}
	if req.Antithetic != nil {
		cfg.DisableAntithetic = !*req.Antithetic
	}
	if req.ControlVariate != nil {
		cfg.DisableControlVariate = !*req.ControlVariate
	}
	return cfg
}

// Price validates req and runs the model it names.
func (e *Engine) Price(ctx context.Context, req Request) (option.Outcome, error) {
	if err := req.Validate(); err != nil {
		return option.Outcome{}, err
	}
	start := time.Now()
	out, err := e.dispatch(ctx, req)
	if err != nil {
		return option.Outcome{}, fmt.Errorf("%s: %w", req.Model, err)
	}
	e.log.DebugContext(ctx, "priced",
		slog.String("model", string(req.Model)),
		slog.String("type", string(req.Params.Type)),
		slog.Float64("price", out.Price),
		slog.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

func (e *Engine) dispatch(ctx context.Context, req Request) (option.Outcome, error) {
	p := req.Params
	switch req.Model {
	case BlackScholes:
		return analytic.BlackScholes(p), nil
	case Digital:
		payout := req.Payout
		if payout == 0 {
			payout = 1
		}
		return analytic.Digital(p, payout), nil
	case Binomial:
		return lattice.Binomial(p, lattice.Config{
			Steps:    pick(req.Steps, e.settings.TreeSteps),
			American: req.American,
		})
	case MonteCarlo:
		return mc.Vanilla(ctx, p, e.simConfig(req, 1))
	case Heston:
		return mc.Heston(ctx, p, *req.Heston, e.simConfig(req, e.settings.Steps))
	case JumpDiffusion:
		return mc.JumpDiffusion(ctx, p, *req.Jump, e.simConfig(req, e.settings.Steps))
	case Asian:
		return mc.Asian(ctx, p, e.simConfig(req, e.settings.ExoticSteps))
	case Barrier:
		return mc.Barrier(ctx, p, *req.Barrier, e.simConfig(req, e.settings.ExoticSteps))
	}
	return option.Outcome{}, fmt.Errorf("%w %q", ErrUnknownModel, req.Model)
}

// ImpliedVol inverts the Black-Scholes price. A result that did not converge
// is returned without error; callers check IVResult.Converged.
func (e *Engine) ImpliedVol(ctx context.Context, price float64, p option.Params, opts analytic.IVOptions) (analytic.IVResult, error) {
	if err := p.Validate(); err != nil {
		return analytic.IVResult{}, err
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return analytic.IVResult{}, fmt.Errorf("%w, got %v", ErrInvalidPrice, price)
	}
	if opts == (analytic.IVOptions{}) {
		opts = e.settings.IV
	}
	res := analytic.ImpliedVol(price, p, opts)
	if !res.Converged {
		e.log.WarnContext(ctx, "implied volatility did not converge",
			slog.Float64("market_price", price),
			slog.Float64("last_vol", res.Vol),
			slog.Int("iterations", res.Iterations),
		)
	}
	return res, nil
}
