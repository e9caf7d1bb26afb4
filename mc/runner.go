package mc

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sort"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/exp/rand"

	"github.com/banachtech/zebra-engine/util"
)

// Defaults used when Config leaves a field at zero.
const (
	DefaultPaths       = 50000
	DefaultSteps       = 100
	DefaultExoticSteps = 252
	volSampleSize      = 100
	checkEvery         = 4096
)

// Config controls a simulation run. The zero value runs the default path
// count with antithetic and control variates on, seeded from the clock.
type Config struct {
	Paths   int
	Steps   int
	Workers int
	// Source seeds the per-worker generators. A fixed Source with a fixed
	// Workers count reproduces results exactly.
	Source rand.Source

	DisableAntithetic     bool
	DisableControlVariate bool

	Logger *slog.Logger
}

func (c Config) withDefaults(steps int) Config {
	if c.Paths <= 0 {
		c.Paths = DefaultPaths
	}
	if c.Steps <= 0 {
		c.Steps = steps
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Workers > c.Paths {
		c.Workers = c.Paths
	}
	if c.Source == nil {
		c.Source = util.TimeSource()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// tally is a worker's local accumulator. Workers never share one.
type tally struct {
	n      int
	sum    float64
	sumSq  float64
	sumCtl float64
	hits   int
	vols   []float64
}

func (t *tally) add(x float64) {
	t.n++
	t.sum += x
	t.sumSq += x * x
}

func (t *tally) merge(o tally) {
	t.n += o.n
	t.sum += o.sum
	t.sumSq += o.sumSq
	t.sumCtl += o.sumCtl
	t.hits += o.hits
	t.vols = append(t.vols, o.vols...)
}

func (t tally) mean() float64 {
	if t.n == 0 {
		return 0
	}
	return t.sum / float64(t.n)
}

// stdErr is the standard error of the mean around m, using the raw second
// moment. Passing an adjusted m keeps the estimator used by callers that
// apply a control variate after sampling.
func (t tally) stdErr(m float64) float64 {
	if t.n == 0 {
		return 0
	}
	v := t.sumSq/float64(t.n) - m*m
	return math.Sqrt(math.Max(v, 0) / float64(t.n))
}

// batch is the share of paths given to one worker. First is the global index
// of its first path.
type batch struct {
	index int
	first int
	paths int
	seed  uint64
}

func split(cfg Config) []batch {
	seeds := util.Seeds(cfg.Source, cfg.Workers)
	out := make([]batch, cfg.Workers)
	per, rem := cfg.Paths/cfg.Workers, cfg.Paths%cfg.Workers
	first := 0
	for i := range out {
		n := per
		if i < rem {
			n++
		}
		out[i] = batch{index: i, first: first, paths: n, seed: seeds[i]}
		first += n
	}
	return out
}

type partial struct {
	index int
	tally tally
}

// simulate fans the configured paths out over a bounded worker pool. Each
// worker calls work with its own normal stream and merges into a private
// tally; partial results are combined in worker order after Wait so a seeded
// run does not depend on scheduling.
func simulate(ctx context.Context, cfg Config, work func(ctx context.Context, b batch, n *util.Normals, t *tally) error) (tally, error) {
	p := pool.NewWithResults[partial]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(cfg.Workers)
	for _, b := range split(cfg) {
		b := b
		p.Go(func(ctx context.Context) (partial, error) {
			var t tally
			err := work(ctx, b, util.NewNormals(util.NewSource(b.seed)), &t)
			return partial{index: b.index, tally: t}, err
		})
	}
	parts, err := p.Wait()
	if err != nil {
		return tally{}, err
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].index < parts[j].index })
	var total tally
	for _, part := range parts {
		total.merge(part.tally)
	}
	return total, nil
}

// each runs fn for every path in b, checking ctx periodically.
func each(ctx context.Context, b batch, fn func(path int)) error {
	for i := 0; i < b.paths; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		fn(b.first + i)
	}
	return nil
}
