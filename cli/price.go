package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/banachtech/zebra-engine/analytic"
	"github.com/banachtech/zebra-engine/data"
	"github.com/banachtech/zebra-engine/option"
	"github.com/banachtech/zebra-engine/pricer"
	"github.com/banachtech/zebra-engine/util"
)

// contract collects the flags that describe a vanilla contract.
type contract struct {
	params   option.Params
	typ      string
	expiry   string
	business bool
}

func (c *contract) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&c.params.Spot, "spot", 100, "underlying spot price")
	f.Float64Var(&c.params.Strike, "strike", 100, "strike price")
	f.Float64Var(&c.params.Vol, "vol", 0.2, "annual volatility")
	f.Float64Var(&c.params.Maturity, "maturity", 1, "years to expiry")
	f.Float64Var(&c.params.Rate, "rate", 0.05, "continuously compounded risk-free rate")
	f.Float64Var(&c.params.Dividend, "dividend", 0, "continuous dividend yield")
	f.StringVar(&c.typ, "type", string(option.Call), "call or put")
	f.StringVar(&c.expiry, "expiry", "", "expiry date (YYYY-MM-DD), overrides --maturity")
	f.BoolVar(&c.business, "business-days", false, "measure --expiry in NYSE business days over 252")
}

// resolve returns the contract as of now.
func (c *contract) resolve(now time.Time) (option.Params, error) {
	p := c.params
	p.Type = option.Type(c.typ)
	if c.expiry == "" {
		return p, nil
	}
	expiry, err := time.Parse(util.Layout, c.expiry)
	if err != nil {
		return p, fmt.Errorf("expiry: %w", err)
	}
	if c.business {
		if p.Maturity, err = util.BusinessYearFraction(now, expiry); err != nil {
			return p, err
		}
		return p, nil
	}
	p.Maturity = util.YearFraction(now, expiry)
	return p, nil
}

// request collects the model flags of a pricing request.
type request struct {
	contract
	model       string
	file        string
	paths       int
	steps       int
	seed        int64
	american    bool
	payout      float64
	noAnti      bool
	noControl   bool
	heston      option.Heston
	jump        option.Jump
	barrier     option.Barrier
	barrierKind string
}

func (r *request) bind(cmd *cobra.Command) {
	r.contract.bind(cmd)
	f := cmd.Flags()
	f.StringVar(&r.model, "model", string(pricer.BlackScholes), fmt.Sprintf("pricing model %v", pricer.Models))
	f.StringVar(&r.file, "request", "", "JSON request file, overrides every other flag")
	f.IntVar(&r.paths, "paths", 0, "Monte Carlo paths (0 uses the configured default)")
	f.IntVar(&r.steps, "steps", 0, "time steps or tree steps (0 uses the configured default)")
	f.Int64Var(&r.seed, "seed", -1, "random seed for reproducible simulation (-1 seeds from the clock)")
	f.BoolVar(&r.american, "american", false, "allow early exercise (binomial)")
	f.Float64Var(&r.payout, "payout", 1, "cash payout (digital)")
	f.BoolVar(&r.noAnti, "no-antithetic", false, "disable antithetic variates (monte-carlo)")
	f.BoolVar(&r.noControl, "no-control-variate", false, "disable the control variate (monte-carlo)")
	f.Float64Var(&r.heston.Kappa, "kappa", 2, "variance mean reversion (heston)")
	f.Float64Var(&r.heston.Theta, "theta", 0.04, "long-run variance (heston)")
	f.Float64Var(&r.heston.Xi, "xi", 0.3, "vol of vol (heston)")
	f.Float64Var(&r.heston.Rho, "rho", -0.7, "spot/variance correlation (heston)")
	f.Float64Var(&r.heston.V0, "v0", 0.04, "initial variance (heston)")
	f.Float64Var(&r.jump.Lambda, "lambda", 0.1, "jumps per year (jump-diffusion)")
	f.Float64Var(&r.jump.MuJ, "mu-j", -0.05, "mean log jump (jump-diffusion)")
	f.Float64Var(&r.jump.SigmaJ, "sigma-j", 0.1, "log jump volatility (jump-diffusion)")
	f.Float64Var(&r.barrier.Level, "barrier", 120, "barrier level (barrier)")
	f.StringVar(&r.barrierKind, "barrier-kind", string(option.UpAndOut), "up-and-out, up-and-in, down-and-out or down-and-in")
	f.Float64Var(&r.barrier.Rebate, "rebate", 0, "rebate paid when a knock-out barrier is hit (barrier)")
}

func (r *request) build(now time.Time) (pricer.Request, error) {
	if r.file != "" {
		return data.Open[pricer.Request](r.file)
	}
	p, err := r.resolve(now)
	if err != nil {
		return pricer.Request{}, err
	}
	req := pricer.Request{
		Model:    pricer.Model(r.model),
		Params:   p,
		Paths:    r.paths,
		Steps:    r.steps,
		American: r.american,
		Payout:   r.payout,
	}
	if r.seed >= 0 {
		seed := uint64(r.seed)
		req.Seed = &seed
	}
	if r.noAnti {
		req.Antithetic = new(bool)
	}
	if r.noControl {
		req.ControlVariate = new(bool)
	}
	switch req.Model {
	case pricer.Heston:
		h := r.heston
		req.Heston = &h
	case pricer.JumpDiffusion:
		j := r.jump
		req.Jump = &j
	case pricer.Barrier:
		b := r.barrier
		b.Kind = option.BarrierKind(r.barrierKind)
		req.Barrier = &b
	}
	return req, nil
}

func newPriceCmd(a *app) *cobra.Command {
	var r request
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price an option with one of the supported models",
		Example: `  zebra price --model binomial --type put --american --steps 500
  zebra price --model barrier --barrier 130 --barrier-kind up-and-out --seed 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := r.build(time.Now())
			if err != nil {
				return err
			}
			out, err := a.engine.Price(cmd.Context(), req)
			if err != nil {
				return err
			}
			if a.json {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return printOutcome(cmd, req, out)
		},
	}
	r.bind(cmd)
	return cmd
}

func printOutcome(cmd *cobra.Command, req pricer.Request, out option.Outcome) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "model\t%s\n", req.Model)
	fmt.Fprintf(w, "price\t%.6f\n", out.Price)
	g := out.Greeks
	for _, row := range []struct {
		name string
		v    float64
	}{
		{option.GreekDelta, g.Delta}, {option.GreekGamma, g.Gamma}, {option.GreekTheta, g.Theta},
		{option.GreekVega, g.Vega}, {option.GreekRho, g.Rho},
	} {
		note := ""
		if out.IsBorrowed(row.name) {
			note = "\t(black-scholes)"
		}
		fmt.Fprintf(w, "%s\t%.6f%s\n", row.name, row.v, note)
	}
	if h := out.HigherOrder; h != nil {
		fmt.Fprintf(w, "vanna\t%.6f\nvolga\t%.6f\ncharm\t%.6f\nveta\t%.6f\nspeed\t%.6f\nzomma\t%.6f\ncolor\t%.6f\n",
			h.Vanna, h.Volga, h.Charm, h.Veta, h.Speed, h.Zomma, h.Color)
	}
	if d := out.Diagnostics; d != nil {
		if d.Paths > 0 {
			fmt.Fprintf(w, "std error\t%.6f\npaths\t%d\n", d.StdErr, d.Paths)
		}
		if d.Steps > 0 {
			fmt.Fprintf(w, "steps\t%d\n", d.Steps)
		}
		if d.KnockoutProbability != nil {
			fmt.Fprintf(w, "barrier hit probability\t%.4f\n", *d.KnockoutProbability)
		}
		if d.EarlyExercisePremium != nil {
			fmt.Fprintf(w, "early exercise premium\t%.6f\n", *d.EarlyExercisePremium)
		}
	}
	return w.Flush()
}

func newIVCmd(a *app) *cobra.Command {
	var (
		c      contract
		price  float64
		quotes string
		opts   analytic.IVOptions
	)
	cmd := &cobra.Command{
		Use:   "iv",
		Short: "Solve for Black-Scholes implied volatility",
		Example: `  zebra iv --price 10.45 --spot 100 --strike 100 --maturity 1
  zebra iv --quotes quotes.csv --spot 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.resolve(time.Now())
			if err != nil {
				return err
			}
			var qs []data.Quote
			switch {
			case quotes != "":
				if qs, err = data.LoadQuotes(quotes); err != nil {
					return err
				}
			case price > 0:
				qs = []data.Quote{{Strike: p.Strike, Maturity: p.Maturity, Price: price, Type: p.Type}}
			default:
				return errors.New("either --price or --quotes is required")
			}

			type row struct {
				data.Quote
				analytic.IVResult
			}
			rows := make([]row, len(qs))
			for i, q := range qs {
				p.Strike, p.Maturity, p.Type = q.Strike, q.Maturity, q.Type
				res, err := a.engine.ImpliedVol(cmd.Context(), q.Price, p, opts)
				if err != nil {
					return fmt.Errorf("quote %d: %w", i+1, err)
				}
				rows[i] = row{q, res}
			}
			if a.json {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "type\tstrike\tmaturity\tprice\timplied vol\titerations\t")
			for _, r := range rows {
				vol := fmt.Sprintf("%.6f", r.Vol)
				if !r.Converged {
					vol += " NOT CONVERGED"
				}
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%s\t%d\t\n", r.Type, r.Strike, r.Maturity, r.Price, vol, r.Iterations)
			}
			return w.Flush()
		},
	}
	c.bind(cmd)
	cmd.Flags().Float64Var(&price, "price", 0, "market price of the option")
	cmd.Flags().StringVar(&quotes, "quotes", "", "CSV of quotes with strike, maturity, price and type columns")
	cmd.Flags().Float64Var(&opts.Guess, "guess", 0, "initial volatility (0 uses the configured default)")
	cmd.Flags().Float64Var(&opts.Tolerance, "tolerance", 0, "price tolerance (0 uses the configured default)")
	cmd.Flags().IntVar(&opts.MaxIterations, "max-iterations", 0, "iteration cap (0 uses the configured default)")
	return cmd
}
