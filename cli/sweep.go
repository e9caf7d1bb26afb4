package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/banachtech/zebra-engine/data"
	"github.com/banachtech/zebra-engine/option"
	"github.com/banachtech/zebra-engine/sweep"
)

func newSweepCmd(a *app) *cobra.Command {
	var (
		r        request
		spots    []float64
		days     []float64
		field    string
		workers  int
		progress bool
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate a model over a grid of spots and days to expiry",
		Example: `  zebra sweep --field delta
  zebra sweep --model monte-carlo --seed 7 --spots 90,100,110 --days 30,90 --field price`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := r.build(time.Now())
			if err != nil {
				return err
			}
			f := sweep.Field(field)
			if _, err := f.Value(option.Outcome{}); err != nil {
				return err
			}
			g := sweep.Grid{Base: base, Spots: spots, Days: days, Workers: workers}
			if progress {
				n := len(spots)
				if n == 0 {
					n = len(sweep.DefaultSpots(base.Params.Strike))
				}
				m := len(days)
				if m == 0 {
					m = len(sweep.DefaultDays)
				}
				bar := data.ProgressBar(n*m, "sweeping", cmd.ErrOrStderr())
				defer bar.Finish()
				g.OnCell = func(done, total int) { _ = bar.Add(1) }
			}

			s, err := sweep.Run(cmd.Context(), a.engine, g)
			if err != nil {
				return err
			}
			m, err := s.Matrix(f)
			if err != nil {
				return err
			}
			if a.json {
				return writeJSON(cmd.OutOrStdout(), struct {
					Field  sweep.Field `json:"field"`
					Spots  []float64   `json:"spots"`
					Days   []float64   `json:"days"`
					Values [][]float64 `json:"values"`
				}{f, s.Spots, s.Days, m})
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 1, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "%s\\days\t", f)
			for _, spot := range s.Spots {
				fmt.Fprintf(w, "%.2f\t", spot)
			}
			fmt.Fprintln(w)
			for i, d := range s.Days {
				fmt.Fprintf(w, "%g\t", d)
				for _, v := range m[i] {
					fmt.Fprintf(w, "%.4f\t", v)
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}
	r.bind(cmd)
	cmd.Flags().Float64SliceVar(&spots, "spots", nil, "spot axis (default 70% to 126% of strike)")
	cmd.Flags().Float64SliceVar(&days, "days", nil, "days-to-expiry axis (default 1,7,14,30,60,90,180,365)")
	cmd.Flags().StringVar(&field, "field", string(sweep.FieldPrice), "price, delta, gamma, theta, vega or rho")
	cmd.Flags().IntVar(&workers, "workers", 0, "cells priced in parallel (0 uses every CPU)")
	cmd.Flags().BoolVar(&progress, "progress", true, "show a progress bar on stderr")
	return cmd
}
