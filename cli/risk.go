package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/banachtech/zebra-engine/data"
	"github.com/banachtech/zebra-engine/risk"
)

// book collects the flags that name a book of positions: a JSON file, or a
// single option position described on the command line.
type book struct {
	contract
	file     string
	symbol   string
	quantity int64
}

func (b *book) bind(cmd *cobra.Command) {
	b.contract.bind(cmd)
	cmd.Flags().StringVar(&b.file, "book", "", "JSON file with an array of positions")
	cmd.Flags().StringVar(&b.symbol, "symbol", "", "symbol of the single position")
	cmd.Flags().Int64Var(&b.quantity, "quantity", 10, "contracts held, negative for short")
}

func (b *book) load(now time.Time) ([]risk.Position, error) {
	if b.file != "" {
		return data.Open[[]risk.Position](b.file)
	}
	p, err := b.resolve(now)
	if err != nil {
		return nil, err
	}
	return []risk.Position{{Symbol: b.symbol, Kind: risk.Contract, Params: p, Quantity: b.quantity}}, nil
}

func newScenarioCmd(a *app) *cobra.Command {
	var (
		b          book
		file       string
		spotChange float64
		volChange  float64
	)
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Revalue a book under spot and volatility shocks",
		Example: `  zebra scenario --spot 100 --strike 100 --vol 0.25 --maturity 0.25 --quantity 10
  zebra scenario --book book.json --spot-change -15 --vol-change 60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			positions, err := b.load(time.Now())
			if err != nil {
				return err
			}
			var scenarios []risk.Scenario
			if file != "" {
				if scenarios, err = data.Open[[]risk.Scenario](file); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("spot-change") || cmd.Flags().Changed("vol-change") {
				if scenarios == nil {
					scenarios = append(scenarios, risk.Scenarios...)
				}
				scenarios = append(scenarios, risk.Scenario{Name: "Custom", SpotChange: spotChange, VolChange: volChange})
			}
			rep, err := risk.Stress(positions, scenarios)
			if err != nil {
				return err
			}
			if a.json {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "base value\t%s\n\n", rep.BaseValue.StringFixed(2))
			fmt.Fprintln(w, "scenario\tspot %\tvol %\tvalue\tP&L\tP&L %\t")
			for _, r := range rep.Results {
				fmt.Fprintf(w, "%s\t%+g\t%+g\t%s\t%s\t%+.2f\t\n", r.Name, r.SpotChange, r.VolChange,
					r.Value.StringFixed(2), r.PnL.StringFixed(2), r.PnLPercent)
			}
			fmt.Fprintf(w, "\nworst\t%s\t%s\n", rep.Worst.Name, rep.Worst.PnL.StringFixed(2))
			fmt.Fprintf(w, "best\t%s\t%s\n", rep.Best.Name, rep.Best.PnL.StringFixed(2))
			return w.Flush()
		},
	}
	b.bind(cmd)
	cmd.Flags().StringVar(&file, "scenarios", "", "JSON file with an array of scenarios, replacing the predefined set")
	cmd.Flags().Float64Var(&spotChange, "spot-change", 0, "custom scenario spot move in percent")
	cmd.Flags().Float64Var(&volChange, "vol-change", 0, "custom scenario volatility move in percent")
	return cmd
}

func newPortfolioCmd(a *app) *cobra.Command {
	var b book
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Aggregate Greeks of a book and size the hedges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			positions, err := b.load(time.Now())
			if err != nil {
				return err
			}
			sum, err := risk.Assess(positions)
			if err != nil {
				return err
			}
			if a.json {
				return writeJSON(cmd.OutOrStdout(), sum)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "symbol\tkind\tquantity\tprice\tvalue\tdelta\tgamma\ttheta\tvega\t")
			for _, p := range sum.Positions {
				kind := p.Kind
				if kind == "" {
					kind = risk.Contract
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%s\t%.2f\t%.4f\t%.2f\t%.2f\t\n", p.Symbol, kind, p.Quantity, p.Price,
					p.Value.StringFixed(2), p.Greeks.Delta, p.Greeks.Gamma, p.Greeks.Theta, p.Greeks.Vega)
			}
			g := sum.Greeks
			fmt.Fprintf(w, "total\t\t\t\t%s\t%.2f\t%.4f\t%.2f\t%.2f\t\n", sum.Value.StringFixed(2), g.Delta, g.Gamma, g.Theta, g.Vega)
			fmt.Fprintf(w, "risk\t\t\t\t\t%s\t%s\t%s\t%s\t\n", sum.Levels["delta"], sum.Levels["gamma"], sum.Levels["theta"], sum.Levels["vega"])
			fmt.Fprintf(w, "\ndelta hedge\t%d shares\n", sum.Hedge.Shares)
			fmt.Fprintf(w, "gamma neutral\t%g contracts\n", sum.Hedge.Gamma)
			fmt.Fprintf(w, "vega neutral\t%g contracts\n", sum.Hedge.Vega)
			return w.Flush()
		},
	}
	b.bind(cmd)
	return cmd
}

func newHistVolCmd(a *app) *cobra.Command {
	var window int
	cmd := &cobra.Command{
		Use:   "histvol <prices.csv>",
		Short: "Rolling annualised volatility of a close-price history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			closes, err := data.LoadCloses(args[0])
			if err != nil {
				return err
			}
			s, err := risk.HistoricalVol(closes, window)
			if err != nil {
				return err
			}
			a.log.Debug("historical volatility", "prices", len(closes), "window", s.Window)
			if a.json {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			st := s.Stats
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "window\t%d returns\n", s.Window)
			fmt.Fprintf(w, "current\t%.2f%%\n", st.Current*100)
			fmt.Fprintf(w, "mean\t%.2f%%\n", st.Mean*100)
			fmt.Fprintf(w, "min\t%.2f%%\n", st.Min*100)
			fmt.Fprintf(w, "25th percentile\t%.2f%%\n", st.P25*100)
			fmt.Fprintf(w, "75th percentile\t%.2f%%\n", st.P75*100)
			fmt.Fprintf(w, "max\t%.2f%%\n", st.Max*100)
			fmt.Fprintf(w, "regime\t%s\n", st.Regime)
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&window, "window", risk.DefaultWindow, "rolling window in returns")
	return cmd
}
