package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/banachtech/zebra-engine/analytic"
	"github.com/banachtech/zebra-engine/option"
	"github.com/banachtech/zebra-engine/pricer"
	"github.com/banachtech/zebra-engine/risk"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRoot()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--env-file=", "--log-level=error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "zebra dev")
}

func TestPrice(t *testing.T) {
	out, err := run(t, "price", "--json")
	require.NoError(t, err)
	var o option.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &o))
	require.InDelta(t, 10.4506, o.Price, 1e-4)

	out, err = run(t, "price", "--type", "put")
	require.NoError(t, err)
	require.Contains(t, out, "5.573")
	require.Contains(t, out, "vanna")
}

func TestPriceSeededSimulation(t *testing.T) {
	args := []string{"price", "--json", "--model", "barrier", "--barrier", "130", "--seed", "3", "--paths", "2000", "--steps", "50"}
	a, err := run(t, args...)
	require.NoError(t, err)
	b, err := run(t, args...)
	require.NoError(t, err)
	require.Equal(t, a, b)

	var o option.Outcome
	require.NoError(t, json.Unmarshal([]byte(a), &o))
	require.NotNil(t, o.Diagnostics.KnockoutProbability)

	out, err := run(t, "price", "--model", "monte-carlo", "--seed", "3", "--paths", "2000")
	require.NoError(t, err)
	require.Contains(t, out, "(black-scholes)")
	require.Contains(t, out, "std error")
}

func TestPriceRequestFile(t *testing.T) {
	path := write(t, "req.json", `{"model":"binomial","params":{"spot":100,"strike":100,"vol":0.2,"maturity":1,"rate":0.05,"type":"put"},"american":true,"steps":100}`)
	out, err := run(t, "price", "--json", "--request", path)
	require.NoError(t, err)
	var o option.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &o))
	require.NotNil(t, o.Diagnostics.EarlyExercisePremium)
	require.Positive(t, *o.Diagnostics.EarlyExercisePremium)
}

func TestPriceErrors(t *testing.T) {
	_, err := run(t, "price", "--model", "sabr")
	require.ErrorIs(t, err, pricer.ErrUnknownModel)
	_, err = run(t, "price", "--spot=-1")
	require.ErrorIs(t, err, option.ErrInvalidParams)
	_, err = run(t, "price", "--expiry", "next friday")
	require.Error(t, err)
}

func TestImpliedVol(t *testing.T) {
	p := option.Params{Spot: 100, Strike: 100, Vol: 0.3, Maturity: 1, Rate: 0.05, Type: option.Call}
	price := analytic.Price(p)

	out, err := run(t, "iv", "--json", "--price", formatFloat(price))
	require.NoError(t, err)
	var rows []analytic.IVResult
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	require.True(t, rows[0].Converged)
	require.InDelta(t, 0.3, rows[0].Vol, 1e-4)

	out, err = run(t, "iv", "--price", "1", "--spot", "150")
	require.NoError(t, err)
	require.Contains(t, out, "NOT CONVERGED")

	_, err = run(t, "iv")
	require.Error(t, err)
}

func formatFloat(x float64) string {
	b, _ := json.Marshal(x)
	return string(b)
}

func TestImpliedVolQuotes(t *testing.T) {
	put := option.Params{Spot: 100, Strike: 90, Vol: 0.25, Maturity: 0.5, Rate: 0.05, Type: option.Put}
	path := write(t, "quotes.csv", "strike,maturity,price,type\n90,0.5,"+formatFloat(analytic.Price(put))+",put\n")
	out, err := run(t, "iv", "--json", "--quotes", path)
	require.NoError(t, err)
	var rows []analytic.IVResult
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	require.InDelta(t, 0.25, rows[0].Vol, 1e-4)
}

func TestSweep(t *testing.T) {
	out, err := run(t, "sweep", "--json", "--progress=false", "--spots", "90,100,110", "--days", "30,365", "--field", "delta")
	require.NoError(t, err)
	var got struct {
		Field  string      `json:"field"`
		Values [][]float64 `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "delta", got.Field)
	require.Len(t, got.Values, 2)
	require.InDelta(t, 0.6368, got.Values[1][1], 1e-4)

	out, err = run(t, "sweep", "--progress=false", "--spots", "100", "--days", "1")
	require.NoError(t, err)
	require.Contains(t, out, "100.00")

	_, err = run(t, "sweep", "--field", "charm")
	require.Error(t, err)
}

func TestScenario(t *testing.T) {
	out, err := run(t, "scenario", "--vol", "0.25", "--maturity", "0.25")
	require.NoError(t, err)
	require.Contains(t, out, "Black Swan Event")
	require.Contains(t, out, "worst")

	out, err = run(t, "scenario", "--json", "--spot-change", "-15", "--vol-change", "60")
	require.NoError(t, err)
	var rep risk.StressReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Results, len(risk.Scenarios)+1)
	require.Equal(t, "Custom", rep.Results[len(rep.Results)-1].Name)

	path := write(t, "scenarios.json", `[{"name":"Flat"}]`)
	out, err = run(t, "scenario", "--json", "--scenarios", path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Results, 1)
	require.True(t, rep.Results[0].PnL.IsZero())
}

func TestPortfolio(t *testing.T) {
	path := write(t, "book.json", `[
  {"symbol":"AAPL","params":{"spot":100,"strike":100,"vol":0.2,"maturity":1,"rate":0.05,"type":"call"},"quantity":10},
  {"symbol":"AAPL","kind":"stock","params":{"spot":100},"quantity":-600}
]`)
	out, err := run(t, "portfolio", "--json", "--book", path)
	require.NoError(t, err)
	var sum risk.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	require.Len(t, sum.Positions, 2)
	require.Equal(t, -int64(math.Round(sum.Greeks.Delta)), sum.Hedge.Shares)

	out, err = run(t, "portfolio", "--book", path)
	require.NoError(t, err)
	require.Contains(t, out, "delta hedge")
	require.Contains(t, out, "stock")
}

func TestHistVol(t *testing.T) {
	var b strings.Builder
	b.WriteString("date,close\n")
	px := 100.0
	for i := 0; i < 60; i++ {
		if i%2 == 0 {
			px *= 1.01
		} else {
			px /= 1.01
		}
		b.WriteString("2026-01-01," + formatFloat(px) + "\n")
	}
	path := write(t, "px.csv", b.String())

	out, err := run(t, "histvol", "--json", "--window", "10", path)
	require.NoError(t, err)
	var s risk.VolSeries
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	require.Equal(t, 10, s.Window)
	require.Len(t, s.Vols, 59-10+1)

	out, err = run(t, "histvol", path)
	require.NoError(t, err)
	require.Contains(t, out, "regime")

	_, err = run(t, "histvol", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}
