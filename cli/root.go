// Package cli builds the zebra command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/banachtech/zebra-engine/config"
	"github.com/banachtech/zebra-engine/logging"
	"github.com/banachtech/zebra-engine/pricer"
)

// Build-time variables (set via -ldflags).
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// app is the state every subcommand shares once the root has loaded the
// configuration.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	engine *pricer.Engine
	json   bool
}

// NewRoot returns the root command. Output goes to the command's out
// writer and logs to stderr.
func NewRoot() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "zebra",
		Short:         "Option pricing and risk analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "config file (yaml, toml or json)")
	root.PersistentFlags().String("env-file", ".env", "dotenv file loaded before the environment")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.json, "json", false, "print results as JSON")

	root.AddCommand(
		newVersionCmd(),
		newPriceCmd(a),
		newIVCmd(a),
		newSweepCmd(a),
		newScenarioCmd(a),
		newPortfolioCmd(a),
		newHistVolCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(path, envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	a.cfg = cfg
	a.log = logging.New(cfg.Log)
	a.engine = pricer.New(cfg.Engine, a.log)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// no config needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "zebra %s\n", Version)
			fmt.Fprintf(out, "  commit:  %s\n", Commit)
			fmt.Fprintf(out, "  built:   %s\n", Date)
		},
	}
}
