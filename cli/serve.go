package cli

import (
	"github.com/spf13/cobra"

	"github.com/banachtech/zebra-engine/api"
)

func newServeCmd(a *app) *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pricing API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Server
			if address != "" {
				cfg.Address = address
			}
			if len(cfg.Keys) == 0 {
				a.log.Warn("no API keys configured, the API is open")
			}
			return api.NewServer(cfg, a.engine, a.log).Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address, overrides server.address")
	return cmd
}
