package units

import (
	"github.com/spf13/cobra"

	"riverbird-standalone/cmd/root"
	"riverbird-standalone/internal/rpc"
)

var serverAddr string

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Inspect the units of a running launcher",
}

// apiClient builds a client for the launcher admin API, honoring --server.
func apiClient() *rpc.Client {
	cfg := rpc.DefaultHTTPConfig()
	if serverAddr != "" {
		cfg.BaseURL = "http://" + serverAddr
	}
	return rpc.NewClient(cfg)
}

func init() {
	unitsCmd.PersistentFlags().StringVar(&serverAddr, "server", "", "admin API address (default 127.0.0.1:5699)")
	root.RootCmd.AddCommand(unitsCmd)
}
