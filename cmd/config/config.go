package config

import (
	"github.com/spf13/cobra"

	"riverbird-standalone/cmd/root"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration utilities",
}

func init() {
	root.RootCmd.AddCommand(configCmd)
}
