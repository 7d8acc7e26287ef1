package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"riverbird-standalone/cmd/root"
	"riverbird-standalone/internal/env"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print launcher version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(env.Version)
	},
}

func init() {
	root.RootCmd.AddCommand(versionCmd)
}
