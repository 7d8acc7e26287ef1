package root

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "riverbird-standalone",
	Short: "Riverbird standalone launcher",
	Long:  `Boots the Riverbird meta, compute and frontend roles as one coordinated process for local development and demos, supervises them, and shuts them down coherently.`,
}
