package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	appconfig "riverbird-standalone/internal/config"
	"riverbird-standalone/internal/models"
)

var checkPath string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the standalone config bundle",
	Run: func(cmd *cobra.Command, args []string) {
		if err := checkConfig(checkPath); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(models.ExitCodeConfig)
		}
	},
}

/**
 * Validate the config bundle and print the effective per-role settings
 * @param {string} path - Config file path; empty selects ./standalone.yaml
 * @returns {error} Returns the first ConfigError found, nil when valid
 */
func checkConfig(path string) error {
	bundle, err := appconfig.LoadBundle(path)
	if err != nil {
		return err
	}

	fmt.Println("config bundle is valid")
	fmt.Printf("admin API: %s, ready timeout: %v, grace period: %v\n",
		bundle.Server.Address, bundle.Run.ReadyTimeout, bundle.Run.GracePeriod)
	for _, role := range models.AllRoles {
		rc := bundle.Role(role)
		mode := "embedded"
		if rc.Command != "" {
			mode = "spawned: " + rc.Command
		}
		fmt.Printf("%-9s listen=%s advertise=%s (%s)\n", role, rc.ListenAddr, rc.AdvertiseAddr, mode)
		if rc.StateStore != "" {
			fmt.Printf("%-9s state_store=%s\n", "", rc.StateStore)
		}
		if rc.MetaAddr != "" {
			fmt.Printf("%-9s meta_addr=%s\n", "", rc.MetaAddr)
		}
	}
	return nil
}

func init() {
	checkCmd.Flags().StringVarP(&checkPath, "config", "c", "", "config bundle path (default ./standalone.yaml)")
	configCmd.AddCommand(checkCmd)
}
