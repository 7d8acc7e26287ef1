package units

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"riverbird-standalone/internal/models"
)

var statusCmd = &cobra.Command{
	Use:   "status <role>",
	Short: "Show detailed status of one unit",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := unitStatus(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	},
}

func unitStatus(name string) error {
	role, err := models.ParseRoleKind(name)
	if err != nil {
		return err
	}

	var detail models.UnitDetail
	if err := apiClient().GetJSON("/riverbird/api/v1/units/"+string(role), &detail); err != nil {
		return err
	}

	fmt.Printf("role:       %s\n", detail.Role)
	fmt.Printf("state:      %s\n", detail.State)
	fmt.Printf("listen:     %s\n", detail.ListenAddr)
	fmt.Printf("advertise:  %s\n", detail.Advertise)
	if detail.Pid > 0 {
		fmt.Printf("pid:        %d\n", detail.Pid)
	}
	if detail.StartTime != "" {
		fmt.Printf("started:    %s\n", detail.StartTime)
	}
	if detail.ReadyTime != "" {
		fmt.Printf("ready:      %s\n", detail.ReadyTime)
	}
	if detail.Exit != "" {
		fmt.Printf("exit:       %s\n", detail.Exit)
		if detail.ExitReason != "" {
			fmt.Printf("reason:     %s\n", detail.ExitReason)
		}
	}
	return nil
}

func init() {
	unitsCmd.AddCommand(statusCmd)
}
