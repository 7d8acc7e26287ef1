package units

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"riverbird-standalone/internal/models"
	"riverbird-standalone/services"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all units and their states",
	Run: func(cmd *cobra.Command, args []string) {
		if err := listUnits(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	},
}

/**
 * List every unit of the launcher
 * @returns {error} Non-nil when neither the admin API nor the state file is available
 * @description
 * - Queries GET /riverbird/api/v1/units on the live admin API
 * - Falls back to the exported state file when the launcher is unreachable
 */
func listUnits() error {
	var units []models.UnitDetail
	source := "admin API"
	if err := apiClient().GetJSON("/riverbird/api/v1/units", &units); err != nil {
		st, ferr := services.LoadExportedState()
		if ferr != nil {
			return fmt.Errorf("launcher unreachable (%v) and no state file: %v", err, ferr)
		}
		units = st.Units
		source = "state file (launcher unreachable)"
	}

	fmt.Printf("units from %s:\n", source)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ROLE\tSTATE\tLISTEN\tPID\tEXIT")
	for _, u := range units {
		exit := string(u.Exit)
		if exit == "" {
			exit = "-"
		}
		pid := "-"
		if u.Pid > 0 {
			pid = fmt.Sprintf("%d", u.Pid)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.Role, u.State, u.ListenAddr, pid, exit)
	}
	return w.Flush()
}

func init() {
	unitsCmd.AddCommand(listCmd)
}
