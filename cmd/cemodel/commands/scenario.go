package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Amanymarey2/cost-effective-model/internal/scenario"
)

// scenarioCmd prints the built-in scenario so users can dump it, edit it,
// and feed it back through --scenario.
var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Print the built-in scenario as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(scenario.Default(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scenarioCmd)
}
