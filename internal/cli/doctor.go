package cli

import (
	"fmt"
	"os"

	"github.com/braid-labs/braid/internal/registry"
	"github.com/braid-labs/braid/internal/userdata"
	"github.com/spf13/cobra"
)

var doctorFix bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Attempt to repair problems automatically")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the installation for problems",
	Long: `Validate the home directory layout and permissions, confirm docker is
available, and report declared API tokens missing from the environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := userdata.CheckHome(os.Stdout, doctorFix); err != nil {
			return err
		}
		fmt.Println()

		userdata.CheckDocker(os.Stdout)
		fmt.Println()

		serversRoot, err := userdata.GetServersRoot()
		if err != nil {
			return err
		}
		addedSource := []registry.Source{{Name: "added", BasePath: serversRoot}}
		return userdata.CheckTokens(os.Stdout, addedSource)
	},
}
