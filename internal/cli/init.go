package cli

import (
	"fmt"
	"os"

	"github.com/braid-labs/braid/internal/branding"
	"github.com/braid-labs/braid/internal/userdata"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the " + branding.DisplayName() + " home directory",
	Long: `Create the ~/.braid directory structure: added servers, the user-local
registry, token env files, and deploy state. Existing items are left
untouched, so init is safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Initializing %s home directory:\n", branding.DisplayName())
		if err := userdata.InitGlobal(os.Stdout); err != nil {
			return err
		}
		fmt.Printf("\nDone. Add a server with '%s server add <name>'.\n", branding.CLIName())
		return nil
	},
}
