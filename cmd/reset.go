package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every recorded lead",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		d, err := openDeps(cmd, true)
		if err != nil {
			return err
		}
		defer d.Close()

		n := d.ledger.Len()
		if !yes {
			fmt.Printf("This deletes %d lead(s). Re-run with --yes to confirm.\n", n)
			return nil
		}
		if err := d.ledger.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Deleted %d lead(s).\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
