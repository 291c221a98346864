package cmd

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/ixtree/pkg/driver"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print a depth-first diagnostic dump of every node",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, store, err := treeFromContext(cmd)
		if err != nil {
			return err
		}
		return errors.Wrap(driver.Dump(cmd.Context(), store, tree.Debug(), os.Stdout), "dump")
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
