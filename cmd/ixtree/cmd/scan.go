package cmd

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/ixtree/pkg/driver"
)

var scanMax int

var scanCmd = &cobra.Command{
	Use:   "scan <key>",
	Short: "List values for keys strictly greater than key",
	Long: `Return up to --max values for keys strictly greater than key.

This is a locality-bounded read, not a full range scan: it resolves
the immediate successor of key and looks one subtree to the right of
it, the same shape the tree itself uses internally. Values further out
require repeating the scan with the last key returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, store, err := treeFromContext(cmd)
		if err != nil {
			return err
		}
		rec, err := recorderFromContext(cmd)
		if err != nil {
			return err
		}

		key, err := pad(args[0], tree.Keys.Width())
		if err != nil {
			return errors.Wrap(err, "key")
		}

		values, err := driver.RunInstrumented(cmd.Context(), store, tree.FindGT(key, scanMax), rec, "find_gt")
		if err != nil {
			return errors.Wrap(err, "find_gt")
		}

		for _, v := range values {
			fmt.Println(strings.TrimRight(v, " "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().IntVar(&scanMax, "max", 10, "maximum number of values to return")
}
