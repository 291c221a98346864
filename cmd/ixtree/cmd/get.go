package cmd

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/ixtree/pkg/driver"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Look up the value for a key",
	Args:  cobra.ExactArgs(1),
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

		result, err := driver.RunInstrumented(cmd.Context(), store, tree.Find(key), rec, "find")
		if err != nil {
			return errors.Wrap(err, "find")
		}
		if !result.Found {
			return errors.Newf("key %q not found", args[0])
		}

		fmt.Println(strings.TrimRight(result.Value, " "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
