package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/ixtree/pkg/driver"
)

var appendMode bool

var putCmd = &cobra.Command{
	Use:   "put <key> <value>",
	Short: "Insert or update a key-value pair",
	Long: `Insert or update a key-value pair in the tree.

Example:
  ixtree put mykey myvalue
  ixtree put --append mykey myvalue   # fast path for strictly ascending keys`,
	Args: cobra.ExactArgs(2),
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
		val, err := pad(args[1], tree.Vals.Width())
		if err != nil {
			return errors.Wrap(err, "value")
		}

		ctx := cmd.Context()
		var result driver.ApplyWriter
		var newRoot *int64
		if appendMode {
			r, err := driver.RunInstrumented(ctx, store, tree.Append(key, val), rec, "append")
			if err != nil {
				return errors.Wrap(err, "append")
			}
			result, newRoot = r, r.NewRoot
		} else {
			r, err := driver.RunInstrumented(ctx, store, tree.Insert(key, val), rec, "insert")
			if err != nil {
				return errors.Wrap(err, "insert")
			}
			result, newRoot = r, r.NewRoot
		}

		if err := driver.ApplyResult(ctx, store, result); err != nil {
			return errors.Wrap(err, "apply writes")
		}
		if err := persistRootIfChanged(ctx, store, tree, newRoot, rec); err != nil {
			return err
		}

		fmt.Printf("put %q -> %q\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
	putCmd.Flags().BoolVar(&appendMode, "append", false, "use the fast append path (keys must be strictly ascending)")
}
