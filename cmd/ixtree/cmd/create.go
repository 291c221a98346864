package cmd

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/ixtree/pkg/codec"
	"github.com/ssargent/ixtree/pkg/driver"
	"github.com/ssargent/ixtree/pkg/header"
)

var (
	createOrder    int
	createKeyWidth int
	createValWidth int
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new, empty tree data file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, err := driver.OpenFile(driver.FileConfig{Path: dataFile, SyncWrites: true})
		if err != nil {
			return errors.Wrapf(err, "open %s", dataFile)
		}
		defer store.Close()

		keys := codec.NewFixedString(createKeyWidth)
		vals := codec.NewFixedString(createValWidth)
		probe := newStringTree(0, createOrder, keys, vals)

		// The superblock must be reserved before the root node is
		// allocated: Allocate hands out the next byte past the store's
		// current extent, so writing the header first (at the fixed
		// SuperblockOffset) is what keeps the root from landing on top
		// of it. Write a zero-root placeholder now and patch in the
		// real root offset below once it's known.
		placeholder := codecHeader(createOrder, createKeyWidth, createValWidth, 0)
		if err := header.Write(ctx, store, placeholder); err != nil {
			return errors.Wrap(err, "reserve superblock")
		}

		created, err := driver.Run(ctx, store, probe.Create())
		if err != nil {
			return errors.Wrap(err, "allocate root node")
		}
		if err := driver.ApplyResult(ctx, store, created); err != nil {
			return errors.Wrap(err, "write root node")
		}

		h := codecHeader(createOrder, createKeyWidth, createValWidth, created.RootOffset)
		if err := header.Write(ctx, store, h); err != nil {
			return errors.Wrap(err, "write superblock")
		}

		fmt.Printf("created %s (order=%d key_width=%d val_width=%d root=%d)\n",
			dataFile, createOrder, createKeyWidth, createValWidth, created.RootOffset)
		return nil
	},
}

func codecHeader(order, keyWidth, valWidth int, root int64) codec.Header {
	return codec.Header{
		KeyWidth:   uint16(keyWidth),
		ValWidth:   uint16(valWidth),
		Order:      uint32(order),
		RootOffset: root,
	}
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().IntVar(&createOrder, "order", 64, "B-Tree order (max children per node)")
	createCmd.Flags().IntVar(&createKeyWidth, "key-width", 8, "Fixed width, in bytes, of every key")
	createCmd.Flags().IntVar(&createValWidth, "val-width", 8, "Fixed width, in bytes, of every value")
}
