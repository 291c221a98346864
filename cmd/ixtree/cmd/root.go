// Package cmd implements the ixtree command line: a small cobra
// application that opens a file-backed B-Tree and exposes its
// operations (create, put, get, scan, dump, serve) as subcommands,
// grounded on the teacher's cmd/freyja/cmd package shape.
package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/ixtree/pkg/codec"
	"github.com/ssargent/ixtree/pkg/driver"
	"github.com/ssargent/ixtree/pkg/header"
	"github.com/ssargent/ixtree/pkg/metrics"
)

type ctxKey string

const (
	ctxKeyStore    ctxKey = "store"
	ctxKeyTree     ctxKey = "tree"
	ctxKeyRecorder ctxKey = "recorder"
)

var (
	metricsOnce sync.Once
	metricsRec  *metrics.Recorder
)

// sharedRecorder returns the one Recorder this process reports through,
// created on first use. Every subcommand that touches the tree shares
// it, since Prometheus panics on a second registration of the same
// metric name — a single process-wide Recorder is what lets a non-serve
// command (put, get, scan) still move ixtree_* metrics without any of
// them needing to know whether serve is also running.
func sharedRecorder() *metrics.Recorder {
	metricsOnce.Do(func() { metricsRec = metrics.NewRecorder() })
	return metricsRec
}

var dataFile string

var rootCmd = &cobra.Command{
	Use:   "ixtree",
	Short: "ixtree - a disk-oriented B-Tree index",
	Long: `ixtree manages a single disk-backed B-Tree index: fixed-width
keys and values, node-level splits, and a locality-bounded range read.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "create" || cmd.Name() == "config" {
			return nil
		}

		store, err := driver.OpenFile(driver.FileConfig{Path: dataFile, SyncWrites: true})
		if err != nil {
			return errors.Wrapf(err, "open data file %s", dataFile)
		}

		ctx := cmd.Context()
		h, err := header.Read(ctx, store)
		if err != nil {
			_ = store.Close()
			return errors.Wrapf(err, "read superblock from %s (did you run 'ixtree create'?)", dataFile)
		}

		keys := codec.NewFixedString(int(h.KeyWidth))
		vals := codec.NewFixedString(int(h.ValWidth))
		tree := newStringTree(h.RootOffset, int(h.Order), keys, vals)

		rec := sharedRecorder()
		rec.SetRootOffset(tree.Root)

		ctx = context.WithValue(ctx, ctxKeyStore, store)
		ctx = context.WithValue(ctx, ctxKeyTree, tree)
		ctx = context.WithValue(ctx, ctxKeyRecorder, rec)
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		store, ok := cmd.Context().Value(ctxKeyStore).(*driver.File)
		if !ok {
			return nil
		}
		return store.Close()
	},
}

// Execute adds all child commands to rootCmd and runs it. Called once by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataFile, "data-file", "f", "./tree.ixt", "Path to the tree's data file")
}
