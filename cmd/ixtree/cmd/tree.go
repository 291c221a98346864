package cmd

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/ixtree/pkg/btree"
	"github.com/ssargent/ixtree/pkg/codec"
	"github.com/ssargent/ixtree/pkg/driver"
	"github.com/ssargent/ixtree/pkg/header"
	"github.com/ssargent/ixtree/pkg/metrics"
)

// stringTree is the one instantiation of the generic core this CLI
// exposes: fixed-width ASCII keys and values, the shape used
// throughout the tree's own test scenarios and the natural fit for a
// command-line put/get/scan tool.
type stringTree = btree.Tree[string, string]

func newStringTree(root int64, order int, keys, vals codec.FixedString) *stringTree {
	return btree.New[string, string](root, order, keys, vals)
}

func treeFromContext(cmd *cobra.Command) (*stringTree, *driver.File, error) {
	tree, ok := cmd.Context().Value(ctxKeyTree).(*stringTree)
	if !ok {
		return nil, nil, errors.New("cmd: tree not found in context")
	}
	store, ok := cmd.Context().Value(ctxKeyStore).(*driver.File)
	if !ok {
		return nil, nil, errors.New("cmd: store not found in context")
	}
	return tree, store, nil
}

func recorderFromContext(cmd *cobra.Command) (*metrics.Recorder, error) {
	rec, ok := cmd.Context().Value(ctxKeyRecorder).(*metrics.Recorder)
	if !ok {
		return nil, errors.New("cmd: metrics recorder not found in context")
	}
	return rec, nil
}

// pad right-pads or truncation-rejects s to exactly width bytes, the
// shape FixedString requires; it never silently truncates long input.
func pad(s string, width int) (string, error) {
	if len(s) > width {
		return "", errors.Newf("value %q is %d bytes, longer than the configured width %d", s, len(s), width)
	}
	if len(s) == width {
		return s, nil
	}
	return s + fmt.Sprintf("%*s", width-len(s), ""), nil
}

// persistRootIfChanged updates the on-disk superblock when a mutating
// operation allocated a new root, and refreshes the root-offset and
// height gauges to match.
func persistRootIfChanged(ctx context.Context, store *driver.File, tree *stringTree, newRoot *int64, rec *metrics.Recorder) error {
	if newRoot == nil {
		return nil
	}
	tree.Root = *newRoot
	h, err := header.Read(ctx, store)
	if err != nil {
		return errors.Wrap(err, "cmd: re-read superblock before update")
	}
	h.RootOffset = tree.Root
	if err := header.Write(ctx, store, h); err != nil {
		return errors.Wrap(err, "cmd: persist new root offset")
	}

	rec.SetRootOffset(tree.Root)
	height, err := driver.RunInstrumented(ctx, store, tree.Height(), rec, "height")
	if err != nil {
		return errors.Wrap(err, "cmd: recompute tree height")
	}
	rec.SetTreeHeight(height)
	return nil
}
