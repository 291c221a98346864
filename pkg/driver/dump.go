package driver

import (
	"context"
	"fmt"
	"io"

	"github.com/ssargent/ixtree/pkg/btree"
)

// Dump runs step (expected to be the result of Tree.Debug) to
// completion against store and writes each line to w, one per call —
// the only place in this package that touches a Writer instead of a
// BlockStore, kept separate so the core's Debug output never leaks
// into the read/write/allocate protocol itself.
func Dump(ctx context.Context, store BlockStore, step btree.Step[[]string], w io.Writer) error {
	lines, err := Run(ctx, store, step)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
