package btree_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssargent/ixtree/pkg/btree"
	"github.com/ssargent/ixtree/pkg/codec"
	"github.com/ssargent/ixtree/pkg/driver"
)

// fixture bundles a freshly created tree and the in-memory store
// backing it, the shape every test in this package builds on.
type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *driver.Memory
	tree  *btree.Tree[string, string]
}

func newFixture(t *testing.T, order int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := driver.NewMemory()

	keys := codec.NewFixedString(8)
	vals := codec.NewFixedString(8)
	probe := btree.New[string, string](0, order, keys, vals)

	created, err := driver.Run(ctx, store, probe.Create())
	require.NoError(t, err)

	tree := btree.New[string, string](created.RootOffset, order, keys, vals)
	require.NoError(t, driver.ApplyResult(ctx, store, created))

	return &fixture{t: t, ctx: ctx, store: store, tree: tree}
}

func (f *fixture) insert(key, val string) {
	f.t.Helper()
	result, err := driver.Run(f.ctx, f.store, f.tree.Insert(key, val))
	require.NoError(f.t, err)
	require.NoError(f.t, driver.ApplyResult(f.ctx, f.store, result))
	if result.NewRoot != nil {
		f.tree.Root = *result.NewRoot
	}
}

func (f *fixture) appendKV(key, val string) {
	f.t.Helper()
	result, err := driver.Run(f.ctx, f.store, f.tree.Append(key, val))
	require.NoError(f.t, err)
	require.NoError(f.t, driver.ApplyResult(f.ctx, f.store, result))
	if result.NewRoot != nil {
		f.tree.Root = *result.NewRoot
	}
}

func (f *fixture) find(key string) btree.FindResult[string] {
	f.t.Helper()
	result, err := driver.Run(f.ctx, f.store, f.tree.Find(key))
	require.NoError(f.t, err)
	return result
}

func (f *fixture) findGT(key string, max int) []string {
	f.t.Helper()
	result, err := driver.Run(f.ctx, f.store, f.tree.FindGT(key, max))
	require.NoError(f.t, err)
	return result
}

func (f *fixture) iterAll() []string {
	f.t.Helper()
	var collected []string
	_, err := driver.Run(f.ctx, f.store, f.tree.Iter(func(v string) {
		collected = append(collected, v)
	}))
	require.NoError(f.t, err)
	return collected
}

func (f *fixture) last() btree.LastResult[string, string] {
	f.t.Helper()
	result, err := driver.Run(f.ctx, f.store, f.tree.Last())
	require.NoError(f.t, err)
	return result
}

// keyFor and valFor match spec.md's worked examples: 8-digit,
// zero-padded decimal keys, and values 1000x the key.
func keyFor(n int) string { return fmt.Sprintf("%08d", n) }
func valFor(n int) string { return fmt.Sprintf("%08d", n*1000) }

// checkStructuralInvariants walks every node reachable from the root by
// reading raw blocks straight out of the backing store (rather than
// through Tree's unexported decode path) and asserts invariants 5 and 6
// of spec.md §8: every leaf sits at the same depth, and every non-root
// node holds between ⌈m/2⌉-1 and m-1 keys inclusive.
func (f *fixture) checkStructuralInvariants() {
	f.t.Helper()

	layout := btree.Layout{Order: f.tree.Order, KeyWidth: f.tree.Keys.Width(), ValWidth: f.tree.Vals.Width()}
	minKeys := (f.tree.Order+1)/2 - 1
	maxKeys := f.tree.Order - 1

	var leafDepths []int
	var walk func(offset int64, depth int, isRoot bool)
	walk = func(offset int64, depth int, isRoot bool) {
		block, err := f.store.ReadAt(f.ctx, offset, layout.NodeWidth())
		require.NoError(f.t, err)

		n := layout.NbOfVals(block)
		if !isRoot {
			require.GreaterOrEqualf(f.t, n, minKeys, "node at offset %d has %d keys, below minimum %d", offset, n, minKeys)
		}
		require.LessOrEqualf(f.t, n, maxKeys, "node at offset %d has %d keys, above maximum %d", offset, n, maxKeys)

		if layout.IsLeaf(block) {
			leafDepths = append(leafDepths, depth)
			return
		}
		for i := 0; i <= n; i++ {
			walk(layout.Subtree(block, i), depth+1, false)
		}
	}
	walk(f.tree.Root, 0, true)

	for _, d := range leafDepths {
		require.Equalf(f.t, leafDepths[0], d, "leaves at unequal depth: %v", leafDepths)
	}
}
