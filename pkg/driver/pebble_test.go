package driver_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/ixtree/pkg/btree"
	"github.com/ssargent/ixtree/pkg/codec"
	"github.com/ssargent/ixtree/pkg/driver"
	"github.com/ssargent/ixtree/pkg/header"
)

func TestPebble_AllocateReservesOffsetZero(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "ixtree_pebble_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	store, err := driver.OpenPebble(tmpDir)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	offset, err := store.Allocate(ctx, 32)
	require.NoError(t, err)
	assert.NotEqual(t, header.SuperblockOffset, offset)
}

// TestPebble_HeaderThenTreeRoundTrip drives a btree.Tree through
// driver.Run against a Pebble store the same way the Memory/File
// drivers are exercised: reserve the superblock, allocate the root,
// then Insert and Find.
func TestPebble_HeaderThenTreeRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "ixtree_pebble_tree_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	store, err := driver.OpenPebble(tmpDir)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, header.Write(ctx, store, codec.Header{KeyWidth: 8, ValWidth: 8, Order: 4, RootOffset: 0}))

	keys := stringCodec{}
	probe := btree.New[string, string](0, 4, keys, keys)
	created, err := driver.Run(ctx, store, probe.Create())
	require.NoError(t, err)
	require.NoError(t, driver.ApplyResult(ctx, store, created))
	assert.NotEqual(t, header.SuperblockOffset, created.RootOffset)

	h, err := header.Read(ctx, store)
	require.NoError(t, err)
	h.RootOffset = created.RootOffset
	require.NoError(t, header.Write(ctx, store, h))

	tree := btree.New[string, string](created.RootOffset, 4, keys, keys)
	insertResult, err := driver.Run(ctx, store, tree.Insert("cccccccc", "33333333"))
	require.NoError(t, err)
	require.NoError(t, driver.ApplyResult(ctx, store, insertResult))

	found, err := driver.Run(ctx, store, tree.Find("cccccccc"))
	require.NoError(t, err)
	assert.True(t, found.Found)
	assert.Equal(t, "33333333", found.Value)
}
