package driver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/ixtree/pkg/btree"
	"github.com/ssargent/ixtree/pkg/codec"
	"github.com/ssargent/ixtree/pkg/driver"
	"github.com/ssargent/ixtree/pkg/header"
)

func TestMemory_AllocateThenReadWrite(t *testing.T) {
	ctx := context.Background()
	store := driver.NewMemory()

	offset, err := store.Allocate(ctx, 16)
	require.NoError(t, err)
	assert.Equal(t, int64(0), offset)
	assert.Equal(t, int64(16), store.Len())

	payload := []byte("0123456789abcdef")
	require.NoError(t, store.Apply(ctx, []btree.WriteOp{{Offset: offset, Data: payload}}))

	got, err := store.ReadAt(ctx, offset, 16)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestMemory_ReadOutOfBounds(t *testing.T) {
	ctx := context.Background()
	store := driver.NewMemory()

	_, err := store.ReadAt(ctx, 0, 8)
	assert.Error(t, err)
}

func TestMemory_WriteAtGrowsBuffer(t *testing.T) {
	ctx := context.Background()
	store := driver.NewMemory()

	require.NoError(t, store.WriteAt(ctx, 0, []byte("header-bytes")))
	assert.Equal(t, int64(len("header-bytes")), store.Len())

	offset, err := store.Allocate(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(len("header-bytes")), offset)
}

func TestMemory_Run_Create(t *testing.T) {
	ctx := context.Background()
	store := driver.NewMemory()
	keys := stringCodec{}
	tree := btree.New[string, string](0, 3, keys, keys)

	result, err := driver.Run(ctx, store, tree.Create())
	require.NoError(t, err)
	require.NoError(t, driver.ApplyResult(ctx, store, result))
	assert.Equal(t, tree.NodeWidth(), int(store.Len()))
}

// TestMemory_HeaderThenTreeRoundTrip exercises a tree through Memory the
// same way cmd/ixtree/create does: reserve the superblock first, then
// allocate the root, so Allocate never hands back the offset the header
// already occupies. A btree.Tree driven through driver.Run on top of
// that store must then Insert and Find correctly.
func TestMemory_HeaderThenTreeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := driver.NewMemory()

	require.NoError(t, header.Write(ctx, store, codec.Header{KeyWidth: 8, ValWidth: 8, Order: 4, RootOffset: 0}))
	assert.Equal(t, int64(codec.HeaderSize), store.Len())

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
	insertResult, err := driver.Run(ctx, store, tree.Insert("aaaaaaaa", "11111111"))
	require.NoError(t, err)
	require.NoError(t, driver.ApplyResult(ctx, store, insertResult))

	found, err := driver.Run(ctx, store, tree.Find("aaaaaaaa"))
	require.NoError(t, err)
	assert.True(t, found.Found)
	assert.Equal(t, "11111111", found.Value)
}

// stringCodec is a minimal fixed-width codec for driver-level smoke
// tests that don't need btree's own test fixture.
type stringCodec struct{}

func (stringCodec) Width() int                              { return 8 }
func (stringCodec) Encode(w []byte, pos int, v string)       { copy(w[pos:pos+8], v) }
func (stringCodec) Decode(r []byte, pos int) string          { return string(r[pos : pos+8]) }
func (stringCodec) Compare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
func (stringCodec) DebugString(v string) string { return v }
