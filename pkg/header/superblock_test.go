package header_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/ixtree/pkg/codec"
	"github.com/ssargent/ixtree/pkg/driver"
	"github.com/ssargent/ixtree/pkg/header"
)

func TestSuperblock_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := driver.NewMemory()

	want := codec.Header{KeyWidth: 8, ValWidth: 8, Order: 5, RootOffset: 1234}
	require.NoError(t, header.Write(ctx, store, want))

	got, err := header.Read(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSuperblock_RejectsGarbage(t *testing.T) {
	ctx := context.Background()
	store := driver.NewMemory()

	require.NoError(t, store.WriteAt(ctx, header.SuperblockOffset, make([]byte, codec.HeaderSize)))

	_, err := header.Read(ctx, store)
	assert.Error(t, err)
}

func TestSuperblock_UpdateAfterRootChange(t *testing.T) {
	ctx := context.Background()
	store := driver.NewMemory()

	h := codec.Header{KeyWidth: 8, ValWidth: 8, Order: 3, RootOffset: 0}
	require.NoError(t, header.Write(ctx, store, h))

	h.RootOffset = 96
	require.NoError(t, header.Write(ctx, store, h))

	got, err := header.Read(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, int64(96), got.RootOffset)
}
