// Package header persists the caller state spec.md requires to be
// kept durable across restarts — a tree's order, key/value widths,
// and current root offset — at a reserved offset of the same block
// store the tree's nodes live in.
package header

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/ixtree/pkg/codec"
)

// SuperblockOffset is the reserved, fixed offset every tree's header
// lives at. driver.Memory and driver.File hand out Allocate offsets
// from their current extent, so node offsets start past the superblock
// only when Write has run before the first Allocate; driver.Pebble
// never hands out offset 0.
const SuperblockOffset int64 = 0

// Store is the narrow slice of driver.BlockStore that superblock
// persistence needs: a raw read and a raw write, independent of the
// btree package's own ReadBlock/Allocate protocol.
type Store interface {
	ReadAt(ctx context.Context, offset int64, length int) ([]byte, error)
	WriteAt(ctx context.Context, offset int64, data []byte) error
}

// Read loads and validates the superblock from store.
func Read(ctx context.Context, store Store) (codec.Header, error) {
	buf, err := store.ReadAt(ctx, SuperblockOffset, codec.HeaderSize)
	if err != nil {
		return codec.Header{}, errors.Wrap(err, "header: read superblock")
	}
	h, err := codec.DecodeHeader(buf)
	if err != nil {
		return codec.Header{}, errors.Wrap(err, "header: decode superblock")
	}
	return h, nil
}

// Write durably persists h as the superblock, overwriting whatever was
// there before. Callers must call this after every operation that
// changes the root offset.
func Write(ctx context.Context, store Store, h codec.Header) error {
	if err := store.WriteAt(ctx, SuperblockOffset, h.Encode()); err != nil {
		return errors.Wrap(err, "header: write superblock")
	}
	return nil
}
