package driver

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"

	"github.com/ssargent/ixtree/pkg/btree"
)

// counterKey is a one-byte key, shorter than any real offset key
// (which are always 8 bytes), so it can never collide with a block.
var counterKey = []byte{0}

// Pebble is a BlockStore that maps each node's byte offset to a pebble
// key (the offset, big-endian), repurposing the teacher's document
// store for fixed-size block storage rather than variable-length
// documents. A reserved one-byte key tracks the next offset to hand
// out from Allocate.
type Pebble struct {
	mutex sync.Mutex
	db    *pebble.DB
	next  int64
}

// OpenPebble opens (creating if necessary) a pebble database at path.
func OpenPebble(path string) (*Pebble, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "driver: open pebble store at %s", path)
	}

	p := &Pebble{db: db}
	val, closer, err := db.Get(counterKey)
	switch {
	case errors.Is(err, pebble.ErrNotFound):
		// Offset 0 is reserved for pkg/header's superblock.
		p.next = 1
	case err != nil:
		_ = db.Close()
		return nil, errors.Wrap(err, "driver: read pebble block counter")
	default:
		p.next = int64(binary.BigEndian.Uint64(val))
		_ = closer.Close()
	}
	return p, nil
}

func blockKey(offset int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(offset))
	return key
}

func (p *Pebble) ReadAt(_ context.Context, offset int64, length int) ([]byte, error) {
	val, closer, err := p.db.Get(blockKey(offset))
	if err != nil {
		return nil, errors.Wrapf(err, "driver: read pebble block at offset %d", offset)
	}
	defer closer.Close()

	if len(val) != length {
		return nil, errors.Newf("driver: pebble block at offset %d is %d bytes, want %d", offset, len(val), length)
	}
	out := make([]byte, length)
	copy(out, val)
	return out, nil
}

func (p *Pebble) Allocate(_ context.Context, length int) (int64, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	offset := p.next
	p.next += int64(length)

	counter := make([]byte, 8)
	binary.BigEndian.PutUint64(counter, uint64(p.next))
	if err := p.db.Set(counterKey, counter, pebble.Sync); err != nil {
		return 0, errors.Wrap(err, "driver: persist pebble block counter")
	}
	return offset, nil
}

func (p *Pebble) Apply(_ context.Context, writes []btree.WriteOp) error {
	batch := p.db.NewBatch()
	for _, w := range writes {
		if err := batch.Set(blockKey(w.Offset), w.Data, nil); err != nil {
			return errors.Wrapf(err, "driver: stage pebble write at offset %d", w.Offset)
		}
	}
	return batch.Commit(pebble.Sync)
}

// WriteAt writes data at a fixed logical offset, for pkg/header's
// superblock persistence at the reserved offset 0.
func (p *Pebble) WriteAt(_ context.Context, offset int64, data []byte) error {
	if err := p.db.Set(blockKey(offset), data, pebble.Sync); err != nil {
		return errors.Wrapf(err, "driver: write pebble block at fixed offset %d", offset)
	}
	return nil
}

// Close closes the underlying pebble database.
func (p *Pebble) Close() error {
	return p.db.Close()
}
