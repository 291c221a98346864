package driver

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/ixtree/pkg/btree"
)

// Memory is a BlockStore backed by a growable in-process byte buffer.
// It exists for tests and short-lived trees; nothing here survives
// process exit.
type Memory struct {
	mutex sync.Mutex
	buf   []byte
}

// NewMemory returns an empty in-memory block store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) ReadAt(_ context.Context, offset int64, length int) ([]byte, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if offset < 0 || int(offset)+length > len(m.buf) {
		return nil, errors.Newf("driver: memory read [%d,%d) out of bounds (size %d)", offset, int(offset)+length, len(m.buf))
	}
	out := make([]byte, length)
	copy(out, m.buf[offset:int(offset)+length])
	return out, nil
}

func (m *Memory) Allocate(_ context.Context, length int) (int64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	offset := int64(len(m.buf))
	m.buf = append(m.buf, make([]byte, length)...)
	return offset, nil
}

// WriteAt writes data at a fixed offset, growing the buffer if needed.
// Used by pkg/header to persist the superblock at a reserved offset
// outside of the btree package's own Allocate/Apply protocol.
func (m *Memory) WriteAt(_ context.Context, offset int64, data []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	end := int(offset) + len(data)
	if end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	copy(m.buf[offset:end], data)
	return nil
}

func (m *Memory) Apply(_ context.Context, writes []btree.WriteOp) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, w := range writes {
		end := int(w.Offset) + len(w.Data)
		if end > len(m.buf) {
			return errors.Newf("driver: memory write at offset %d length %d out of bounds (size %d)", w.Offset, len(w.Data), len(m.buf))
		}
		copy(m.buf[w.Offset:end], w.Data)
	}
	return nil
}

// Len returns the current size of the backing buffer, mostly useful in tests.
func (m *Memory) Len() int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return int64(len(m.buf))
}

// Bytes returns a copy of the entire backing buffer, for tests that
// compare two trees for byte-identical structure.
func (m *Memory) Bytes() []byte {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	out := make([]byte, len(m.buf))
	copy(out, m.buf)
	return out
}
