package btree

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// sentinelOffset marks "no child" in a subtree slot and identifies a
// node as a leaf when every one of its used subtree slots carries it.
const sentinelOffset int64 = -1

const headerSize = 4

// Layout is the purely computational half of the node byte format from
// spec.md §6: given an order m and fixed key/value widths, it knows
// where every field of a node block lives and performs no I/O.
//
//	offset 0                     : u32 LE  nb_of_vals
//	offset 4                     : keys[m-1], KeyWidth bytes each
//	offset 4+(m-1)*KeyWidth      : vals[m-1], ValWidth bytes each
//	offset 4+(m-1)*(Kw+Vw)       : subtrees[m], i64 LE each
type Layout struct {
	Order    int
	KeyWidth int
	ValWidth int
}

// NodeWidth is Nw(m): the fixed total byte length of every node for
// this layout.
func (l Layout) NodeWidth() int {
	return headerSize + (l.Order-1)*(l.KeyWidth+l.ValWidth) + l.Order*8
}

func (l Layout) keysOffset() int  { return headerSize }
func (l Layout) valsOffset() int  { return headerSize + (l.Order-1)*l.KeyWidth }
func (l Layout) subsOffset() int  { return headerSize + (l.Order-1)*(l.KeyWidth+l.ValWidth) }

// NbOfVals returns the number of keys (equivalently values) currently
// stored in the block.
func (l Layout) NbOfVals(block []byte) int {
	return int(binary.LittleEndian.Uint32(block[0:4]))
}

// SetNbOfVals writes the number of keys/values currently in use.
func (l Layout) SetNbOfVals(block []byte, n int) {
	binary.LittleEndian.PutUint32(block[0:4], uint32(n))
}

// KeyBytes returns the KeyWidth-byte window for key slot i, regardless
// of whether slot i is currently in use.
func (l Layout) KeyBytes(block []byte, i int) []byte {
	l.checkIndex(i, l.Order-1)
	off := l.keysOffset() + i*l.KeyWidth
	return block[off : off+l.KeyWidth]
}

// ValBytes returns the ValWidth-byte window for value slot i.
func (l Layout) ValBytes(block []byte, i int) []byte {
	l.checkIndex(i, l.Order-1)
	off := l.valsOffset() + i*l.ValWidth
	return block[off : off+l.ValWidth]
}

// Subtree returns the child offset at slot i.
func (l Layout) Subtree(block []byte, i int) int64 {
	l.checkIndex(i, l.Order)
	off := l.subsOffset() + i*8
	return int64(binary.LittleEndian.Uint64(block[off : off+8]))
}

// SetSubtree writes the child offset at slot i.
func (l Layout) SetSubtree(block []byte, i int, v int64) {
	l.checkIndex(i, l.Order)
	off := l.subsOffset() + i*8
	binary.LittleEndian.PutUint64(block[off:off+8], uint64(v))
}

func (l Layout) checkIndex(i, limit int) {
	if i < 0 || i >= limit {
		panic(errors.AssertionFailedf("btree: node slot index %d out of range [0,%d)", i, limit))
	}
}

// IsLeaf reports whether every used subtree slot is the sentinel, per
// spec.md §3 invariant (5).
func (l Layout) IsLeaf(block []byte) bool {
	n := l.NbOfVals(block)
	for i := 0; i <= n; i++ {
		if l.Subtree(block, i) != sentinelOffset {
			return false
		}
	}
	return true
}

// NewEmptyBlock returns a zero-initialized node block: zero keys, and
// every subtree slot set to the sentinel, matching spec.md §3's
// "freshly allocated, still-empty node" rule.
func (l Layout) NewEmptyBlock() []byte {
	block := make([]byte, l.NodeWidth())
	for i := 0; i < l.Order; i++ {
		l.SetSubtree(block, i, sentinelOffset)
	}
	return block
}
