// Package btree implements the disk-oriented B-Tree core: the node byte
// layout and the search/insert/append/range/iterate algorithms,
// expressed as a suspendable Step[T] computation the caller drives
// against its own storage. The package performs no I/O and no memory
// allocation of its own; see step.go for the protocol and pkg/driver
// for reference collaborators that pump it.
package btree

import (
	"github.com/ssargent/ixtree/pkg/codec"
)

// Tree is a handle on one B-Tree: its current root offset, its
// immutable order, and the codecs for its key and value types. Both
// Root and Order must be persisted by the caller across restarts
// (spec.md §6, "Persisted caller state"); Root is updated whenever a
// mutating operation returns a non-nil NewRoot.
type Tree[K, V any] struct {
	Root  int64
	Order int
	Keys  codec.KeyCodec[K]
	Vals  codec.ValueCodec[V]
}

// New returns a tree handle over an already-existing root. Use Create
// to allocate a brand new, empty tree's first node.
func New[K, V any](root int64, order int, keys codec.KeyCodec[K], vals codec.ValueCodec[V]) *Tree[K, V] {
	return &Tree[K, V]{Root: root, Order: order, Keys: keys, Vals: vals}
}

func (t *Tree[K, V]) layout() Layout {
	return Layout{Order: t.Order, KeyWidth: t.Keys.Width(), ValWidth: t.Vals.Width()}
}

// NodeWidth is Nw(m) for this tree: the fixed byte length of every node.
func (t *Tree[K, V]) NodeWidth() int {
	return t.layout().NodeWidth()
}

// CreateResult is the terminal payload of Create: the new tree's root
// offset and the single write needed to durably commit the empty root.
type CreateResult struct {
	RootOffset int64
	Write      WriteOp
}

// PendingWrites satisfies driver.ApplyWriter.
func (r CreateResult) PendingWrites() []WriteOp { return []WriteOp{r.Write} }

// Create allocates one empty node and reports its offset as the root
// of a brand new tree, per spec.md §3's lifecycle rule. It does not
// read or mutate t; callers typically discard the Tree used only to
// compute NodeWidth and construct a fresh one from CreateResult.RootOffset.
func (t *Tree[K, V]) Create() Step[CreateResult] {
	return Allocate(t.NodeWidth(), func(offset int64) Step[CreateResult] {
		block := t.layout().NewEmptyBlock()
		return Done(CreateResult{RootOffset: offset, Write: WriteOp{Offset: offset, Data: block}})
	})
}

// workingNode is the decoded, in-memory form of one node block. Once a
// block has been read during a descent its bytes are fully decoded
// here so every subsequent mutation (insertion, split, re-linking) is
// plain slice surgery with no further reads, matching the "no cached
// pointers across suspensions" rule of spec.md §9: nothing here
// references storage, only offsets and decoded values.
type workingNode[K, V any] struct {
	leaf bool
	keys []K
	vals []V
	subs []int64 // len(keys)+1 when !leaf; nil when leaf
}

func (t *Tree[K, V]) decode(block []byte) workingNode[K, V] {
	l := t.layout()
	n := l.NbOfVals(block)
	leaf := l.IsLeaf(block)
	w := workingNode[K, V]{leaf: leaf, keys: make([]K, n), vals: make([]V, n)}
	for i := 0; i < n; i++ {
		w.keys[i] = t.Keys.Decode(l.KeyBytes(block, i), 0)
		w.vals[i] = t.Vals.Decode(l.ValBytes(block, i), 0)
	}
	if !leaf {
		w.subs = make([]int64, n+1)
		for i := 0; i <= n; i++ {
			w.subs[i] = l.Subtree(block, i)
		}
	}
	return w
}

func (t *Tree[K, V]) encode(w workingNode[K, V]) []byte {
	l := t.layout()
	block := l.NewEmptyBlock()
	l.SetNbOfVals(block, len(w.keys))
	for i, k := range w.keys {
		t.Keys.Encode(l.KeyBytes(block, i), 0, k)
	}
	for i, v := range w.vals {
		t.Vals.Encode(l.ValBytes(block, i), 0, v)
	}
	if !w.leaf {
		for i, s := range w.subs {
			l.SetSubtree(block, i, s)
		}
	}
	return block
}

// insertSlice returns s with v inserted at pos, shifting the tail right.
func insertSlice[T any](s []T, pos int, v T) []T {
	s = append(s, v)
	copy(s[pos+1:], s[pos:len(s)-1])
	s[pos] = v
	return s
}

// insertAt inserts (key, val) at pos. When rightChild is non-nil, w is
// an internal node gaining a promoted median: rightChild is linked at
// pos+1, immediately after the existing child at pos (which keeps
// holding the left half of whatever split produced this promotion).
func (w *workingNode[K, V]) insertAt(pos int, key K, val V, rightChild *int64) {
	w.keys = insertSlice(w.keys, pos, key)
	w.vals = insertSlice(w.vals, pos, val)
	if rightChild != nil {
		w.subs = insertSlice(w.subs, pos+1, *rightChild)
	}
}

// split divides an overflowed node (m keys, one more than capacity)
// into a left and right half around the median at index M=(m-1)/2, per
// spec.md §4.3's split rule. The left half keeps the node's identity
// (its caller rewrites it in place); the right half is new and needs a
// freshly allocated offset from the caller.
func (t *Tree[K, V]) split(w workingNode[K, V]) (left, right workingNode[K, V], medianKey K, medianVal V) {
	m := t.Order
	mid := (m - 1) / 2

	medianKey = w.keys[mid]
	medianVal = w.vals[mid]

	left = workingNode[K, V]{leaf: w.leaf}
	left.keys = append(left.keys, w.keys[:mid]...)
	left.vals = append(left.vals, w.vals[:mid]...)

	right = workingNode[K, V]{leaf: w.leaf}
	right.keys = append(right.keys, w.keys[mid+1:]...)
	right.vals = append(right.vals, w.vals[mid+1:]...)

	if !w.leaf {
		left.subs = append(left.subs, w.subs[:mid+1]...)
		right.subs = append(right.subs, w.subs[mid+1:]...)
	}
	return left, right, medianKey, medianVal
}

// overflowed reports whether w holds more keys than a node of this
// tree's order may keep (spec.md §3: at most m-1 keys per node).
func (t *Tree[K, V]) overflowed(w workingNode[K, V]) bool {
	return len(w.keys) > t.Order-1
}
