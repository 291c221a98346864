package btree

// gtCandidate remembers the most recent node/index pair seen while
// descending that could be the successor of the search key: the
// smallest key greater than it found so far on the path from the root.
type gtCandidate[K, V any] struct {
	w   workingNode[K, V]
	idx int
}

// FindGT returns up to max values for keys strictly greater than key,
// per spec.md §4.3's locality-bounded range read: this is deliberately
// NOT a full scan from the successor onward. It resolves the successor
// key via a normal descent, takes that one value, and — budget and
// leaf-ness permitting — takes the leading values of the leftmost leaf
// of the child subtree immediately to the right of the successor key
// and stops there, even if
// fewer than max values were produced and more exist further right.
// Retrieving those requires a follow-up call seeded with the last key
// returned.
func (t *Tree[K, V]) FindGT(key K, max int) Step[[]V] {
	return t.findGTDescend(t.Root, key, max, nil)
}

func (t *Tree[K, V]) findGTDescend(offset int64, key K, max int, best *gtCandidate[K, V]) Step[[]V] {
	return ReadBlock(offset, t.NodeWidth(), func(block []byte) Step[[]V] {
		w := t.decode(block)
		i := t.firstGreater(w, key)

		next := best
		if i < len(w.keys) {
			c := gtCandidate[K, V]{w: w, idx: i}
			next = &c
		}

		if w.leaf {
			return t.finishGT(next, max)
		}
		return t.findGTDescend(w.subs[i], key, max, next)
	})
}

// firstGreater returns the smallest index i with keys[i] > key, or
// len(w.keys) if every key present is <= key.
func (t *Tree[K, V]) firstGreater(w workingNode[K, V], key K) int {
	i := 0
	for ; i < len(w.keys); i++ {
		if t.Keys.Compare(w.keys[i], key) > 0 {
			break
		}
	}
	return i
}

// finishGT takes the resolved successor's value and, locality
// permitting, descends the left spine of the child subtree immediately
// to its right to the next leaf for a few more values — the in-order
// values immediately following the successor, not the keys of the
// successor node's sibling at the same level.
func (t *Tree[K, V]) finishGT(best *gtCandidate[K, V], max int) Step[[]V] {
	if best == nil || max <= 0 {
		return Done([]V{})
	}

	result := []V{best.w.vals[best.idx]}
	remaining := max - 1
	if remaining <= 0 || best.w.leaf {
		return Done(result)
	}

	return t.gtNeighborLeaf(best.w.subs[best.idx+1], remaining, result)
}

// gtNeighborLeaf follows leftmost children down to a leaf and takes
// its leading values, stopping unconditionally there even if more
// values exist further right and the budget is not yet exhausted.
func (t *Tree[K, V]) gtNeighborLeaf(offset int64, remaining int, acc []V) Step[[]V] {
	return ReadBlock(offset, t.NodeWidth(), func(block []byte) Step[[]V] {
		w := t.decode(block)
		if !w.leaf {
			return t.gtNeighborLeaf(w.subs[0], remaining, acc)
		}
		take := remaining
		if take > len(w.vals) {
			take = len(w.vals)
		}
		acc = append(acc, w.vals[:take]...)
		return Done(acc)
	})
}
