package btree

import (
	"fmt"
	"strings"
)

// Debug renders the tree as a list of indented lines, one per node,
// depth-first left to right — a plain diagnostic dump, not a supported
// wire format. The core stays I/O-free even here: callers that want it
// printed do that themselves (see pkg/driver for a stdout helper).
func (t *Tree[K, V]) Debug() Step[[]string] {
	return t.debugNode(t.Root, 0)
}

func (t *Tree[K, V]) debugNode(offset int64, depth int) Step[[]string] {
	return ReadBlock(offset, t.NodeWidth(), func(block []byte) Step[[]string] {
		w := t.decode(block)
		header := []string{fmt.Sprintf("%soffset=%d leaf=%t keys=%s", strings.Repeat("  ", depth), offset, w.leaf, t.renderKeys(w))}
		if w.leaf {
			return Done(header)
		}
		return t.debugChildren(w, 0, depth+1, header)
	})
}

func (t *Tree[K, V]) debugChildren(w workingNode[K, V], idx, depth int, acc []string) Step[[]string] {
	if idx == len(w.subs) {
		return Done(acc)
	}
	return andThen(t.debugNode(w.subs[idx], depth), func(lines []string) Step[[]string] {
		acc = append(acc, lines...)
		return t.debugChildren(w, idx+1, depth, acc)
	})
}

func (t *Tree[K, V]) renderKeys(w workingNode[K, V]) string {
	parts := make([]string, len(w.keys))
	for i, k := range w.keys {
		parts[i] = t.Keys.DebugString(k)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
