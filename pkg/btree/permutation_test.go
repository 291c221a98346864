package btree_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// permutations returns every permutation of 1..n via Heap's algorithm.
func permutations(n int) [][]int {
	values := make([]int, n)
	for i := range values {
		values[i] = i + 1
	}

	var result [][]int
	var generate func(k int)
	generate = func(k int) {
		if k == 1 {
			cp := make([]int, n)
			copy(cp, values)
			result = append(result, cp)
			return
		}
		for i := 0; i < k; i++ {
			generate(k - 1)
			if k%2 == 0 {
				values[i], values[k-1] = values[k-1], values[i]
			} else {
				values[0], values[k-1] = values[k-1], values[0]
			}
		}
	}
	generate(n)
	return result
}

// TestPermutationCoverage builds a fresh tree for every permutation of
// 1..7 at both order 3 and order 5, inserting in that order and
// checking the resulting tree answers Find correctly for every key
// (invariant 1), yields them back in sorted order via Iter regardless
// of insertion order (invariant 4), and satisfies the structural
// invariants 5 (depth uniformity) and 6 (node occupancy) per spec.md §8.
func TestPermutationCoverage(t *testing.T) {
	if testing.Short() {
		t.Skip("permutation coverage is exhaustive (5040 trees per order); skipped in -short mode")
	}

	perms := permutations(7)
	for _, order := range []int{3, 5} {
		order := order
		t.Run(fmt.Sprintf("order=%d", order), func(t *testing.T) {
			for _, perm := range perms {
				f := newFixture(t, order)
				for _, n := range perm {
					f.insert(keyFor(n), valFor(n))
				}

				for n := 1; n <= 7; n++ {
					result := f.find(keyFor(n))
					require.Truef(t, result.Found, "perm=%v order=%d key=%d", perm, order, n)
					require.Equal(t, valFor(n), result.Value)
				}

				want := []string{valFor(1), valFor(2), valFor(3), valFor(4), valFor(5), valFor(6), valFor(7)}
				assert.Equal(t, want, f.iterAll(), "perm=%v order=%d", perm, order)

				f.checkStructuralInvariants()
			}
		})
	}
}
