package mmr

import "math/bits"

// Pure index arithmetic over the dense MMR node sequence. None of this
// touches node storage; it is the bijection between MMR index, leaf
// index and height that the rest of the package is built on.
//
// Inputs are assumed to be well within u64 range (the accumulator has no
// use for leaf counts anywhere near 2^63), so overflow is not guarded
// against here.

// bitLength returns floor(log2(x))+1 for x>0, and 0 for x=0.
func bitLength(x uint64) uint64 {
	return uint64(bits.Len64(x))
}

// msb returns the 0-indexed position of the highest set bit in x.
// Calling msb(0) is a programmer error: there is no highest bit in zero.
func msb(x uint64) uint64 {
	if x == 0 {
		panic("mmr: msb(0) is undefined")
	}
	return bitLength(x) - 1
}

// lsb returns the 0-indexed position of the lowest set bit in x.
func lsb(x uint64) uint64 {
	return uint64(bits.TrailingZeros64(x))
}

// isAllOnes reports whether x is 2^k-1 for some k>=1.
func isAllOnes(x uint64) bool {
	return x > 0 && (x&(x+1)) == 0
}

// jumpLeft subtracts the high bit of x and adds one: it moves from
// a 1-based tree position to the root of the perfect subtree of the same
// height immediately to its left.
func jumpLeft(x uint64) uint64 {
	return x - (uint64(1) << msb(x)) + 1
}

// leafCountToMMRSize returns the total node count of an MMR holding l leaves.
func leafCountToMMRSize(l uint64) uint64 {
	return 2*l - uint64(bits.OnesCount64(l))
}

// mmrSizeToLeafCount inverts leafCountToMMRSize. It greedily subtracts
// perfect-tree sizes from n, starting at the highest plausible height; n
// is a valid MMR size iff nothing is left over.
func mmrSizeToLeafCount(n uint64) (uint64, bool) {
	var leaves uint64
	remaining := n

	for h := int(bitLength(n)) - 1; h >= 0; h-- {
		treeLeaves := uint64(1) << uint(h)
		treeSize := 2*treeLeaves - 1

		if treeSize <= remaining {
			leaves += treeLeaves
			remaining -= treeSize
		}
	}

	if remaining != 0 {
		return 0, false
	}
	return leaves, true
}

// nextIncrement returns the number of new nodes an append produces for an
// MMR currently of size n: the new leaf itself, plus one parent for every
// merge the append cascades into.
func nextIncrement(n uint64) (uint64, bool) {
	if n == 0 {
		return 1, true
	}
	leaves, ok := mmrSizeToLeafCount(n)
	if !ok {
		return 0, false
	}
	return uint64(bits.TrailingZeros64(leaves+1)) + 1, true
}

// height returns the height of MMR node i, found by repeatedly jumping to
// the root of the perfect subtree to the left until an all-ones position
// is reached.
func height(i uint64) uint64 {
	pos := i + 1
	for !isAllOnes(pos) {
		pos = jumpLeft(pos)
	}
	return msb(pos)
}

// leftSibling returns the MMR index of i's left sibling, assuming i is a
// right child.
func leftSibling(i uint64) uint64 {
	return i + 1 - (uint64(1) << (height(i) + 1))
}

// rightSibling returns the MMR index of i's right sibling, assuming i is
// a left child.
func rightSibling(i uint64) uint64 {
	return i + (uint64(1) << (height(i) + 1)) - 1
}

// sibling returns the index of i's sibling, on whichever side it lies.
func sibling(i uint64) uint64 {
	if height(i+1) > height(i) {
		return leftSibling(i)
	}
	return rightSibling(i)
}

// parent returns the MMR index of i's parent. If i is a right child, the
// next node is the parent; otherwise the parent sits just past i's right
// sibling.
func parent(i uint64) uint64 {
	if height(i+1) > height(i) {
		return i + 1
	}
	return rightSibling(i) + 1
}

// leafIndexToMMRIndex returns the MMR index of the k-th (0-based) leaf.
func leafIndexToMMRIndex(k uint64) uint64 {
	i := leafCountToMMRSize(k+1) - 1
	for height(i) != 0 {
		i--
	}
	return i
}

// mmrIndexToLeafIndex returns the 0-based leaf index for MMR index i, or
// false if i does not name a leaf.
func mmrIndexToLeafIndex(i uint64) (uint64, bool) {
	if height(i) != 0 {
		return 0, false
	}
	inc, ok := nextIncrement(i)
	if !ok {
		return 0, false
	}
	leaves, ok := mmrSizeToLeafCount(i + inc)
	if !ok {
		return 0, false
	}
	return leaves - 1, true
}
