package mmr

import "fmt"

// node is a single record in the dense MMR node sequence. Leaf nodes
// carry their original Item; internal nodes carry none — item.v is nil
// for them, and height(i) == 0 is the authoritative leaf check.
type node struct {
	hash Hash
	item Item
}

// MMR is an append-only Merkle Mountain Range. It exclusively owns its
// node sequence: no aliasing, no sharing of the backing slice.
//
// Zero value is not usable; construct with New. Append is the only
// mutator, and is total given a valid Item. Everything else is a pure
// read over the current node count.
type MMR struct {
	nodes []node
}

// New creates an MMR containing exactly one leaf, item. There is no
// empty, externally observable MMR state.
func New(item Item) *MMR {
	m := &MMR{}
	m.Append(item)
	return m
}

// Size returns the total node count (leaves and internal nodes).
func (m *MMR) Size() uint64 {
	return uint64(len(m.nodes))
}

// Leaves returns the number of leaves appended so far.
func (m *MMR) Leaves() uint64 {
	leaves, ok := mmrSizeToLeafCount(m.Size())
	if !ok {
		panic(fmt.Sprintf("mmr: corrupt node count %d is not a valid MMR size", m.Size()))
	}
	return leaves
}

// Append adds item as the next leaf, then grows however many parent
// nodes the new leaf's position merges into.
func (m *MMR) Append(item Item) {
	n := m.Size()
	inc, ok := nextIncrement(n)
	if !ok {
		panic(fmt.Sprintf("mmr: corrupt node count %d has no valid increment", n))
	}

	leaves, ok := mmrSizeToLeafCount(n)
	if !ok {
		panic(fmt.Sprintf("mmr: corrupt node count %d is not a valid MMR size", n))
	}

	leafNum := leaves + 1
	leafHash := hashPair(item, NewItem(leafNum))
	m.nodes = append(m.nodes, node{hash: leafHash, item: item})

	for i := n; i < n+inc-1; i++ {
		l := m.nodes[leftSibling(i)].hash
		r := m.nodes[i].hash
		m.nodes = append(m.nodes, node{hash: hashPair(l, r)})
	}
}

// Peaks returns the hashes of the current peak subtree roots, in
// left-to-right order (decreasing subtree height).
func (m *MMR) Peaks() []Hash {
	leaves := m.Leaves()
	var peaks []Hash
	var covered uint64

	for leaves != 0 {
		h := msb(leaves)
		subtreeSize := (uint64(1) << (h + 1)) - 1
		peakIndex := covered + subtreeSize - 1
		peaks = append(peaks, m.nodes[peakIndex].hash)
		covered += subtreeSize
		leaves &^= uint64(1) << h
	}

	return peaks
}

// Root bags the current peaks into a single commitment.
func (m *MMR) Root() Hash {
	return bagPeaks(m.Peaks())
}

// GenProof builds an inclusion proof for the leaf at leafIndex (0-based).
// leafIndex out of range is a programmer precondition violation, not a
// recoverable error: it panics.
func (m *MMR) GenProof(leafIndex uint64) *Proof {
	if leafIndex >= m.Leaves() {
		panic(fmt.Sprintf("mmr: leaf index %d out of range for %d leaves", leafIndex, m.Leaves()))
	}

	i := leafIndexToMMRIndex(leafIndex)
	if height(i) != 0 {
		panic(fmt.Sprintf("mmr: internal error: index %d for leaf %d is not a leaf", i, leafIndex))
	}
	if i >= m.Size() {
		panic(fmt.Sprintf("mmr: internal error: leaf index %d maps to out-of-range node %d", leafIndex, i))
	}

	item := m.nodes[i].item

	var merkleProof []Hash
	for i < m.Size() {
		s := sibling(i)
		if s >= m.Size() {
			break
		}
		merkleProof = append(merkleProof, m.nodes[s].hash)
		i = parent(i)
	}

	return newProof(item, leafIndex+1, merkleProof, m.Peaks(), m.Root())
}
