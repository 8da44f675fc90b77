package mmr

import (
	"encoding/json"
	"fmt"
	"math/bits"
)

// bagPeaks folds a non-empty, left-to-right peak list into a single root,
// right to left: acc = p[m-1], then acc = H(p[i], acc) for i = m-2..0.
// An empty peak list is a programmer precondition violation.
func bagPeaks(peaks []Hash) Hash {
	if len(peaks) == 0 {
		panic("mmr: bagPeaks called with an empty peak list")
	}
	return bagFrom(peaks[:len(peaks)-1], peaks[len(peaks)-1], true)
}

// bagFrom folds acc = H(peak, acc) over peaks, starting from start. When
// reverse is true, peaks is walked back to front (the left-to-right
// convention used for stored peak lists); when false, peaks is walked as
// given (used for merkle-proof slices that are already right-to-left).
func bagFrom(peaks []Hash, start Hash, reverse bool) Hash {
	acc := start
	if reverse {
		for i := len(peaks) - 1; i >= 0; i-- {
			acc = hashPair(peaks[i], acc)
		}
		return acc
	}
	for _, p := range peaks {
		acc = hashPair(p, acc)
	}
	return acc
}

// Proof is a self-describing inclusion proof for a single leaf, together
// with everything verify/verify_ancestor need: it carries its own peak
// list and claimed root, and outlives the MMR that produced it.
type Proof struct {
	Token       Item
	TokenNum    uint64
	Leaf        Hash
	Root        Hash
	Peaks       []Hash
	MerkleProof []Hash
}

// DefaultProof is the placeholder proof emitted for a non-existent
// "previous" leaf (e.g. the first line of the mint-inputs driver output).
func DefaultProof() *Proof {
	return &Proof{Token: ZeroItem()}
}

func newProof(token Item, tokenNum uint64, merkleProof, peaks []Hash, root Hash) *Proof {
	return &Proof{
		Token:       token,
		TokenNum:    tokenNum,
		Leaf:        hashPair(token, NewItem(tokenNum)),
		Root:        root,
		Peaks:       peaks,
		MerkleProof: merkleProof,
	}
}

// walkToPeak reconstructs a peak candidate by walking path from leaf,
// consuming exactly len(path) bits of index.
func walkToPeak(leaf Hash, tokenNum uint64, path []Hash) Hash {
	peak := leaf
	index := tokenNum - 1
	for _, s := range path {
		if index%2 == 0 {
			peak = hashPair(peak, s)
		} else {
			peak = hashPair(s, peak)
		}
		index >>= 1
	}
	return peak
}

// Verify checks that the Merkle path reconstructs a peak present in
// p.Peaks, and that those peaks in fact bag to p.Root.
func (p *Proof) Verify() bool {
	peak := walkToPeak(p.Leaf, p.TokenNum, p.MerkleProof)

	for _, candidate := range p.Peaks {
		if candidate == peak {
			return bagPeaks(p.Peaks) == p.Root
		}
	}
	return false
}

// VerifyAncestor checks that ancestorRoot is the root of the MMR holding
// exactly the first p.TokenNum leaves, rebuilt from p's leaf, Merkle path
// and leading peaks. A proof produced by the MMR one leaf larger than that
// ancestor passes. The check does not confirm that the producing MMR is
// exactly one leaf larger: for an even token_num only the leading peaks
// that cover the first token_num leaves are consulted, so a proof from a
// later MMR whose leading peaks still include them also passes.
//
// This never panics on malformed-but-bounded proof data: every slice
// access below is guarded, and an out-of-range access is treated as
// proof invalidity (returns false), not a crash.
func (p *Proof) VerifyAncestor(ancestorRoot Hash) bool {
	k := p.TokenNum
	if k == 0 {
		return false
	}

	lastPeakHeight := uint64(bits.TrailingZeros64(k))
	if lastPeakHeight > uint64(len(p.MerkleProof)) {
		return false
	}
	lastPeak := walkToPeak(p.Leaf, k, p.MerkleProof[:lastPeakHeight])

	numPeaks := uint64(bits.OnesCount64(k))
	numMatchingPeaks := uint64(bits.OnesCount64(k & (k + 1)))

	if numMatchingPeaks > uint64(len(p.Peaks)) {
		return false
	}
	matchingPeaks := p.Peaks[:numMatchingPeaks]

	// Internal well-formedness check, not an input-validity check: a
	// correctly generated proof always satisfies this. If it doesn't,
	// something upstream is broken; the outer root comparison is what
	// actually authorizes the ancestry claim either way.
	if (numMatchingPeaks == numPeaks) != (k%2 == 0) {
		panic(fmt.Sprintf("mmr: internal error: peak-matching invariant violated for token_num %d", k))
	}

	var rebuiltRoot Hash
	if k%2 == 0 {
		if len(matchingPeaks) == 0 || matchingPeaks[len(matchingPeaks)-1] != lastPeak {
			return false
		}
		rebuiltRoot = bagPeaks(matchingPeaks)
	} else {
		numRemainingPeaks := numPeaks - numMatchingPeaks
		start := lastPeakHeight + 1
		end := lastPeakHeight + numRemainingPeaks
		if end > uint64(len(p.MerkleProof)) || start > end {
			return false
		}
		remainingPeaks := p.MerkleProof[start:end]

		partial := bagFrom(remainingPeaks, p.Leaf, false)
		rebuiltRoot = bagFrom(matchingPeaks, partial, true)
	}

	return rebuiltRoot == ancestorRoot
}

// MarshalJSON renders the proof as
// [<token>,<token_num>,"<root>",[<peaks>],[<merkle_proof>]], with no
// spaces. encoding/json's default compact output of this literal already
// matches the wire form byte for byte.
func (p *Proof) MarshalJSON() ([]byte, error) {
	peakStrs := make([]string, len(p.Peaks))
	for i, h := range p.Peaks {
		peakStrs[i] = h.String()
	}
	proofStrs := make([]string, len(p.MerkleProof))
	for i, h := range p.MerkleProof {
		proofStrs[i] = h.String()
	}

	return json.Marshal([]any{
		json.RawMessage(p.Token.String()),
		p.TokenNum,
		p.Root.String(),
		peakStrs,
		proofStrs,
	})
}

// String renders the proof in its wire form.
func (p *Proof) String() string {
	b, err := p.MarshalJSON()
	if err != nil {
		panic(err)
	}
	return string(b)
}
