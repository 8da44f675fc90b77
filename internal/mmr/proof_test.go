package mmr

import "testing"

// S4/S5: a proof verifies, verifies its ancestor, and both checks break
// under single-byte corruption.
func TestScenarioProofAndAncestryAndCorruption(t *testing.T) {
	m := New(NewItem(1))
	ancestorRoot := m.Root()
	m.Append(NewItem(2))

	p := m.GenProof(0)

	if !p.Verify() {
		t.Fatal("proof does not verify")
	}
	if !p.VerifyAncestor(ancestorRoot) {
		t.Fatal("proof does not verify as an ancestor of the 1-leaf MMR")
	}

	corruptRoot := p.Root
	corruptRoot[0] ^= 0xff
	corrupted := *p
	corrupted.Root = corruptRoot
	if corrupted.Verify() {
		t.Fatal("corrupting the root should break verify()")
	}

	corruptAncestor := ancestorRoot
	corruptAncestor[0] ^= 0xff
	if p.VerifyAncestor(corruptAncestor) {
		t.Fatal("corrupting ancestor_root should break verify_ancestor()")
	}
}

// Property 4: the proof of leaf k-1 (GenProof(k-2)) against M_k satisfies
// VerifyAncestor(root(M_{k-1})).
func TestAncestryHoldsForEveryStep(t *testing.T) {
	const n = 64
	m := New(NewItem(1))
	roots := []Hash{m.Root()}

	for k := uint64(2); k <= n; k++ {
		m.Append(NewItem(k))
		roots = append(roots, m.Root())
	}

	// Rebuild incrementally so we have, for every k, the proof of leaf
	// k-1 generated against the k-leaf MMR and the (k-1)-leaf ancestor root.
	m2 := New(NewItem(1))
	ancestorRoots := []Hash{m2.Root()}
	for k := uint64(2); k <= n; k++ {
		m2.Append(NewItem(k))
		ancestorRoots = append(ancestorRoots, m2.Root())

		proof := m2.GenProof(k - 2) // leaf k-1, 0-based index k-2
		if !proof.VerifyAncestor(ancestorRoots[len(ancestorRoots)-2]) {
			t.Fatalf("at k=%d: proof of leaf %d does not verify as ancestor of root(M_%d)", k, k-1, k-1)
		}
	}
}

// Property 5: non-ancestry — wrong root or wrong token_num must fail.
func TestNonAncestry(t *testing.T) {
	m := New(NewItem(1))
	m.Append(NewItem(2))
	ancestorRoot := m.Root() // the 2-leaf MMR is the ancestor of leaf "2"
	m.Append(NewItem(3))

	p := m.GenProof(1) // leaf "2", token_num 2
	if !p.VerifyAncestor(ancestorRoot) {
		t.Fatal("sanity check: correct ancestor_root should verify")
	}

	otherAncestor := ancestorRoot
	otherAncestor[0] ^= 0x01
	if p.VerifyAncestor(otherAncestor) {
		t.Fatal("a different ancestor_root should not verify")
	}

	wrongTokenNum := *p
	wrongTokenNum.TokenNum = p.TokenNum + 1
	if wrongTokenNum.VerifyAncestor(ancestorRoot) {
		t.Fatal("a mismatched token_num should not verify as an ancestor")
	}
}

// S6: a 7-leaf MMR, proof of leaf 4 (even token_num), ancestry against
// the 4-leaf root, and corruption of a matching peak.
func TestScenarioEvenTokenAncestry(t *testing.T) {
	m := New(NewItem(1))
	var root4 Hash
	for l := uint64(2); l <= 7; l++ {
		m.Append(NewItem(l))
		if l == 4 {
			root4 = m.Root()
		}
	}

	p := m.GenProof(3) // leaf index 3 -> token_num 4
	if p.TokenNum != 4 {
		t.Fatalf("token_num = %d, want 4", p.TokenNum)
	}
	if !p.VerifyAncestor(root4) {
		t.Fatal("proof of leaf 4 should verify as ancestor of the 4-leaf root")
	}

	numMatching := 1 // popcount(4 & 5) = popcount(4) = 1
	if len(p.Peaks) < numMatching {
		t.Fatalf("expected at least %d peaks, got %d", numMatching, len(p.Peaks))
	}
	corrupted := *p
	corruptedPeaks := append([]Hash(nil), p.Peaks...)
	corruptedPeaks[numMatching-1][0] ^= 0xff
	corrupted.Peaks = corruptedPeaks

	if corrupted.VerifyAncestor(root4) {
		t.Fatal("corrupting a matching peak should break verify_ancestor()")
	}
}

func TestDefaultProof(t *testing.T) {
	p := DefaultProof()
	if p.TokenNum != 0 {
		t.Errorf("default proof token_num = %d, want 0", p.TokenNum)
	}
	if !p.Token.IsZero() {
		t.Error("default proof token should be zero")
	}
	if len(p.Peaks) != 0 || len(p.MerkleProof) != 0 {
		t.Error("default proof should have empty peaks and merkle proof")
	}

	var zero Hash
	if p.Root != zero {
		t.Error("default proof root should be the zero hash")
	}
}

func TestProofMarshalJSONShape(t *testing.T) {
	m := New(NewItem(1))
	m.Append(NewItem(2))
	p := m.GenProof(0)

	b, err := p.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}
	s := string(b)

	for _, forbidden := range []byte{' ', '\t', '\n'} {
		for _, c := range s {
			if byte(c) == forbidden {
				t.Fatalf("proof JSON contains whitespace: %q", s)
			}
		}
	}
	if s[0] != '[' || s[len(s)-1] != ']' {
		t.Fatalf("proof JSON is not a bracketed array: %q", s)
	}
}

func TestDefaultProofMarshalsToSpecFormat(t *testing.T) {
	p := DefaultProof()
	s := p.String()
	want := `[0,0,"0x0000000000000000000000000000000000000000000000000000000000000000",[],[]]`
	if s != want {
		t.Fatalf("default proof = %q, want %q", s, want)
	}
}
