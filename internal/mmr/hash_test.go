package mmr

import "testing"

func TestHashStringFormat(t *testing.T) {
	h := hashOf(NewItem(1))
	s := h.String()

	if len(s) != 66 {
		t.Fatalf("hash string length = %d, want 66", len(s))
	}
	if s[:2] != "0x" {
		t.Fatalf("hash string %q does not start with 0x", s)
	}
	for _, c := range s[2:] {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			t.Fatalf("hash string %q has non-lowercase-hex character %q", s, c)
		}
	}
}

func TestHashOfDeterministic(t *testing.T) {
	a := hashOf(NewItem(42))
	b := hashOf(NewItem(42))
	if a != b {
		t.Error("hashOf is not deterministic for identical input")
	}
}

func TestHashOfDistinguishesInputs(t *testing.T) {
	a := hashOf(NewItem(1))
	b := hashOf(NewItem(2))
	if a == b {
		t.Error("hashOf(1) == hashOf(2), expected distinct digests")
	}
}

func TestHashPairOrderMatters(t *testing.T) {
	x := NewItem(1)
	y := NewItem(2)
	if hashPair(x, y) == hashPair(y, x) {
		t.Error("hashPair(x, y) == hashPair(y, x); concatenation order should matter")
	}
}

func TestHashPairDeterministic(t *testing.T) {
	x := NewItem(7)
	y := NewItem(8)
	if hashPair(x, y) != hashPair(x, y) {
		t.Error("hashPair is not deterministic")
	}
}

func TestHashIsHashable(t *testing.T) {
	// A Hash must itself be hashable so that peak bagging can fold
	// Hash values with the same H(a,b) operation used for leaves.
	h1 := hashOf(NewItem(1))
	h2 := hashOf(NewItem(2))
	if hashPair(h1, h2) != hashPair(h1, h2) {
		t.Error("hashPair over Hash operands is not deterministic")
	}
}
