package mmr

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Hash is a 32-byte Keccak-256 digest. It is the compatibility contract
// with downstream mint/verify circuits: do not substitute another
// 256-bit hash here, even one that looks equivalent.
type Hash [32]byte

// hashable is any value with a canonical 32-byte big-endian encoding.
// Both Item and Hash satisfy it, so peak bagging and Merkle-path walks
// share the same two hash operations.
type hashable interface {
	Bytes32() [32]byte
}

// Bytes32 lets a Hash be hashed with itself, e.g. when bagging peaks.
func (h Hash) Bytes32() [32]byte {
	return h
}

// Bytes returns h's big-endian byte slice.
func (h Hash) Bytes() []byte {
	return h[:]
}

// String renders h as "0x" followed by 64 lowercase hex characters.
func (h Hash) String() string {
	return "0x" + common.Bytes2Hex(h[:])
}

// hashOf computes H(v): the digest of v's big-endian encoding.
func hashOf(v hashable) Hash {
	b := v.Bytes32()
	return Hash(crypto.Keccak256Hash(b[:]))
}

// hashPair computes H(a, b): the digest of a's encoding followed
// immediately by b's encoding.
func hashPair(a, b hashable) Hash {
	ab := a.Bytes32()
	bb := b.Bytes32()
	buf := make([]byte, 0, 64)
	buf = append(buf, ab[:]...)
	buf = append(buf, bb[:]...)
	return Hash(crypto.Keccak256Hash(buf))
}
