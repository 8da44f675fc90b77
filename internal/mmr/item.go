package mmr

import "github.com/holiman/uint256"

// Item is a leaf value: a 256-bit unsigned integer, serialized
// big-endian into 32 bytes wherever it is hashed, and displayed in decimal.
type Item struct {
	v *uint256.Int
}

// NewItem wraps a uint64 token number as an Item.
func NewItem(v uint64) Item {
	return Item{v: uint256.NewInt(v)}
}

// NewItemFromDecimal parses a base-10 string into an Item.
func NewItemFromDecimal(s string) (Item, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Item{}, err
	}
	return Item{v: v}, nil
}

// ZeroItem is the canonical zero value.
func ZeroItem() Item {
	return Item{v: uint256.NewInt(0)}
}

// IsZero reports whether the item is the canonical zero.
func (a Item) IsZero() bool {
	return a.v.IsZero()
}

// Bytes32 is the big-endian, 32-byte encoding used for hashing and the
// wire form.
func (a Item) Bytes32() [32]byte {
	return a.v.Bytes32()
}

// String renders the item in decimal, as it appears in proof output.
func (a Item) String() string {
	return a.v.String()
}
