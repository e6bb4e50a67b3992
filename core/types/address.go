package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Address identifies a participant account in the engines' state.
type Address [20]byte

// IsZero reports whether the address is the unset sentinel.
func (a Address) IsZero() bool { return a == Address{} }

// Hex renders the address as a 0x-prefixed lowercase hex string.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// String implements fmt.Stringer.
func (a Address) String() string { return a.Hex() }

// ParseAddress decodes a 0x-prefixed or bare 40-character hex string.
func ParseAddress(raw string) (Address, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "0x")
	trimmed = strings.TrimPrefix(trimmed, "0X")
	if len(trimmed) != 2*len(Address{}) {
		return Address{}, fmt.Errorf("types: address must be %d hex characters, got %d", 2*len(Address{}), len(trimmed))
	}
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return Address{}, fmt.Errorf("types: invalid address %q: %w", raw, err)
	}
	var out Address
	copy(out[:], decoded)
	return out, nil
}
