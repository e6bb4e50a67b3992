package merkletree

import (
	"bytes"
	"errors"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"lockstream/core/types"
)

// ErrNoLeaves is returned when a tree is constructed from an empty set.
var ErrNoLeaves = errors.New("merkletree: no leaves")

// Leaf hashes an (account, entitledAmount) pair into a membership leaf. The
// amount is encoded as a 32-byte big-endian word so leaves are unambiguous
// regardless of the amount's magnitude.
func Leaf(account types.Address, amount *big.Int) [32]byte {
	buf := make([]byte, len(account)+32)
	copy(buf, account[:])
	if amount != nil {
		amount.FillBytes(buf[len(account):])
	}
	var out [32]byte
	copy(out[:], ethcrypto.Keccak256(buf))
	return out
}

// hashPair combines two nodes with the smaller one first, so proofs carry no
// left/right direction bits.
func hashPair(a, b [32]byte) [32]byte {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	var out [32]byte
	copy(out[:], ethcrypto.Keccak256(a[:], b[:]))
	return out
}

// Tree is a fixed membership set committed to by a single root hash. Odd
// nodes at any layer are promoted unchanged to the next layer.
type Tree struct {
	layers [][][32]byte
}

// New builds a tree over the supplied leaves. The leaf order is preserved;
// proof indices refer to positions in the input slice.
func New(leaves [][32]byte) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrNoLeaves
	}
	base := make([][32]byte, len(leaves))
	copy(base, leaves)
	layers := [][][32]byte{base}
	for current := base; len(current) > 1; {
		next := make([][32]byte, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 == len(current) {
				next = append(next, current[i])
				continue
			}
			next = append(next, hashPair(current[i], current[i+1]))
		}
		layers = append(layers, next)
		current = next
	}
	return &Tree{layers: layers}, nil
}

// Root returns the committed root hash.
func (t *Tree) Root() [32]byte {
	top := t.layers[len(t.layers)-1]
	return top[0]
}

// Prove returns the sibling path for the leaf at the given input position.
func (t *Tree) Prove(index int) ([][32]byte, error) {
	if index < 0 || index >= len(t.layers[0]) {
		return nil, errors.New("merkletree: leaf index out of range")
	}
	proof := make([][32]byte, 0, len(t.layers)-1)
	for _, layer := range t.layers[:len(t.layers)-1] {
		sibling := index ^ 1
		if sibling < len(layer) {
			proof = append(proof, layer[sibling])
		}
		index /= 2
	}
	return proof, nil
}

// Verify checks a sibling path against the committed root.
func Verify(proof [][32]byte, root [32]byte, leaf [32]byte) bool {
	computed := leaf
	for _, sibling := range proof {
		computed = hashPair(computed, sibling)
	}
	return computed == root
}

// Verifier adapts the package-level Verify function to the allocation
// engine's ProofVerifier collaborator interface.
type Verifier struct{}

// Verify implements the membership-proof check.
func (Verifier) Verify(proof [][32]byte, root [32]byte, leaf [32]byte) bool {
	return Verify(proof, root, leaf)
}
