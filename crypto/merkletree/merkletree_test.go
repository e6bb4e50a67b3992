package merkletree

import (
	"math/big"
	"testing"

	"lockstream/core/types"
)

func testAddr(index byte) types.Address {
	var out types.Address
	out[19] = index
	return out
}

func buildLeaves(count int) [][32]byte {
	leaves := make([][32]byte, 0, count)
	for i := 0; i < count; i++ {
		leaves = append(leaves, Leaf(testAddr(byte(i+1)), big.NewInt(int64(1000*(i+1)))))
	}
	return leaves
}

func TestEmptyTreeRejected(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for empty leaf set")
	}
}

func TestSingleLeafRootIsLeaf(t *testing.T) {
	leaf := Leaf(testAddr(1), big.NewInt(42))
	tree, err := New([][32]byte{leaf})
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	if tree.Root() != leaf {
		t.Fatal("single-leaf root must equal the leaf")
	}
	proof, err := tree.Prove(0)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}
	if len(proof) != 0 {
		t.Fatalf("expected empty proof, got %d nodes", len(proof))
	}
	if !Verify(proof, tree.Root(), leaf) {
		t.Fatal("empty proof must verify against the leaf root")
	}
}

func TestProveAndVerifyAllLeaves(t *testing.T) {
	for _, count := range []int{2, 3, 6, 7, 16} {
		leaves := buildLeaves(count)
		tree, err := New(leaves)
		if err != nil {
			t.Fatalf("build tree of %d: %v", count, err)
		}
		for i, leaf := range leaves {
			proof, err := tree.Prove(i)
			if err != nil {
				t.Fatalf("prove leaf %d of %d: %v", i, count, err)
			}
			if !Verify(proof, tree.Root(), leaf) {
				t.Fatalf("proof for leaf %d of %d did not verify", i, count)
			}
		}
	}
}

func TestForeignLeafRejected(t *testing.T) {
	leaves := buildLeaves(6)
	tree, err := New(leaves)
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	proof, err := tree.Prove(2)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}
	forged := Leaf(testAddr(99), big.NewInt(1))
	if Verify(proof, tree.Root(), forged) {
		t.Fatal("forged leaf must not verify")
	}
}

func TestTamperedAmountRejected(t *testing.T) {
	leaves := buildLeaves(4)
	tree, err := New(leaves)
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	proof, err := tree.Prove(1)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}
	inflated := Leaf(testAddr(2), big.NewInt(2000+1))
	if Verify(proof, tree.Root(), inflated) {
		t.Fatal("inflated entitlement must not verify")
	}
}

func TestLeafEncodingDistinguishesAmounts(t *testing.T) {
	a := Leaf(testAddr(1), big.NewInt(1))
	b := Leaf(testAddr(1), big.NewInt(256))
	if a == b {
		t.Fatal("different amounts must hash to different leaves")
	}
}

func TestProveOutOfRange(t *testing.T) {
	tree, err := New(buildLeaves(3))
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	if _, err := tree.Prove(3); err == nil {
		t.Fatal("expected out-of-range error")
	}
	if _, err := tree.Prove(-1); err == nil {
		t.Fatal("expected out-of-range error")
	}
}
