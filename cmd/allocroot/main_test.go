package main

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"lockstream/core/types"
	"lockstream/crypto/merkletree"
)

const sampleSet = `allocations:
  - address: "0x0000000000000000000000000000000000000001"
    amount: "3500"
  - address: "0x0000000000000000000000000000000000000002"
    amount: "3500"
  - address: "0x0000000000000000000000000000000000000003"
    amount: "14000"
`

func TestRunProducesVerifiableProofs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "allocations.yaml")
	output := filepath.Join(dir, "proofs.json")
	if err := os.WriteFile(input, []byte(sampleSet), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if err := run(input, output); err != nil {
		t.Fatalf("run: %v", err)
	}

	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var bundle proofOutput
	if err := json.Unmarshal(raw, &bundle); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if bundle.Count != 3 {
		t.Fatalf("count %d", bundle.Count)
	}
	if bundle.TotalEntitlement != "21000" {
		t.Fatalf("total entitlement %s", bundle.TotalEntitlement)
	}

	root, err := decodeHash(bundle.Root)
	if err != nil {
		t.Fatalf("decode root: %v", err)
	}
	for _, entry := range bundle.Proofs {
		account, err := types.ParseAddress(entry.Address)
		if err != nil {
			t.Fatalf("parse address: %v", err)
		}
		amount, ok := new(big.Int).SetString(entry.Amount, 10)
		if !ok {
			t.Fatalf("parse amount %q", entry.Amount)
		}
		proof := make([][32]byte, 0, len(entry.Proof))
		for _, node := range entry.Proof {
			decoded, err := decodeHash(node)
			if err != nil {
				t.Fatalf("decode proof node: %v", err)
			}
			proof = append(proof, decoded)
		}
		if !merkletree.Verify(proof, root, merkletree.Leaf(account, amount)) {
			t.Fatalf("proof for %s does not verify", entry.Address)
		}
	}
}

func TestRunRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "allocations.yaml")
	duplicated := `allocations:
  - address: "0x0000000000000000000000000000000000000001"
    amount: "10"
  - address: "0x0000000000000000000000000000000000000001"
    amount: "20"
`
	if err := os.WriteFile(input, []byte(duplicated), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if err := run(input, filepath.Join(dir, "out.json")); err == nil {
		t.Fatal("expected duplicate rejection")
	}
}

func TestRunRejectsBadAmount(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "allocations.yaml")
	bad := `allocations:
  - address: "0x0000000000000000000000000000000000000001"
    amount: "0"
`
	if err := os.WriteFile(input, []byte(bad), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if err := run(input, filepath.Join(dir, "out.json")); err == nil {
		t.Fatal("expected amount rejection")
	}
}

func decodeHash(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return out, err
	}
	copy(out[:], raw)
	return out, nil
}
