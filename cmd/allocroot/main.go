package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"

	"gopkg.in/yaml.v3"

	"lockstream/core/types"
	"lockstream/crypto/merkletree"
	"lockstream/observability/logging"
)

// allocroot builds the merkle commitment for a one-time allocation set. It
// reads a YAML file of (address, amount) pairs, prints the root to commit via
// SetRoot, and writes the per-account proofs claimants submit with Claim.

type allocationFile struct {
	Allocations []allocationEntry `yaml:"allocations"`
}

type allocationEntry struct {
	Address string `yaml:"address"`
	Amount  string `yaml:"amount"`
}

type proofOutput struct {
	Root             string         `json:"root"`
	TotalEntitlement string         `json:"totalEntitlement"`
	Count            int            `json:"count"`
	Proofs           []accountProof `json:"proofs"`
}

type accountProof struct {
	Address string   `json:"address"`
	Amount  string   `json:"amount"`
	Index   int      `json:"index"`
	Proof   []string `json:"proof"`
}

func main() {
	inputPath := flag.String("input", "allocations.yaml", "YAML allocation set")
	outputPath := flag.String("out", "proofs.json", "where to write the proof bundle")
	flag.Parse()

	logger := logging.Setup("allocroot", os.Getenv("LOCKSTREAM_ENV"))

	if err := run(*inputPath, *outputPath); err != nil {
		logger.Error("allocroot failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(inputPath, outputPath string) error {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read allocation set: %w", err)
	}
	var file allocationFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse allocation set: %w", err)
	}
	if len(file.Allocations) == 0 {
		return fmt.Errorf("allocation set %s is empty", inputPath)
	}

	accounts := make([]types.Address, 0, len(file.Allocations))
	amounts := make([]*big.Int, 0, len(file.Allocations))
	leaves := make([][32]byte, 0, len(file.Allocations))
	seen := make(map[types.Address]struct{}, len(file.Allocations))
	total := big.NewInt(0)
	for i, entry := range file.Allocations {
		account, err := types.ParseAddress(entry.Address)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if _, dup := seen[account]; dup {
			return fmt.Errorf("entry %d: duplicate address %s", i, account)
		}
		seen[account] = struct{}{}
		amount, ok := new(big.Int).SetString(entry.Amount, 10)
		if !ok || amount.Sign() <= 0 {
			return fmt.Errorf("entry %d: invalid amount %q", i, entry.Amount)
		}
		accounts = append(accounts, account)
		amounts = append(amounts, amount)
		leaves = append(leaves, merkletree.Leaf(account, amount))
		total.Add(total, amount)
	}

	tree, err := merkletree.New(leaves)
	if err != nil {
		return err
	}
	root := tree.Root()

	out := proofOutput{
		Root:             "0x" + hex.EncodeToString(root[:]),
		TotalEntitlement: total.String(),
		Count:            len(accounts),
	}
	for i, account := range accounts {
		proof, err := tree.Prove(i)
		if err != nil {
			return err
		}
		encoded := make([]string, 0, len(proof))
		for _, node := range proof {
			encoded = append(encoded, "0x"+hex.EncodeToString(node[:]))
		}
		out.Proofs = append(out.Proofs, accountProof{
			Address: account.Hex(),
			Amount:  amounts[i].String(),
			Index:   i,
			Proof:   encoded,
		})
	}

	bundle, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, bundle, 0o644); err != nil {
		return fmt.Errorf("write proof bundle: %w", err)
	}

	fmt.Println(out.Root)
	return nil
}
