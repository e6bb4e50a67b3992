package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockstream.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RewardsDuration != 7*24*60*60 {
		t.Fatalf("default rewards duration %d", cfg.RewardsDuration)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default file not written: %v", err)
	}
	// Loading the written default must succeed.
	if _, err := Load(path); err != nil {
		t.Fatalf("reload: %v", err)
	}
}

func TestLoadRejectsBadSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockstream.toml")
	content := "StartVestingTime = 200\nEndVestingTime = 100\nStartWithdrawalsTime = 200\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected schedule rejection")
	}
}

func TestLoadRejectsBadOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockstream.toml")
	if err := os.WriteFile(path, []byte("OwnerAddress = \"not-an-address\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected owner rejection")
	}
}

func TestOwnerParsing(t *testing.T) {
	cfg := &Config{OwnerAddress: "0x00000000000000000000000000000000000000ff"}
	owner, err := cfg.Owner()
	if err != nil {
		t.Fatalf("owner: %v", err)
	}
	if owner[19] != 0xff {
		t.Fatalf("owner parsed incorrectly: %s", owner)
	}

	empty := &Config{}
	owner, err = empty.Owner()
	if err != nil {
		t.Fatalf("empty owner: %v", err)
	}
	if !owner.IsZero() {
		t.Fatal("unset owner must be zero")
	}
}
