package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"lockstream/core/types"
)

// Config describes a lockstream deployment: the owner, the distribution
// schedule, and the storage location. Schedule times are unix seconds.
type Config struct {
	DataDir              string `toml:"DataDir"`
	OwnerAddress         string `toml:"OwnerAddress"`
	StartVestingTime     int64  `toml:"StartVestingTime"`
	EndVestingTime       int64  `toml:"EndVestingTime"`
	StartWithdrawalsTime int64  `toml:"StartWithdrawalsTime"`
	RewardsDuration      int64  `toml:"RewardsDurationSeconds"`
	AllocationDelay      int64  `toml:"AllocationDelaySeconds"`
	AllocationWindow     int64  `toml:"AllocationWindowSeconds"`
	AllocationGrace      int64  `toml:"AllocationGraceSeconds"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./lockstream-data"
	}
	if c.RewardsDuration == 0 {
		c.RewardsDuration = 7 * 24 * 60 * 60
	}
	if c.AllocationWindow == 0 {
		c.AllocationWindow = 14 * 24 * 60 * 60
	}
}

// Validate checks the schedule ordering and address fields.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OwnerAddress) != "" {
		if _, err := types.ParseAddress(c.OwnerAddress); err != nil {
			return fmt.Errorf("config: OwnerAddress: %w", err)
		}
	}
	if c.StartVestingTime != 0 || c.EndVestingTime != 0 {
		if c.StartVestingTime >= c.EndVestingTime {
			return errors.New("config: vesting must start before it ends")
		}
		if c.StartWithdrawalsTime < c.StartVestingTime {
			return errors.New("config: withdrawals cannot open before vesting starts")
		}
	}
	if c.RewardsDuration < 0 || c.AllocationDelay < 0 || c.AllocationWindow < 0 || c.AllocationGrace < 0 {
		return errors.New("config: durations cannot be negative")
	}
	return nil
}

// Owner parses the configured owner address, zero when unset.
func (c *Config) Owner() (types.Address, error) {
	if strings.TrimSpace(c.OwnerAddress) == "" {
		return types.Address{}, nil
	}
	return types.ParseAddress(c.OwnerAddress)
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
