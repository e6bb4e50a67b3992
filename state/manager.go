package state

import (
	"encoding/json"
	"errors"
	"fmt"

	"lockstream/core/types"
	"lockstream/native/allocation"
	"lockstream/native/staking"
	"lockstream/storage"
)

// Manager persists the engines' records in an account-keyed key-value store.
// It satisfies both staking.EngineState and allocation.EngineState: missing
// account records decode to zero-initialised defaults, matching the create-
// on-first-access semantics the engines expect.
type Manager struct {
	db storage.Database
}

var (
	_ staking.EngineState    = (*Manager)(nil)
	_ allocation.EngineState = (*Manager)(nil)
)

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func (m *Manager) get(key []byte, out any) (bool, error) {
	raw, err := m.db.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("state: decode %q: %w", key, err)
	}
	return true, nil
}

func (m *Manager) put(key []byte, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", key, err)
	}
	return m.db.Put(key, raw)
}

// StakeAccount loads the stake record for the address, zero-initialised when
// absent.
func (m *Manager) StakeAccount(addr types.Address) (*staking.StakeAccount, error) {
	record := staking.NewStakeAccount()
	if _, err := m.get(stakeAccountKey(addr), record); err != nil {
		return nil, err
	}
	return record.Normalize(), nil
}

// PutStakeAccount stores the stake record for the address.
func (m *Manager) PutStakeAccount(addr types.Address, record *staking.StakeAccount) error {
	return m.put(stakeAccountKey(addr), record)
}

// PoolState loads the reward-stream ledger state, zeroed when absent.
func (m *Manager) PoolState() (*staking.PoolState, error) {
	pool := staking.NewPoolState()
	if _, err := m.get(stakePoolKey, pool); err != nil {
		return nil, err
	}
	return pool.Normalize(), nil
}

// PutPoolState stores the reward-stream ledger state.
func (m *Manager) PutPoolState(pool *staking.PoolState) error {
	return m.put(stakePoolKey, pool)
}

// ClaimRecord loads the allocation claim record, unclaimed when absent.
func (m *Manager) ClaimRecord(addr types.Address) (*allocation.ClaimRecord, error) {
	record := allocation.NewClaimRecord()
	if _, err := m.get(claimRecordKey(addr), record); err != nil {
		return nil, err
	}
	return record.Normalize(), nil
}

// PutClaimRecord stores the allocation claim record.
func (m *Manager) PutClaimRecord(addr types.Address, record *allocation.ClaimRecord) error {
	return m.put(claimRecordKey(addr), record)
}

// AllocationPool loads the distribution pool. The boolean reports whether the
// pool was ever initialised; the allocation engine treats absence as a
// precondition failure rather than a default.
func (m *Manager) AllocationPool() (*allocation.Pool, bool, error) {
	pool := &allocation.Pool{}
	ok, err := m.get(allocationPoolKey, pool)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return pool.Normalize(), true, nil
}

// PutAllocationPool stores the distribution pool.
func (m *Manager) PutAllocationPool(pool *allocation.Pool) error {
	return m.put(allocationPoolKey, pool)
}
