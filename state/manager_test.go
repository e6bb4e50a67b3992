package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"lockstream/core/types"
	"lockstream/native/allocation"
	"lockstream/native/staking"
	"lockstream/storage"
)

var (
	_ staking.EngineState    = (*Manager)(nil)
	_ allocation.EngineState = (*Manager)(nil)
)

func testAddr(index byte) types.Address {
	var out types.Address
	out[19] = index
	return out
}

func newManager() *Manager {
	return NewManager(storage.NewMemDB())
}

func TestStakeAccountDefaultsToZero(t *testing.T) {
	m := newManager()
	record, err := m.StakeAccount(testAddr(1))
	require.NoError(t, err)
	require.Zero(t, record.Balance.Sign())
	require.Zero(t, record.AccruedReward.Sign())
	require.False(t, record.IsVestingUser)
}

func TestStakeAccountRoundTrip(t *testing.T) {
	m := newManager()
	record := staking.NewStakeAccount()
	record.Balance = big.NewInt(12_345)
	record.RewardPerUnitPaid = new(big.Int).Mul(big.NewInt(7), staking.Scale)
	record.AccruedReward = big.NewInt(99)
	record.IsVestingUser = true
	record.VestingBalance = big.NewInt(5000)
	record.TotalClaimed = big.NewInt(1250)
	require.NoError(t, m.PutStakeAccount(testAddr(1), record))

	loaded, err := m.StakeAccount(testAddr(1))
	require.NoError(t, err)
	require.Equal(t, record, loaded)

	// Other addresses are untouched.
	other, err := m.StakeAccount(testAddr(2))
	require.NoError(t, err)
	require.Zero(t, other.Balance.Sign())
}

func TestPoolStateRoundTrip(t *testing.T) {
	m := newManager()
	pool, err := m.PoolState()
	require.NoError(t, err)
	require.Zero(t, pool.TotalStaked.Sign())

	pool.TotalStaked = big.NewInt(400)
	pool.RewardPerUnitStored = big.NewInt(123_456_789)
	pool.LastUpdateTime = 777
	pool.PeriodFinish = 999
	pool.RewardRate = big.NewInt(11)
	pool.CurrentRewardsInPeriod = big.NewInt(1000)
	pool.HistoricalRewardsTotal = big.NewInt(5000)
	require.NoError(t, m.PutPoolState(pool))

	loaded, err := m.PoolState()
	require.NoError(t, err)
	require.Equal(t, pool, loaded)
}

func TestClaimRecordRoundTrip(t *testing.T) {
	m := newManager()
	record, err := m.ClaimRecord(testAddr(3))
	require.NoError(t, err)
	require.False(t, record.Claimed)

	record.Claimed = true
	record.PaidAmount = big.NewInt(3500)
	record.ClaimedAt = 42
	require.NoError(t, m.PutClaimRecord(testAddr(3), record))

	loaded, err := m.ClaimRecord(testAddr(3))
	require.NoError(t, err)
	require.Equal(t, record, loaded)
}

func TestAllocationPoolRoundTrip(t *testing.T) {
	m := newManager()
	_, ok, err := m.AllocationPool()
	require.NoError(t, err)
	require.False(t, ok, "pool must read as uninitialised before the first put")

	pool := &allocation.Pool{
		TotalEligible:        6,
		RemainingEligible:    5,
		TotalEntitlement:     big.NewInt(21_000),
		RemainingEntitlement: big.NewInt(17_500),
		PoolBalance:          big.NewInt(17_500),
		DeployTime:           1,
		StartTime:            2,
		ExpiryTime:           3,
		GracePeriod:          4,
		Dao:                  testAddr(9),
	}
	pool.MerkleRoot[0] = 0xab
	require.NoError(t, m.PutAllocationPool(pool))

	loaded, ok, err := m.AllocationPool()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, pool, loaded)
}

func TestEnginesRunAgainstManager(t *testing.T) {
	// End-to-end: the staking engine drives the persistent manager the same
	// way it drives the in-memory test state.
	m := newManager()
	engine, err := staking.NewEngine(testAddr(0xff), staking.Schedule{
		StartVestingTime:     1_000,
		EndVestingTime:       2_000,
		StartWithdrawalsTime: 1_500,
	})
	require.NoError(t, err)
	engine.SetState(m)
	engine.SetTokens(nullToken{}, nullToken{})
	engine.SetNowFunc(func() int64 { return 0 })

	require.NoError(t, engine.Stake(testAddr(1), big.NewInt(250)))
	total, err := engine.TotalStaked()
	require.NoError(t, err)
	require.Equal(t, int64(250), total.Int64())

	// A fresh manager over the same database sees the persisted state.
	reopened := staking.EngineState(m)
	record, err := reopened.StakeAccount(testAddr(1))
	require.NoError(t, err)
	require.Equal(t, int64(250), record.Balance.Int64())
}

type nullToken struct{}

func (nullToken) TransferIn(types.Address, *big.Int) error  { return nil }
func (nullToken) TransferOut(types.Address, *big.Int) error { return nil }
