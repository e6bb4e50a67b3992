package staking

import (
	"errors"
	"math/big"
)

// DefaultRewardsDuration is the length of a reward emission epoch in seconds.
const DefaultRewardsDuration int64 = 7 * 24 * 60 * 60

// Scale is the fixed-point denominator of the reward-per-unit accumulator
// (18 decimals).
var Scale = big.NewInt(1_000_000_000_000_000_000)

// StakeAccount is the per-participant stake record. Records are created
// zero-initialised on first access and are never deleted: IsVestingUser and
// TotalClaimed must survive past the end of active staking for the vesting
// payout math.
type StakeAccount struct {
	// Balance is the currently staked amount; zero once converted or
	// withdrawn.
	Balance *big.Int `json:"balance"`
	// RewardPerUnitPaid snapshots the global accumulator at the account's
	// last interaction. Always <= the stored global accumulator.
	RewardPerUnitPaid *big.Int `json:"rewardPerUnitPaid"`
	// AccruedReward is streamed reward credited but not yet moved into the
	// vesting balance.
	AccruedReward *big.Int `json:"accruedReward"`
	// IsVestingUser is set exactly once, on conversion, and never cleared.
	IsVestingUser bool `json:"isVestingUser"`
	// VestingBalance is the reward amount fixed at conversion time and paid
	// out linearly over the vesting window.
	VestingBalance *big.Int `json:"vestingBalance"`
	// TotalClaimed is the cumulative vesting payout; monotonically
	// non-decreasing.
	TotalClaimed *big.Int `json:"totalClaimed"`
}

// NewStakeAccount returns a zero-initialised record.
func NewStakeAccount() *StakeAccount {
	return &StakeAccount{
		Balance:           big.NewInt(0),
		RewardPerUnitPaid: big.NewInt(0),
		AccruedReward:     big.NewInt(0),
		VestingBalance:    big.NewInt(0),
		TotalClaimed:      big.NewInt(0),
	}
}

// Normalize replaces nil amounts with zero so decoded records are safe to
// operate on.
func (a *StakeAccount) Normalize() *StakeAccount {
	if a == nil {
		return NewStakeAccount()
	}
	if a.Balance == nil {
		a.Balance = big.NewInt(0)
	}
	if a.RewardPerUnitPaid == nil {
		a.RewardPerUnitPaid = big.NewInt(0)
	}
	if a.AccruedReward == nil {
		a.AccruedReward = big.NewInt(0)
	}
	if a.VestingBalance == nil {
		a.VestingBalance = big.NewInt(0)
	}
	if a.TotalClaimed == nil {
		a.TotalClaimed = big.NewInt(0)
	}
	return a
}

// Clone produces a deep copy to protect internal references.
func (a *StakeAccount) Clone() *StakeAccount {
	if a == nil {
		return NewStakeAccount()
	}
	return &StakeAccount{
		Balance:           copyBigInt(a.Balance),
		RewardPerUnitPaid: copyBigInt(a.RewardPerUnitPaid),
		AccruedReward:     copyBigInt(a.AccruedReward),
		IsVestingUser:     a.IsVestingUser,
		VestingBalance:    copyBigInt(a.VestingBalance),
		TotalClaimed:      copyBigInt(a.TotalClaimed),
	}
}

// PoolState is the singleton reward-stream ledger state.
type PoolState struct {
	// TotalStaked equals the sum of all active account balances.
	TotalStaked *big.Int `json:"totalStaked"`
	// RewardPerUnitStored is the monotonically non-decreasing fixed-point
	// accumulator of reward earned per unit staked since inception.
	RewardPerUnitStored *big.Int `json:"rewardPerUnitStored"`
	// LastUpdateTime is the unix time of the last accumulator advance,
	// clamped to PeriodFinish.
	LastUpdateTime int64 `json:"lastUpdateTime"`
	// PeriodFinish is the unix time the active emission epoch ends.
	PeriodFinish int64 `json:"periodFinish"`
	// RewardRate is the emission rate in reward units per second.
	RewardRate *big.Int `json:"rewardRate"`
	// CurrentRewardsInPeriod is the reward volume notified into the active
	// epoch.
	CurrentRewardsInPeriod *big.Int `json:"currentRewardsInPeriod"`
	// HistoricalRewardsTotal is the cumulative reward volume ever notified;
	// monotonically non-decreasing.
	HistoricalRewardsTotal *big.Int `json:"historicalRewardsTotal"`
}

// NewPoolState returns a zeroed ledger state.
func NewPoolState() *PoolState {
	return &PoolState{
		TotalStaked:            big.NewInt(0),
		RewardPerUnitStored:    big.NewInt(0),
		RewardRate:             big.NewInt(0),
		CurrentRewardsInPeriod: big.NewInt(0),
		HistoricalRewardsTotal: big.NewInt(0),
	}
}

// Normalize replaces nil amounts with zero.
func (p *PoolState) Normalize() *PoolState {
	if p == nil {
		return NewPoolState()
	}
	if p.TotalStaked == nil {
		p.TotalStaked = big.NewInt(0)
	}
	if p.RewardPerUnitStored == nil {
		p.RewardPerUnitStored = big.NewInt(0)
	}
	if p.RewardRate == nil {
		p.RewardRate = big.NewInt(0)
	}
	if p.CurrentRewardsInPeriod == nil {
		p.CurrentRewardsInPeriod = big.NewInt(0)
	}
	if p.HistoricalRewardsTotal == nil {
		p.HistoricalRewardsTotal = big.NewInt(0)
	}
	return p
}

// Schedule fixes the calendar gates of the distribution. Immutable after
// engine construction.
type Schedule struct {
	StartVestingTime     int64 `json:"startVestingTime"`
	EndVestingTime       int64 `json:"endVestingTime"`
	StartWithdrawalsTime int64 `json:"startWithdrawalsTime"`
}

// Validate enforces the ordering invariants of the schedule.
func (s Schedule) Validate() error {
	if s.StartVestingTime <= 0 || s.EndVestingTime <= 0 {
		return errors.New("staking: vesting times must be set")
	}
	if s.StartVestingTime >= s.EndVestingTime {
		return errors.New("staking: vesting must start before it ends")
	}
	if s.StartWithdrawalsTime < s.StartVestingTime {
		return errors.New("staking: withdrawals cannot open before vesting starts")
	}
	return nil
}

func copyBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
