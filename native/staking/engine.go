package staking

import (
	"math/big"
	"time"

	"lockstream/core/events"
	"lockstream/core/types"
	"lockstream/observability/metrics"
)

// TokenTransfer abstracts the asset movements the engine depends on. Transfer
// implementations must report failure instead of silently under-transferring;
// fee-on-transfer assets are unsupported.
type TokenTransfer interface {
	TransferIn(from types.Address, amount *big.Int) error
	TransferOut(to types.Address, amount *big.Int) error
}

// Converter produces the staking asset from a different input asset. The
// engine only enforces the minOut slippage floor on its output.
type Converter interface {
	Convert(input *big.Int, minOut *big.Int) (*big.Int, error)
}

// EngineState is the account-keyed storage the engine reads and writes.
// StakeAccount must return a zero-initialised record for unknown addresses;
// absence is never an error.
type EngineState interface {
	StakeAccount(addr types.Address) (*StakeAccount, error)
	PutStakeAccount(addr types.Address, account *StakeAccount) error
	PoolState() (*PoolState, error)
	PutPoolState(pool *PoolState) error
}

type stakingEvent struct {
	evt *types.Event
}

func (e stakingEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e stakingEvent) Event() *types.Event { return e.evt }

// Engine composes the reward-stream ledger with the per-account stake
// lifecycle and its calendar gates. All operations execute to completion
// atomically with respect to each other; the caller serializes submissions.
type Engine struct {
	state        EngineState
	emitter      events.Emitter
	metrics      *metrics.StakingMetrics
	owner        types.Address
	schedule     Schedule
	duration     int64
	stakingToken TokenTransfer
	rewardToken  TokenTransfer
	converter    Converter
	target       types.Address
	nowFn        func() int64
	paused       bool
}

// NewEngine validates the schedule and returns an engine with a no-op event
// emitter. State, tokens, and collaborators are wired via the setters.
func NewEngine(owner types.Address, schedule Schedule) (*Engine, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		emitter:  events.NoopEmitter{},
		owner:    owner,
		schedule: schedule,
		duration: DefaultRewardsDuration,
		nowFn:    func() int64 { return time.Now().Unix() },
	}, nil
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state EngineState) { e.state = state }

// SetTokens configures the staking and reward asset transfer collaborators.
func (e *Engine) SetTokens(staking, reward TokenTransfer) {
	e.stakingToken = staking
	e.rewardToken = reward
}

// SetConverter configures the asset-conversion helper used by
// StakeViaConversion.
func (e *Engine) SetConverter(converter Converter) { e.converter = converter }

// SetMetrics attaches a metrics registry. Nil disables metric emission.
func (e *Engine) SetMetrics(m *metrics.StakingMetrics) { e.metrics = m }

// SetRewardsDuration overrides the emission epoch length. Intended for tests;
// must be called before the first NotifyNewRewards.
func (e *Engine) SetRewardsDuration(seconds int64) {
	if seconds > 0 {
		e.duration = seconds
	}
}

// SetNowFunc overrides the time source used for every calendar gate.
// Primarily intended for tests to inject deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt *types.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(stakingEvent{evt: evt})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

// Schedule returns the immutable calendar gates.
func (e *Engine) Schedule() Schedule { return e.schedule }

// ConversionTarget returns the configured downstream deposit address, zero
// when unset.
func (e *Engine) ConversionTarget() types.Address { return e.target }

// SetConversionTarget configures the downstream deposit address that receives
// converted stakes. Owner-gated; once a target is set withdrawals are
// refused and stakers are expected to convert.
func (e *Engine) SetConversionTarget(caller, target types.Address) error {
	if caller != e.owner {
		return ErrNotOwner
	}
	e.target = target
	e.emit(NewTargetUpdatedEvent(target))
	return nil
}

// Pause stops new deposits. Exits (convert, claim, withdraw) stay open.
func (e *Engine) Pause(caller types.Address) error {
	if caller != e.owner {
		return ErrNotOwner
	}
	e.paused = true
	e.emit(NewPausedEvent())
	return nil
}

// Unpause re-opens deposits.
func (e *Engine) Unpause(caller types.Address) error {
	if caller != e.owner {
		return ErrNotOwner
	}
	e.paused = false
	e.emit(NewUnpausedEvent())
	return nil
}

func (e *Engine) loadPool() (*PoolState, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	pool, err := e.state.PoolState()
	if err != nil {
		return nil, err
	}
	return pool.Normalize(), nil
}

func (e *Engine) loadAccount(addr types.Address) (*StakeAccount, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	account, err := e.state.StakeAccount(addr)
	if err != nil {
		return nil, err
	}
	return account.Normalize(), nil
}

// Stake deposits amount of the staking asset for the caller. Legal at any
// time while deposits are not paused. The asset pull from the caller runs
// before the stake is recorded so a rejected pull leaves no state behind.
func (e *Engine) Stake(from types.Address, amount *big.Int) error {
	if e.stakingToken == nil {
		return ErrNoStakingToken
	}
	if e.paused {
		return ErrPaused
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	return e.credit(from, amount)
}

// StakeViaConversion deposits the output of the external conversion helper,
// enforcing minOut as a slippage floor on its output.
func (e *Engine) StakeViaConversion(from types.Address, input, minOut *big.Int) error {
	if e.stakingToken == nil {
		return ErrNoStakingToken
	}
	if e.converter == nil {
		return ErrNoConverter
	}
	if e.paused {
		return ErrPaused
	}
	if input == nil || input.Sign() <= 0 {
		return ErrZeroAmount
	}
	out, err := e.converter.Convert(input, minOut)
	if err != nil {
		return err
	}
	if out == nil || out.Sign() <= 0 || (minOut != nil && out.Cmp(minOut) < 0) {
		return ErrSlippage
	}
	return e.credit(from, out)
}

// credit pulls the asset, then runs the ledger update and adds amount to the
// caller's stake. The slippage/zero guards have already run.
func (e *Engine) credit(from types.Address, amount *big.Int) error {
	pool, err := e.loadPool()
	if err != nil {
		return err
	}
	account, err := e.loadAccount(from)
	if err != nil {
		return err
	}
	if err := e.stakingToken.TransferIn(from, amount); err != nil {
		return err
	}
	pool.settle(account, e.now())
	account.Balance.Add(account.Balance, amount)
	pool.TotalStaked.Add(pool.TotalStaked, amount)
	if err := e.state.PutStakeAccount(from, account); err != nil {
		return err
	}
	if err := e.state.PutPoolState(pool); err != nil {
		return err
	}
	e.emit(NewStakedEvent(from, amount, pool.TotalStaked))
	e.metrics.ObserveStake(bigFloat(pool.TotalStaked))
	return nil
}

// Convert exits the caller from active staking into vesting: the accrued
// stream reward becomes the vesting balance and the staked amount is
// forwarded to the configured downstream target. One-shot per account.
func (e *Engine) Convert(from types.Address) error {
	if e.stakingToken == nil {
		return ErrNoStakingToken
	}
	if e.target.IsZero() {
		return ErrTargetNotSet
	}
	pool, err := e.loadPool()
	if err != nil {
		return err
	}
	account, err := e.loadAccount(from)
	if err != nil {
		return err
	}
	if account.Balance.Sign() == 0 {
		return ErrNothingToConvert
	}
	staked := copyBigInt(account.Balance)
	if err := e.stakingToken.TransferOut(e.target, staked); err != nil {
		return err
	}
	pool.settle(account, e.now())
	account.VestingBalance.Add(account.VestingBalance, account.AccruedReward)
	account.AccruedReward = big.NewInt(0)
	account.Balance = big.NewInt(0)
	account.IsVestingUser = true
	pool.TotalStaked.Sub(pool.TotalStaked, staked)
	if err := e.state.PutStakeAccount(from, account); err != nil {
		return err
	}
	if err := e.state.PutPoolState(pool); err != nil {
		return err
	}
	e.emit(NewConvertedEvent(from, staked, account.VestingBalance, e.target))
	e.metrics.ObserveConversion(bigFloat(pool.TotalStaked))
	return nil
}

// Claim pays the linearly vested portion of the caller's converted rewards.
// Legal only for vesting users from StartVestingTime onward.
func (e *Engine) Claim(from types.Address) error {
	if e.rewardToken == nil {
		return ErrNoRewardToken
	}
	account, err := e.loadAccount(from)
	if err != nil {
		return err
	}
	if !account.IsVestingUser {
		return ErrNotVestingUser
	}
	now := e.now()
	if now < e.schedule.StartVestingTime {
		return ErrVestingNotStarted
	}
	claimable := claimableVesting(e.schedule, account, now)
	if claimable.Sign() == 0 {
		return ErrNothingToClaim
	}
	if err := e.rewardToken.TransferOut(from, claimable); err != nil {
		return err
	}
	account.TotalClaimed.Add(account.TotalClaimed, claimable)
	if err := e.state.PutStakeAccount(from, account); err != nil {
		return err
	}
	e.emit(NewVestingClaimedEvent(from, claimable, account.TotalClaimed))
	e.metrics.ObserveClaim()
	return nil
}

// Withdraw returns the caller's full stake. Legal only for non-vesting
// accounts once withdrawals open, and only while no conversion target is
// configured. The ledger update runs first so pending stream rewards are
// preserved in the account record.
func (e *Engine) Withdraw(from types.Address) error {
	if e.stakingToken == nil {
		return ErrNoStakingToken
	}
	if !e.target.IsZero() {
		return ErrTargetConfigured
	}
	if e.now() < e.schedule.StartWithdrawalsTime {
		return ErrWithdrawalsNotStarted
	}
	pool, err := e.loadPool()
	if err != nil {
		return err
	}
	account, err := e.loadAccount(from)
	if err != nil {
		return err
	}
	if account.IsVestingUser {
		return ErrVestingAccount
	}
	if account.Balance.Sign() == 0 {
		return ErrNothingToWithdraw
	}
	amount := copyBigInt(account.Balance)
	if err := e.stakingToken.TransferOut(from, amount); err != nil {
		return err
	}
	pool.settle(account, e.now())
	account.Balance = big.NewInt(0)
	pool.TotalStaked.Sub(pool.TotalStaked, amount)
	if err := e.state.PutStakeAccount(from, account); err != nil {
		return err
	}
	if err := e.state.PutPoolState(pool); err != nil {
		return err
	}
	e.emit(NewWithdrawnEvent(from, amount))
	e.metrics.ObserveWithdrawal(bigFloat(pool.TotalStaked))
	return nil
}

// NotifyNewRewards folds a new reward volume into the emission schedule and
// pulls the reward asset from the owner. Owner-gated.
func (e *Engine) NotifyNewRewards(caller types.Address, amount *big.Int) error {
	if caller != e.owner {
		return ErrNotOwner
	}
	if e.rewardToken == nil {
		return ErrNoRewardToken
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	pool, err := e.loadPool()
	if err != nil {
		return err
	}
	if err := e.rewardToken.TransferIn(caller, amount); err != nil {
		return err
	}
	now := e.now()
	pool.settle(nil, now)
	pool.notify(amount, e.duration, now)
	if err := e.state.PutPoolState(pool); err != nil {
		return err
	}
	e.emit(NewRewardsNotifiedEvent(amount, pool.RewardRate, pool.PeriodFinish))
	e.metrics.ObserveRewardRate(bigFloat(pool.RewardRate))
	return nil
}

// claimableVesting computes vestedFraction(now) * VestingBalance -
// TotalClaimed with the fraction clamped to [0, 1].
func claimableVesting(schedule Schedule, account *StakeAccount, now int64) *big.Int {
	if now < schedule.StartVestingTime {
		return big.NewInt(0)
	}
	window := schedule.EndVestingTime - schedule.StartVestingTime
	elapsed := now - schedule.StartVestingTime
	if elapsed > window {
		elapsed = window
	}
	vested := new(big.Int).Mul(account.VestingBalance, big.NewInt(elapsed))
	vested.Quo(vested, big.NewInt(window))
	claimable := vested.Sub(vested, account.TotalClaimed)
	if claimable.Sign() < 0 {
		return big.NewInt(0)
	}
	return claimable
}

// --- read surface ---

// Earned projects the caller's unclaimed streamed reward without mutating
// state.
func (e *Engine) Earned(addr types.Address) (*big.Int, error) {
	pool, err := e.loadPool()
	if err != nil {
		return nil, err
	}
	account, err := e.loadAccount(addr)
	if err != nil {
		return nil, err
	}
	return pool.earned(account, e.now()), nil
}

// BalanceOf returns the account's active staked balance.
func (e *Engine) BalanceOf(addr types.Address) (*big.Int, error) {
	account, err := e.loadAccount(addr)
	if err != nil {
		return nil, err
	}
	return copyBigInt(account.Balance), nil
}

// VestingBalanceOf returns the vesting-denominated balance fixed at
// conversion.
func (e *Engine) VestingBalanceOf(addr types.Address) (*big.Int, error) {
	account, err := e.loadAccount(addr)
	if err != nil {
		return nil, err
	}
	return copyBigInt(account.VestingBalance), nil
}

// TotalClaimedOf returns the cumulative vesting payout for the account.
func (e *Engine) TotalClaimedOf(addr types.Address) (*big.Int, error) {
	account, err := e.loadAccount(addr)
	if err != nil {
		return nil, err
	}
	return copyBigInt(account.TotalClaimed), nil
}

// IsVestingUser reports whether the account has converted.
func (e *Engine) IsVestingUser(addr types.Address) (bool, error) {
	account, err := e.loadAccount(addr)
	if err != nil {
		return false, err
	}
	return account.IsVestingUser, nil
}

// GetClaimableVesting returns the amount a vesting user could claim now.
func (e *Engine) GetClaimableVesting(addr types.Address) (*big.Int, error) {
	account, err := e.loadAccount(addr)
	if err != nil {
		return nil, err
	}
	if !account.IsVestingUser {
		return big.NewInt(0), nil
	}
	return claimableVesting(e.schedule, account, e.now()), nil
}

// TotalStaked returns the pool-wide staked balance.
func (e *Engine) TotalStaked() (*big.Int, error) {
	pool, err := e.loadPool()
	if err != nil {
		return nil, err
	}
	return copyBigInt(pool.TotalStaked), nil
}

// RewardRate returns the active emission rate.
func (e *Engine) RewardRate() (*big.Int, error) {
	pool, err := e.loadPool()
	if err != nil {
		return nil, err
	}
	return copyBigInt(pool.RewardRate), nil
}

// PeriodFinish returns the unix end time of the active emission epoch.
func (e *Engine) PeriodFinish() (int64, error) {
	pool, err := e.loadPool()
	if err != nil {
		return 0, err
	}
	return pool.PeriodFinish, nil
}

// HistoricalRewardsTotal returns the cumulative notified reward volume.
func (e *Engine) HistoricalRewardsTotal() (*big.Int, error) {
	pool, err := e.loadPool()
	if err != nil {
		return nil, err
	}
	return copyBigInt(pool.HistoricalRewardsTotal), nil
}

func bigFloat(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}
