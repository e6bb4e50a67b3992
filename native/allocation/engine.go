package allocation

import (
	"math/big"
	"time"

	"lockstream/core/events"
	"lockstream/core/types"
	"lockstream/crypto/merkletree"
	"lockstream/observability/metrics"
)

// TokenTransfer moves the distributed asset. Implementations must report
// failure instead of silently under-transferring.
type TokenTransfer interface {
	TransferOut(to types.Address, amount *big.Int) error
}

// Locker receives claim payouts that the claimant chose to lock instead of
// receiving directly. The engine does not interpret the lock semantics.
type Locker interface {
	Lock(account types.Address, amount *big.Int) error
}

// ProofVerifier checks a membership proof for an (account, entitledAmount)
// leaf against the committed root.
type ProofVerifier interface {
	Verify(proof [][32]byte, root [32]byte, leaf [32]byte) bool
}

// EngineState is the account-keyed storage the engine reads and writes.
// ClaimRecord must return an unclaimed record for unknown addresses.
type EngineState interface {
	ClaimRecord(addr types.Address) (*ClaimRecord, error)
	PutClaimRecord(addr types.Address, record *ClaimRecord) error
	AllocationPool() (*Pool, bool, error)
	PutAllocationPool(pool *Pool) error
}

type allocationEvent struct {
	evt *types.Event
}

func (e allocationEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e allocationEvent) Event() *types.Event { return e.evt }

// Engine implements the one-shot decaying distribution: a fixed pool,
// a committed eligibility set, and payouts that grow as unclaimed shares are
// redistributed to accounts that do claim.
type Engine struct {
	state    EngineState
	emitter  events.Emitter
	metrics  *metrics.AllocationMetrics
	verifier ProofVerifier
	owner    types.Address
	token    TokenTransfer
	locker   Locker
	nowFn    func() int64
}

// NewEngine returns an allocation engine with the default merkle verifier and
// a no-op emitter. State and the token collaborator are wired via setters;
// the pool itself is created by Initialize.
func NewEngine(owner types.Address) *Engine {
	return &Engine{
		emitter:  events.NoopEmitter{},
		verifier: merkletree.Verifier{},
		owner:    owner,
		nowFn:    func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state EngineState) { e.state = state }

// SetToken configures the distributed asset collaborator.
func (e *Engine) SetToken(token TokenTransfer) { e.token = token }

// SetVerifier overrides the membership-proof verifier. Passing nil restores
// the default merkle implementation.
func (e *Engine) SetVerifier(verifier ProofVerifier) {
	if verifier == nil {
		e.verifier = merkletree.Verifier{}
		return
	}
	e.verifier = verifier
}

// SetMetrics attaches a metrics registry. Nil disables metric emission.
func (e *Engine) SetMetrics(m *metrics.AllocationMetrics) { e.metrics = m }

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
	e.emitter.Emit(allocationEvent{evt: evt})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) loadPool() (*Pool, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	pool, ok, err := e.state.AllocationPool()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInitialized
	}
	return pool.Normalize(), nil
}

// Initialize creates the distribution pool. The pool balance is assumed to be
// funded separately before StartTime; totalEntitlement is the sum of all
// nominal entitlements in the committed set. Owner-gated, one-shot, and
// rejected when the claim window is shorter than MinClaimWindow.
func (e *Engine) Initialize(caller types.Address, totalEligible uint64, totalEntitlement, poolBalance *big.Int, delay, window, grace int64) error {
	if caller != e.owner {
		return ErrNotOwner
	}
	if e.state == nil {
		return ErrNilState
	}
	if window < MinClaimWindow {
		return ErrWindowTooShort
	}
	if _, ok, err := e.state.AllocationPool(); err != nil {
		return err
	} else if ok {
		return ErrAlreadyInit
	}
	now := e.now()
	pool := &Pool{
		TotalEligible:        totalEligible,
		RemainingEligible:    totalEligible,
		TotalEntitlement:     copyBigInt(totalEntitlement),
		RemainingEntitlement: copyBigInt(totalEntitlement),
		PoolBalance:          copyBigInt(poolBalance),
		DeployTime:           now,
		StartTime:            now + delay,
		ExpiryTime:           now + delay + window,
		GracePeriod:          grace,
	}
	if err := e.state.PutAllocationPool(pool); err != nil {
		return err
	}
	e.emit(NewInitializedEvent(pool))
	e.metrics.ObservePool(bigFloat(pool.PoolBalance), pool.RemainingEligible)
	return nil
}

// SetRoot commits the membership set. Legal only while the root is unset.
func (e *Engine) SetRoot(caller types.Address, root [32]byte) error {
	if caller != e.owner {
		return ErrNotOwner
	}
	pool, err := e.loadPool()
	if err != nil {
		return err
	}
	if pool.MerkleRoot != ([32]byte{}) {
		return ErrRootAlreadySet
	}
	pool.MerkleRoot = root
	if err := e.state.PutAllocationPool(pool); err != nil {
		return err
	}
	e.emit(NewRootSetEvent(root))
	return nil
}

// StartEarly opens claims immediately instead of waiting for the configured
// start time.
func (e *Engine) StartEarly(caller types.Address) error {
	if caller != e.owner {
		return ErrNotOwner
	}
	pool, err := e.loadPool()
	if err != nil {
		return err
	}
	now := e.now()
	if now < pool.StartTime {
		pool.StartTime = now
		if err := e.state.PutAllocationPool(pool); err != nil {
			return err
		}
	}
	e.emit(NewStartedEarlyEvent(pool.StartTime))
	return nil
}

// SetDao configures the recipient of the post-grace residual sweep.
func (e *Engine) SetDao(caller, dao types.Address) error {
	if caller != e.owner {
		return ErrNotOwner
	}
	pool, err := e.loadPool()
	if err != nil {
		return err
	}
	pool.Dao = dao
	if err := e.state.PutAllocationPool(pool); err != nil {
		return err
	}
	e.emit(NewDaoSetEvent(dao))
	return nil
}

// SetLocker wires the locking collaborator used by claims with lock=true.
func (e *Engine) SetLocker(caller types.Address, locker Locker) error {
	if caller != e.owner {
		return ErrNotOwner
	}
	e.locker = locker
	e.emit(NewLockerSetEvent())
	return nil
}

// Claim verifies the caller's membership proof and pays out the adjusted
// amount, optionally routing it into the locker. Terminal per account.
func (e *Engine) Claim(caller types.Address, proof [][32]byte, entitled *big.Int, lock bool) error {
	if e.token == nil {
		return ErrNoToken
	}
	pool, err := e.loadPool()
	if err != nil {
		return err
	}
	if pool.MerkleRoot == ([32]byte{}) {
		return ErrRootNotSet
	}
	if e.now() < pool.StartTime {
		return ErrClaimsNotStarted
	}
	if entitled == nil || entitled.Sign() <= 0 {
		return ErrZeroEntitlement
	}
	record, err := e.loadRecord(caller)
	if err != nil {
		return err
	}
	if record.Claimed {
		return ErrAlreadyClaimed
	}
	if lock && e.locker == nil {
		return ErrLockerNotSet
	}
	leaf := merkletree.Leaf(caller, entitled)
	if !e.verifier.Verify(proof, pool.MerkleRoot, leaf) {
		return ErrInvalidProof
	}

	// The payout runs before any store write: a rejected transfer must not
	// burn the entitlement or debit the pool.
	adjusted := adjustedAmount(pool, entitled)
	if lock {
		if err := e.locker.Lock(caller, adjusted); err != nil {
			return err
		}
	} else if err := e.token.TransferOut(caller, adjusted); err != nil {
		return err
	}
	record.Claimed = true
	record.PaidAmount = copyBigInt(adjusted)
	record.ClaimedAt = e.now()
	if pool.RemainingEligible > 0 {
		pool.RemainingEligible--
	}
	pool.RemainingEntitlement.Sub(pool.RemainingEntitlement, entitled)
	if pool.RemainingEntitlement.Sign() < 0 {
		pool.RemainingEntitlement = big.NewInt(0)
	}
	pool.PoolBalance.Sub(pool.PoolBalance, adjusted)
	if err := e.state.PutClaimRecord(caller, record); err != nil {
		return err
	}
	if err := e.state.PutAllocationPool(pool); err != nil {
		return err
	}
	e.emit(NewClaimedEvent(caller, entitled, adjusted, lock, pool.RemainingEligible))
	e.metrics.ObserveClaim(lock, bigFloat(pool.PoolBalance), pool.RemainingEligible)
	return nil
}

// CalculateAdjustedAmount is the read-only projection of the payout a claim
// with the given nominal entitlement would receive now.
func (e *Engine) CalculateAdjustedAmount(entitled *big.Int) (*big.Int, error) {
	pool, err := e.loadPool()
	if err != nil {
		return nil, err
	}
	if entitled == nil || entitled.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	return adjustedAmount(pool, entitled), nil
}

// adjustedAmount scales the nominal entitlement by the ratio of the pooled
// balance to the sum of unclaimed entitlements. While everyone claims their
// fair share the ratio stays at 1; lapses push it above 1 so later claimants
// absorb the unclaimed shares. The final claimant receives the exact pool
// balance. Division floors; conservation is guaranteed by subtracting the
// paid amount from the pool.
func adjustedAmount(pool *Pool, entitled *big.Int) *big.Int {
	if pool.RemainingEntitlement.Sign() == 0 || pool.PoolBalance.Sign() == 0 {
		return big.NewInt(0)
	}
	out := new(big.Int).Mul(pool.PoolBalance, entitled)
	out.Quo(out, pool.RemainingEntitlement)
	if out.Cmp(pool.PoolBalance) > 0 {
		out.Set(pool.PoolBalance)
	}
	return out
}

// WithdrawExpired sweeps the residual pool balance once the expiry grace
// period has fully elapsed. The sweep goes to the configured DAO address,
// falling back to the owner.
func (e *Engine) WithdrawExpired(caller types.Address) error {
	if caller != e.owner {
		return ErrNotOwner
	}
	if e.token == nil {
		return ErrNoToken
	}
	pool, err := e.loadPool()
	if err != nil {
		return err
	}
	if e.now() < pool.ExpiryTime+pool.GracePeriod {
		return ErrNotExpired
	}
	if pool.PoolBalance.Sign() == 0 {
		return ErrPoolEmpty
	}
	recipient := pool.Dao
	if recipient.IsZero() {
		recipient = e.owner
	}
	amount := copyBigInt(pool.PoolBalance)
	if err := e.token.TransferOut(recipient, amount); err != nil {
		return err
	}
	pool.PoolBalance = big.NewInt(0)
	if err := e.state.PutAllocationPool(pool); err != nil {
		return err
	}
	e.emit(NewExpiredWithdrawnEvent(recipient, amount))
	e.metrics.ObservePool(0, pool.RemainingEligible)
	return nil
}

// RescueReward recovers a misconfigured pool to the owner. Usable only within
// RescueWindow of deployment, before claims can plausibly have settled.
func (e *Engine) RescueReward(caller types.Address) error {
	if caller != e.owner {
		return ErrNotOwner
	}
	if e.token == nil {
		return ErrNoToken
	}
	pool, err := e.loadPool()
	if err != nil {
		return err
	}
	if e.now() >= pool.DeployTime+RescueWindow {
		return ErrRescueClosed
	}
	if pool.PoolBalance.Sign() == 0 {
		return ErrPoolEmpty
	}
	amount := copyBigInt(pool.PoolBalance)
	if err := e.token.TransferOut(e.owner, amount); err != nil {
		return err
	}
	pool.PoolBalance = big.NewInt(0)
	if err := e.state.PutAllocationPool(pool); err != nil {
		return err
	}
	e.emit(NewRescuedEvent(e.owner, amount))
	e.metrics.ObservePool(0, pool.RemainingEligible)
	return nil
}

func (e *Engine) loadRecord(addr types.Address) (*ClaimRecord, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	record, err := e.state.ClaimRecord(addr)
	if err != nil {
		return nil, err
	}
	return record.Normalize(), nil
}

// --- read surface ---

// HasClaimed reports whether the account already claimed.
func (e *Engine) HasClaimed(addr types.Address) (bool, error) {
	record, err := e.loadRecord(addr)
	if err != nil {
		return false, err
	}
	return record.Claimed, nil
}

// PoolBalance returns the remaining undistributed balance.
func (e *Engine) PoolBalance() (*big.Int, error) {
	pool, err := e.loadPool()
	if err != nil {
		return nil, err
	}
	return copyBigInt(pool.PoolBalance), nil
}

// RemainingEligible returns the count of eligible accounts yet to claim.
func (e *Engine) RemainingEligible() (uint64, error) {
	pool, err := e.loadPool()
	if err != nil {
		return 0, err
	}
	return pool.RemainingEligible, nil
}

func bigFloat(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}
