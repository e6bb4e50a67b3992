package allocation

import (
	"math/big"

	"lockstream/core/types"
)

const (
	// MinClaimWindow is the shortest allowed span between start and expiry.
	MinClaimWindow int64 = 14 * 24 * 60 * 60
	// RescueWindow bounds how long after deployment the owner can recover a
	// misconfigured pool.
	RescueWindow int64 = 7 * 24 * 60 * 60
)

// ClaimRecord is the per-eligible-account state. The entitled amount itself
// is proven on every call via the membership proof and never stored.
type ClaimRecord struct {
	// Claimed is set exactly once; a claimed record is terminal.
	Claimed bool `json:"claimed"`
	// PaidAmount is the adjusted amount actually paid out.
	PaidAmount *big.Int `json:"paidAmount"`
	// ClaimedAt is the unix time of the claim.
	ClaimedAt int64 `json:"claimedAt"`
}

// NewClaimRecord returns an unclaimed record.
func NewClaimRecord() *ClaimRecord {
	return &ClaimRecord{PaidAmount: big.NewInt(0)}
}

// Normalize replaces nil amounts with zero.
func (r *ClaimRecord) Normalize() *ClaimRecord {
	if r == nil {
		return NewClaimRecord()
	}
	if r.PaidAmount == nil {
		r.PaidAmount = big.NewInt(0)
	}
	return r
}

// Clone produces a deep copy.
func (r *ClaimRecord) Clone() *ClaimRecord {
	if r == nil {
		return NewClaimRecord()
	}
	out := *r
	out.PaidAmount = copyBigInt(r.PaidAmount)
	return &out
}

// Pool is the singleton distribution state. RemainingEntitlement tracks the
// sum of unclaimed nominal entitlements so adjusted payouts scale by the
// ratio of pooled balance to unclaimed entitlement.
type Pool struct {
	MerkleRoot           [32]byte      `json:"merkleRoot"`
	TotalEligible        uint64        `json:"totalEligible"`
	RemainingEligible    uint64        `json:"remainingEligible"`
	TotalEntitlement     *big.Int      `json:"totalEntitlement"`
	RemainingEntitlement *big.Int      `json:"remainingEntitlement"`
	PoolBalance          *big.Int      `json:"poolBalance"`
	DeployTime           int64         `json:"deployTime"`
	StartTime            int64         `json:"startTime"`
	ExpiryTime           int64         `json:"expiryTime"`
	GracePeriod          int64         `json:"gracePeriod"`
	Dao                  types.Address `json:"dao"`
}

// Normalize replaces nil amounts with zero.
func (p *Pool) Normalize() *Pool {
	if p == nil {
		return &Pool{
			TotalEntitlement:     big.NewInt(0),
			RemainingEntitlement: big.NewInt(0),
			PoolBalance:          big.NewInt(0),
		}
	}
	if p.TotalEntitlement == nil {
		p.TotalEntitlement = big.NewInt(0)
	}
	if p.RemainingEntitlement == nil {
		p.RemainingEntitlement = big.NewInt(0)
	}
	if p.PoolBalance == nil {
		p.PoolBalance = big.NewInt(0)
	}
	return p
}

func copyBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
