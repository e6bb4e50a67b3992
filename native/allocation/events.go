package allocation

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"lockstream/core/types"
)

const (
	EventTypeInitialized      = "allocation.initialized"
	EventTypeClaimed          = "allocation.claimed"
	EventTypeRootSet          = "allocation.root_set"
	EventTypeStartedEarly     = "allocation.started_early"
	EventTypeDaoSet           = "allocation.dao_set"
	EventTypeLockerSet        = "allocation.locker_set"
	EventTypeExpiredWithdrawn = "allocation.expired_withdrawn"
	EventTypeRescued          = "allocation.rescued"
)

func amountAttr(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// NewInitializedEvent marks pool construction.
func NewInitializedEvent(pool *Pool) *types.Event {
	return &types.Event{
		Type: EventTypeInitialized,
		Attributes: map[string]string{
			"totalEligible": strconv.FormatUint(pool.TotalEligible, 10),
			"poolBalance":   amountAttr(pool.PoolBalance),
			"startTime":     strconv.FormatInt(pool.StartTime, 10),
			"expiryTime":    strconv.FormatInt(pool.ExpiryTime, 10),
		},
	}
}

// NewClaimedEvent marks a successful claim payout.
func NewClaimedEvent(account types.Address, entitled, adjusted *big.Int, locked bool, remaining uint64) *types.Event {
	return &types.Event{
		Type: EventTypeClaimed,
		Attributes: map[string]string{
			"account":   account.Hex(),
			"entitled":  amountAttr(entitled),
			"adjusted":  amountAttr(adjusted),
			"locked":    strconv.FormatBool(locked),
			"remaining": strconv.FormatUint(remaining, 10),
		},
	}
}

// NewRootSetEvent marks the one-time commitment to the membership set.
func NewRootSetEvent(root [32]byte) *types.Event {
	return &types.Event{
		Type: EventTypeRootSet,
		Attributes: map[string]string{
			"root": hex.EncodeToString(root[:]),
		},
	}
}

// NewStartedEarlyEvent marks the owner opening claims ahead of schedule.
func NewStartedEarlyEvent(startTime int64) *types.Event {
	return &types.Event{
		Type: EventTypeStartedEarly,
		Attributes: map[string]string{
			"startTime": strconv.FormatInt(startTime, 10),
		},
	}
}

// NewDaoSetEvent marks a change of the DAO sweep recipient.
func NewDaoSetEvent(dao types.Address) *types.Event {
	return &types.Event{
		Type: EventTypeDaoSet,
		Attributes: map[string]string{
			"dao": dao.Hex(),
		},
	}
}

// NewLockerSetEvent marks the locking collaborator being wired.
func NewLockerSetEvent() *types.Event {
	return &types.Event{Type: EventTypeLockerSet, Attributes: map[string]string{}}
}

// NewExpiredWithdrawnEvent marks the post-grace residual sweep.
func NewExpiredWithdrawnEvent(to types.Address, amount *big.Int) *types.Event {
	return &types.Event{
		Type: EventTypeExpiredWithdrawn,
		Attributes: map[string]string{
			"to":     to.Hex(),
			"amount": amountAttr(amount),
		},
	}
}

// NewRescuedEvent marks the early escape-hatch recovery.
func NewRescuedEvent(to types.Address, amount *big.Int) *types.Event {
	return &types.Event{
		Type: EventTypeRescued,
		Attributes: map[string]string{
			"to":     to.Hex(),
			"amount": amountAttr(amount),
		},
	}
}
