package staking

import (
	"math/big"
	"strconv"

	"lockstream/core/types"
)

const (
	EventTypeStaked          = "stake.staked"
	EventTypeConverted       = "stake.converted"
	EventTypeVestingClaimed  = "stake.vesting_claimed"
	EventTypeWithdrawn       = "stake.withdrawn"
	EventTypeRewardsNotified = "stake.rewards_notified"
	EventTypeTargetUpdated   = "stake.target_updated"
	EventTypePaused          = "stake.paused"
	EventTypeUnpaused        = "stake.unpaused"
)

func amountAttr(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// NewStakedEvent is emitted after a deposit is credited to the pool.
func NewStakedEvent(account types.Address, amount, totalStaked *big.Int) *types.Event {
	return &types.Event{
		Type: EventTypeStaked,
		Attributes: map[string]string{
			"account":     account.Hex(),
			"amount":      amountAttr(amount),
			"totalStaked": amountAttr(totalStaked),
		},
	}
}

// NewConvertedEvent is emitted when an account exits streaming into vesting.
func NewConvertedEvent(account types.Address, staked, vesting *big.Int, target types.Address) *types.Event {
	return &types.Event{
		Type: EventTypeConverted,
		Attributes: map[string]string{
			"account": account.Hex(),
			"staked":  amountAttr(staked),
			"vesting": amountAttr(vesting),
			"target":  target.Hex(),
		},
	}
}

// NewVestingClaimedEvent is emitted for every vesting payout.
func NewVestingClaimedEvent(account types.Address, amount, totalClaimed *big.Int) *types.Event {
	return &types.Event{
		Type: EventTypeVestingClaimed,
		Attributes: map[string]string{
			"account":      account.Hex(),
			"amount":       amountAttr(amount),
			"totalClaimed": amountAttr(totalClaimed),
		},
	}
}

// NewWithdrawnEvent is emitted when a non-vesting account exits with its
// stake.
func NewWithdrawnEvent(account types.Address, amount *big.Int) *types.Event {
	return &types.Event{
		Type: EventTypeWithdrawn,
		Attributes: map[string]string{
			"account": account.Hex(),
			"amount":  amountAttr(amount),
		},
	}
}

// NewRewardsNotifiedEvent is emitted when the owner funds a new emission
// epoch.
func NewRewardsNotifiedEvent(amount, rewardRate *big.Int, periodFinish int64) *types.Event {
	return &types.Event{
		Type: EventTypeRewardsNotified,
		Attributes: map[string]string{
			"amount":       amountAttr(amount),
			"rewardRate":   amountAttr(rewardRate),
			"periodFinish": strconv.FormatInt(periodFinish, 10),
		},
	}
}

// NewTargetUpdatedEvent is emitted when the owner configures the downstream
// conversion target.
func NewTargetUpdatedEvent(target types.Address) *types.Event {
	return &types.Event{
		Type: EventTypeTargetUpdated,
		Attributes: map[string]string{
			"target": target.Hex(),
		},
	}
}

// NewPausedEvent and NewUnpausedEvent mark deposit gate toggles.
func NewPausedEvent() *types.Event {
	return &types.Event{Type: EventTypePaused, Attributes: map[string]string{}}
}

func NewUnpausedEvent() *types.Event {
	return &types.Event{Type: EventTypeUnpaused, Attributes: map[string]string{}}
}
