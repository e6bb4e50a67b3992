package staking

import "math/big"

// The reward-stream ledger: a running reward-per-unit-staked accumulator plus
// per-account settlement. Pure accounting over PoolState and StakeAccount;
// calendar gates and payout rules live in the engine.

// lastTimeRewardApplicable clamps the accrual clock to the end of the active
// emission epoch.
func (p *PoolState) lastTimeRewardApplicable(now int64) int64 {
	if p.PeriodFinish != 0 && now > p.PeriodFinish {
		return p.PeriodFinish
	}
	return now
}

// rewardPerUnit projects the accumulator forward to now without mutating it.
// When nothing is staked the accumulator holds still; no reward is emitted
// into an empty pool.
func (p *PoolState) rewardPerUnit(now int64) *big.Int {
	stored := copyBigInt(p.RewardPerUnitStored)
	if p.TotalStaked.Sign() == 0 || p.RewardRate.Sign() == 0 {
		return stored
	}
	elapsed := p.lastTimeRewardApplicable(now) - p.LastUpdateTime
	if elapsed <= 0 {
		return stored
	}
	accrued := new(big.Int).Mul(p.RewardRate, big.NewInt(elapsed))
	accrued.Mul(accrued, Scale)
	accrued.Quo(accrued, p.TotalStaked)
	return stored.Add(stored, accrued)
}

// earnedWith computes the account's total unclaimed streamed reward against a
// projected accumulator value.
func earnedWith(account *StakeAccount, perUnit *big.Int) *big.Int {
	pending := new(big.Int).Sub(perUnit, account.RewardPerUnitPaid)
	pending.Mul(pending, account.Balance)
	pending.Quo(pending, Scale)
	return pending.Add(pending, account.AccruedReward)
}

// settle advances the global accumulator to now and, when an account is
// supplied, folds its pending stream reward into AccruedReward and
// checkpoints its snapshot. Must run at the head of every balance-mutating
// operation so rate or share changes never re-price past time.
func (p *PoolState) settle(account *StakeAccount, now int64) {
	perUnit := p.rewardPerUnit(now)
	p.RewardPerUnitStored = perUnit
	p.LastUpdateTime = p.lastTimeRewardApplicable(now)
	if account == nil {
		return
	}
	account.AccruedReward = earnedWith(account, perUnit)
	account.RewardPerUnitPaid = copyBigInt(perUnit)
}

// earned is the read-only projection of settle for the given account.
func (p *PoolState) earned(account *StakeAccount, now int64) *big.Int {
	return earnedWith(account, p.rewardPerUnit(now))
}

// notify folds a new reward volume into the emission schedule. Any un-emitted
// remainder of the active epoch rolls into the new rate so no notified reward
// is lost. The caller must settle the global accumulator first.
func (p *PoolState) notify(amount *big.Int, duration, now int64) {
	durationBig := big.NewInt(duration)
	total := copyBigInt(amount)
	if now >= p.PeriodFinish {
		p.CurrentRewardsInPeriod = copyBigInt(amount)
	} else {
		remaining := big.NewInt(p.PeriodFinish - now)
		leftover := remaining.Mul(remaining, p.RewardRate)
		total.Add(total, leftover)
		p.CurrentRewardsInPeriod = new(big.Int).Add(p.CurrentRewardsInPeriod, amount)
	}
	p.RewardRate = new(big.Int).Quo(total, durationBig)
	p.LastUpdateTime = now
	p.PeriodFinish = now + duration
	p.HistoricalRewardsTotal = new(big.Int).Add(p.HistoricalRewardsTotal, amount)
}
