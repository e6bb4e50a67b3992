package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// StakingMetrics exposes the pool-wide gauges and operation counters for the
// staking engine.
type StakingMetrics struct {
	stakes      prometheus.Counter
	withdrawals prometheus.Counter
	conversions prometheus.Counter
	claims      prometheus.Counter
	totalStaked prometheus.Gauge
	rewardRate  prometheus.Gauge
}

var (
	stakingOnce     sync.Once
	stakingRegistry *StakingMetrics
)

// Staking returns the process-wide staking metrics registry.
func Staking() *StakingMetrics {
	stakingOnce.Do(func() {
		stakingRegistry = &StakingMetrics{
			stakes: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "staking_stakes_total",
				Help: "Count of successful stake deposits.",
			}),
			withdrawals: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "staking_withdrawals_total",
				Help: "Count of successful stake withdrawals.",
			}),
			conversions: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "staking_conversions_total",
				Help: "Count of positions converted into vesting.",
			}),
			claims: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "staking_vesting_claims_total",
				Help: "Count of vesting claim payouts.",
			}),
			totalStaked: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "staking_total_staked",
				Help: "Current total staked balance in the pool.",
			}),
			rewardRate: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "staking_reward_rate",
				Help: "Current emission rate in reward units per second.",
			}),
		}
		prometheus.MustRegister(
			stakingRegistry.stakes,
			stakingRegistry.withdrawals,
			stakingRegistry.conversions,
			stakingRegistry.claims,
			stakingRegistry.totalStaked,
			stakingRegistry.rewardRate,
		)
	})
	return stakingRegistry
}

// ObserveStake records a deposit and the resulting pool size.
func (m *StakingMetrics) ObserveStake(totalStaked float64) {
	if m == nil {
		return
	}
	m.stakes.Inc()
	m.totalStaked.Set(totalStaked)
}

// ObserveWithdrawal records a withdrawal and the resulting pool size.
func (m *StakingMetrics) ObserveWithdrawal(totalStaked float64) {
	if m == nil {
		return
	}
	m.withdrawals.Inc()
	m.totalStaked.Set(totalStaked)
}

// ObserveConversion records a conversion and the resulting pool size.
func (m *StakingMetrics) ObserveConversion(totalStaked float64) {
	if m == nil {
		return
	}
	m.conversions.Inc()
	m.totalStaked.Set(totalStaked)
}

// ObserveClaim records a vesting payout.
func (m *StakingMetrics) ObserveClaim() {
	if m == nil {
		return
	}
	m.claims.Inc()
}

// ObserveRewardRate records the active emission rate.
func (m *StakingMetrics) ObserveRewardRate(rate float64) {
	if m == nil {
		return
	}
	m.rewardRate.Set(rate)
}
