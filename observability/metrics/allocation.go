package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// AllocationMetrics exposes counters and gauges for the one-time allocation
// distribution.
type AllocationMetrics struct {
	claims            prometheus.Counter
	lockedClaims      prometheus.Counter
	poolBalance       prometheus.Gauge
	remainingEligible prometheus.Gauge
}

var (
	allocationOnce     sync.Once
	allocationRegistry *AllocationMetrics
)

// Allocation returns the process-wide allocation metrics registry.
func Allocation() *AllocationMetrics {
	allocationOnce.Do(func() {
		allocationRegistry = &AllocationMetrics{
			claims: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "allocation_claims_total",
				Help: "Count of successful allocation claims.",
			}),
			lockedClaims: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "allocation_locked_claims_total",
				Help: "Count of claims routed into the locker.",
			}),
			poolBalance: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "allocation_pool_balance",
				Help: "Remaining undistributed allocation pool balance.",
			}),
			remainingEligible: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "allocation_remaining_eligible",
				Help: "Number of eligible accounts that have not yet claimed.",
			}),
		}
		prometheus.MustRegister(
			allocationRegistry.claims,
			allocationRegistry.lockedClaims,
			allocationRegistry.poolBalance,
			allocationRegistry.remainingEligible,
		)
	})
	return allocationRegistry
}

// ObserveClaim records a claim payout and the resulting pool counters.
func (m *AllocationMetrics) ObserveClaim(locked bool, poolBalance float64, remaining uint64) {
	if m == nil {
		return
	}
	m.claims.Inc()
	if locked {
		m.lockedClaims.Inc()
	}
	m.poolBalance.Set(poolBalance)
	m.remainingEligible.Set(float64(remaining))
}

// ObservePool records the pool counters outside of a claim (funding, sweeps).
func (m *AllocationMetrics) ObservePool(poolBalance float64, remaining uint64) {
	if m == nil {
		return
	}
	m.poolBalance.Set(poolBalance)
	m.remainingEligible.Set(float64(remaining))
}
