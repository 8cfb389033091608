package qsim

import (
	"sort"
	"sync"
	"time"
)

// Metrics records how exploration branches performed.
type Metrics struct {
	mu sync.RWMutex

	BranchCount    int64
	FailedCount    int64
	TotalTime      time.Duration
	AverageLatency time.Duration
	P95Latency     time.Duration
	P99Latency     time.Duration

	latencies  []time.Duration
	windowSize int
}

func NewMetrics() *Metrics {
	return &Metrics{
		latencies:  make([]time.Duration, 0, 1000),
		windowSize: 1000,
	}
}

func (m *Metrics) recordBranch(duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BranchCount++
	if !success {
		m.FailedCount++
	}
	m.TotalTime += duration
	m.AverageLatency = m.TotalTime / time.Duration(m.BranchCount)

	// Sliding window over the most recent branches.
	m.latencies = append(m.latencies, duration)
	if len(m.latencies) > m.windowSize {
		m.latencies = m.latencies[1:]
	}

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	m.P95Latency = sorted[percentileIndex(len(sorted), 0.95)]
	m.P99Latency = sorted[percentileIndex(len(sorted), 0.99)]
}

func percentileIndex(n int, p float64) int {
	return min(int(float64(n)*p), n-1)
}

// SuccessRate is the fraction of branches that completed without error.
func (m *Metrics) SuccessRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.BranchCount == 0 {
		return 0
	}
	return float64(m.BranchCount-m.FailedCount) / float64(m.BranchCount)
}

func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rate float64
	if m.BranchCount > 0 {
		rate = float64(m.BranchCount-m.FailedCount) / float64(m.BranchCount)
	}

	return map[string]interface{}{
		"branches":     m.BranchCount,
		"failed":       m.FailedCount,
		"success_rate": rate,
		"avg_latency":  m.AverageLatency.Microseconds(),
		"p95_latency":  m.P95Latency.Microseconds(),
		"p99_latency":  m.P99Latency.Microseconds(),
	}
}
