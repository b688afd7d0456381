package authclient

import "sync/atomic"

// Metrics holds per-operation outcome counters. When disabled, all
// operations are no-ops and Snapshot returns the zero value.
type Metrics struct {
	enabled         bool
	success         [operationCount]atomic.Uint64
	failure         [operationCount]atomic.Uint64
	persistFailures atomic.Uint64
}

// NewMetrics creates a [Metrics] instance configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

func (m *Metrics) incSuccess(op Operation) {
	if m == nil || !m.enabled || op >= operationCount {
		return
	}
	m.success[op].Add(1)
}

func (m *Metrics) incFailure(op Operation) {
	if m == nil || !m.enabled || op >= operationCount {
		return
	}
	m.failure[op].Add(1)
}

func (m *Metrics) incPersistFailure() {
	if m == nil || !m.enabled {
		return
	}
	m.persistFailures.Add(1)
}

// MetricsSnapshot is a point-in-time copy of all counters, keyed by
// operation name.
type MetricsSnapshot struct {
	Success         map[string]uint64
	Failure         map[string]uint64
	PersistFailures uint64
}

// Snapshot returns a deep copy of the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{}
	}
	snap := MetricsSnapshot{
		Success:         make(map[string]uint64, operationCount),
		Failure:         make(map[string]uint64, operationCount),
		PersistFailures: m.persistFailures.Load(),
	}
	for op := Operation(0); op < operationCount; op++ {
		snap.Success[op.String()] = m.success[op].Load()
		snap.Failure[op.String()] = m.failure[op].Load()
	}
	return snap
}
