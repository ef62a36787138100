package tokencore

import "sync/atomic"

// MetricID indexes one engine counter.
type MetricID uint16

const (
	// MetricIssue counts successfully issued token pairs.
	MetricIssue MetricID = iota
	// MetricValidateSuccess counts validations that returned claims.
	MetricValidateSuccess
	// MetricValidateFailure counts terminal validation failures.
	MetricValidateFailure
	// MetricRefreshSuccess counts refresh calls that won rotation.
	MetricRefreshSuccess
	// MetricRefreshFailure counts refresh calls that failed at any stage.
	MetricRefreshFailure
	// MetricRefreshReuseDetected counts rotated-token reuse, the theft signal.
	MetricRefreshReuseDetected
	// MetricRevoke counts explicit revocations.
	MetricRevoke
	// MetricKeyRotation counts signing-key rotations.
	MetricKeyRotation
	metricIDCount
)

const cacheLineSize = 64

// paddedCounter keeps each counter on its own cache line so concurrent
// increments on different metrics never false-share.
type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds the engine's lock-free counters.
type Metrics struct {
	counters [metricIDCount]paddedCounter
}

func newMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) inc(id MetricID) {
	if id < metricIDCount {
		atomic.AddUint64(&m.counters[id].value, 1)
	}
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Issued               uint64
	ValidateSuccess      uint64
	ValidateFailure      uint64
	RefreshSuccess       uint64
	RefreshFailure       uint64
	RefreshReuseDetected uint64
	Revoked              uint64
	KeyRotations         uint64
}

func (m *Metrics) snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Issued:               atomic.LoadUint64(&m.counters[MetricIssue].value),
		ValidateSuccess:      atomic.LoadUint64(&m.counters[MetricValidateSuccess].value),
		ValidateFailure:      atomic.LoadUint64(&m.counters[MetricValidateFailure].value),
		RefreshSuccess:       atomic.LoadUint64(&m.counters[MetricRefreshSuccess].value),
		RefreshFailure:       atomic.LoadUint64(&m.counters[MetricRefreshFailure].value),
		RefreshReuseDetected: atomic.LoadUint64(&m.counters[MetricRefreshReuseDetected].value),
		Revoked:              atomic.LoadUint64(&m.counters[MetricRevoke].value),
		KeyRotations:         atomic.LoadUint64(&m.counters[MetricKeyRotation].value),
	}
}
