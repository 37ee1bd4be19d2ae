package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects counters for query execution.
type Metrics struct {
	mu sync.Mutex

	queryTotal      atomic.Int64
	queryFailed     atomic.Int64
	parserFallbacks atomic.Int64

	// Per-intent counters.
	intentMetrics map[string]*IntentMetrics

	// Recent query durations (FIFO, bounded).
	durations    []time.Duration
	maxDurations int
}

// IntentMetrics represents counters for a specific query intent.
type IntentMetrics struct {
	executionCount atomic.Int64
	errorCount     atomic.Int64
	totalDuration  atomic.Int64 // milliseconds
}

// ExecutionCount returns the number of executions recorded.
func (m *IntentMetrics) ExecutionCount() int64 {
	return m.executionCount.Load()
}

// ErrorCount returns the number of failures recorded.
func (m *IntentMetrics) ErrorCount() int64 {
	return m.errorCount.Load()
}

// NewMetrics creates a new metrics collector.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000
	}
	return &Metrics{
		intentMetrics: make(map[string]*IntentMetrics),
		durations:     make([]time.Duration, 0, maxDurations),
		maxDurations:  maxDurations,
	}
}

// Global metrics instance.
var globalMetrics = NewMetrics(1000)

// GlobalMetrics returns the global metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordQuery records an executed query.
func (m *Metrics) RecordQuery(intent string) {
	m.queryTotal.Add(1)
	m.getIntentMetrics(intent).executionCount.Add(1)
}

// RecordFailure records a failed query.
func (m *Metrics) RecordFailure(intent string) {
	m.queryFailed.Add(1)
	m.getIntentMetrics(intent).errorCount.Add(1)
}

// RecordParserFallback records a fall back from the primary parser.
func (m *Metrics) RecordParserFallback() {
	m.parserFallbacks.Add(1)
}

// RecordDuration records a query duration.
func (m *Metrics) RecordDuration(intent string, duration time.Duration) {
	m.mu.Lock()
	if len(m.durations) >= m.maxDurations {
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, duration)
	m.mu.Unlock()

	m.getIntentMetrics(intent).totalDuration.Add(duration.Milliseconds())
}

// GetQueryTotal returns the total number of executed queries.
func (m *Metrics) GetQueryTotal() int64 {
	return m.queryTotal.Load()
}

// GetQueryFailed returns the total number of failed queries.
func (m *Metrics) GetQueryFailed() int64 {
	return m.queryFailed.Load()
}

// GetParserFallbacks returns the total number of parser fallbacks.
func (m *Metrics) GetParserFallbacks() int64 {
	return m.parserFallbacks.Load()
}

// GetIntentMetrics returns counters for a specific intent.
func (m *Metrics) GetIntentMetrics(intent string) *IntentMetrics {
	return m.getIntentMetrics(intent)
}

func (m *Metrics) getIntentMetrics(intent string) *IntentMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	im, ok := m.intentMetrics[intent]
	if !ok {
		im = &IntentMetrics{}
		m.intentMetrics[intent] = im
	}
	return im
}
