package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	SourcesAttempted   int64
	SourcesSucceeded   int64
	ArticlesCollected  int64
	DuplicatesFiltered int64
	FallbacksServed    int64
	CacheHits          int64
	WallRequests       int64

	// Timings
	LastAggregationTime    time.Duration
	TotalAggregationTime   time.Duration
	AverageAggregationTime time.Duration
	AggregationCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) RecordFetch(succeeded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesAttempted++
	if succeeded {
		m.SourcesSucceeded++
	}
}

func (m *Metrics) AddArticles(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesCollected += int64(n)
}

func (m *Metrics) AddDuplicatesFiltered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered += int64(n)
}

func (m *Metrics) IncrementFallbacksServed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbacksServed++
}

func (m *Metrics) IncrementCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *Metrics) IncrementWallRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WallRequests++
}

func (m *Metrics) RecordAggregationTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastAggregationTime = duration
	m.TotalAggregationTime += duration
	m.AggregationCount++

	if m.AggregationCount > 0 {
		m.AverageAggregationTime = m.TotalAggregationTime / time.Duration(m.AggregationCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"sources_attempted":        m.SourcesAttempted,
		"sources_succeeded":        m.SourcesSucceeded,
		"articles_collected":       m.ArticlesCollected,
		"duplicates_filtered":      m.DuplicatesFiltered,
		"fallbacks_served":         m.FallbacksServed,
		"cache_hits":               m.CacheHits,
		"wall_requests":            m.WallRequests,
		"last_aggregation_ms":      m.LastAggregationTime.Milliseconds(),
		"average_aggregation_ms":   m.AverageAggregationTime.Milliseconds(),
		"last_run_time":            m.LastRunTime.Format(time.RFC3339),
		"last_error_time":          m.LastErrorTime.Format(time.RFC3339),
		"last_error":               m.LastError,
		"is_healthy":               m.IsHealthy,
	}
}
