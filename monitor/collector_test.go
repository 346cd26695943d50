package monitor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryCollectorAggregates(t *testing.T) {
	c := NewInMemoryCollector()

	c.Record(QueryMetrics{Confidence: "high", TopScore: 0.9, Results: 5, ElapsedMs: 100})
	c.Record(QueryMetrics{Confidence: "high", TopScore: 0.8, Results: 3, ElapsedMs: 200})
	c.Record(QueryMetrics{Confidence: "none", TopScore: 0.1, Results: 0, ElapsedMs: 60})
	c.Record(QueryMetrics{Failed: true, ElapsedMs: 40})

	s := c.Snapshot()
	assert.Equal(t, 4, s.TotalQueries)
	assert.Equal(t, 2, s.ByConfidence["high"])
	assert.Equal(t, 1, s.ByConfidence["none"])
	assert.Equal(t, 1, s.ErrorCount)
	assert.InDelta(t, 100.0, s.AvgLatencyMs, 1e-9)
}

func TestInMemoryCollectorEmpty(t *testing.T) {
	s := NewInMemoryCollector().Snapshot()
	assert.Zero(t, s.TotalQueries)
	assert.Zero(t, s.AvgLatencyMs)
	assert.Empty(t, s.ByConfidence)
}

func TestInMemoryCollectorConcurrentRecords(t *testing.T) {
	c := NewInMemoryCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Record(QueryMetrics{Confidence: "medium", ElapsedMs: 10})
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	assert.Equal(t, 50, s.TotalQueries)
	assert.Equal(t, 50, s.ByConfidence["medium"])
}

func TestNoOpCollector(t *testing.T) {
	c := NewNoOpCollector()
	c.Record(QueryMetrics{Confidence: "high"})
	assert.Zero(t, c.Snapshot().TotalQueries)
}
