// Package monitor collects in-process query metrics.
package monitor

import "sync"

// Collector records per-query metrics and exposes an aggregate view.
type Collector interface {
	Record(m QueryMetrics)
	Snapshot() Summary
}

// InMemoryCollector aggregates metrics behind a mutex.
type InMemoryCollector struct {
	mu           sync.RWMutex
	total        int
	byConfidence map[string]int
	totalLatency int64
	errors       int
}

func NewInMemoryCollector() *InMemoryCollector {
	return &InMemoryCollector{byConfidence: make(map[string]int)}
}

func (c *InMemoryCollector) Record(m QueryMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	c.totalLatency += m.ElapsedMs
	if m.Failed {
		c.errors++
		return
	}
	c.byConfidence[m.Confidence]++
}

func (c *InMemoryCollector) Snapshot() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byConfidence := make(map[string]int, len(c.byConfidence))
	for k, v := range c.byConfidence {
		byConfidence[k] = v
	}

	var avg float64
	if c.total > 0 {
		avg = float64(c.totalLatency) / float64(c.total)
	}

	return Summary{
		TotalQueries: c.total,
		ByConfidence: byConfidence,
		AvgLatencyMs: avg,
		ErrorCount:   c.errors,
	}
}

// NoOpCollector discards all metrics.
type NoOpCollector struct{}

func NewNoOpCollector() *NoOpCollector {
	return &NoOpCollector{}
}

func (NoOpCollector) Record(m QueryMetrics) {}

func (NoOpCollector) Snapshot() Summary {
	return Summary{}
}
