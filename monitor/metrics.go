package monitor

// QueryMetrics records one answered (or failed) query.
type QueryMetrics struct {
	Confidence string  `json:"confidence"`
	TopScore   float64 `json:"top_score"`
	Results    int     `json:"results"`
	ElapsedMs  int64   `json:"elapsed_ms"`
	Failed     bool    `json:"failed"`
}

// Summary aggregates recorded query metrics.
type Summary struct {
	TotalQueries int            `json:"total_queries"`
	ByConfidence map[string]int `json:"by_confidence"`
	AvgLatencyMs float64        `json:"avg_latency_ms"`
	ErrorCount   int            `json:"error_count"`
}
