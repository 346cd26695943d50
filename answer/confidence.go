// Package answer turns retrieval results into generator payloads and answers.
package answer

import "github.com/persona-rag/go-persona/retrieval"

// Level is the discrete confidence signal derived from retrieval scores.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
	LevelNone   Level = "none"
)

// Thresholds maps a top adjusted score to a confidence level. The four-tier
// structure is fixed; the numbers are tunable configuration.
type Thresholds struct {
	High   float64 `json:"high" toml:"high"`
	Medium float64 `json:"medium" toml:"medium"`
	Low    float64 `json:"low" toml:"low"`
}

// DefaultThresholds returns the default cut points on a [0,1] score scale.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.75, Medium: 0.5, Low: 0.25}
}

// Assessment is the per-query confidence outcome.
type Assessment struct {
	Level    Level   `json:"level"`
	TopScore float64 `json:"top_score"`
}

// Assess derives the confidence level from the best adjusted score.
// Zero results, or a top score below the floor, yield LevelNone.
func (t Thresholds) Assess(result *retrieval.Result) Assessment {
	if result == nil || len(result.Scored) == 0 {
		return Assessment{Level: LevelNone}
	}

	top := result.TopScore()
	switch {
	case top >= t.High:
		return Assessment{Level: LevelHigh, TopScore: top}
	case top >= t.Medium:
		return Assessment{Level: LevelMedium, TopScore: top}
	case top >= t.Low:
		return Assessment{Level: LevelLow, TopScore: top}
	default:
		return Assessment{Level: LevelNone, TopScore: top}
	}
}
