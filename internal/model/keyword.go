package model

import "time"

// Competition levels reported by metrics providers
const (
	CompetitionLow    = "low"
	CompetitionMedium = "medium"
	CompetitionHigh   = "high"
)

// KeywordMetrics is a raw metrics record for one keyword.
// Created by a metrics provider, consumed read-only by the scorer.
// Trend may be a plain number, a map with a "score" key, or a map
// with a "values" series.
type KeywordMetrics struct {
	Keyword           string      `json:"keyword"`
	SearchVolume      int         `json:"search_volume"`
	KeywordDifficulty float64     `json:"keyword_difficulty"` // 0-100
	CPC               float64     `json:"cpc"`                // USD
	Trend             interface{} `json:"trend"`
	Competition       string      `json:"competition"`
	LastUpdated       time.Time   `json:"last_updated"`
}

// KeywordScore is the derived, immutable scoring result for one keyword
type KeywordScore struct {
	Keyword         string             `json:"keyword"`
	TotalScore      float64            `json:"total_score"` // 0-100
	ComponentScores map[string]float64 `json:"component_scores"`
	Grade           string             `json:"grade"` // A+, A, B+, B, C+, C, D
	Recommendation  string             `json:"recommendation"`
	Metrics         KeywordMetrics     `json:"metrics"`
}
