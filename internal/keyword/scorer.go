// Package keyword converts raw, heterogeneous keyword metrics into a
// single comparable 0-100 score so keywords can be ranked and filtered.
package keyword

import (
	"log"
	"math"
	"sort"
	"strings"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/pkg/utils"
)

// Component weights. A policy choice, not derived: volume represents
// traffic, difficulty the cost of ranking, cpc commercial value, trend
// momentum. They sum to 1.0.
const (
	weightSearchVolume = 0.40
	weightDifficulty   = 0.30
	weightCPC          = 0.20
	weightTrend        = 0.10
)

// Normalization benchmarks
const (
	benchmarkHighVolume = 100000.0
	benchmarkHighCPC    = 10.0
	benchmarkMediumCPC  = 2.0
	benchmarkLowCPC     = 0.5
)

// gradeThresholds maps composite score to letter grade, checked in
// descending order
var gradeThresholds = []struct {
	Grade string
	Min   float64
}{
	{"A+", 90},
	{"A", 80},
	{"B+", 70},
	{"B", 60},
	{"C+", 50},
	{"C", 40},
	{"D", 0},
}

// Scorer produces deterministic keyword scores from raw metrics
type Scorer struct{}

// NewScorer creates a keyword scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// NormalizeSearchVolume scales volume to [0,100] logarithmically against
// the high-volume benchmark. Search volume is heavy-tailed; a linear
// scale would collapse all but the largest keywords to near zero.
func (s *Scorer) NormalizeSearchVolume(volume int) float64 {
	if volume <= 0 {
		return 0
	}
	normalized := math.Log10(math.Max(float64(volume), 1)) / math.Log10(benchmarkHighVolume) * 100
	return math.Min(normalized, 100)
}

// NormalizeDifficulty inverts keyword difficulty: low competitive
// difficulty is desirable, so the sense flips before weighting
func (s *Scorer) NormalizeDifficulty(difficulty float64) float64 {
	if math.IsNaN(difficulty) {
		return 100
	}
	return 100 - utils.Clamp(difficulty, 0, 100)
}

// NormalizeCPC interpolates cpc across three benchmark bands:
// [0,20) below low, [20,60) low..medium, [60,100] medium..high,
// saturating at 100 above the high benchmark.
func (s *Scorer) NormalizeCPC(cpc float64) float64 {
	switch {
	case math.IsNaN(cpc) || cpc <= 0:
		return 0
	case cpc >= benchmarkHighCPC:
		return 100
	case cpc >= benchmarkMediumCPC:
		ratio := (cpc - benchmarkMediumCPC) / (benchmarkHighCPC - benchmarkMediumCPC)
		return 60 + ratio*40
	case cpc >= benchmarkLowCPC:
		ratio := (cpc - benchmarkLowCPC) / (benchmarkMediumCPC - benchmarkLowCPC)
		return 20 + ratio*40
	default:
		return cpc / benchmarkLowCPC * 20
	}
}

// NormalizeTrend accepts a plain scalar already in [0,100], a mapping
// with a "score" key, or a mapping with a "values" series (mean of the
// last 12 points). Unrecognized shapes default to 50.
func (s *Scorer) NormalizeTrend(trend interface{}) float64 {
	if n, ok := utils.Numeric(trend); ok {
		if math.IsNaN(n) {
			return 50
		}
		return utils.Clamp(n, 0, 100)
	}

	m, ok := trend.(map[string]interface{})
	if !ok {
		return 50
	}
	if score, present := m["score"]; present {
		if n, ok := utils.Numeric(score); ok {
			return utils.Clamp(n, 0, 100)
		}
	}
	if values, present := m["values"]; present {
		series := numericSeries(values)
		if len(series) > 12 {
			series = series[len(series)-12:]
		}
		if len(series) > 0 {
			var sum float64
			for _, v := range series {
				sum += v
			}
			return utils.Clamp(sum/float64(len(series)), 0, 100)
		}
	}
	return 50
}

func numericSeries(v interface{}) []float64 {
	var out []float64
	switch series := v.(type) {
	case []float64:
		out = series
	case []interface{}:
		for _, item := range series {
			if n, ok := utils.Numeric(item); ok {
				out = append(out, n)
			}
		}
	case []int:
		for _, item := range series {
			out = append(out, float64(item))
		}
	}
	return out
}

// Score computes the weighted composite score, grade and recommendation
// for one keyword. All normalizations are total: out-of-range or
// malformed numerics are clamped, never rejected.
func (s *Scorer) Score(metrics model.KeywordMetrics) model.KeywordScore {
	volumeScore := s.NormalizeSearchVolume(metrics.SearchVolume)
	difficultyScore := s.NormalizeDifficulty(metrics.KeywordDifficulty)
	cpcScore := s.NormalizeCPC(metrics.CPC)
	trendScore := s.NormalizeTrend(metrics.Trend)

	total := volumeScore*weightSearchVolume +
		difficultyScore*weightDifficulty +
		cpcScore*weightCPC +
		trendScore*weightTrend

	components := map[string]float64{
		"search_volume":      volumeScore,
		"keyword_difficulty": difficultyScore,
		"cpc":                cpcScore,
		"trend":              trendScore,
	}

	return model.KeywordScore{
		Keyword:         metrics.Keyword,
		TotalScore:      total,
		ComponentScores: components,
		Grade:           GradeFor(total),
		Recommendation:  recommendation(total, components),
		Metrics:         metrics,
	}
}

// ScoreAll scores a batch and returns it sorted by total score,
// descending. A record with no keyword is dropped with a warning
// instead of failing the batch.
func (s *Scorer) ScoreAll(batch []model.KeywordMetrics) []model.KeywordScore {
	scores := make([]model.KeywordScore, 0, len(batch))
	for _, metrics := range batch {
		if metrics.Keyword == "" {
			log.Printf("⚠️ skipping keyword record with empty keyword")
			continue
		}
		scores = append(scores, s.Score(metrics))
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].TotalScore > scores[j].TotalScore
	})
	return scores
}

// FilterTop returns at most count entries scoring at or above the
// numeric threshold for minGrade, preserving sort order. A count of
// zero or less, or an unknown grade, yields an empty result.
func (s *Scorer) FilterTop(scores []model.KeywordScore, count int, minGrade string) []model.KeywordScore {
	if count <= 0 {
		return nil
	}
	minScore, ok := thresholdFor(minGrade)
	if !ok {
		log.Printf("⚠️ unknown grade %q, no keywords selected", minGrade)
		return nil
	}
	filtered := make([]model.KeywordScore, 0, count)
	for _, score := range scores {
		if score.TotalScore >= minScore {
			filtered = append(filtered, score)
			if len(filtered) == count {
				break
			}
		}
	}
	return filtered
}

// GradeFor maps a composite score to its letter grade
func GradeFor(score float64) string {
	for _, t := range gradeThresholds {
		if score >= t.Min {
			return t.Grade
		}
	}
	return "D"
}

func thresholdFor(grade string) (float64, bool) {
	for _, t := range gradeThresholds {
		if t.Grade == grade {
			return t.Min, true
		}
	}
	return 0, false
}

// recommendation concatenates triggered advisory rules. Purely
// informational text, never used in further computation.
func recommendation(total float64, components map[string]float64) string {
	var parts []string

	switch {
	case total >= 80:
		parts = append(parts, "Excellent keyword - high priority target")
	case total >= 60:
		parts = append(parts, "Good keyword - consider targeting")
	case total >= 40:
		parts = append(parts, "Moderate keyword - may be worth targeting")
	default:
		parts = append(parts, "Low-value keyword - consider alternatives")
	}

	if components["search_volume"] < 30 {
		parts = append(parts, "Low search volume - consider long-tail variations")
	}
	if components["keyword_difficulty"] < 40 {
		parts = append(parts, "High competition - may be difficult to rank")
	}
	if components["cpc"] > 80 {
		parts = append(parts, "High commercial value - good for monetization")
	} else if components["cpc"] < 20 {
		parts = append(parts, "Low commercial intent - focus on traffic volume")
	}
	if components["trend"] < 30 {
		parts = append(parts, "Declining trend - monitor performance closely")
	} else if components["trend"] > 70 {
		parts = append(parts, "Rising trend - opportunity for growth")
	}

	return strings.Join(parts, " | ")
}
