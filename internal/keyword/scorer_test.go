package keyword_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/keyword"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
)

func TestNormalizeSearchVolume(t *testing.T) {
	s := keyword.NewScorer()

	tests := []struct {
		name   string
		volume int
		want   float64
	}{
		{"zero", 0, 0},
		{"negative", -100, 0},
		{"one", 1, 0},
		{"benchmark", 100000, 100},
		{"above benchmark clamps", 10000000, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.NormalizeSearchVolume(tt.volume), 0.001)
		})
	}

	// 50k sits on the log scale, not halfway linearly
	got := s.NormalizeSearchVolume(50000)
	assert.InDelta(t, 93.979, got, 0.01)
}

func TestNormalizeDifficulty(t *testing.T) {
	s := keyword.NewScorer()

	assert.Equal(t, 100.0, s.NormalizeDifficulty(0))
	assert.Equal(t, 25.0, s.NormalizeDifficulty(75))
	assert.Equal(t, 0.0, s.NormalizeDifficulty(100))
	// Out-of-range values clamp instead of going negative
	assert.Equal(t, 0.0, s.NormalizeDifficulty(150))
	assert.Equal(t, 100.0, s.NormalizeDifficulty(-10))
	assert.Equal(t, 100.0, s.NormalizeDifficulty(math.NaN()))
}

func TestNormalizeCPC(t *testing.T) {
	s := keyword.NewScorer()

	tests := []struct {
		name string
		cpc  float64
		want float64
	}{
		{"zero", 0, 0},
		{"negative", -1, 0},
		{"below low band", 0.25, 10},
		{"low benchmark", 0.5, 20},
		{"mid of low band", 1.25, 40},
		{"medium benchmark", 2.0, 60},
		{"inside high band", 3.5, 67.5},
		{"high benchmark", 10.0, 100},
		{"above high saturates", 50.0, 100},
		{"nan", math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.NormalizeCPC(tt.cpc), 0.001)
		})
	}
}

func TestNormalizeTrend(t *testing.T) {
	s := keyword.NewScorer()

	t.Run("scalar", func(t *testing.T) {
		assert.Equal(t, 80.0, s.NormalizeTrend(80.0))
		assert.Equal(t, 80.0, s.NormalizeTrend(80))
		assert.Equal(t, 100.0, s.NormalizeTrend(150.0))
		assert.Equal(t, 0.0, s.NormalizeTrend(-5.0))
	})

	t.Run("score mapping", func(t *testing.T) {
		assert.Equal(t, 65.0, s.NormalizeTrend(map[string]interface{}{"score": 65.0}))
	})

	t.Run("values series takes last 12 mean", func(t *testing.T) {
		values := make([]interface{}, 0, 15)
		for i := 0; i < 3; i++ {
			values = append(values, 0.0) // older points, must be ignored
		}
		for i := 0; i < 12; i++ {
			values = append(values, 60.0)
		}
		got := s.NormalizeTrend(map[string]interface{}{"values": values})
		assert.InDelta(t, 60.0, got, 0.001)
	})

	t.Run("unrecognized shapes default to 50", func(t *testing.T) {
		assert.Equal(t, 50.0, s.NormalizeTrend(nil))
		assert.Equal(t, 50.0, s.NormalizeTrend("upward"))
		assert.Equal(t, 50.0, s.NormalizeTrend(map[string]interface{}{}))
		assert.Equal(t, 50.0, s.NormalizeTrend(map[string]interface{}{"values": []interface{}{}}))
		assert.Equal(t, 50.0, s.NormalizeTrend(math.NaN()))
	})
}

func TestScoreComposite(t *testing.T) {
	s := keyword.NewScorer()

	score := s.Score(model.KeywordMetrics{
		Keyword:           "wireless gaming mouse",
		SearchVolume:      50000,
		KeywordDifficulty: 75,
		CPC:               3.5,
		Trend:             80.0,
	})

	assert.InDelta(t, 93.979, score.ComponentScores["search_volume"], 0.01)
	assert.InDelta(t, 25.0, score.ComponentScores["keyword_difficulty"], 0.001)
	assert.InDelta(t, 67.5, score.ComponentScores["cpc"], 0.001)
	assert.InDelta(t, 80.0, score.ComponentScores["trend"], 0.001)
	// 0.4*93.979 + 0.3*25 + 0.2*67.5 + 0.1*80
	assert.InDelta(t, 66.59, score.TotalScore, 0.01)
	assert.Equal(t, "B", score.Grade)
	assert.NotEmpty(t, score.Recommendation)
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score float64
		grade string
	}{
		{95, "A+"}, {90, "A+"},
		{89.99, "A"}, {80, "A"},
		{79.99, "B+"}, {70, "B+"},
		{69.99, "B"}, {60, "B"},
		{59.99, "C+"}, {50, "C+"},
		{49.99, "C"}, {40, "C"},
		{39.99, "D"}, {0, "D"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.grade, keyword.GradeFor(tt.score), "score %.2f", tt.score)
	}
}

func TestScoreAllSortsAndSkipsEmpty(t *testing.T) {
	s := keyword.NewScorer()

	batch := []model.KeywordMetrics{
		{Keyword: "weak", SearchVolume: 10, KeywordDifficulty: 95, CPC: 0.1, Trend: 20.0},
		{Keyword: "", SearchVolume: 50000, KeywordDifficulty: 10, CPC: 5, Trend: 90.0},
		{Keyword: "strong", SearchVolume: 80000, KeywordDifficulty: 20, CPC: 6, Trend: 85.0},
	}

	scores := s.ScoreAll(batch)
	require.Len(t, scores, 2)
	assert.Equal(t, "strong", scores[0].Keyword)
	assert.Equal(t, "weak", scores[1].Keyword)
	assert.Greater(t, scores[0].TotalScore, scores[1].TotalScore)
}

func TestFilterTop(t *testing.T) {
	s := keyword.NewScorer()

	batch := []model.KeywordMetrics{
		{Keyword: "a", SearchVolume: 90000, KeywordDifficulty: 10, CPC: 8, Trend: 90.0},
		{Keyword: "b", SearchVolume: 40000, KeywordDifficulty: 40, CPC: 3, Trend: 60.0},
		{Keyword: "c", SearchVolume: 500, KeywordDifficulty: 90, CPC: 0.2, Trend: 20.0},
	}
	scores := s.ScoreAll(batch)

	top := s.FilterTop(scores, 2, "B")
	require.NotEmpty(t, top)
	assert.LessOrEqual(t, len(top), 2)
	for _, score := range top {
		assert.GreaterOrEqual(t, score.TotalScore, 60.0)
	}

	// A high grade floor keeps only the standout keyword
	elite := s.FilterTop(scores, 5, "A+")
	require.Len(t, elite, 1)
	assert.Equal(t, "a", elite[0].Keyword)

	// Zero or negative counts select nothing
	assert.Empty(t, s.FilterTop(scores, 0, "D"))
	assert.Empty(t, s.FilterTop(scores, -1, "D"))

	// An unknown grade disables selection instead of admitting everything
	assert.Empty(t, s.FilterTop(scores, 3, "B-"))
}

func TestBuildReport(t *testing.T) {
	s := keyword.NewScorer()

	assert.Nil(t, keyword.BuildReport(nil))

	batch := []model.KeywordMetrics{
		{Keyword: "a", SearchVolume: 90000, KeywordDifficulty: 10, CPC: 8, Trend: 90.0},
		{Keyword: "b", SearchVolume: 40000, KeywordDifficulty: 40, CPC: 3, Trend: 60.0},
		{Keyword: "c", SearchVolume: 500, KeywordDifficulty: 90, CPC: 0.2, Trend: 20.0},
	}
	report := keyword.BuildReport(s.ScoreAll(batch))
	require.NotNil(t, report)

	assert.Equal(t, 3, report.Summary.TotalKeywords)
	assert.Greater(t, report.Summary.AverageScore, 0.0)

	gradeTotal := 0
	for _, count := range report.Summary.GradeDistribution {
		gradeTotal += count
	}
	assert.Equal(t, 3, gradeTotal)

	require.NotEmpty(t, report.TopKeywords)
	assert.Equal(t, "a", report.TopKeywords[0].Keyword)
	assert.NotEmpty(t, report.TopKeywords[0].Recommendation)
	require.NotEmpty(t, report.BottomKeywords)
	assert.Equal(t, "c", report.BottomKeywords[len(report.BottomKeywords)-1].Keyword)

	for _, component := range []string{"search_volume", "keyword_difficulty", "cpc", "trend"} {
		assert.Contains(t, report.ComponentAnalysis, component)
	}
}
