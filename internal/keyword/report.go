package keyword

import (
	"math"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
)

// ReportSummary aggregates a scored keyword batch
type ReportSummary struct {
	TotalKeywords     int            `json:"total_keywords"`
	AverageScore      float64        `json:"average_score"`
	GradeDistribution map[string]int `json:"grade_distribution"`
}

// ReportEntry is one keyword line in a report
type ReportEntry struct {
	Keyword        string  `json:"keyword"`
	Score          float64 `json:"score"`
	Grade          string  `json:"grade"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// Report is the full analysis report for a scored keyword batch
type Report struct {
	Summary           ReportSummary      `json:"summary"`
	TopKeywords       []ReportEntry      `json:"top_keywords"`
	BottomKeywords    []ReportEntry      `json:"bottom_keywords"`
	ComponentAnalysis map[string]float64 `json:"component_analysis"`
	Recommendations   []string           `json:"recommendations"`
}

// BuildReport summarizes an already-sorted score list: grade
// distribution, best and worst keywords, per-component averages and
// overall advisory notes
func BuildReport(scores []model.KeywordScore) *Report {
	if len(scores) == 0 {
		return nil
	}

	grades := make(map[string]int)
	var totalSum float64
	componentSums := map[string]float64{
		"search_volume": 0, "keyword_difficulty": 0, "cpc": 0, "trend": 0,
	}
	for _, score := range scores {
		grades[score.Grade]++
		totalSum += score.TotalScore
		for component := range componentSums {
			componentSums[component] += score.ComponentScores[component]
		}
	}

	n := float64(len(scores))
	componentAvgs := make(map[string]float64, len(componentSums))
	for component, sum := range componentSums {
		componentAvgs[component] = round2(sum / n)
	}

	return &Report{
		Summary: ReportSummary{
			TotalKeywords:     len(scores),
			AverageScore:      round2(totalSum / n),
			GradeDistribution: grades,
		},
		TopKeywords:       entries(scores[:min(5, len(scores))], true),
		BottomKeywords:    entries(scores[max(0, len(scores)-5):], false),
		ComponentAnalysis: componentAvgs,
		Recommendations:   overallRecommendations(componentAvgs, grades),
	}
}

func entries(scores []model.KeywordScore, withRecommendation bool) []ReportEntry {
	out := make([]ReportEntry, 0, len(scores))
	for _, score := range scores {
		entry := ReportEntry{
			Keyword: score.Keyword,
			Score:   round2(score.TotalScore),
			Grade:   score.Grade,
		}
		if withRecommendation {
			entry.Recommendation = score.Recommendation
		}
		out = append(out, entry)
	}
	return out
}

func overallRecommendations(componentAvgs map[string]float64, grades map[string]int) []string {
	var recs []string
	if componentAvgs["search_volume"] < 40 {
		recs = append(recs, "Consider targeting higher volume keywords or focus on long-tail strategy")
	}
	if componentAvgs["keyword_difficulty"] < 50 {
		recs = append(recs, "High competition detected - consider less competitive alternatives")
	}
	if componentAvgs["cpc"] < 30 {
		recs = append(recs, "Low commercial intent - supplement with high-value keywords")
	}
	if componentAvgs["trend"] < 40 {
		recs = append(recs, "Declining trends detected - research emerging keywords")
	}

	total := 0
	for _, count := range grades {
		total += count
	}
	highGrade := grades["A+"] + grades["A"]
	if total > 0 && float64(highGrade)/float64(total) < 0.2 {
		recs = append(recs, "Low percentage of high-value keywords - expand research")
	}
	return recs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

