package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/keyword"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
)

// ScoreKeywordsRequest is the payload for POST /api/v1/keywords/score
type ScoreKeywordsRequest struct {
	Keywords []model.KeywordMetrics `json:"keywords"`
}

// ScoreKeywords scores a batch of keyword metrics
// @Summary Score keywords
// @Description Score and grade keyword metrics without running the full pipeline
// @Tags keywords
// @Accept json
// @Produce json
// @Param keywords body ScoreKeywordsRequest true "Keyword metrics to score"
// @Success 200 {object} map[string]interface{} "Scored keywords with report"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Router /keywords/score [post]
func ScoreKeywords(w http.ResponseWriter, r *http.Request) {
	var request ScoreKeywordsRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if len(request.Keywords) == 0 {
		http.Error(w, "At least one keyword is required", http.StatusBadRequest)
		return
	}

	scorer := keyword.NewScorer()
	scores := scorer.ScoreAll(request.Keywords)
	report := keyword.BuildReport(scores)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"scores": scores,
		"report": report,
		"count":  len(scores),
	})
}
