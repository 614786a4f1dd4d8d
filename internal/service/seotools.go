package service

import (
	"context"
	"hash/fnv"
	"log"
	"strings"
	"time"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
)

// MetricsProvider returns raw keyword metrics for seed keywords.
// Implementations must tolerate partial failures: a bad keyword is
// skipped, never fatal to the batch.
type MetricsProvider interface {
	ResearchKeywords(ctx context.Context, seeds []string) ([]model.KeywordMetrics, error)
}

// MockSEOService is a deterministic, offline metrics provider. Metrics
// are derived from a hash of the keyword so repeated runs and tests see
// identical data, with long-tail keywords skewed toward lower volume
// and lower difficulty the way real keyword data behaves.
type MockSEOService struct {
	now func() time.Time
}

// NewMockSEOService creates the offline metrics provider
func NewMockSEOService() *MockSEOService {
	return &MockSEOService{now: time.Now}
}

// ResearchKeywords produces one KeywordMetrics per non-empty seed
func (m *MockSEOService) ResearchKeywords(_ context.Context, seeds []string) ([]model.KeywordMetrics, error) {
	metrics := make([]model.KeywordMetrics, 0, len(seeds))
	for _, seed := range seeds {
		keyword := strings.TrimSpace(strings.ToLower(seed))
		if keyword == "" {
			log.Printf("⚠️ skipping empty seed keyword")
			continue
		}
		metrics = append(metrics, m.metricsFor(keyword))
	}
	return metrics, nil
}

func (m *MockSEOService) metricsFor(keyword string) model.KeywordMetrics {
	h := hashOf(keyword)
	words := len(strings.Fields(keyword))

	// More words means a longer tail: less volume, less competition.
	volume := int(1000 + h%99000)
	difficulty := float64(20 + h%70)
	if words >= 3 {
		volume /= 4
		difficulty -= 15
	}
	if difficulty < 5 {
		difficulty = 5
	}

	cpc := 0.5 + float64(h%95)/10.0 // 0.5 .. 9.9 USD
	trend := float64(30 + h%70)

	competition := model.CompetitionMedium
	switch {
	case difficulty < 35:
		competition = model.CompetitionLow
	case difficulty > 65:
		competition = model.CompetitionHigh
	}

	return model.KeywordMetrics{
		Keyword:           keyword,
		SearchVolume:      volume,
		KeywordDifficulty: difficulty,
		CPC:               cpc,
		Trend:             trend,
		Competition:       competition,
		LastUpdated:       m.now().UTC(),
	}
}

// Autocomplete returns common long-tail expansions of a keyword,
// mirroring search-engine suggestion patterns
func (m *MockSEOService) Autocomplete(keyword string) []string {
	keyword = strings.TrimSpace(strings.ToLower(keyword))
	if keyword == "" {
		return nil
	}
	suffixes := []string{"review", "price", "vs", "best", "how to use", "for beginners", "2025", "alternatives"}
	out := make([]string, 0, len(suffixes))
	for _, suffix := range suffixes {
		out = append(out, keyword+" "+suffix)
	}
	return out
}

// TrendSeries returns a 12-point weekly trend series for a keyword,
// shaped the way the scorer's trend normalization expects
func (m *MockSEOService) TrendSeries(keyword string) map[string]interface{} {
	h := hashOf(keyword)
	base := float64(30 + h%50)
	values := make([]float64, 12)
	for i := range values {
		// Small deterministic wobble around the base level.
		values[i] = base + float64((h>>uint(i%8))%20) - 10
		if values[i] < 0 {
			values[i] = 0
		}
		if values[i] > 100 {
			values[i] = 100
		}
	}
	return map[string]interface{}{"values": values}
}

func hashOf(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
