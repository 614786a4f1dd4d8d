package api

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/api/handler"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/pkg/router"

	_ "github.com/Merostoroloji/AI-SEO-Blog-Generator/docs" // swagger docs
)

// NewRouter builds the full API router: run endpoints, keyword
// scoring, health, Prometheus metrics and the Swagger UI
func NewRouter() *router.Router {
	r := router.New()
	RegisterRoutes(r)

	r.GET("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle(http.MethodGet, "/metrics", promhttp.Handler())
	r.Handle(http.MethodGet, "/swagger/*", httpSwagger.WrapHandler)

	return r
}

func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/runs", handler.CreateRun)
	r.GET("/api/v1/runs", handler.ListRuns)
	// More specific routes first
	r.GET("/api/v1/runs/:id/errors", handler.GetRunErrors)
	r.GET("/api/v1/runs/:id/results", handler.GetRunResults)
	r.GET("/api/v1/runs/:id/events", handler.GetRunEvents)
	r.POST("/api/v1/runs/:id/retry", handler.RetryRun)
	r.POST("/api/v1/runs/:id/cancel", handler.CancelRun)
	r.DELETE("/api/v1/runs/:id", handler.DeleteRun)
	// Generic run route last
	r.GET("/api/v1/runs/:id", handler.GetRun)

	r.POST("/api/v1/keywords/score", handler.ScoreKeywords)
}
