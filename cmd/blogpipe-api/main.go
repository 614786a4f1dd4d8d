package main

import (
	"context"
	"fmt"
	"log"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/api"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/api/handler"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/config"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/metrics"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/pipeline"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/service"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/store"
)

// @title AI SEO Blog Generator API
// @version 1.0
// @description API for running the multi-agent SEO blog generation pipeline
// @BasePath /api/v1
func main() {
	cfg := config.Load()

	// Init DB
	if err := store.InitDB(cfg.DBPath); err != nil {
		log.Fatalf("❌ failed to open database: %v", err)
	}

	gemini, err := service.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel,
		service.WithBaseURL(cfg.GeminiBaseURL),
		service.WithMinInterval(cfg.RateLimitInterval))
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	bus := pipeline.NewEventBus()
	bus.SubscribeFunc(metrics.EventSubscriber())

	services := pipeline.Services{
		Generator: gemini,
		Metrics:   service.NewMockSEOService(),
		Publisher: service.NewWordPressClient(cfg.WordPressURL, cfg.WordPressUsername, cfg.WordPressPassword),
		Store:     store.NewPipelineStore(),
		Bus:       bus,
	}
	opts := pipeline.Options{
		MaxRetries:    cfg.AgentMaxRetries,
		AgentTimeout:  cfg.AgentTimeout,
		WriterTimeout: cfg.WriterTimeout,
	}

	// The HTTP layer launches runs through this closure
	handler.Init(func(ctx context.Context, runID string, request model.PipelineRequest) {
		if request.PublishStatus == "" {
			request.PublishStatus = cfg.PublishStatus
		}
		if _, err := pipeline.RunWithID(ctx, runID, request, services, opts); err != nil {
			log.Printf("❌ run %s failed to start: %v", runID, err)
			store.SaveRunError(runID, "orchestrator", err.Error())
		}
	})

	r := api.NewRouter()
	r.Start(fmt.Sprintf(":%d", cfg.Port))
}
