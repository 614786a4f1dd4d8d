package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/config"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/pipeline"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/service"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/store"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/pkg/utils"
)

func main() {
	product := flag.String("product", "", "product name to write about (required)")
	niche := flag.String("niche", "", "market niche")
	audience := flag.String("audience", "", "target audience")
	keywords := flag.String("keywords", "", "comma-separated target keywords (required)")
	length := flag.String("length", "medium", "content length: short, medium or long")
	skipQuality := flag.Bool("skip-quality", false, "skip the quality check stage")
	skipPublish := flag.Bool("skip-publish", false, "skip the publishing stage")
	flag.Parse()

	if *product == "" || *keywords == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()

	if err := store.InitDB(cfg.DBPath); err != nil {
		log.Fatalf("❌ failed to open database: %v", err)
	}
	defer store.CloseDB()

	gemini, err := service.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel,
		service.WithBaseURL(cfg.GeminiBaseURL),
		service.WithMinInterval(cfg.RateLimitInterval))
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	request := model.PipelineRequest{
		ProductName:      *product,
		Niche:            *niche,
		TargetAudience:   *audience,
		TargetKeywords:   splitKeywords(*keywords),
		ContentLength:    *length,
		PublishStatus:    cfg.PublishStatus,
		SkipQualityCheck: *skipQuality || cfg.SkipQualityCheck,
		SkipPublishing:   *skipPublish || cfg.SkipPublishing,
	}

	services := pipeline.Services{
		Generator: gemini,
		Metrics:   service.NewMockSEOService(),
		Store:     store.NewPipelineStore(),
		Bus:       pipeline.NewEventBus(),
	}
	if !request.SkipPublishing {
		services.Publisher = service.NewWordPressClient(
			cfg.WordPressURL, cfg.WordPressUsername, cfg.WordPressPassword)
	}

	result, err := pipeline.Run(context.Background(), request, services, pipeline.Options{
		MaxRetries:    cfg.AgentMaxRetries,
		AgentTimeout:  cfg.AgentTimeout,
		WriterTimeout: cfg.WriterTimeout,
	})
	if err != nil {
		log.Fatalf("❌ pipeline setup failed: %v", err)
	}

	printSummary(result)
	saveOutputs(cfg.OutputDir, result)

	if result.Status == model.StatusFailed {
		os.Exit(1)
	}
}

func splitKeywords(raw string) []string {
	var out []string
	for _, kw := range strings.Split(raw, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func printSummary(result *model.PipelineResult) {
	fmt.Println()
	fmt.Println("==================================================")
	fmt.Printf("🏁 Run %s finished: %s\n", result.RunID, result.Status)
	fmt.Printf("✅ Agents succeeded: %d/%d\n", result.Summary.SuccessfulAgents, result.Summary.TotalAgents)
	fmt.Printf("⏱️ Total time: %.2fs\n", result.Summary.ProcessingTime)
	for _, msg := range result.Summary.Errors {
		fmt.Printf("❌ %s\n", msg)
	}

	if publishing, ok := result.Output["publishing"].(map[string]interface{}); ok {
		if summary, ok := publishing["publication_summary"].(map[string]interface{}); ok {
			fmt.Printf("📝 Post ID: %v\n", summary["post_id"])
			fmt.Printf("🔗 Post URL: %v\n", summary["post_url"])
			fmt.Printf("✏️ Edit URL: %v\n", summary["edit_url"])
		}
	}
	fmt.Println("==================================================")
}

func saveOutputs(outputDir string, result *model.PipelineResult) {
	writer := utils.NewOutputWriter(outputDir)

	if path, err := writer.SaveJSON(result.RunID, "result.json", result); err != nil {
		log.Printf("⚠️ failed to save result: %v", err)
	} else {
		log.Printf("💾 Result saved to %s", path)
	}

	article, title := articleFromOutput(result.Output)
	if article == "" {
		return
	}
	if path, err := writer.SaveArticle(result.RunID, title, article); err != nil {
		log.Printf("⚠️ failed to save article: %v", err)
	} else {
		log.Printf("💾 Article saved to %s", path)
	}
}

// articleFromOutput digs the final article and a display title out of
// the accumulated pipeline output
func articleFromOutput(output map[string]interface{}) (article, title string) {
	writing, ok := output["content_writing"].(map[string]interface{})
	if !ok {
		return "", ""
	}
	final, ok := writing["final_article"].(map[string]interface{})
	if !ok {
		return "", ""
	}
	article, _ = final["content"].(string)

	title = "Generated Article"
	if publishing, ok := output["publishing"].(map[string]interface{}); ok {
		if summary, ok := publishing["publication_summary"].(map[string]interface{}); ok {
			if t, ok := summary["title"].(string); ok && t != "" {
				title = t
			}
		}
	}
	return article, title
}
