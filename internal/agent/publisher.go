package agent

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/service"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/pkg/utils"
)

// PublisherAgent is the final pipeline stage. It converts the reviewed
// article to WordPress-ready HTML, ensures taxonomy terms exist and
// creates the post through the publishing sink.
type PublisherAgent struct {
	publisher service.PostPublisher
	status    string // requested post status: draft or publish
	config    model.AgentConfig
}

// NewPublisherAgent creates the publishing agent. status is the
// WordPress post status to request; empty means draft.
func NewPublisherAgent(publisher service.PostPublisher, status string) *PublisherAgent {
	if status == "" {
		status = "draft"
	}
	return &PublisherAgent{
		publisher: publisher,
		status:    status,
		config: model.AgentConfig{
			Name:        "publisher",
			Description: "Formats the article and publishes it to WordPress",
			MaxRetries:  3,
			Timeout:     120 * time.Second,
		},
	}
}

// Name implements Agent
func (a *PublisherAgent) Name() string { return a.config.Name }

// OutputKey implements Agent
func (a *PublisherAgent) OutputKey() string { return "publishing" }

// Config returns the agent's execution config
func (a *PublisherAgent) Config() model.AgentConfig { return a.config }

// Process extracts the article assets from state, formats them and
// creates the post. Taxonomy failures degrade to an untagged post.
func (a *PublisherAgent) Process(ctx context.Context, input model.State) (*model.AgentResponse, error) {
	// 1. Gather everything the post needs from upstream stages
	ReportProgress(ctx, 15, "processing", "Extracting content data")
	article := articleFrom(input)
	if article == "" {
		return nil, fmt.Errorf("no article in pipeline state to publish")
	}
	title := titleFrom(article, input)
	excerpt := excerptFrom(article)
	primaries := primaryKeywordsFrom(input)

	// 2. Markdown to WordPress HTML
	ReportProgress(ctx, 35, "processing", "Formatting content for WordPress")
	html := markdownToHTML(article)

	// 3. Ensure taxonomy terms; failures are logged, not fatal
	ReportProgress(ctx, 55, "processing", "Preparing categories and tags")
	var categories, tags []int
	niche := input.GetString("niche")
	if niche != "" {
		if id, err := a.publisher.EnsureCategory(ctx, niche); err != nil {
			log.Printf("⚠️ publisher: category %q failed: %v", niche, err)
		} else {
			categories = append(categories, id)
		}
	}
	for _, kw := range primaries {
		if len(tags) >= 5 {
			break
		}
		if id, err := a.publisher.EnsureTag(ctx, kw); err != nil {
			log.Printf("⚠️ publisher: tag %q failed: %v", kw, err)
		} else {
			tags = append(tags, id)
		}
	}

	// 4. Create the post
	ReportProgress(ctx, 75, "processing", "Creating WordPress post")
	result, err := a.publisher.CreatePost(ctx, service.Post{
		Title:      title,
		Content:    html,
		Status:     a.status,
		Excerpt:    excerpt,
		Categories: categories,
		Tags:       tags,
	})
	if err != nil {
		return nil, fmt.Errorf("publishing failed: %w", err)
	}
	log.Printf("🚀 publisher: created post %d (%s)", result.PostID, result.Status)

	ReportProgress(ctx, 90, "processing", "Compiling publication summary")
	data := map[string]interface{}{
		"publication_summary": map[string]interface{}{
			"published":  true,
			"post_id":    result.PostID,
			"post_url":   result.PostURL,
			"edit_url":   result.EditURL,
			"status":     result.Status,
			"title":      title,
			"categories": categories,
			"tags":       tags,
		},
	}

	return &model.AgentResponse{
		Success:   true,
		Data:      data,
		Reasoning: []string{},
		Errors:    []string{},
		Metadata: map[string]interface{}{
			"agent_name": a.config.Name,
			"post_id":    result.PostID,
		},
	}, nil
}

var (
	h4Re       = regexp.MustCompile(`(?m)^#### (.+)$`)
	h3Re       = regexp.MustCompile(`(?m)^### (.+)$`)
	h2Re       = regexp.MustCompile(`(?m)^## (.+)$`)
	h1Re       = regexp.MustCompile(`(?m)^# (.+)$`)
	boldRe     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe   = regexp.MustCompile(`\*([^*\n]+)\*`)
	listItemRe = regexp.MustCompile(`(?m)^[*-] (.+)$`)
	listRe     = regexp.MustCompile(`(?s)(<li>.*?</li>\n?)+`)
	titleRe    = regexp.MustCompile(`(?m)^#\s+(.+)$`)
)

// markdownToHTML converts the writer's markdown into the HTML subset
// WordPress renders cleanly. Deliberately minimal: headers, emphasis,
// lists and paragraphs cover what the writer produces.
func markdownToHTML(md string) string {
	out := h4Re.ReplaceAllString(md, "<h4>$1</h4>")
	out = h3Re.ReplaceAllString(out, "<h3>$1</h3>")
	out = h2Re.ReplaceAllString(out, "<h2>$1</h2>")
	out = h1Re.ReplaceAllString(out, "<h1>$1</h1>")
	out = boldRe.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicRe.ReplaceAllString(out, "<em>$1</em>")
	out = listItemRe.ReplaceAllString(out, "<li>$1</li>")
	out = listRe.ReplaceAllString(out, "<ul>$0</ul>")

	paragraphs := strings.Split(out, "\n\n")
	for i, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p != "" && !strings.HasPrefix(p, "<") {
			p = "<p>" + p + "</p>"
		}
		paragraphs[i] = p
	}
	return strings.Join(paragraphs, "\n\n")
}

// titleFrom takes the article's H1 when present, otherwise builds a
// title from the product name
func titleFrom(article string, input model.State) string {
	if m := titleRe.FindStringSubmatch(article); m != nil {
		return strings.TrimSpace(m[1])
	}
	product := input.GetString("product_name")
	if product != "" {
		return product + ": Complete Guide and Review"
	}
	return "Untitled Article"
}

// excerptFrom takes the first non-header paragraph, trimmed to the
// WordPress excerpt length
func excerptFrom(article string) string {
	for _, p := range strings.Split(article, "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		return utils.Truncate(p, 150)
	}
	return ""
}
