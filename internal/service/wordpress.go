package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Post is the document handed to the publishing sink
type Post struct {
	Title      string `json:"title"`
	Content    string `json:"content"` // HTML body
	Status     string `json:"status"`  // draft, publish or private
	Excerpt    string `json:"excerpt"`
	Categories []int  `json:"categories"`
	Tags       []int  `json:"tags"`
}

// PublishResult describes the created post
type PublishResult struct {
	PostID  int    `json:"post_id"`
	PostURL string `json:"post_url"`
	EditURL string `json:"edit_url"`
	Status  string `json:"status"`
}

// PostPublisher is the publishing sink contract
type PostPublisher interface {
	CreatePost(ctx context.Context, post Post) (*PublishResult, error)
	EnsureCategory(ctx context.Context, name string) (int, error)
	EnsureTag(ctx context.Context, name string) (int, error)
}

// WordPressClient talks to the WordPress REST API with Basic auth.
// Authentication is the collaborator's concern; the pipeline only sees
// CreatePost succeed or fail.
type WordPressClient struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewWordPressClient creates a client for the given site
func NewWordPressClient(url, username, password string) *WordPressClient {
	return &WordPressClient{
		baseURL:    strings.TrimRight(url, "/"),
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetHTTPClient overrides the HTTP client, mainly for tests
func (c *WordPressClient) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

func (c *WordPressClient) apiURL(path string) string {
	return c.baseURL + "/wp-json/wp/v2" + path
}

func (c *WordPressClient) do(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wordpress request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("wordpress returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// TestConnection verifies credentials by listing posts
func (c *WordPressClient) TestConnection(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.apiURL("/posts"), nil, nil)
}

type wpPostResponse struct {
	ID     int    `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
}

// CreatePost creates a post and returns its identifiers and URLs
func (c *WordPressClient) CreatePost(ctx context.Context, post Post) (*PublishResult, error) {
	if post.Status == "" {
		post.Status = "draft"
	}
	if post.Categories == nil {
		post.Categories = []int{}
	}
	if post.Tags == nil {
		post.Tags = []int{}
	}

	var created wpPostResponse
	if err := c.do(ctx, http.MethodPost, c.apiURL("/posts"), post, &created); err != nil {
		return nil, fmt.Errorf("post creation failed: %w", err)
	}

	return &PublishResult{
		PostID:  created.ID,
		PostURL: created.Link,
		EditURL: fmt.Sprintf("%s/wp-admin/post.php?post=%d&action=edit", c.baseURL, created.ID),
		Status:  created.Status,
	}, nil
}

type wpTermResponse struct {
	ID int `json:"id"`
}

// EnsureCategory creates a category and returns its id. Failures return
// id 0 with the error so callers can publish without taxonomy.
func (c *WordPressClient) EnsureCategory(ctx context.Context, name string) (int, error) {
	var term wpTermResponse
	err := c.do(ctx, http.MethodPost, c.apiURL("/categories"), map[string]string{"name": name}, &term)
	if err != nil {
		return 0, err
	}
	return term.ID, nil
}

// EnsureTag creates a tag and returns its id
func (c *WordPressClient) EnsureTag(ctx context.Context, name string) (int, error) {
	var term wpTermResponse
	err := c.do(ctx, http.MethodPost, c.apiURL("/tags"), map[string]string{"name": name}, &term)
	if err != nil {
		return 0, err
	}
	return term.ID, nil
}
