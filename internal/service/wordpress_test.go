package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/service"
)

func newWordPress(t *testing.T, handler http.HandlerFunc) *service.WordPressClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return service.NewWordPressClient(server.URL, "admin", "secret")
}

func TestCreatePost(t *testing.T) {
	var gotPath, gotUser, gotPass string
	var gotPost map[string]interface{}
	client := newWordPress(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		json.NewDecoder(r.Body).Decode(&gotPost)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     123,
			"link":   "https://blog.test/?p=123",
			"status": "draft",
		})
	})

	result, err := client.CreatePost(context.Background(), service.Post{
		Title:   "Hello",
		Content: "<p>Body</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "/wp-json/wp/v2/posts", gotPath)
	assert.Equal(t, "admin", gotUser)
	assert.Equal(t, "secret", gotPass)
	// Empty status defaults to draft before the request goes out
	assert.Equal(t, "draft", gotPost["status"])

	assert.Equal(t, 123, result.PostID)
	assert.Equal(t, "https://blog.test/?p=123", result.PostURL)
	assert.Contains(t, result.EditURL, "/wp-admin/post.php?post=123&action=edit")
	assert.Equal(t, "draft", result.Status)
}

func TestCreatePostAuthFailure(t *testing.T) {
	client := newWordPress(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := client.CreatePost(context.Background(), service.Post{Title: "x"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestCreatePostServerError(t *testing.T) {
	client := newWordPress(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rest_invalid_param", http.StatusBadRequest)
	})
	_, err := client.CreatePost(context.Background(), service.Post{Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "rest_invalid_param")
}

func TestEnsureCategoryAndTag(t *testing.T) {
	client := newWordPress(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wp-json/wp/v2/categories":
			json.NewEncoder(w).Encode(map[string]int{"id": 9})
		case "/wp-json/wp/v2/tags":
			json.NewEncoder(w).Encode(map[string]int{"id": 4})
		default:
			http.NotFound(w, r)
		}
	})

	catID, err := client.EnsureCategory(context.Background(), "gaming")
	require.NoError(t, err)
	assert.Equal(t, 9, catID)

	tagID, err := client.EnsureTag(context.Background(), "mouse")
	require.NoError(t, err)
	assert.Equal(t, 4, tagID)
}

func TestTestConnection(t *testing.T) {
	client := newWordPress(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wp/v2/posts", r.URL.Path)
		json.NewEncoder(w).Encode([]interface{}{})
	})
	assert.NoError(t, client.TestConnection(context.Background()))
}
