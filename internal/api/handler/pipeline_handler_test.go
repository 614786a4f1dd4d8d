package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/api"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/api/handler"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/store"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/pkg/router"
)

// launchRecorder captures launches so tests can assert without running
// a real pipeline
type launchRecorder struct {
	mu       sync.Mutex
	launched []string
	requests []model.PipelineRequest
}

func (l *launchRecorder) launch(ctx context.Context, runID string, request model.PipelineRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launched = append(l.launched, runID)
	l.requests = append(l.requests, request)
}

func (l *launchRecorder) wait(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		l.mu.Lock()
		count := len(l.launched)
		l.mu.Unlock()
		if count >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d launches", n)
}

func setupAPI(t *testing.T) (*router.Router, *launchRecorder) {
	t.Helper()
	require.NoError(t, store.InitDB(filepath.Join(t.TempDir(), "api.db")))
	t.Cleanup(func() { store.CloseDB() })

	recorder := &launchRecorder{}
	handler.Init(recorder.launch)

	r := router.New()
	api.RegisterRoutes(r)
	return r, recorder
}

func TestCreateRun(t *testing.T) {
	r, recorder := setupAPI(t)

	body := `{"product_name":"Widget","target_keywords":["widget"],"niche":"gadgets"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/runs", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	runID := resp["runID"].(string)
	assert.NotEmpty(t, runID)
	assert.Equal(t, "pending", resp["status"])

	recorder.wait(t, 1)
	assert.Equal(t, runID, recorder.launched[0])
	assert.Equal(t, "Widget", recorder.requests[0].ProductName)

	// The run is queryable right away
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+runID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateRunWithoutLauncher(t *testing.T) {
	r, _ := setupAPI(t)
	handler.Init(nil)

	body := `{"product_name":"Widget","target_keywords":["widget"]}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/runs", strings.NewReader(body)))

	// The run is recorded but never launched; no panic
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+resp["runID"].(string), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateRunValidation(t *testing.T) {
	r, _ := setupAPI(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"missing product", `{"target_keywords":["x"]}`},
		{"missing keywords", `{"product_name":"Widget"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/runs", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetRunNotFound(t *testing.T) {
	r, _ := setupAPI(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/missing-id", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRunsAndErrors(t *testing.T) {
	r, _ := setupAPI(t)

	require.NoError(t, store.SaveRun("run-x", model.PipelineRequest{ProductName: "X"}, model.StatusCompleted))
	require.NoError(t, store.SaveRunError("run-x", "publisher", "unreachable"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	assert.Len(t, runs, 1)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/run-x/errors", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var errResp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, float64(1), errResp["count"])
}

func TestRetryRun(t *testing.T) {
	r, recorder := setupAPI(t)

	require.NoError(t, store.SaveRun("run-orig", model.PipelineRequest{
		ProductName:    "Widget",
		TargetKeywords: []string{"widget"},
	}, model.StatusFailed))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/runs/run-orig/retry", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "run-orig", resp["retriedRun"])
	assert.NotEqual(t, "run-orig", resp["runID"])

	recorder.wait(t, 1)
	assert.Equal(t, "Widget", recorder.requests[0].ProductName)
}

func TestCancelRunNotRunning(t *testing.T) {
	r, _ := setupAPI(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/runs/ghost/cancel", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRun(t *testing.T) {
	r, _ := setupAPI(t)

	require.NoError(t, store.SaveRun("run-del", model.PipelineRequest{ProductName: "X"}, model.StatusCompleted))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/runs/run-del", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/run-del", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScoreKeywords(t *testing.T) {
	r, _ := setupAPI(t)

	body := `{"keywords":[
		{"keyword":"widget","search_volume":50000,"keyword_difficulty":75,"cpc":3.5,"trend":80},
		{"keyword":"gizmo","search_volume":200,"keyword_difficulty":90,"cpc":0.1,"trend":10}
	]}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/keywords/score", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(2), resp["count"])

	scores := resp["scores"].([]interface{})
	first := scores[0].(map[string]interface{})
	assert.Equal(t, "widget", first["keyword"])
	assert.Equal(t, "B", first["grade"])
	assert.NotNil(t, resp["report"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/keywords/score", strings.NewReader(`{"keywords":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
