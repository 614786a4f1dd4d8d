package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/store"
	"github.com/Merostoroloji/AI-SEO-Blog-Generator/pkg/router"
)

// Launcher starts one pipeline run in the background. The HTTP layer
// stays ignorant of agent wiring; main injects the real implementation.
type Launcher func(ctx context.Context, runID string, request model.PipelineRequest)

var (
	launch Launcher

	cancelMu   sync.Mutex
	cancelFns  = map[string]context.CancelFunc{}
	runTimeout = 30 * time.Minute
)

// Init injects the pipeline launcher used by CreateRun and RetryRun
func Init(l Launcher) {
	launch = l
}

// startRun registers a cancellable context and launches the run
func startRun(runID string, request model.PipelineRequest) {
	if launch == nil {
		log.Printf("❌ no pipeline launcher configured, run %s will not start", runID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)

	cancelMu.Lock()
	cancelFns[runID] = cancel
	cancelMu.Unlock()

	go func() {
		defer func() {
			cancel()
			cancelMu.Lock()
			delete(cancelFns, runID)
			cancelMu.Unlock()
		}()
		launch(ctx, runID, request)
	}()
}

// CreateRun creates a new blog generation run
// @Summary Create a new pipeline run
// @Description Create and start a new blog generation run with the provided configuration
// @Tags runs
// @Accept json
// @Produce json
// @Param run body model.PipelineRequest true "Run configuration"
// @Success 200 {object} map[string]interface{} "Run created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [post]
func CreateRun(w http.ResponseWriter, r *http.Request) {
	var request model.PipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	// 1. Validate payload
	if request.ProductName == "" {
		http.Error(w, "product_name is required", http.StatusBadRequest)
		return
	}
	if len(request.TargetKeywords) == 0 {
		http.Error(w, "At least one target keyword is required", http.StatusBadRequest)
		return
	}

	// 2. Generate run ID
	runID := uuid.New().String()

	// 3. Save run to DB
	if err := store.SaveRun(runID, request, model.StatusPending); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	// 4. Start pipeline asynchronously
	startRun(runID, request)

	// 5. Return response
	resp := map[string]interface{}{
		"message":   "Run created successfully!",
		"runID":     runID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListRuns retrieves all pipeline runs
// @Summary List all runs
// @Description Get a list of all pipeline runs with their current status
// @Tags runs
// @Accept json
// @Produce json
// @Success 200 {array} map[string]interface{} "List of runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [get]
func ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// GetRun retrieves a specific pipeline run
// @Summary Get run
// @Description Retrieve details of a specific pipeline run
// @Tags runs
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run details"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /runs/{id} [get]
func GetRun(w http.ResponseWriter, r *http.Request) {
	runID := router.Param(r, "id")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetRunErrors retrieves errors for a run
// @Summary Get run errors
// @Description Retrieve all agent errors that occurred during a run
// @Tags runs
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run errors"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/errors [get]
func GetRunErrors(w http.ResponseWriter, r *http.Request) {
	runID := router.Param(r, "id")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	errors, err := store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id": runID,
		"errors": errors,
		"count":  len(errors),
	})
}

// GetRunResults retrieves per-agent results for a run
// @Summary Get run results
// @Description Retrieve the responses every agent produced during a run
// @Tags runs
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run results"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/results [get]
func GetRunResults(w http.ResponseWriter, r *http.Request) {
	runID := router.Param(r, "id")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	results, err := store.GetRunResults(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve results", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id":  runID,
		"results": results,
		"count":   len(results),
	})
}

// GetRunEvents retrieves the event log for a run
// @Summary Get run events
// @Description Retrieve the pipeline event log for a run in emission order
// @Tags runs
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run events"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/events [get]
func GetRunEvents(w http.ResponseWriter, r *http.Request) {
	runID := router.Param(r, "id")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	events, err := store.GetRunEvents(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve events", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id": runID,
		"events": events,
		"count":  len(events),
	})
}

// RetryRun restarts a run with its original configuration
// @Summary Retry run
// @Description Start a new run using the configuration of an existing run
// @Tags runs
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Retry started"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/retry [post]
func RetryRun(w http.ResponseWriter, r *http.Request) {
	runID := router.Param(r, "id")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	request, ok := run["request"].(model.PipelineRequest)
	if !ok {
		http.Error(w, "Stored run configuration is unreadable", http.StatusInternalServerError)
		return
	}

	newRunID := uuid.New().String()
	if err := store.SaveRun(newRunID, request, model.StatusPending); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}
	startRun(newRunID, request)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":    "Retry started",
		"runID":      newRunID,
		"retriedRun": runID,
		"status":     "pending",
	})
}

// CancelRun cancels an in-flight run
// @Summary Cancel run
// @Description Cancel a running pipeline; finished runs cannot be cancelled
// @Tags runs
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run cancelled"
// @Failure 404 {object} map[string]interface{} "Run not running"
// @Router /runs/{id}/cancel [post]
func CancelRun(w http.ResponseWriter, r *http.Request) {
	runID := router.Param(r, "id")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	cancelMu.Lock()
	cancel, ok := cancelFns[runID]
	cancelMu.Unlock()
	if !ok {
		http.Error(w, "Run is not running", http.StatusNotFound)
		return
	}
	cancel()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Cancellation requested",
		"runID":   runID,
	})
}

// DeleteRun removes a run and all its recorded data
// @Summary Delete run
// @Description Delete a run together with its errors, events and results
// @Tags runs
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run deleted"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id} [delete]
func DeleteRun(w http.ResponseWriter, r *http.Request) {
	runID := router.Param(r, "id")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	if err := store.DeleteRun(runID); err != nil {
		http.Error(w, "Failed to delete run", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Run deleted",
		"runID":   runID,
	})
}
