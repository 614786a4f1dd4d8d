package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Merostoroloji/AI-SEO-Blog-Generator/internal/model"
)

var db *sql.DB

// Initialize DB connection
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	// Create tables if not exists
	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		request TEXT,
		status TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		agent TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`
	eventTable := `
	CREATE TABLE IF NOT EXISTS run_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		event_type TEXT,
		data TEXT,
		created_at DATETIME
	);
	`
	resultTable := `
	CREATE TABLE IF NOT EXISTS agent_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		agent TEXT,
		success INTEGER,
		data TEXT,
		processing_time REAL,
		created_at DATETIME
	);
	`

	for _, table := range []string{runTable, errorTable, eventTable, resultTable} {
		if _, err := db.Exec(table); err != nil {
			return err
		}
	}

	return nil
}

// CloseDB closes the connection, mainly for tests
func CloseDB() error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// SaveRun stores a new pipeline run
func SaveRun(runID string, request model.PipelineRequest, status model.PipelineStatus) error {
	requestJSON, err := json.Marshal(request)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO runs (id, request, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, requestJSON, string(status), now, now)
	return err
}

// UpdateRunStatus updates run status
func UpdateRunStatus(runID string, status model.PipelineStatus) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, string(status), now, runID)
	return err
}

// SaveRunError records an agent error for a run
func SaveRunError(runID, agent, message string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO run_errors (run_id, agent, error_message, created_at) VALUES (?, ?, ?, ?)`,
		runID, agent, message, now)
	return err
}

// SaveRunEvent records a pipeline event for a run
func SaveRunEvent(runID string, event model.PipelineEvent) error {
	dataJSON, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO run_events (run_id, event_type, data, created_at) VALUES (?, ?, ?, ?)`,
		runID, event.EventType, dataJSON, now)
	return err
}

// SaveAgentResult records one agent's response for a run
func SaveAgentResult(runID, agent string, response *model.AgentResponse) error {
	dataJSON, err := json.Marshal(response)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO agent_results (run_id, agent, success, data, processing_time, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, agent, response.Success, dataJSON, response.ProcessingTime, now)
	return err
}

// ListRuns returns all runs with basic info
func ListRuns() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]interface{}
	for rows.Next() {
		var id, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, map[string]interface{}{
			"id":        id,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return runs, nil
}

// GetRun fetches full run request and status
func GetRun(runID string) (map[string]interface{}, error) {
	var requestJSON string
	var status string
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT request, status, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&requestJSON, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var request model.PipelineRequest
	if err := json.Unmarshal([]byte(requestJSON), &request); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":        runID,
		"request":   request,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}, nil
}

// GetRunErrors returns all recorded errors for a run
func GetRunErrors(runID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT agent, error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errors []map[string]interface{}
	for rows.Next() {
		var agent, message string
		var createdAt time.Time
		if err := rows.Scan(&agent, &message, &createdAt); err != nil {
			return nil, err
		}
		errors = append(errors, map[string]interface{}{
			"agent":     agent,
			"error":     message,
			"createdAt": createdAt,
		})
	}
	return errors, nil
}

// GetRunEvents returns the event log for a run in emission order
func GetRunEvents(runID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT event_type, data, created_at FROM run_events WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []map[string]interface{}
	for rows.Next() {
		var eventType, dataJSON string
		var createdAt time.Time
		if err := rows.Scan(&eventType, &dataJSON, &createdAt); err != nil {
			return nil, err
		}
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
			return nil, err
		}
		events = append(events, map[string]interface{}{
			"eventType": eventType,
			"data":      data,
			"createdAt": createdAt,
		})
	}
	return events, nil
}

// GetRunResults returns per-agent responses for a run
func GetRunResults(runID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT agent, success, data, processing_time, created_at FROM agent_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var agent, dataJSON string
		var success bool
		var processingTime float64
		var createdAt time.Time
		if err := rows.Scan(&agent, &success, &dataJSON, &processingTime, &createdAt); err != nil {
			return nil, err
		}
		var response model.AgentResponse
		if err := json.Unmarshal([]byte(dataJSON), &response); err != nil {
			return nil, err
		}
		results = append(results, map[string]interface{}{
			"agent":          agent,
			"success":        success,
			"response":       response,
			"processingTime": processingTime,
			"createdAt":      createdAt,
		})
	}
	return results, nil
}

// DeleteRun removes a run and its errors, events and results
func DeleteRun(runID string) error {
	for _, q := range []string{
		`DELETE FROM agent_results WHERE run_id = ?`,
		`DELETE FROM run_events WHERE run_id = ?`,
		`DELETE FROM run_errors WHERE run_id = ?`,
		`DELETE FROM runs WHERE id = ?`,
	} {
		if _, err := db.Exec(q, runID); err != nil {
			return err
		}
	}
	return nil
}
