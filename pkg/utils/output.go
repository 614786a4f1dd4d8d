package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// OutputWriter organizes per-run output files (result JSON, article body)
type OutputWriter struct {
	BaseDir string
}

// NewOutputWriter creates an output writer rooted at baseDir
func NewOutputWriter(baseDir string) *OutputWriter {
	return &OutputWriter{BaseDir: baseDir}
}

// runDir creates and returns the run's output directory
func (ow *OutputWriter) runDir(runID string) (string, error) {
	dir := filepath.Join(ow.BaseDir, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run output directory: %w", err)
	}
	return dir, nil
}

// SaveJSON writes v as indented JSON under the run's directory and
// returns the file path
func (ow *OutputWriter) SaveJSON(runID, fileName string, v interface{}) (string, error) {
	dir, err := ow.runDir(runID)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", fileName, err)
	}
	path := filepath.Join(dir, filepath.Base(fileName))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// SaveArticle writes the generated article body under the run's directory
func (ow *OutputWriter) SaveArticle(runID, title, body string) (string, error) {
	dir, err := ow.runDir(runID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "article.md")
	content := fmt.Sprintf("# %s\n\n%s\n", title, body)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}
