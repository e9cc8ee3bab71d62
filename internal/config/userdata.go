package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/On-Jun9/dngprobe/pkg/types"
)

const maxHistoryEntries = 100

// UserDataManager stores the inspection history of the web inspector.
type UserDataManager struct {
	dataDir string
}

// validatePath checks for potentially malicious characters in paths.
// Paths reach the history file from HTTP requests and are shown again in
// the browser, so HTML and script patterns are rejected.
func validatePath(path string) error {
	if path == "" {
		return nil
	}

	lowerPath := strings.ToLower(path)

	htmlTagPatterns := []string{
		"<script",
		"</script",
		"<iframe",
		"<object",
		"<embed",
		"<img",
	}

	for _, pattern := range htmlTagPatterns {
		if strings.Contains(lowerPath, pattern) {
			return fmt.Errorf("path contains HTML tag pattern: %s", pattern)
		}
	}

	dangerousPatterns := []string{
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"onmouseover=",
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerPath, pattern) {
			return fmt.Errorf("path contains potentially malicious pattern: %s", pattern)
		}
	}

	if len(path) > 4096 {
		return fmt.Errorf("path too long (max 4096 characters)")
	}

	return nil
}

// NewUserDataManager creates the data directory if needed.
func NewUserDataManager(dataDir string) (*UserDataManager, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &UserDataManager{dataDir: dataDir}, nil
}

// SaveHistory writes the inspection history to disk.
func (m *UserDataManager) SaveHistory(history *types.InspectHistory) error {
	for _, entry := range history.Entries {
		if err := validatePath(entry.Path); err != nil {
			return &ValidationError{
				Field:   "history",
				Message: fmt.Sprintf("invalid path in history: %v", err),
			}
		}
	}

	history.UpdatedAt = time.Now()

	filename := filepath.Join(m.dataDir, "inspect-history.json")
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal inspect history: %w", err)
	}

	// Atomic write
	tmpFile := filename + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write inspect history file: %w", err)
	}
	if err := os.Rename(tmpFile, filename); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename inspect history file: %w", err)
	}

	return nil
}

// LoadHistory loads the inspection history.
// Returns an empty history if the file doesn't exist.
func (m *UserDataManager) LoadHistory() (*types.InspectHistory, error) {
	filename := filepath.Join(m.dataDir, "inspect-history.json")
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return &types.InspectHistory{
				Entries:   []types.InspectHistoryEntry{},
				UpdatedAt: time.Now(),
			}, nil
		}
		return nil, fmt.Errorf("failed to read inspect history file: %w", err)
	}

	var history types.InspectHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inspect history: %w", err)
	}

	return &history, nil
}

// AddHistoryEntry prepends entry, keeping the most recent 100 entries.
func (m *UserDataManager) AddHistoryEntry(entry types.InspectHistoryEntry) error {
	if err := validatePath(entry.Path); err != nil {
		return &ValidationError{Field: "path", Message: err.Error()}
	}

	history, err := m.LoadHistory()
	if err != nil {
		return fmt.Errorf("failed to load inspect history: %w", err)
	}

	history.Entries = append([]types.InspectHistoryEntry{entry}, history.Entries...)
	if len(history.Entries) > maxHistoryEntries {
		history.Entries = history.Entries[:maxHistoryEntries]
	}

	if err := m.SaveHistory(history); err != nil {
		return fmt.Errorf("failed to save inspect history: %w", err)
	}

	return nil
}
