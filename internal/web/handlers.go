package web

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/On-Jun9/dngprobe/internal/metadata"
	"github.com/On-Jun9/dngprobe/internal/scanner"
	"github.com/On-Jun9/dngprobe/internal/tagdump"
	"github.com/On-Jun9/dngprobe/pkg/types"
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type APIErrorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIErrorResponse{Message: message})
}

func writeValidationError(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusBadRequest, ValidationError{
		Field:   field,
		Message: message,
	})
}

// statusForResult maps a load outcome to its HTTP status.
func statusForResult(result types.LoadResult) int {
	if result.OK() {
		return http.StatusOK
	}
	switch result.Err.Kind {
	case types.ErrorKindPathEncoding:
		return http.StatusBadRequest
	case types.ErrorKindIO:
		if errors.Is(result.Err, fs.ErrNotExist) {
			return http.StatusNotFound
		}
		return http.StatusInternalServerError
	case types.ErrorKindBadFormat:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeValidationError(w, "path", "path is required")
		return
	}

	ignoreEnhanced := false
	if v := r.URL.Query().Get("ignore_enhanced"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeValidationError(w, "ignore_enhanced", "ignore_enhanced must be a boolean")
			return
		}
		ignoreEnhanced = parsed
	}

	loader := metadata.NewLoader()
	loader.SetProgressCallback(func(event types.LoadEvent) {
		s.broadcastEvent(event)
	})

	start := time.Now()
	result := loader.Load(path, ignoreEnhanced)
	if s.logger != nil {
		s.logger.LogResult(path, result, time.Since(start))
	}
	s.recordHistory(path, result)

	writeJSON(w, statusForResult(result), result)
}

func (s *Server) recordHistory(path string, result types.LoadResult) {
	if s.history == nil {
		return
	}
	entry := types.InspectHistoryEntry{
		Path:      path,
		Timestamp: time.Now(),
		OK:        result.OK(),
	}
	if result.OK() {
		entry.Make = result.Record.Make
		entry.Model = result.Record.Model
	} else {
		entry.Kind = result.Err.Kind
	}
	if err := s.history.AddHistoryEntry(entry); err != nil && s.logger != nil {
		s.logger.Error("failed to record inspection", err)
	}
}

type BrowseResponse struct {
	Path    string            `json:"path"`
	Entries []types.FileEntry `json:"entries"`
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		homeDir, _ := os.UserHomeDir()
		path = homeDir
	}

	entries, err := scanner.New(scanner.DefaultExtensions).Scan(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeAPIError(w, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, os.ErrPermission) {
			writeAPIError(w, http.StatusForbidden, err.Error())
			return
		}
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []types.FileEntry{}
	}

	writeJSON(w, http.StatusOK, BrowseResponse{
		Path:    path,
		Entries: entries,
	})
}

type TagsResponse struct {
	Path string           `json:"path"`
	Tags []types.TagEntry `json:"tags"`
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeValidationError(w, "path", "path is required")
		return
	}

	tags, err := tagdump.Dump(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			writeAPIError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, fs.ErrPermission):
			writeAPIError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, tagdump.ErrNoExif):
			writeAPIError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeAPIError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, TagsResponse{Path: path, Tags: tags})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeAPIError(w, http.StatusNotFound, "inspection history is disabled")
		return
	}

	// Get limit from query parameter (default 20, max 100)
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil {
			limit = parsedLimit
			if limit > 100 {
				limit = 100
			} else if limit < 1 {
				limit = 20
			}
		}
	}

	history, err := s.history.LoadHistory()
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if len(history.Entries) > limit {
		history.Entries = history.Entries[:limit]
	}

	writeJSON(w, http.StatusOK, history)
}

func (s *Server) broadcastJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case s.hub.broadcast <- data:
	default:
		// hub is stalled, drop the event
	}
}

func (s *Server) broadcastEvent(event types.LoadEvent) {
	s.broadcastJSON(event)
}

// Version handler

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}
