package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// handleConfig handles GET and PUT requests for configuration
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetConfig(w, r)
	case http.MethodPut:
		s.handlePutConfig(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetConfig returns the current configuration
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.GetConfig()

	response := struct {
		Hotkey              string `json:"hotkey"`
		ModifierName        string `json:"modifierName"`
		KeyName             string `json:"keyName"`
		RetryCount          int    `json:"retryCount"`
		RetryDelayMs        int    `json:"retryDelayMs"`
		FocusRestoreDelayMs int    `json:"focusRestoreDelayMs"`
		WebEnabled          bool   `json:"webEnabled"`
		WebPort             int    `json:"webPort"`
		SnippetsEnabled     bool   `json:"snippetsEnabled"`
		SnippetsPath        string `json:"snippetsPath"`
	}{
		Hotkey:              s.agent.Hotkey(),
		ModifierName:        cfg.Hotkey.ModifierName,
		KeyName:             cfg.Hotkey.KeyName,
		RetryCount:          cfg.Injection.RetryCount,
		RetryDelayMs:        cfg.Injection.RetryDelayMs,
		FocusRestoreDelayMs: cfg.Injection.FocusRestoreDelayMs,
		WebEnabled:          cfg.Web.Enabled,
		WebPort:             cfg.Web.Port,
		SnippetsEnabled:     cfg.Snippets.Enabled,
		SnippetsPath:        cfg.Snippets.Path,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handlePutConfig updates the configuration
func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ModifierName        *string `json:"modifierName"`
		KeyName             *string `json:"keyName"`
		RetryCount          *int    `json:"retryCount"`
		RetryDelayMs        *int    `json:"retryDelayMs"`
		FocusRestoreDelayMs *int    `json:"focusRestoreDelayMs"`
		WebEnabled          *bool   `json:"webEnabled"`
		WebPort             *int    `json:"webPort"`
		SnippetsEnabled     *bool   `json:"snippetsEnabled"`
		SnippetsPath        *string `json:"snippetsPath"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Work on a copy so a validation failure leaves the live config intact.
	cfg := *s.GetConfig()

	// Update fields if provided. A name change clears the stored VK codes
	// so the new names are what gets resolved.
	if req.ModifierName != nil {
		cfg.Hotkey.ModifierName = *req.ModifierName
		cfg.Hotkey.ModifierVK = 0
	}
	if req.KeyName != nil {
		cfg.Hotkey.KeyName = *req.KeyName
		cfg.Hotkey.KeyVK = 0
	}
	if req.RetryCount != nil {
		cfg.Injection.RetryCount = *req.RetryCount
	}
	if req.RetryDelayMs != nil {
		cfg.Injection.RetryDelayMs = *req.RetryDelayMs
	}
	if req.FocusRestoreDelayMs != nil {
		cfg.Injection.FocusRestoreDelayMs = *req.FocusRestoreDelayMs
	}
	if req.WebEnabled != nil {
		cfg.Web.Enabled = *req.WebEnabled
	}
	if req.WebPort != nil {
		cfg.Web.Port = *req.WebPort
	}
	if req.SnippetsEnabled != nil {
		cfg.Snippets.Enabled = *req.SnippetsEnabled
	}
	if req.SnippetsPath != nil {
		cfg.Snippets.Path = *req.SnippetsPath
	}

	if _, err := cfg.Binding(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Save to file
	if err := cfg.Save(); err != nil {
		slog.Error("Failed to save config", "error", err)
		http.Error(w, "Failed to save configuration", http.StatusInternalServerError)
		return
	}

	// Update in-memory config and hand it to the running agent
	s.UpdateConfig(&cfg)
	if s.onApply != nil {
		if err := s.onApply(&cfg); err != nil {
			slog.Error("Failed to apply config", "error", err)
			http.Error(w, "Saved but could not apply configuration", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

// handleStats returns statistics for the specified time range
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.db == nil {
		http.Error(w, "History is unavailable", http.StatusServiceUnavailable)
		return
	}

	daysStr := r.URL.Query().Get("days")
	days := 7 // default to 7 days
	if daysStr != "" {
		if d, err := strconv.Atoi(daysStr); err == nil && d > 0 {
			days = d
		}
	}

	overall, err := s.db.GetOverallStats(days)
	if err != nil {
		slog.Error("Failed to get overall stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	daily, err := s.db.GetDailyStats(days)
	if err != nil {
		slog.Error("Failed to get daily stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"overall": overall,
		"daily":   daily,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleHistory handles GET and DELETE requests for injection history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.Error(w, "History is unavailable", http.StatusServiceUnavailable)
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.handleGetHistory(w, r)
	case http.MethodDelete:
		s.handleDeleteHistory(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetHistory returns paginated injection history
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	limit := 50 // default
	offset := 0

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	if offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	injections, err := s.db.GetInjections(limit, offset)
	if err != nil {
		slog.Error("Failed to get injections", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	total, err := s.db.GetInjectionCount()
	if err != nil {
		slog.Error("Failed to get injection count", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"injections": injections,
		"total":      total,
		"limit":      limit,
		"offset":     offset,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleDeleteHistory deletes an injection record by ID
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	// Extract ID from path (e.g., /api/history/123)
	path := r.URL.Path
	parts := strings.Split(path, "/")
	if len(parts) < 4 {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	idStr := parts[len(parts)-1]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := s.db.DeleteInjection(id); err != nil {
		slog.Error("Failed to delete injection", "error", err, "id", id)
		http.Error(w, "Failed to delete injection", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

// handleStatus returns the current agent status; PUT pauses or resumes
// hotkey capture.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req struct {
			Enabled *bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		s.agent.SetEnabled(*req.Enabled)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := struct {
		Status  string `json:"status"`
		Enabled bool   `json:"enabled"`
		Hotkey  string `json:"hotkey"`
	}{
		Status:  s.agent.Phase(),
		Enabled: s.agent.Enabled(),
		Hotkey:  s.agent.Hotkey(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
