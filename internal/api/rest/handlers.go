package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/veles/schedulebot/internal/browser"
	"github.com/veles/schedulebot/internal/portal"
	"github.com/veles/schedulebot/internal/service"
	"github.com/veles/schedulebot/internal/session"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new handler
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "schedulebot",
	})
}

// GetSchedule returns a student's week as rendered text blocks.
// ?week=next requests the following week instead of the current one.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	student := vars["student"]

	if err := session.ValidateFullName(student); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid student name (expected three-part full name)", err)
		return
	}

	weekOffset := 0
	if r.URL.Query().Get("week") == "next" {
		weekOffset = 1
	}

	blocks, err := h.svc.FetchWeekText(r.Context(), student, weekOffset)
	if err != nil {
		status, message := classify(err)
		respondError(w, status, message, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"student":     student,
		"week_offset": weekOffset,
		"blocks":      blocks,
	})
}

// classify maps the failure taxonomy to HTTP statuses.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, portal.ErrStudentNotFound):
		return http.StatusNotFound, "Student not found on the portal"
	case errors.Is(err, portal.ErrAuthTimeout),
		errors.Is(err, portal.ErrRenderTimeout),
		errors.Is(err, portal.ErrNavigationTimeout):
		return http.StatusGatewayTimeout, "Portal did not respond in time"
	case errors.Is(err, browser.ErrSessionCreation):
		return http.StatusBadGateway, "Could not start a browser session"
	default:
		return http.StatusInternalServerError, "Failed to fetch schedule"
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
