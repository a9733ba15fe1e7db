package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"opsdash/internal/models"
	"opsdash/internal/services"
)

// EventHandler serves the operational calendar: event CRUD, collision
// reports and release assignments.
type EventHandler struct {
	service *services.DashboardService
	logger  *log.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(service *services.DashboardService, logger *log.Logger) *EventHandler {
	return &EventHandler{service: service, logger: logger}
}

// List godoc
// @Summary List calendar events
// @Description Returns all events, risk-scored against the current open issues, soonest first
// @Tags events
// @Produce json
// @Success 200 {array} models.Event
// @Router /api/v1/events [get]
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		h.logger.Printf("listing events failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// Create godoc
// @Summary Create a calendar event
// @Description Validates and persists a new event; title and start are required
// @Tags events
// @Accept json
// @Produce json
// @Param event body models.Event true "Event"
// @Success 201 {object} models.Event
// @Failure 400 {object} models.BasicResponse
// @Router /api/v1/events [post]
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	created, err := h.service.CreateEvent(r.Context(), event)
	if err != nil {
		h.respondEventError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Update godoc
// @Summary Update a calendar event
// @Description Replaces an existing event in the persisted snapshot
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event id"
// @Param event body models.Event true "Event"
// @Success 200 {object} models.Event
// @Failure 400 {object} models.BasicResponse
// @Failure 404 {object} models.BasicResponse
// @Router /api/v1/events/{id} [put]
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid event payload")
		return
	}
	event.ID = pathVar(r, "id")

	updated, found, err := h.service.UpdateEvent(r.Context(), event)
	if err != nil {
		h.respondEventError(w, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "event not found: "+event.ID)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete a calendar event
// @Tags events
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} models.BasicResponse
// @Failure 404 {object} models.BasicResponse
// @Router /api/v1/events/{id} [delete]
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathVar(r, "id")
	found, err := h.service.DeleteEvent(r.Context(), id)
	if err != nil {
		h.logger.Printf("deleting event %s failed: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "event not found: "+id)
		return
	}
	respondJSON(w, http.StatusOK, models.BasicResponse{Message: "event deleted", Status: "success"})
}

// Collisions godoc
// @Summary Event collision report
// @Description Every pair of same-environment events with inclusively overlapping intervals
// @Tags events
// @Produce json
// @Success 200 {array} services.Collision
// @Router /api/v1/events/collisions [get]
func (h *EventHandler) Collisions(w http.ResponseWriter, r *http.Request) {
	collisions, err := h.service.Collisions(r.Context())
	if err != nil {
		h.logger.Printf("collision check failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to check collisions")
		return
	}
	if collisions == nil {
		collisions = []services.Collision{}
	}
	respondJSON(w, http.StatusOK, collisions)
}

// AssignRequest carries the issue ids to merge into a release.
type AssignRequest struct {
	IssueIDs []string `json:"issue_ids"`
}

// Assign godoc
// @Summary Assign issues to a release
// @Description Unions the given issue ids into the release's assignment set (append-only)
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Release event id"
// @Param request body AssignRequest true "Issue ids"
// @Success 200 {object} models.BasicResponse
// @Failure 400 {object} models.BasicResponse
// @Router /api/v1/events/{id}/assignments [post]
func (h *EventHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid assignment payload")
		return
	}

	id := pathVar(r, "id")
	if err := h.service.AssignRelease(r.Context(), id, req.IssueIDs); err != nil {
		h.logger.Printf("assigning issues to %s failed: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to save assignments")
		return
	}
	respondJSON(w, http.StatusOK, models.BasicResponse{Message: "assignments merged", Status: "success"})
}

// Assignments godoc
// @Summary Release assignment map
// @Tags events
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/assignments [get]
func (h *EventHandler) Assignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.service.Assignments(r.Context())
	if err != nil {
		h.logger.Printf("loading assignments failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load assignments")
		return
	}
	respondJSON(w, http.StatusOK, assignments)
}

// respondEventError maps validation failures to 400 and everything
// else to 500; a bad form must surface as a message, not a crash.
func (h *EventHandler) respondEventError(w http.ResponseWriter, err error) {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		respondError(w, http.StatusBadRequest, vErr.Error())
		return
	}
	h.logger.Printf("event mutation failed: %v", err)
	respondError(w, http.StatusInternalServerError, "failed to save event")
}
