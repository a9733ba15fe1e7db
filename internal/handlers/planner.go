package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"opsdash/internal/services"
)

// PlannerHandler serves release slot suggestions.
type PlannerHandler struct {
	service *services.DashboardService
	logger  *log.Logger
}

// NewPlannerHandler creates a new planner handler
func NewPlannerHandler(service *services.DashboardService, logger *log.Logger) *PlannerHandler {
	return &PlannerHandler{service: service, logger: logger}
}

// Slots godoc
// @Summary Suggest release slots
// @Description Generates candidate slots over the horizon, scores each against open-issue risk and calendar collisions, and returns them safest first
// @Tags planner
// @Accept json
// @Produce json
// @Param context body services.PlanContext true "Planning context"
// @Success 200 {array} services.Slot
// @Failure 400 {object} models.BasicResponse
// @Router /api/v1/planner/slots [post]
func (h *PlannerHandler) Slots(w http.ResponseWriter, r *http.Request) {
	var planCtx services.PlanContext
	if err := json.NewDecoder(r.Body).Decode(&planCtx); err != nil {
		respondError(w, http.StatusBadRequest, "invalid planning context")
		return
	}

	slots, err := h.service.PlanSlots(r.Context(), planCtx)
	if err != nil {
		h.logger.Printf("slot planning failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to plan slots")
		return
	}
	if slots == nil {
		slots = []services.Slot{}
	}
	respondJSON(w, http.StatusOK, slots)
}
