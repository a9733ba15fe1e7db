package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"opsdash/internal/models"
	"opsdash/internal/services"
)

// AnalysisHandler serves the derived analytics views: triage queue,
// trends, clusters and saved filters.
type AnalysisHandler struct {
	service *services.DashboardService
	logger  *log.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *services.DashboardService, logger *log.Logger) *AnalysisHandler {
	return &AnalysisHandler{service: service, logger: logger}
}

// Triage godoc
// @Summary Triage queue
// @Description Ranked open issues whose metadata looks inconsistent with their computed risk, capped to the top 15
// @Tags analytics
// @Produce json
// @Success 200 {array} services.TriageItem
// @Router /api/v1/triage [get]
func (h *AnalysisHandler) Triage(w http.ResponseWriter, r *http.Request) {
	queue := h.service.Triage()
	if queue == nil {
		queue = []services.TriageItem{}
	}
	respondJSON(w, http.StatusOK, queue)
}

// Trends godoc
// @Summary Emerging and stable themes
// @Description Keyword document frequency compared between the older and newer halves of the dated issues
// @Tags analytics
// @Produce json
// @Success 200 {object} services.TrendReport
// @Router /api/v1/trends [get]
func (h *AnalysisHandler) Trends(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Trends())
}

// Clusters godoc
// @Summary Thematic issue buckets and label tallies
// @Description Fixed dashboard buckets with up to seven representative issues each (empty buckets omitted), plus aggregated ranked labels
// @Tags analytics
// @Produce json
// @Success 200 {object} services.ClusterView
// @Router /api/v1/clusters [get]
func (h *AnalysisHandler) Clusters(w http.ResponseWriter, r *http.Request) {
	view := h.service.Clusters()
	if view.Buckets == nil {
		view.Buckets = []services.Bucket{}
	}
	if view.Labels == nil {
		view.Labels = []services.LabelScore{}
	}
	respondJSON(w, http.StatusOK, view)
}

// GetFilters godoc
// @Summary Saved dashboard filters
// @Description Returns the persisted basic filter selections
// @Tags filters
// @Produce json
// @Success 200 {object} models.FilterSelection
// @Router /api/v1/filters [get]
func (h *AnalysisHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.service.Filters(r.Context())
	if err != nil {
		h.logger.Printf("loading filters failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load filters")
		return
	}
	respondJSON(w, http.StatusOK, filters)
}

// SaveFilters godoc
// @Summary Save dashboard filters
// @Description Persists the basic filter selections
// @Tags filters
// @Accept json
// @Produce json
// @Param filters body models.FilterSelection true "Filter selections"
// @Success 200 {object} models.BasicResponse
// @Failure 400 {object} models.BasicResponse
// @Router /api/v1/filters [put]
func (h *AnalysisHandler) SaveFilters(w http.ResponseWriter, r *http.Request) {
	var filters models.FilterSelection
	if err := json.NewDecoder(r.Body).Decode(&filters); err != nil {
		respondError(w, http.StatusBadRequest, "invalid filter payload")
		return
	}
	if err := h.service.SaveFilters(r.Context(), filters); err != nil {
		h.logger.Printf("saving filters failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to save filters")
		return
	}
	respondJSON(w, http.StatusOK, models.BasicResponse{Message: "filters saved", Status: "success"})
}
