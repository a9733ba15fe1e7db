package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"opsdash/internal/metrics"
	"opsdash/internal/models"
	"opsdash/internal/services"
)

// DashboardHandler serves the issue dataset and the engine's derived
// views.
type DashboardHandler struct {
	service *services.DashboardService
	metrics *metrics.Metrics
	logger  *log.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service *services.DashboardService, m *metrics.Metrics, logger *log.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, metrics: m, logger: logger}
}

// Refresh godoc
// @Summary Re-ingest the tracker feed
// @Description Reloads the CSV feed, recomputes the dataset and persists the raw-row cache. Falls back to the cached snapshot when the feed is unreadable.
// @Tags issues
// @Produce json
// @Success 200 {object} services.RefreshSummary
// @Failure 503 {object} models.BasicResponse
// @Router /api/v1/refresh [post]
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	summary, err := h.service.Refresh(r.Context())
	if err != nil {
		h.logger.Printf("refresh failed with no usable cache: %v", err)
		respondError(w, http.StatusServiceUnavailable, "feed unreadable and no cached snapshot available")
		return
	}

	if h.metrics != nil {
		h.metrics.RefreshTotal.Inc()
		h.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
		kpi := h.service.Summarize()
		h.metrics.IssuesLoaded.Set(float64(kpi.TotalIssues))
		h.metrics.OpenIssues.Set(float64(kpi.OpenIssues))
	}

	h.logger.Printf("refreshed dataset: %d rows, %d issues, %d dropped", summary.RowsRead, summary.Issues, summary.Dropped)
	respondJSON(w, http.StatusOK, summary)
}

// Issues godoc
// @Summary List issues
// @Description Returns the current derived issues, optionally narrowed by the basic dashboard filters
// @Tags issues
// @Produce json
// @Param module query string false "Canonical module name"
// @Param priority query string false "Normalized priority"
// @Param status query string false "Status substring"
// @Param from query string false "Earliest issue date"
// @Param to query string false "Latest issue date"
// @Param search query string false "Free-text search"
// @Success 200 {array} models.Issue
// @Router /api/v1/issues [get]
func (h *DashboardHandler) Issues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.FilterSelection{
		Module:   q.Get("module"),
		Priority: q.Get("priority"),
		Status:   q.Get("status"),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Search:   q.Get("search"),
	}
	issues := h.service.Issues(filter)
	if issues == nil {
		issues = []models.Issue{}
	}
	respondJSON(w, http.StatusOK, issues)
}

// Query godoc
// @Summary Run a filter-language query
// @Description Executes one line of the filter language (module:x status:y risk>=N last:Nd age>Nd sort:risk free text) over the issue set
// @Tags issues
// @Produce json
// @Param q query string true "Query line"
// @Success 200 {array} models.Issue
// @Router /api/v1/issues/query [get]
func (h *DashboardHandler) Query(w http.ResponseWriter, r *http.Request) {
	if h.metrics != nil {
		h.metrics.QueriesTotal.Inc()
	}
	issues := h.service.RunQuery(r.URL.Query().Get("q"))
	if issues == nil {
		issues = []models.Issue{}
	}
	respondJSON(w, http.StatusOK, issues)
}

// Export godoc
// @Summary Export issues as CSV
// @Description Streams the full table, or a query result when q is given, as CSV
// @Tags issues
// @Produce text/csv
// @Param q query string false "Optional query line"
// @Success 200 {string} string "CSV payload"
// @Router /api/v1/export [get]
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	issues := h.service.ExportIssues(r.URL.Query().Get("q"))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="issues.csv"`)
	if err := services.ExportCSV(w, issues); err != nil {
		h.logger.Printf("csv export failed: %v", err)
	}
}

// Summary godoc
// @Summary Dashboard KPIs
// @Description Open/closed counts, risk aggregates over open issues, per-module and per-priority breakdowns, top corpus terms
// @Tags analytics
// @Produce json
// @Success 200 {object} services.Summary
// @Router /api/v1/summary [get]
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Summarize())
}

// DeepKeywords godoc
// @Summary Deep keyword analysis for one issue
// @Description POS-tagged, entity- and domain-boosted keyword extraction for a single issue
// @Tags issues
// @Produce json
// @Param id path string true "Issue id"
// @Param limit query int false "Maximum keywords" default(10)
// @Success 200 {array} services.KeywordResult
// @Failure 404 {object} models.BasicResponse
// @Router /api/v1/issues/{id}/keywords [get]
func (h *DashboardHandler) DeepKeywords(w http.ResponseWriter, r *http.Request) {
	id := pathVar(r, "id")

	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	keywords, found, err := h.service.DeepKeywords(id, limit)
	if !found {
		respondError(w, http.StatusNotFound, "issue not found: "+id)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "keyword extraction failed: "+err.Error())
		return
	}
	if keywords == nil {
		keywords = []services.KeywordResult{}
	}
	respondJSON(w, http.StatusOK, keywords)
}

// Assess godoc
// @Summary Weighted risk assessment for one issue
// @Description Runs the unbounded weighted-dimension strategy and the ranked label scheme for a single issue
// @Tags analytics
// @Produce json
// @Param id path string true "Issue id"
// @Success 200 {object} services.IssueAssessment
// @Failure 404 {object} models.BasicResponse
// @Router /api/v1/issues/{id}/assessment [get]
func (h *DashboardHandler) Assess(w http.ResponseWriter, r *http.Request) {
	id := pathVar(r, "id")
	assessment, found := h.service.Assess(id)
	if !found {
		respondError(w, http.StatusNotFound, "issue not found: "+id)
		return
	}
	respondJSON(w, http.StatusOK, assessment)
}
