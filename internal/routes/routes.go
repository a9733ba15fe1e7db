package routes

import (
	"net/http"

	"opsdash/internal/handlers"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything RegisterRoutes wires up.
type Handlers struct {
	Health http.HandlerFunc
	Home   http.HandlerFunc

	Dashboard *handlers.DashboardHandler
	Analysis  *handlers.AnalysisHandler
	Events    *handlers.EventHandler
	Planner   *handlers.PlannerHandler

	MetricsGatherer prometheus.Gatherer
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(router *mux.Router, h *Handlers) {
	// Health and home
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/", h.Home).Methods(http.MethodGet)

	if h.MetricsGatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(h.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	// Issue dataset and engine views
	api.HandleFunc("/refresh", h.Dashboard.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/issues", h.Dashboard.Issues).Methods(http.MethodGet)
	api.HandleFunc("/issues/query", h.Dashboard.Query).Methods(http.MethodGet)
	api.HandleFunc("/issues/{id}/keywords", h.Dashboard.DeepKeywords).Methods(http.MethodGet)
	api.HandleFunc("/issues/{id}/assessment", h.Dashboard.Assess).Methods(http.MethodGet)
	api.HandleFunc("/export", h.Dashboard.Export).Methods(http.MethodGet)
	api.HandleFunc("/summary", h.Dashboard.Summary).Methods(http.MethodGet)

	// Analytics
	api.HandleFunc("/triage", h.Analysis.Triage).Methods(http.MethodGet)
	api.HandleFunc("/trends", h.Analysis.Trends).Methods(http.MethodGet)
	api.HandleFunc("/clusters", h.Analysis.Clusters).Methods(http.MethodGet)
	api.HandleFunc("/filters", h.Analysis.GetFilters).Methods(http.MethodGet)
	api.HandleFunc("/filters", h.Analysis.SaveFilters).Methods(http.MethodPut)

	// Calendar
	api.HandleFunc("/events", h.Events.List).Methods(http.MethodGet)
	api.HandleFunc("/events", h.Events.Create).Methods(http.MethodPost)
	api.HandleFunc("/events/collisions", h.Events.Collisions).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}", h.Events.Update).Methods(http.MethodPut)
	api.HandleFunc("/events/{id}", h.Events.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/events/{id}/assignments", h.Events.Assign).Methods(http.MethodPost)
	api.HandleFunc("/assignments", h.Events.Assignments).Methods(http.MethodGet)

	// Planner
	api.HandleFunc("/planner/slots", h.Planner.Slots).Methods(http.MethodPost)
}
