package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"opsdash/internal/models"

	"github.com/gorilla/mux"
)

// HealthCheckHandler godoc
// @Summary Health check
// @Description Reports whether the server is up
// @Tags general
// @Produce json
// @Success 200 {object} models.BasicResponse
// @Router /health [get]
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.BasicResponse{
		Message: "Server is healthy",
		Status:  "success",
	})
}

// HomeHandler godoc
// @Summary Home page
// @Description Returns a welcome message for the API server
// @Tags general
// @Produce text/plain
// @Success 200 {string} string "Welcome to the Ops Dashboard!"
// @Router / [get]
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	fmt.Fprintln(w, "Welcome to the Ops Dashboard!")
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, models.BasicResponse{Message: msg, Status: "error"})
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}
