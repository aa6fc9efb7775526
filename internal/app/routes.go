package app

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Timetable feed
	r.HandleFunc("/api/timetable", deps.TimetableHandler.GetTimetable).Methods("GET")

	// Category directory
	r.HandleFunc("/api/category/{kind}/items", deps.CategoryHandler.GetItems).Methods("GET")

	// Healthcheck
	r.HandleFunc("/healthcheck", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")
}
