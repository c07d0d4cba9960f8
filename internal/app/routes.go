package app

import (
	"github.com/gorilla/mux"
	"github.com/sprintlens/sprintlens/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Report lifecycle
	r.HandleFunc("/api/report", deps.ReportHandler.CreateReport).Methods("POST")
	r.HandleFunc("/api/report", deps.ReportHandler.ListReports).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}", deps.ReportHandler.GetReport).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}", deps.ReportHandler.DeleteReport).Methods("DELETE")

	// Summaries
	r.HandleFunc("/api/report/{reportUid}/summary/users", deps.ReportHandler.UserSummary).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}/summary/epics", deps.ReportHandler.EpicSummary).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}/summary/sprints", deps.ReportHandler.SprintSummary).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}/summary/status", deps.ReportHandler.StatusSummary).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}/summary/efficiency", deps.ReportHandler.EfficiencySummary).Methods("GET")

	// Projections
	r.HandleFunc("/api/report/{reportUid}/workload", deps.ReportHandler.DailyWorkload).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}/overview", deps.ReportHandler.Overview).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}/tasks", deps.ReportHandler.Tasks).Methods("GET")
}
