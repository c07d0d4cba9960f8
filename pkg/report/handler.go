package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/sprintlens/sprintlens/internal/rest"
	"github.com/sprintlens/sprintlens/pkg/task"
)

type ReportDTO struct {
	Uid        string    `json:"uid"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploadedAt"`
	TaskCount  int       `json:"taskCount"`
}

type UserSummaryRowDTO struct {
	AssignedTo         string  `json:"assignedTo"`
	TotalPlannedHours  float64 `json:"totalPlannedHours"`
	TotalRealHours     float64 `json:"totalRealHours"`
	Difference         float64 `json:"difference"`
	EstimationAccuracy float64 `json:"estimationAccuracy"`
}

type GroupSummaryRowDTO struct {
	Key               string  `json:"key"`
	NumTasks          int     `json:"numTasks"`
	TotalPlannedHours float64 `json:"totalPlannedHours"`
	TotalRealHours    float64 `json:"totalRealHours"`
	Difference        float64 `json:"difference"`
	PctCompleted      float64 `json:"pctCompleted"`
}

type StatusCountDTO struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

type EfficiencyBucketDTO struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type DailyLoadPointDTO struct {
	Date         string  `json:"date"`
	PlannedHours float64 `json:"plannedHours"`
	RealHours    float64 `json:"realHours"`
}

type DailyWorkloadDTO struct {
	Available bool                `json:"available"`
	Days      []DailyLoadPointDTO `json:"days"`
}

type OverviewDTO struct {
	AvgEstimationAccuracy float64             `json:"avgEstimationAccuracy"`
	CompletedTasks        int                 `json:"completedTasks"`
	TotalTasks            int                 `json:"totalTasks"`
	PctCompleted          float64             `json:"pctCompleted"`
	TotalPlannedHours     float64             `json:"totalPlannedHours"`
	TotalRealHours        float64             `json:"totalRealHours"`
	TotalDifference       float64             `json:"totalDifference"`
	TopContributors       []UserSummaryRowDTO `json:"topContributors"`
}

type TaskViewDTO struct {
	Number             string  `json:"number"`
	ShortDescription   string  `json:"shortDescription"`
	AssignedTo         string  `json:"assignedTo"`
	State              string  `json:"state"`
	Epic               string  `json:"epic"`
	Sprint             string  `json:"sprint"`
	PlannedHours       float64 `json:"plannedHours"`
	RealHours          float64 `json:"realHours"`
	Difference         float64 `json:"difference"`
	Efficiency         float64 `json:"efficiency"`
	HasEstimate        bool    `json:"hasEstimate"`
	SprintDurationDays *int    `json:"sprintDurationDays"`
}

type ExplorerMetricsDTO struct {
	TaskCount        int     `json:"taskCount"`
	CompletedTasks   int     `json:"completedTasks"`
	CompletionRate   float64 `json:"completionRate"`
	MissingEstimates int     `json:"missingEstimates"`
	MissingRate      float64 `json:"missingRate"`
}

type ExplorerResultDTO struct {
	Tasks   []TaskViewDTO      `json:"tasks"`
	Metrics ExplorerMetricsDTO `json:"metrics"`
}

type Handler struct {
	service  Service
	renderer *CsvRenderer
}

func NewHandler(service Service, renderer *CsvRenderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// CreateReport godoc
// @Summary Upload a task export
// @Description Ingest a CSV task export (multipart "file" field or raw body) and create a report
// @Tags Report
// @Accept text/csv
// @Produce json
// @Success 201 {object} ReportDTO
// @Failure 400 {object} rest.ErrorResponse "Structurally invalid export"
// @Router /api/report [post]
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Creating report from uploaded export")

	export, filename, err := exportFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload", err.Error())
		return
	}
	defer export.Close()

	report, err := h.service.CreateReport(r.Context(), filename, export)
	if err != nil {
		var missing *task.MissingColumnError
		if errors.As(err, &missing) {
			writeError(w, http.StatusBadRequest, "Invalid export file", missing.Error())
			return
		}
		if strings.Contains(err.Error(), "could not ingest export") {
			writeError(w, http.StatusBadRequest, "Invalid export file", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(reportToDTO(report)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ListReports godoc
// @Summary List reports
// @Tags Report
// @Produce json
// @Success 200 {array} ReportDTO
// @Router /api/report [get]
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListReports(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]ReportDTO, 0, len(reports))
	for _, report := range reports {
		dtos = append(dtos, reportToDTO(report))
	}
	writeJson(w, dtos)
}

// GetReport godoc
// @Summary Get report metadata
// @Tags Report
// @Produce json
// @Success 200 {object} ReportDTO
// @Failure 404 {object} rest.ErrorResponse "Unknown report"
// @Router /api/report/{reportUid} [get]
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["reportUid"]
	report, err := h.service.GetReport(r.Context(), uid)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJson(w, reportToDTO(report))
}

// DeleteReport godoc
// @Summary Delete a report and its task records
// @Tags Report
// @Success 204
// @Failure 404 {object} rest.ErrorResponse "Unknown report"
// @Router /api/report/{reportUid} [delete]
func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["reportUid"]
	if err := h.service.DeleteReport(r.Context(), uid); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UserSummary godoc
// @Summary Hours per user over completed tasks
// @Tags Summary
// @Produce json
// @Produce text/csv
// @Success 200 {array} UserSummaryRowDTO
// @Failure 404 {object} rest.ErrorResponse "Unknown report"
// @Router /api/report/{reportUid}/summary/users [get]
func (h *Handler) UserSummary(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["reportUid"]
	rows, err := h.service.UserSummary(r.Context(), uid)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if wantsCsv(r) {
		csv, err := h.renderer.RenderUserSummary(rows)
		h.writeCsv(w, csv, err)
		return
	}

	dtos := make([]UserSummaryRowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, UserSummaryRowDTO(row))
	}
	writeJson(w, dtos)
}

// EpicSummary godoc
// @Summary Hours and completion per epic
// @Tags Summary
// @Produce json
// @Produce text/csv
// @Success 200 {array} GroupSummaryRowDTO
// @Failure 404 {object} rest.ErrorResponse "Unknown report"
// @Router /api/report/{reportUid}/summary/epics [get]
func (h *Handler) EpicSummary(w http.ResponseWriter, r *http.Request) {
	h.groupSummary(w, r, "epic", h.service.EpicSummary)
}

// SprintSummary godoc
// @Summary Hours and completion per sprint
// @Tags Summary
// @Produce json
// @Produce text/csv
// @Success 200 {array} GroupSummaryRowDTO
// @Failure 404 {object} rest.ErrorResponse "Unknown report"
// @Router /api/report/{reportUid}/summary/sprints [get]
func (h *Handler) SprintSummary(w http.ResponseWriter, r *http.Request) {
	h.groupSummary(w, r, "sprint", h.service.SprintSummary)
}

func (h *Handler) groupSummary(
	w http.ResponseWriter,
	r *http.Request,
	keyHeader string,
	load func(ctx context.Context, uid string) ([]GroupSummaryRow, error),
) {
	uid := mux.Vars(r)["reportUid"]
	rows, err := load(r.Context(), uid)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if wantsCsv(r) {
		csv, err := h.renderer.RenderGroupSummary(keyHeader, rows)
		h.writeCsv(w, csv, err)
		return
	}

	dtos := make([]GroupSummaryRowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, GroupSummaryRowDTO(row))
	}
	writeJson(w, dtos)
}

// StatusSummary godoc
// @Summary Task count per status
// @Tags Summary
// @Produce json
// @Produce text/csv
// @Success 200 {array} StatusCountDTO
// @Failure 404 {object} rest.ErrorResponse "Unknown report"
// @Router /api/report/{reportUid}/summary/status [get]
func (h *Handler) StatusSummary(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["reportUid"]
	rows, err := h.service.StatusSummary(r.Context(), uid)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if wantsCsv(r) {
		csv, err := h.renderer.RenderStatusSummary(rows)
		h.writeCsv(w, csv, err)
		return
	}

	dtos := make([]StatusCountDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, StatusCountDTO(row))
	}
	writeJson(w, dtos)
}

// EfficiencySummary godoc
// @Summary Estimation efficiency distribution over completed tasks
// @Tags Summary
// @Produce json
// @Produce text/csv
// @Success 200 {array} EfficiencyBucketDTO
// @Failure 404 {object} rest.ErrorResponse "Unknown report"
// @Router /api/report/{reportUid}/summary/efficiency [get]
func (h *Handler) EfficiencySummary(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["reportUid"]
	buckets, err := h.service.EfficiencySummary(r.Context(), uid)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if wantsCsv(r) {
		csv, err := h.renderer.RenderEfficiencySummary(buckets)
		h.writeCsv(w, csv, err)
		return
	}

	dtos := make([]EfficiencyBucketDTO, 0, len(buckets))
	for _, bucket := range buckets {
		dtos = append(dtos, EfficiencyBucketDTO(bucket))
	}
	writeJson(w, dtos)
}

// DailyWorkload godoc
// @Summary Day-by-day workload projection across sprint date ranges
// @Description Unavailable (available=false) when no task carries parseable sprint dates
// @Tags Summary
// @Produce json
// @Produce text/csv
// @Success 200 {object} DailyWorkloadDTO
// @Failure 404 {object} rest.ErrorResponse "Unknown report"
// @Router /api/report/{reportUid}/workload [get]
func (h *Handler) DailyWorkload(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["reportUid"]
	points, available, err := h.service.DailyWorkload(r.Context(), uid)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if wantsCsv(r) {
		csv, err := h.renderer.RenderDailyWorkload(points)
		h.writeCsv(w, csv, err)
		return
	}

	dto := DailyWorkloadDTO{Available: available, Days: make([]DailyLoadPointDTO, 0, len(points))}
	for _, point := range points {
		dto.Days = append(dto.Days, DailyLoadPointDTO{
			Date:         point.Date.Format("2006-01-02"),
			PlannedHours: point.PlannedHours,
			RealHours:    point.RealHours,
		})
	}
	writeJson(w, dto)
}

// Overview godoc
// @Summary Headline metrics of a report
// @Tags Summary
// @Produce json
// @Success 200 {object} OverviewDTO
// @Failure 404 {object} rest.ErrorResponse "Unknown report"
// @Router /api/report/{reportUid}/overview [get]
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["reportUid"]
	metrics, err := h.service.Overview(r.Context(), uid)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	dto := OverviewDTO{
		AvgEstimationAccuracy: metrics.AvgEstimationAccuracy,
		CompletedTasks:        metrics.CompletedTasks,
		TotalTasks:            metrics.TotalTasks,
		PctCompleted:          metrics.PctCompleted,
		TotalPlannedHours:     metrics.TotalPlannedHours,
		TotalRealHours:        metrics.TotalRealHours,
		TotalDifference:       metrics.TotalDifference,
		TopContributors:       make([]UserSummaryRowDTO, 0, len(metrics.TopContributors)),
	}
	for _, row := range metrics.TopContributors {
		dto.TopContributors = append(dto.TopContributors, UserSummaryRowDTO(row))
	}
	writeJson(w, dto)
}

// Tasks godoc
// @Summary Explore task records with filters
// @Tags Report
// @Produce json
// @Produce text/csv
// @Param state query string false "Exact state"
// @Param epic query string false "Exact epic"
// @Param assignedTo query string false "Exact assignee"
// @Param sprint query string false "Exact sprint"
// @Param minPlanned query number false "Lower planned-hours bound"
// @Param maxPlanned query number false "Upper planned-hours bound"
// @Success 200 {object} ExplorerResultDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid filter"
// @Failure 404 {object} rest.ErrorResponse "Unknown report"
// @Router /api/report/{reportUid}/tasks [get]
func (h *Handler) Tasks(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["reportUid"]

	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}

	result, err := h.service.Tasks(r.Context(), uid, filter)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if wantsCsv(r) {
		csv, err := h.renderer.RenderTasks(result.Tasks)
		h.writeCsv(w, csv, err)
		return
	}

	dto := ExplorerResultDTO{
		Tasks:   make([]TaskViewDTO, 0, len(result.Tasks)),
		Metrics: ExplorerMetricsDTO(result.Metrics),
	}
	for _, view := range result.Tasks {
		dto.Tasks = append(dto.Tasks, TaskViewDTO{
			Number:             view.Number,
			ShortDescription:   view.ShortDescription,
			AssignedTo:         view.AssignedTo,
			State:              view.State,
			Epic:               view.Epic,
			Sprint:             view.Sprint,
			PlannedHours:       view.PlannedHours,
			RealHours:          view.RealHours,
			Difference:         view.Difference,
			Efficiency:         view.Efficiency,
			HasEstimate:        view.HasEstimate,
			SprintDurationDays: view.SprintDurationDays,
		})
	}
	writeJson(w, dto)
}

func filterFromQuery(r *http.Request) (TaskFilter, error) {
	query := r.URL.Query()
	filter := TaskFilter{
		State:      query.Get("state"),
		Epic:       query.Get("epic"),
		AssignedTo: query.Get("assignedTo"),
		Sprint:     query.Get("sprint"),
	}
	if raw := query.Get("minPlanned"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return TaskFilter{}, errors.New("minPlanned must be a number")
		}
		filter.MinPlanned = &value
	}
	if raw := query.Get("maxPlanned"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return TaskFilter{}, errors.New("maxPlanned must be a number")
		}
		filter.MaxPlanned = &value
	}
	return filter, nil
}

// exportFromRequest accepts either a multipart form with a "file" field or a
// raw CSV request body.
func exportFromRequest(r *http.Request) (io.ReadCloser, string, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", errors.New("multipart upload must carry a \"file\" field")
		}
		return file, header.Filename, nil
	}
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = "export.csv"
	}
	return r.Body, filename, nil
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrReportNotFound) {
		writeError(w, http.StatusNotFound, "Report not found", "")
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeCsv(w http.ResponseWriter, csv string, err error) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if _, err := w.Write([]byte(csv)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJson(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message, Details: details}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func reportToDTO(report Report) ReportDTO {
	return ReportDTO(report)
}

func wantsCsv(r *http.Request) bool {
	return r.Header.Get("Accept") == "text/csv"
}
