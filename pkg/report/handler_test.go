package report

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func setupRouter() (*mux.Router, *ServiceImpl) {
	service, _, _ := setupService()
	handler := NewHandler(service, NewCsvRenderer())

	r := mux.NewRouter()
	r.HandleFunc("/api/report", handler.CreateReport).Methods("POST")
	r.HandleFunc("/api/report", handler.ListReports).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}", handler.GetReport).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}", handler.DeleteReport).Methods("DELETE")
	r.HandleFunc("/api/report/{reportUid}/summary/users", handler.UserSummary).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}/summary/epics", handler.EpicSummary).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}/summary/status", handler.StatusSummary).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}/summary/efficiency", handler.EfficiencySummary).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}/workload", handler.DailyWorkload).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}/overview", handler.Overview).Methods("GET")
	r.HandleFunc("/api/report/{reportUid}/tasks", handler.Tasks).Methods("GET")
	return r, service
}

func uploadExport(t *testing.T, router *mux.Router) ReportDTO {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/report?filename=export.csv", strings.NewReader(validExport))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var dto ReportDTO
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	return dto
}

func TestHandler_CreateReport(t *testing.T) {
	// given
	router, _ := setupRouter()

	// when
	dto := uploadExport(t, router)

	// then
	assert.NotEmpty(t, dto.Uid)
	assert.Equal(t, "export.csv", dto.Filename)
	assert.Equal(t, 2, dto.TaskCount)
}

func TestHandler_CreateReport_Multipart(t *testing.T) {
	// given
	router, _ := setupRouter()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "tasks.csv")
	assert.NoError(t, err)
	_, err = part.Write([]byte(validExport))
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/report", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	// when
	router.ServeHTTP(rec, req)

	// then
	assert.Equal(t, http.StatusCreated, rec.Code)
	var dto ReportDTO
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	assert.Equal(t, "tasks.csv", dto.Filename)
}

func TestHandler_CreateReport_MissingColumn(t *testing.T) {
	// given: export without the state column
	router, _ := setupRouter()
	export := "number,assigned_to,u_horas_planejadas,u_horas_reais,story.sprint\nTASK-1,Ana,4,5,Sprint 1\n"
	req := httptest.NewRequest("POST", "/api/report", strings.NewReader(export))
	rec := httptest.NewRecorder()

	// when
	router.ServeHTTP(rec, req)

	// then
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "state")
}

func TestHandler_GetReport_NotFound(t *testing.T) {
	router, _ := setupRouter()
	req := httptest.NewRequest("GET", "/api/report/unknown", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_DeleteReport(t *testing.T) {
	// given
	router, _ := setupRouter()
	dto := uploadExport(t, router)

	// when
	req := httptest.NewRequest("DELETE", "/api/report/"+dto.Uid, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// then
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest("GET", "/api/report/"+dto.Uid, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UserSummary(t *testing.T) {
	// given
	router, _ := setupRouter()
	dto := uploadExport(t, router)

	// when
	req := httptest.NewRequest("GET", "/api/report/"+dto.Uid+"/summary/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	var rows []UserSummaryRowDTO
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	assert.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0].AssignedTo)
	assert.Equal(t, 4.0, rows[0].TotalPlannedHours)
}

func TestHandler_UserSummary_Csv(t *testing.T) {
	// given
	router, _ := setupRouter()
	dto := uploadExport(t, router)

	// when
	req := httptest.NewRequest("GET", "/api/report/"+dto.Uid+"/summary/users", nil)
	req.Header.Set("Accept", "text/csv")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "assigned_to,total_planned_hours"))
}

func TestHandler_EpicSummary(t *testing.T) {
	// given
	router, _ := setupRouter()
	dto := uploadExport(t, router)

	// when
	req := httptest.NewRequest("GET", "/api/report/"+dto.Uid+"/summary/epics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	var rows []GroupSummaryRowDTO
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	assert.Len(t, rows, 2)
}

func TestHandler_DailyWorkload_Unavailable(t *testing.T) {
	// given: the export carries no sprint date columns
	router, _ := setupRouter()
	dto := uploadExport(t, router)

	// when
	req := httptest.NewRequest("GET", "/api/report/"+dto.Uid+"/workload", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	var workload DailyWorkloadDTO
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&workload))
	assert.False(t, workload.Available)
	assert.Empty(t, workload.Days)
}

func TestHandler_Overview(t *testing.T) {
	// given
	router, _ := setupRouter()
	dto := uploadExport(t, router)

	// when
	req := httptest.NewRequest("GET", "/api/report/"+dto.Uid+"/overview", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	var overview OverviewDTO
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&overview))
	assert.Equal(t, 2, overview.TotalTasks)
	assert.Equal(t, 1, overview.CompletedTasks)
	assert.Equal(t, 50.0, overview.PctCompleted)
}

func TestHandler_Tasks_Filtered(t *testing.T) {
	// given
	router, _ := setupRouter()
	dto := uploadExport(t, router)

	// when
	req := httptest.NewRequest("GET", "/api/report/"+dto.Uid+"/tasks?epic=Checkout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	var result ExplorerResultDTO
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Len(t, result.Tasks, 1)
	assert.Equal(t, "TASK-2", result.Tasks[0].Number)
}

func TestHandler_Tasks_InvalidFilter(t *testing.T) {
	router, _ := setupRouter()
	dto := uploadExport(t, router)

	req := httptest.NewRequest("GET", "/api/report/"+dto.Uid+"/tasks?minPlanned=lots", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
