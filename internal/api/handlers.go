package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"ie-tracker-report/internal/database"
	"ie-tracker-report/internal/models"
	"ie-tracker-report/internal/services"
	"ie-tracker-report/internal/utils"
	"ie-tracker-report/internal/validation"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	reportService *services.ReportService
	taskService   *services.TaskService
	store         database.SessionStore
	outputDir     string
	schemaPath    string
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	reportService *services.ReportService,
	taskService *services.TaskService,
	store database.SessionStore,
	outputDir string,
	schemaPath string,
) *Handlers {
	return &Handlers{
		reportService: reportService,
		taskService:   taskService,
		store:         store,
		outputDir:     outputDir,
		schemaPath:    schemaPath,
	}
}

// UploadHandler handles POST /api/data/upload. Accepts a CSV or XLSX file as
// multipart form data; a new session is created unless sessionId is provided.
func (h *Handlers) UploadHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	sessionID := c.PostForm("sessionId")
	if sessionID == "" {
		sessionID = utils.GenerateUUID()
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	result, err := h.reportService.Ingest(c.Request.Context(), sessionID, fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		SessionID:   sessionID,
		Rows:        result.Rows,
		DroppedRows: result.DroppedRows,
		Users:       result.Users,
		DateRange:   result.DateRange,
	})
}

// GenerateReportHandler handles POST /api/reports/generate. Starts an async
// task that writes one workbook per month of the session's data.
func (h *Handlers) GenerateReportHandler(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.CreateTask(req.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	go func() {
		_ = h.taskService.UpdateTaskStatus(task.ID, models.TaskStatusProcessing)

		infos, err := h.generateForSession(req.SessionID)
		if err != nil {
			_ = h.taskService.SetTaskError(task.ID, err)
			return
		}
		_ = h.taskService.SetTaskWorkbooks(task.ID, infos)
	}()

	c.JSON(http.StatusAccepted, models.TaskResponse{
		TaskID: task.ID,
		Status: string(task.Status),
	})
}

// GenerateReportSyncHandler handles POST /api/reports/generate-sync.
// Generates workbooks and waits for completion.
func (h *Handlers) GenerateReportSyncHandler(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	infos, err := h.generateForSession(req.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"workbooks": infos})
}

// generateForSession runs the full pipeline for a session's cached data and
// writes the workbooks into the output directory. The detached task goroutine
// uses a background context so generation survives the originating request.
func (h *Handlers) generateForSession(sessionID string) ([]models.WorkbookInfo, error) {
	records, err := h.reportService.SessionRecords(context.Background(), sessionID)
	if err != nil {
		return nil, err
	}

	workbooks, err := h.reportService.GenerateWorkbooks(records)
	if err != nil {
		return nil, err
	}

	if _, err := h.reportService.SaveWorkbooks(workbooks, h.outputDir); err != nil {
		return nil, err
	}

	return workbookInfos(workbooks), nil
}

// GetTaskStatusHandler handles GET /api/reports/status/:taskId
func (h *Handlers) GetTaskStatusHandler(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId is required"})
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	response := models.StatusResponse{
		TaskID: task.ID,
		Status: string(task.Status),
	}

	if task.Status == models.TaskStatusCompleted {
		response.Workbooks = task.Workbooks
	} else if task.Status == models.TaskStatusFailed {
		response.Error = task.Error
	}

	c.JSON(http.StatusOK, response)
}

// GetAggregationHandler handles GET /api/reports/aggregation/:sessionId.
// Returns the internally-computed aggregation for the session's data.
func (h *Handlers) GetAggregationHandler(c *gin.Context) {
	sessionID := c.Param("sessionId")

	agg, err := h.reportService.Aggregate(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, agg)
}

// AnalyzeHandler handles POST /api/reports/analyze. Sends the session's data
// to the AI provider and returns the validated aggregation.
func (h *Handlers) AnalyzeHandler(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.reportService.AnalyzeWithAI(c.Request.Context(), req.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if !result.Report.IsValid {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

// BuildFromAggregationHandler handles POST /api/reports/from-aggregation.
// Accepts an externally-produced aggregation, validates and coerces it
// against the template, gates the corrected document through the JSON
// schema, and renders workbooks from it.
func (h *Handlers) BuildFromAggregationHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body is not a JSON object"})
		return
	}

	// Template validation runs first: it coerces numeric strings and
	// fractional values in place, so the schema's integer checks see the
	// corrected document rather than rejecting a fixable one.
	report := validation.Validate(raw, nil)
	if !report.IsValid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "aggregation failed validation", "validation": report})
		return
	}

	corrected, err := json.Marshal(raw)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode corrected aggregation"})
		return
	}

	agg, err := validation.ValidateAndParseAggregation(string(corrected), h.schemaPath)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "validation": report})
		return
	}

	workbooks, err := h.reportService.BuildFromAggregation(agg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.reportService.SaveWorkbooks(workbooks, h.outputDir); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"workbooks": workbookInfos(workbooks), "validation": report})
}

// DownloadHandler handles GET /api/reports/download/:filename
func (h *Handlers) DownloadHandler(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	if filename == "." || filename == "/" || !strings.HasSuffix(filename, ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filename"})
		return
	}

	path := filepath.Join(h.outputDir, filename)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(path)
}

// CacheInfoHandler handles GET /api/cache/info/:sessionId
func (h *Handlers) CacheInfoHandler(c *gin.Context) {
	info, err := h.store.GetCacheInfo(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

// HistoryHandler handles GET /api/cache/history/:sessionId
func (h *Handlers) HistoryHandler(c *gin.Context) {
	history, err := h.store.GetHistory(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// ClearCacheHandler handles DELETE /api/cache/:sessionId
func (h *Handlers) ClearCacheHandler(c *gin.Context) {
	if err := h.store.ClearSession(c.Request.Context(), c.Param("sessionId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// ClearAnalysisHandler handles DELETE /api/cache/:sessionId/analysis
func (h *Handlers) ClearAnalysisHandler(c *gin.Context) {
	if err := h.store.ClearProcessedData(c.Request.Context(), c.Param("sessionId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func workbookInfos(workbooks []services.MonthWorkbook) []models.WorkbookInfo {
	infos := make([]models.WorkbookInfo, len(workbooks))
	for i, wb := range workbooks {
		infos[i] = models.WorkbookInfo{
			MonthName:  wb.MonthName,
			Filename:   wb.Filename,
			WeekSheets: wb.WeekSheets,
		}
	}
	return infos
}
