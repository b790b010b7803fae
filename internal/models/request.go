package models

// GenerateRequest represents the request to generate workbooks for a
// session's uploaded data.
type GenerateRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// AnalyzeRequest represents the request to run an AI analysis over a
// session's uploaded data.
type AnalyzeRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// BuildFromAggregationRequest carries an externally-produced aggregation to
// render into workbooks. The aggregation must already match the schema.
type BuildFromAggregationRequest struct {
	Aggregation AggregationResult `json:"aggregation" binding:"required"`
}

// TaskResponse represents the response when creating a task
type TaskResponse struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"` // "pending", "processing", "completed", "failed"
}

// StatusResponse represents the response when checking task status
type StatusResponse struct {
	TaskID    string         `json:"taskId"`
	Status    string         `json:"status"` // "processing", "completed", "failed"
	Workbooks []WorkbookInfo `json:"workbooks,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// UploadResponse summarizes an accepted upload.
type UploadResponse struct {
	SessionID   string    `json:"sessionId"`
	Rows        int       `json:"rows"`
	DroppedRows int       `json:"droppedRows"`
	Users       int       `json:"users"`
	DateRange   DateRange `json:"dateRange"`
}
