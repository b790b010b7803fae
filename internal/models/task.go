package models

import "time"

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// WorkbookInfo describes one generated workbook without carrying its bytes.
type WorkbookInfo struct {
	MonthName  string `json:"monthName"` // e.g. "July 2025"
	Filename   string `json:"filename"`
	WeekSheets int    `json:"weekSheets"`
}

// Task represents an async workbook generation task for one session's data.
type Task struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId"`
	Status    TaskStatus     `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Error     string         `json:"error,omitempty"`
	Workbooks []WorkbookInfo `json:"workbooks,omitempty"`
}
