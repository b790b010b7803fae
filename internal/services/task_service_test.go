package services

import (
	"fmt"
	"testing"

	"ie-tracker-report/internal/models"
)

func TestTaskLifecycle(t *testing.T) {
	s := NewTaskService()

	task, err := s.CreateTask("session-1")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.ID == "" || task.SessionID != "session-1" {
		t.Errorf("Created task = %+v", task)
	}
	if task.Status != models.TaskStatusPending {
		t.Errorf("New task status = %q", task.Status)
	}

	if err := s.UpdateTaskStatus(task.ID, models.TaskStatusProcessing); err != nil {
		t.Fatalf("UpdateTaskStatus failed: %v", err)
	}

	workbooks := []models.WorkbookInfo{{
		MonthName:  "July 2025",
		Filename:   "Image_Enhancement_Report_2025_07_July.xlsx",
		WeekSheets: 4,
	}}
	if err := s.SetTaskWorkbooks(task.ID, workbooks); err != nil {
		t.Fatalf("SetTaskWorkbooks failed: %v", err)
	}

	got, err := s.GetTask(task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Status != models.TaskStatusCompleted || len(got.Workbooks) != 1 {
		t.Errorf("Completed task = %+v", got)
	}

	s.DeleteTask(task.ID)
	if _, err := s.GetTask(task.ID); err == nil {
		t.Error("Expected error after delete")
	}
}

func TestSetTaskError(t *testing.T) {
	s := NewTaskService()

	task, _ := s.CreateTask("session-1")
	if err := s.SetTaskError(task.ID, fmt.Errorf("no valid dates in the dataset")); err != nil {
		t.Fatalf("SetTaskError failed: %v", err)
	}

	got, _ := s.GetTask(task.ID)
	if got.Status != models.TaskStatusFailed || got.Error == "" {
		t.Errorf("Failed task = %+v", got)
	}
}

func TestGetTaskUnknown(t *testing.T) {
	s := NewTaskService()
	if _, err := s.GetTask("missing"); err == nil {
		t.Error("Expected error for unknown task")
	}
}
