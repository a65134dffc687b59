package domain

import "time"

type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusCancelled ExecutionStatus = "cancelled"
)

// Execution is a single asynchronous run of report generation.
type Execution struct {
	ID           int64
	ReportID     int64
	Status       ExecutionStatus
	FilePath     string
	FileSize     *int64
	RowCount     *int64
	ErrorMessage string
	StartedAt    time.Time
	CompletedAt  *time.Time
}

type ExecutionResult struct {
	ExecutionID int64
	Status      ExecutionStatus
	FileURL     string
	GeneratedAt *time.Time
	Attempts    int
}
