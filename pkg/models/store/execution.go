package store

import "time"

type ExecutionRecord struct {
	ExecutionID int64
	ReportID    int64
	Status      string
	FileURL     string
	Error       *string
	StartedAt   time.Time
	UpdatedAt   time.Time
}
