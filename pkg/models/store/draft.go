package store

import "time"

// Draft is a row of report_drafts. Payload holds the JSON-encoded draft body.
type Draft struct {
	ID        string
	Name      string
	Payload   []byte
	ReportID  *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
