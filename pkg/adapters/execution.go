package adapters

import (
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/models/domain"
)

func MapAPIExecutionToDomain(e api.Execution) domain.Execution {
	return domain.Execution{
		ID:           e.ID,
		ReportID:     e.Report,
		Status:       domain.ExecutionStatus(e.Status),
		FilePath:     e.FilePath,
		FileSize:     e.FileSize,
		RowCount:     e.RowCount,
		ErrorMessage: e.ErrorMessage,
		StartedAt:    e.StartedAt,
		CompletedAt:  e.CompletedAt,
	}
}
