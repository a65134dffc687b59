package adapters

import (
	"time"

	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/models/domain"
)

func MapDomainColumnToAPI(c domain.Column) api.Column {
	label := c.Label
	if label == "" {
		label = c.Name
	}
	return api.Column{
		Name:       c.Name,
		Type:       c.Type,
		Label:      label,
		Nullable:   c.Nullable,
		PrimaryKey: c.PrimaryKey,
	}
}

func MapAPIColumnToDomain(c api.Column) domain.Column {
	return domain.Column{
		Name:       c.Name,
		Label:      c.Label,
		Type:       c.Type,
		Nullable:   c.Nullable,
		PrimaryKey: c.PrimaryKey,
	}
}

func MapDomainRelationshipToAPI(r domain.Relationship) api.Relationship {
	return api.Relationship{
		SourceTable:   r.SourceTable,
		TargetTable:   r.TargetTable,
		SourceColumns: nonNil(r.SourceColumns),
		TargetColumns: nonNil(r.TargetColumns),
		JoinType:      r.JoinType,
		Confidence:    string(r.Confidence),
		Reason:        string(r.Reason),
		Description:   r.Description,
	}
}

func MapAPIRelationshipToDomain(r api.Relationship) domain.Relationship {
	return domain.Relationship{
		SourceTable:   r.SourceTable,
		TargetTable:   r.TargetTable,
		SourceColumns: r.SourceColumns,
		TargetColumns: r.TargetColumns,
		JoinType:      r.JoinType,
		Confidence:    domain.Confidence(r.Confidence),
		Reason:        domain.RelationshipReason(r.Reason),
		Description:   r.Description,
	}
}

func MapDomainCalculatedFieldToAPI(f domain.CalculatedField) api.CalculatedField {
	return api.CalculatedField{
		ID:          f.ID,
		Name:        f.Name,
		Label:       f.Label,
		Expression:  f.Expression,
		DataType:    string(f.DataType),
		Description: f.Description,
		IsValid:     f.IsValid,
		GeneratedBy: string(f.Provenance),
	}
}

func MapAPICalculatedFieldToDomain(f api.CalculatedField) domain.CalculatedField {
	provenance := domain.Provenance(f.GeneratedBy)
	if provenance == "" {
		provenance = domain.ProvenanceManual
	}
	return domain.CalculatedField{
		ID:          f.ID,
		Name:        f.Name,
		Label:       f.Label,
		Expression:  f.Expression,
		DataType:    domain.DataType(f.DataType),
		Description: f.Description,
		Provenance:  provenance,
		IsValid:     f.IsValid,
	}
}

func MapDomainTableSelectionToAPI(t domain.TableSelection) api.ReportDataSource {
	return api.ReportDataSource{
		DataSourceID: t.DataSourceID,
		TableName:    t.TableName,
		Columns:      nonNil(mapSlice(t.Columns, MapDomainColumnToAPI)),
		Joins:        nonNil(mapSlice(t.Joins, MapDomainRelationshipToAPI)),
	}
}

func MapAPITableSelectionToDomain(t api.ReportDataSource) domain.TableSelection {
	return domain.TableSelection{
		DataSourceID: t.DataSourceID,
		TableName:    t.TableName,
		Columns:      mapSlice(t.Columns, MapAPIColumnToDomain),
		Joins:        mapSlice(t.Joins, MapAPIRelationshipToDomain),
	}
}

func mapReportField(f domain.ReportField) api.ReportField {
	return api.ReportField{Field: f.Field, Label: f.Label, Aggregation: f.Aggregation, Format: f.Format}
}

func mapAPIReportField(f api.ReportField) domain.ReportField {
	return domain.ReportField{Field: f.Field, Label: f.Label, Aggregation: f.Aggregation, Format: f.Format}
}

func mapFilter(f domain.Filter) api.Filter {
	return api.Filter{Field: f.Field, Operator: f.Operator, Value: f.Value}
}

func mapAPIFilter(f api.Filter) domain.Filter {
	return domain.Filter{Field: f.Field, Operator: f.Operator, Value: f.Value}
}

// MapDraftToReportRequest builds the report-save payload. Absent collections are
// sent as empty arrays and unset settings fall back to their defaults.
func MapDraftToReportRequest(d *domain.ReportDraft) api.ReportRequest {
	settings := d.Settings.WithDefaults()
	return api.ReportRequest{
		Name:               d.Name,
		Description:        d.Description,
		DataSources:        nonNil(mapSlice(d.DataSources, MapDomainTableSelectionToAPI)),
		TableRelationships: nonNil(mapSlice(d.Relationships, MapDomainRelationshipToAPI)),
		Fields:             nonNil(mapSlice(d.Fields, mapReportField)),
		CalculatedFields:   nonNil(mapSlice(d.CalculatedFields, MapDomainCalculatedFieldToAPI)),
		CTEDefinitions:     nonNil(d.CTEDefinitions),
		Filters:            nonNil(mapSlice(d.Filters, mapFilter)),
		ReportFormat:       string(settings.Format),
		Template:           settings.Template,
		Layout:             settings.Layout,
	}
}

// MapScheduleToRequest sets day_of_week only for weekly and day_of_month only
// for monthly schedules.
func MapScheduleToRequest(reportID int64, s domain.ScheduleSettings, now time.Time) api.ScheduleRequest {
	s = s.WithDefaults()
	req := api.ScheduleRequest{
		Report:    reportID,
		IsEnabled: true,
		Frequency: string(s.Frequency),
		Time:      s.Time,
		Timezone:  s.Timezone,
		StartDate: now.Format(time.DateOnly),
	}
	switch s.Frequency {
	case domain.FrequencyWeekly:
		day := domain.WeekdayIndex(s.DayOfWeek)
		req.DayOfWeek = &day
	case domain.FrequencyMonthly:
		day := s.DayOfMonth
		if day == 0 {
			day = 1
		}
		req.DayOfMonth = &day
	}
	return req
}

func MapEmailToRequest(reportID int64, e domain.EmailSettings) api.EmailDistributionRequest {
	e = e.WithDefaults()
	recipients := make([]api.Recipient, 0, len(e.Recipients))
	for _, r := range e.Recipients {
		recipients = append(recipients, api.Recipient{Name: r.Name, Email: r.Email})
	}
	return api.EmailDistributionRequest{
		Report:          reportID,
		IsEnabled:       true,
		SubjectTemplate: e.Subject,
		BodyTemplate:    e.Body,
		AttachFormat:    string(e.AttachFormat),
		Recipients:      recipients,
	}
}

func mapSlice[S any, T any](in []S, fn func(S) T) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
