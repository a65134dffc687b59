package adapters

import (
	"github.com/de-tools/report-atlas/pkg/expression"
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/de-tools/report-atlas/pkg/services/editor"
)

func MapPatternInfoToAPI(p expression.PatternInfo) api.Pattern {
	return api.Pattern{ID: string(p.ID), Title: p.Title, Description: p.Description}
}

// MapWizardRequestToParams converts a wizard request. A missing month range
// falls back to the default January..June range.
func MapWizardRequestToParams(req api.WizardRequest) expression.Params {
	months := expression.DefaultMonthRange()
	if req.Months != nil {
		months = expression.MonthRange{Start: req.Months.Start, End: req.Months.End}
	}
	fields := make([]domain.FieldReference, 0, len(req.Fields))
	for _, f := range req.Fields {
		fields = append(fields, domain.NewFieldReference(f.Table, domain.Column{Name: f.Name, Label: f.Label, Type: f.Type}))
	}
	return expression.Params{
		Pattern:    expression.Pattern(req.Pattern),
		DateField:  req.DateField,
		Target:     expression.ExtractionTarget(req.Target),
		Comparison: expression.ComparisonMode(req.Comparison),
		Months:     months,
		Fields:     fields,
	}
}

func mapSnippet(s editor.Snippet) api.Snippet {
	return api.Snippet{Name: s.Name, Syntax: s.Syntax, Description: s.Description}
}

func MapCatalogToAPI(c editor.Catalog) api.Catalog {
	functions := make(map[string][]api.Snippet, len(c.Functions))
	for category, snippets := range c.Functions {
		functions[string(category)] = nonNil(mapSlice(snippets, mapSnippet))
	}
	templates := make([]api.Template, 0, len(c.Templates))
	for _, t := range c.Templates {
		templates = append(templates, api.Template{Name: t.Name, Description: t.Description, Expression: t.Expression})
	}
	return api.Catalog{
		Functions: functions,
		Operators: nonNil(mapSlice(c.Operators, mapSnippet)),
		Templates: templates,
	}
}

func MapAPITableSelectionsToDomain(in []api.ReportDataSource) []domain.TableSelection {
	return mapSlice(in, MapAPITableSelectionToDomain)
}

func MapAPIRelationshipsToDomain(in []api.Relationship) []domain.Relationship {
	return mapSlice(in, MapAPIRelationshipToDomain)
}

func MapDomainRelationshipsToAPI(in []domain.Relationship) []api.Relationship {
	return nonNil(mapSlice(in, MapDomainRelationshipToAPI))
}

func MapAPIReportFieldsToDomain(in []api.ReportField) []domain.ReportField {
	return mapSlice(in, mapAPIReportField)
}

func MapAPIFiltersToDomain(in []api.Filter) []domain.Filter {
	return mapSlice(in, mapAPIFilter)
}

func MapSuggestRequestToDomain(req api.SuggestRequest) ([]string, map[string][]domain.Column, map[string][]domain.ForeignKey) {
	columns := make(map[string][]domain.Column, len(req.ColumnsByTable))
	for table, cols := range req.ColumnsByTable {
		columns[table] = mapSlice(cols, MapAPIColumnToDomain)
	}
	keys := make(map[string][]domain.ForeignKey, len(req.ForeignKeys))
	for table, fks := range req.ForeignKeys {
		keys[table] = mapSlice(fks, MapAPIForeignKeyToDomain)
	}
	return req.Tables, columns, keys
}

func MapStoreExecutionRecordToAPI(r *store.ExecutionRecord) api.ExecutionRecord {
	out := api.ExecutionRecord{
		ExecutionID: r.ExecutionID,
		ReportID:    r.ReportID,
		Status:      r.Status,
		FileURL:     r.FileURL,
		StartedAt:   r.StartedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Error != nil {
		out.Error = *r.Error
	}
	return out
}

// MapStoreExecutionRecordToStatus reports a recorded execution in the same
// shape as a live watch. Completed and failed runs are done.
func MapStoreExecutionRecordToStatus(r *store.ExecutionRecord) api.ExecutionStatus {
	out := api.ExecutionStatus{
		ExecutionID: r.ExecutionID,
		ReportID:    r.ReportID,
		Status:      r.Status,
		FileURL:     r.FileURL,
	}
	switch domain.ExecutionStatus(r.Status) {
	case domain.ExecutionStatusCompleted, domain.ExecutionStatusFailed:
		out.Done = true
	}
	if r.Error != nil {
		out.Error = *r.Error
	}
	return out
}
