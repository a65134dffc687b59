package domain

import "time"

type ReportFormat string

const (
	ReportFormatPDF        ReportFormat = "PDF"
	ReportFormatExcel      ReportFormat = "Excel"
	ReportFormatCSV        ReportFormat = "CSV"
	ReportFormatPowerPoint ReportFormat = "PowerPoint"
)

const (
	DefaultTemplate = "business_standard"
	DefaultLayout   = "table"
)

// ReportDraft is the in-progress configuration assembled by the builder steps.
type ReportDraft struct {
	ID               string
	Name             string
	Description      string
	DataSources      []TableSelection
	Relationships    []Relationship
	Fields           []ReportField
	CalculatedFields []CalculatedField
	CTEDefinitions   []string
	Filters          []Filter
	Settings         ReportSettings
	Schedule         ScheduleSettings
	Email            EmailSettings
	ReportID         *int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AvailableFields flattens the columns of every selected table, in selection order.
func (d *ReportDraft) AvailableFields() []FieldReference {
	var fields []FieldReference
	for _, ds := range d.DataSources {
		for _, col := range ds.Columns {
			fields = append(fields, NewFieldReference(ds.TableName, col))
		}
	}
	return fields
}

type TableSelection struct {
	DataSourceID int64
	TableName    string
	Columns      []Column
	Joins        []Relationship
}

type Column struct {
	Name       string
	Label      string
	Type       string
	Nullable   bool
	PrimaryKey bool
}

type ReportField struct {
	Field       string
	Label       string
	Aggregation string
	Format      string
}

type Filter struct {
	Field    string
	Operator string
	Value    string
}

type ReportSettings struct {
	Format   ReportFormat
	Template string
	Layout   string
}

func (s ReportSettings) WithDefaults() ReportSettings {
	if s.Format == "" {
		s.Format = ReportFormatPDF
	}
	if s.Template == "" {
		s.Template = DefaultTemplate
	}
	if s.Layout == "" {
		s.Layout = DefaultLayout
	}
	return s
}
