package api

import "time"

// ReportDataSource keeps the camelCase keys the report service stores verbatim.
type ReportDataSource struct {
	DataSourceID int64          `json:"dataSourceId"`
	TableName    string         `json:"tableName"`
	Columns      []Column       `json:"columns"`
	Joins        []Relationship `json:"joins"`
}

type CalculatedField struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Expression  string `json:"expression"`
	DataType    string `json:"dataType"`
	Description string `json:"description"`
	IsValid     bool   `json:"isValid"`
	GeneratedBy string `json:"generatedBy,omitempty"`
}

type ReportField struct {
	Field       string `json:"field"`
	Label       string `json:"label,omitempty"`
	Aggregation string `json:"aggregation,omitempty"`
	Format      string `json:"format,omitempty"`
}

type Filter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

type ReportRequest struct {
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	DataSources        []ReportDataSource `json:"data_sources"`
	TableRelationships []Relationship     `json:"table_relationships"`
	Fields             []ReportField      `json:"fields"`
	CalculatedFields   []CalculatedField  `json:"calculated_fields"`
	CTEDefinitions     []string           `json:"cte_definitions"`
	Filters            []Filter           `json:"filters"`
	ReportFormat       string             `json:"report_format"`
	Template           string             `json:"template"`
	Layout             string             `json:"layout"`
}

type Report struct {
	ID                   int64      `json:"id"`
	Name                 string     `json:"name"`
	Description          string     `json:"description"`
	ReportFormat         string     `json:"report_format"`
	Template             string     `json:"template"`
	Layout               string     `json:"layout"`
	IsActive             bool       `json:"is_active"`
	LastExecuted         *time.Time `json:"last_executed,omitempty"`
	ExecutionCount       int        `json:"execution_count"`
	CreatedAt            *time.Time `json:"created_at,omitempty"`
	CreatedByName        string     `json:"created_by_name,omitempty"`
	ScheduleSummary      string     `json:"schedule_summary,omitempty"`
	EmailRecipientsCount int        `json:"email_recipients_count,omitempty"`
}

type ScheduleRequest struct {
	Report     int64  `json:"report"`
	IsEnabled  bool   `json:"is_enabled"`
	Frequency  string `json:"frequency"`
	DayOfWeek  *int   `json:"day_of_week"`
	DayOfMonth *int   `json:"day_of_month"`
	Time       string `json:"time"`
	Timezone   string `json:"timezone"`
	StartDate  string `json:"start_date"`
}

type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type EmailDistributionRequest struct {
	Report          int64       `json:"report"`
	IsEnabled       bool        `json:"is_enabled"`
	SubjectTemplate string      `json:"subject_template"`
	BodyTemplate    string      `json:"body_template"`
	AttachFormat    string      `json:"attach_format"`
	Recipients      []Recipient `json:"recipients"`
}

type ExecuteResponse struct {
	ExecutionID int64  `json:"execution_id"`
	Status      string `json:"status"`
}

type Execution struct {
	ID           int64      `json:"id"`
	Report       int64      `json:"report"`
	Status       string     `json:"status"`
	FilePath     string     `json:"file_path"`
	FileSize     *int64     `json:"file_size"`
	RowCount     *int64     `json:"row_count"`
	ErrorMessage string     `json:"error_message"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}
