package api

import "time"

// Payloads of the local web API.

type ErrorResponse struct {
	Error string `json:"error"`
}

type Pattern struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type MonthRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type FieldReference struct {
	Table string `json:"table"`
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	Type  string `json:"type,omitempty"`
}

type WizardRequest struct {
	Pattern    string           `json:"pattern"`
	DateField  string           `json:"date_field"`
	Target     string           `json:"target,omitempty"`
	Comparison string           `json:"comparison,omitempty"`
	Months     *MonthRange      `json:"months,omitempty"`
	Fields     []FieldReference `json:"fields,omitempty"`
}

type RenderResponse struct {
	Expression string          `json:"expression"`
	Field      CalculatedField `json:"field"`
}

type Snippet struct {
	Name        string `json:"name"`
	Syntax      string `json:"syntax"`
	Description string `json:"description"`
}

type Template struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Expression  string `json:"expression"`
}

type Catalog struct {
	Functions map[string][]Snippet `json:"functions"`
	Operators []Snippet            `json:"operators"`
	Templates []Template           `json:"templates"`
}

type ScheduleSettings struct {
	Enabled    bool   `json:"enabled"`
	Frequency  string `json:"frequency,omitempty"`
	DayOfWeek  string `json:"day_of_week,omitempty"`
	DayOfMonth int    `json:"day_of_month,omitempty"`
	Time       string `json:"time,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
}

type EmailSettings struct {
	Enabled      bool        `json:"enabled"`
	Subject      string      `json:"subject,omitempty"`
	Body         string      `json:"body,omitempty"`
	AttachFormat string      `json:"attach_format,omitempty"`
	Recipients   []Recipient `json:"recipients,omitempty"`
}

type ReportSettings struct {
	Format   string `json:"format"`
	Template string `json:"template"`
	Layout   string `json:"layout"`
}

type Draft struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	DataSources      []ReportDataSource `json:"data_sources"`
	Relationships    []Relationship     `json:"relationships"`
	Fields           []ReportField      `json:"fields"`
	CalculatedFields []CalculatedField  `json:"calculated_fields"`
	CTEDefinitions   []string           `json:"cte_definitions"`
	Filters          []Filter           `json:"filters"`
	Settings         ReportSettings     `json:"settings"`
	Schedule         ScheduleSettings   `json:"schedule"`
	Email            EmailSettings      `json:"email"`
	ReportID         *int64             `json:"report_id,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

type CreateDraftRequest struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	DataSources   []ReportDataSource `json:"data_sources,omitempty"`
	Relationships []Relationship     `json:"relationships,omitempty"`
	Fields        []ReportField      `json:"fields,omitempty"`
	Filters       []Filter           `json:"filters,omitempty"`
}

type SettingsRequest struct {
	Settings ReportSettings   `json:"settings"`
	Schedule ScheduleSettings `json:"schedule"`
	Email    EmailSettings    `json:"email"`
}

type ExecutionStatus struct {
	ExecutionID int64      `json:"execution_id"`
	ReportID    int64      `json:"report_id"`
	Done        bool       `json:"done"`
	Status      string     `json:"status"`
	FileURL     string     `json:"file_url,omitempty"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
	Attempts    int        `json:"attempts,omitempty"`
	Error       string     `json:"error,omitempty"`
}

type ExecutionRecord struct {
	ExecutionID int64     `json:"execution_id"`
	ReportID    int64     `json:"report_id"`
	Status      string    `json:"status"`
	FileURL     string    `json:"file_url,omitempty"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SuggestRequest struct {
	Tables         []string                `json:"tables"`
	ColumnsByTable map[string][]Column     `json:"columns_by_table"`
	ForeignKeys    map[string][]ForeignKey `json:"foreign_keys"`
}
