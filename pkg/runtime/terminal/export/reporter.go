package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/de-tools/report-atlas/pkg/expression"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/de-tools/report-atlas/pkg/services/schedule"
)

type TableConfig struct {
	IDWidth     int
	NameWidth   int
	StatusWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		IDWidth:     10,
		NameWidth:   32,
		StatusWidth: 12,
	}
}

// Reporter renders CLI output as plain text tables.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Writer() io.Writer {
	return c.writer
}

func (c *Reporter) funcs() template.FuncMap {
	return template.FuncMap{
		"row": func(id any, name string, status string) string {
			return fmt.Sprintf("| %-*v | %-*s | %-*s |",
				c.config.IDWidth, id,
				c.config.NameWidth, truncate(name, c.config.NameWidth),
				c.config.StatusWidth, status)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.IDWidth+2),
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.StatusWidth+2))
		},
		"join": strings.Join,
		"when": func(t *time.Time) string {
			if t == nil {
				return "-"
			}
			return t.Format(time.DateTime)
		},
		"schedule": schedule.Summary,
		"active": func(v bool) string {
			if v {
				return "active"
			}
			return "inactive"
		},
	}
}

func (c *Reporter) render(name, tmpl string, data any) error {
	t, err := template.New(name).Funcs(c.funcs()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}

const schemaTmpl = `Tables: {{len .Tables}}, Views: {{len .Views}}
{{range .Tables}}
=== {{.}} ===
{{range index $.ColumnsByTable .}}  {{.Name}} {{.Type}}{{if .PrimaryKey}} PK{{end}}{{if not .Nullable}} NOT NULL{{end}}
{{end}}{{range index $.ForeignKeys .}}  FK {{join .ConstrainedColumns ","}} -> {{.ReferredTable}}({{join .ReferredColumns ","}})
{{end}}{{end}}{{if .Views}}
Views: {{join .Views ", "}}
{{end}}{{if .SuggestedRelationships}}
Suggested relationships:
{{range .SuggestedRelationships}}  [{{.Confidence}}] {{.Description}}
{{end}}{{end}}`

func (c *Reporter) Schema(s *domain.Schema) error {
	return c.render("schema", schemaTmpl, s)
}

const draftsTmpl = `{{separator}}
{{row "ID" "Name" "Report"}}
{{separator}}
{{range .}}{{row (printf "%.8s" .ID) .Name (reportID .ReportID)}}
{{end}}{{separator}}
`

func (c *Reporter) Drafts(drafts []*domain.ReportDraft) error {
	t, err := template.New("drafts").Funcs(c.funcs()).Funcs(template.FuncMap{
		"reportID": func(id *int64) string {
			if id == nil {
				return "draft"
			}
			return fmt.Sprintf("#%d", *id)
		},
	}).Parse(draftsTmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, drafts)
}

const draftTmpl = `{{.Name}} ({{.ID}})
{{if .Description}}{{.Description}}
{{end}}Format: {{.Settings.Format}}  Template: {{.Settings.Template}}  Layout: {{.Settings.Layout}}
Schedule: {{schedule .Schedule}}
Email: {{if .Email.Enabled}}{{len .Email.Recipients}} recipient(s){{else}}disabled{{end}}

Tables:
{{range .DataSources}}  {{.TableName}} ({{len .Columns}} columns)
{{end}}{{if .Relationships}}
Relationships:
{{range .Relationships}}  {{.SourceTable}}.{{join .SourceColumns ","}} {{.JoinType}} {{.TargetTable}}.{{join .TargetColumns ","}}
{{end}}{{end}}{{if .CalculatedFields}}
Calculated fields:
{{range .CalculatedFields}}  {{.Name}} [{{.DataType}}] ({{.Provenance}})
    {{.Expression}}
{{end}}{{end}}`

func (c *Reporter) Draft(d *domain.ReportDraft) error {
	return c.render("draft", draftTmpl, d)
}

const fieldTmpl = `{{.Name}} [{{.DataType}}] {{.Label}}
{{.Expression}}
`

func (c *Reporter) Field(f domain.CalculatedField) error {
	return c.render("field", fieldTmpl, f)
}

const patternsTmpl = `{{range .}}{{printf "%-24s" .ID}} {{.Title}}
{{printf "%-24s" ""}} {{.Description}}
{{end}}`

func (c *Reporter) Patterns(patterns []expression.PatternInfo) error {
	return c.render("patterns", patternsTmpl, patterns)
}

const executionTmpl = `Execution {{.ExecutionID}}: {{.Status}} after {{.Attempts}} poll(s)
{{if .FileURL}}File: {{.FileURL}}
{{end}}{{if .GeneratedAt}}Generated: {{when .GeneratedAt}}
{{end}}`

func (c *Reporter) Execution(r *domain.ExecutionResult) error {
	return c.render("execution", executionTmpl, r)
}

const historyTmpl = `{{separator}}
{{row "Execution" "Report / Updated" "Status"}}
{{separator}}
{{range .}}{{row .ExecutionID (printf "#%d %s" .ReportID (.UpdatedAt.Format "2006-01-02 15:04")) .Status}}
{{end}}{{separator}}
`

func (c *Reporter) History(records []*store.ExecutionRecord) error {
	return c.render("history", historyTmpl, records)
}

const dataSourcesTmpl = `{{separator}}
{{row "ID" "Name" "Status"}}
{{separator}}
{{range .}}{{row .ID (printf "%s (%s)" .Name .DBType) .ConnectionStatus}}
{{end}}{{separator}}
`

func (c *Reporter) DataSources(sources []domain.DataSource) error {
	return c.render("datasources", dataSourcesTmpl, sources)
}

const usersTmpl = `{{separator}}
{{row "ID" "User" "Status"}}
{{separator}}
{{range .}}{{row .ID (printf "%s <%s> %s" .Username .Email .Role) (active .IsActive)}}
{{end}}{{separator}}
`

func (c *Reporter) Users(users []domain.User) error {
	return c.render("users", usersTmpl, users)
}

const statsTmpl = `Total users:      {{.TotalUsers}}
Active users:     {{.ActiveUsers}}
Admin users:      {{.AdminUsers}}
Email recipients: {{.EmailRecipients}}
`

func (c *Reporter) UserStats(s domain.UserStats) error {
	return c.render("stats", statsTmpl, s)
}
