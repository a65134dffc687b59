package commands

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/report-atlas/pkg/services/builder"
	"github.com/de-tools/report-atlas/pkg/services/schema"
	"github.com/spf13/cobra"
)

// SchemaSource resolves the columns of a data source registered with the
// report service.
type SchemaSource interface {
	GetSchema(ctx context.Context, id int64) (*api.Schema, error)
}

type DraftCmd struct {
	builder  builder.Builder
	schemas  SchemaSource
	reporter *export.Reporter
}

func NewDraftCmd(b builder.Builder, schemas SchemaSource, reporter *export.Reporter) *cobra.Command {
	dc := &DraftCmd{builder: b, schemas: schemas, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Build report drafts locally",
	}

	cmd.AddCommand(dc.newCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List local drafts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			drafts, err := dc.builder.List(cmd.Context())
			if err != nil {
				return err
			}
			return dc.reporter.Drafts(drafts)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dc.builder.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return dc.reporter.Draft(d)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dc.builder.Delete(cmd.Context(), args[0])
		},
	})
	cmd.AddCommand(dc.wizardCmd())
	cmd.AddCommand(dc.addFieldCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "remove-field <id> <field-id>",
		Short: "Remove a calculated field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dc.builder.RemoveField(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return dc.reporter.Draft(d)
		},
	})
	cmd.AddCommand(dc.settingsCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "publish <id>",
		Short: "Save the draft as a report, with its schedule and email distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := dc.builder.Publish(cmd.Context(), args[0])
			if report != nil {
				fmt.Fprintf(dc.reporter.Writer(), "Published report #%d %q\n", report.ID, report.Name)
			}
			return err
		},
	})

	return cmd
}

func (dc *DraftCmd) newCmd() *cobra.Command {
	var (
		name, description string
		dataSource        int64
		tables, fields    []string
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a draft from tables of a data source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			in := builder.NewDraft{Name: name, Description: description}
			if dataSource > 0 && len(tables) > 0 {
				if dc.schemas == nil {
					return fmt.Errorf("no report service configured to resolve tables")
				}
				s, err := dc.schemas.GetSchema(ctx, dataSource)
				if err != nil {
					return fmt.Errorf("failed to load schema of data source %d: %w", dataSource, err)
				}
				sources, rels, err := selectTables(dataSource, adapters.MapAPISchemaToDomain(*s), tables)
				if err != nil {
					return err
				}
				in.DataSources = sources
				in.Relationships = rels
			}
			for _, f := range fields {
				in.Fields = append(in.Fields, domain.ReportField{Field: f})
			}

			d, err := dc.builder.Create(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(dc.reporter.Writer(), "Created draft %s\n", d.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Report name")
	cmd.Flags().StringVar(&description, "description", "", "Report description")
	cmd.Flags().Int64Var(&dataSource, "datasource", 0, "Data source id the tables belong to")
	cmd.Flags().StringArrayVar(&tables, "table", nil, "Table to include (repeatable)")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Report field as table.column (repeatable)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// selectTables picks the named tables out of s and suggests joins between them.
func selectTables(dataSource int64, s domain.Schema, tables []string) ([]domain.TableSelection, []domain.Relationship, error) {
	selections := make([]domain.TableSelection, 0, len(tables))
	for _, t := range tables {
		cols, ok := s.ColumnsByTable[t]
		if !ok {
			return nil, nil, fmt.Errorf("table %q not found in data source %d", t, dataSource)
		}
		selections = append(selections, domain.TableSelection{DataSourceID: dataSource, TableName: t, Columns: cols})
	}
	return selections, schema.SuggestRelationships(tables, s.ColumnsByTable, s.ForeignKeys), nil
}

func (dc *DraftCmd) wizardCmd() *cobra.Command {
	wf := &wizardFlags{}
	cmd := &cobra.Command{
		Use:   "wizard <id>",
		Short: "Add a calculated field generated by the date-intelligence wizard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := wf.params()
			if err != nil {
				return err
			}
			field, err := dc.builder.ApplyWizard(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			return dc.reporter.Field(field)
		},
	}
	wf.bind(cmd)
	return cmd
}

func (dc *DraftCmd) addFieldCmd() *cobra.Command {
	var f api.CalculatedField
	cmd := &cobra.Command{
		Use:   "add-field <id>",
		Short: "Add or replace a hand-written calculated field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dc.builder.SaveField(cmd.Context(), args[0], adapters.MapAPICalculatedFieldToDomain(f))
			if err != nil {
				return err
			}
			return dc.reporter.Draft(d)
		},
	}

	cmd.Flags().StringVar(&f.ID, "id", "", "Field id to replace (new field when empty)")
	cmd.Flags().StringVar(&f.Name, "name", "", "Field name")
	cmd.Flags().StringVar(&f.Label, "label", "", "Display label")
	cmd.Flags().StringVar(&f.Expression, "expression", "", "SQL expression")
	cmd.Flags().StringVar(&f.DataType, "type", string(domain.DataTypeNumeric), "Result data type")
	cmd.Flags().StringVar(&f.Description, "description", "", "Description")

	return cmd
}

func (dc *DraftCmd) settingsCmd() *cobra.Command {
	var (
		format, frequency, dayOfWeek, at, timezone string
		dayOfMonth                                 int
		recipients                                 []string
	)
	cmd := &cobra.Command{
		Use:   "settings <id>",
		Short: "Set output format, schedule and email distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current, err := dc.builder.Get(ctx, args[0])
			if err != nil {
				return err
			}

			s := builder.Settings{Report: current.Settings, Schedule: current.Schedule, Email: current.Email}
			if format != "" {
				f, err := parseFormat(format)
				if err != nil {
					return err
				}
				s.Report.Format = f
			}
			if frequency != "" {
				s.Schedule = domain.ScheduleSettings{
					Enabled:    frequency != "none",
					Frequency:  domain.Frequency(frequency),
					DayOfWeek:  dayOfWeek,
					DayOfMonth: dayOfMonth,
					Time:       at,
					Timezone:   timezone,
				}
			}
			if cmd.Flags().Changed("recipient") {
				parsed, err := parseRecipients(recipients)
				if err != nil {
					return err
				}
				s.Email.Recipients = parsed
				s.Email.Enabled = len(parsed) > 0
			}

			d, err := dc.builder.UpdateSettings(ctx, args[0], s)
			if err != nil {
				return err
			}
			return dc.reporter.Draft(d)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format: PDF, Excel, CSV or PowerPoint")
	cmd.Flags().StringVar(&frequency, "frequency", "", "Schedule: daily, weekly, monthly, quarterly or none")
	cmd.Flags().StringVar(&dayOfWeek, "day-of-week", "", "Weekday for weekly schedules")
	cmd.Flags().IntVar(&dayOfMonth, "day-of-month", 0, "Day for monthly schedules")
	cmd.Flags().StringVar(&at, "time", "", "Time of day HH:MM")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone")
	cmd.Flags().StringArrayVar(&recipients, "recipient", nil, `Email recipient as "Name <email>" (repeatable)`)

	return cmd
}

func parseRecipients(raw []string) ([]domain.Recipient, error) {
	out := make([]domain.Recipient, 0, len(raw))
	for _, r := range raw {
		addr, err := mail.ParseAddress(r)
		if err != nil {
			return nil, fmt.Errorf("invalid recipient %q: %w", r, err)
		}
		name := addr.Name
		if name == "" {
			name, _, _ = strings.Cut(addr.Address, "@")
		}
		out = append(out, domain.Recipient{Name: name, Email: addr.Address})
	}
	return out, nil
}

func parseFormat(raw string) (domain.ReportFormat, error) {
	for _, f := range []domain.ReportFormat{
		domain.ReportFormatPDF,
		domain.ReportFormatExcel,
		domain.ReportFormatCSV,
		domain.ReportFormatPowerPoint,
	} {
		if strings.EqualFold(raw, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown report format %q", raw)
}
