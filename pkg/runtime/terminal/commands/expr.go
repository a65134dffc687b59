package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/de-tools/report-atlas/pkg/expression"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// wizardFlags are the date-intelligence selections shared by expr render
// and draft wizard.
type wizardFlags struct {
	pattern    string
	dateField  string
	target     string
	comparison string
	months     string
	fields     []string
}

func (wf *wizardFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&wf.pattern, "pattern", "", "Wizard pattern (see `expr patterns`)")
	cmd.Flags().StringVar(&wf.dateField, "date-field", "", "Qualified date column, e.g. sales.sale_date")
	cmd.Flags().StringVar(&wf.target, "target", "", "Date parsing target: year_extraction, quarter_extraction or auto")
	cmd.Flags().StringVar(&wf.comparison, "comparison", "", "Period comparison: year_over_year or custom_periods")
	cmd.Flags().StringVar(&wf.months, "months", "1-6", "Month range START-END")
	_ = cmd.MarkFlagRequired("pattern")
}

func (wf *wizardFlags) params() (expression.Params, error) {
	months, err := parseMonths(wf.months)
	if err != nil {
		return expression.Params{}, err
	}
	fields := make([]domain.FieldReference, 0, len(wf.fields))
	for _, raw := range wf.fields {
		f, err := parseFieldRef(raw)
		if err != nil {
			return expression.Params{}, err
		}
		fields = append(fields, f)
	}
	return expression.Params{
		Pattern:    expression.Pattern(wf.pattern),
		DateField:  wf.dateField,
		Target:     expression.ExtractionTarget(wf.target),
		Comparison: expression.ComparisonMode(wf.comparison),
		Months:     months,
		Fields:     fields,
	}, nil
}

func parseMonths(raw string) (expression.MonthRange, error) {
	start, end, ok := strings.Cut(raw, "-")
	if !ok {
		return expression.MonthRange{}, fmt.Errorf("invalid month range %q, expected START-END", raw)
	}
	s, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return expression.MonthRange{}, fmt.Errorf("invalid start month %q", start)
	}
	e, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return expression.MonthRange{}, fmt.Errorf("invalid end month %q", end)
	}
	return expression.MonthRange{Start: s, End: e}, nil
}

// parseFieldRef reads table.column[:TYPE].
func parseFieldRef(raw string) (domain.FieldReference, error) {
	name, typ, _ := strings.Cut(raw, ":")
	table, column, ok := strings.Cut(name, ".")
	if !ok || table == "" || column == "" {
		return domain.FieldReference{}, fmt.Errorf("invalid field %q, expected table.column[:type]", raw)
	}
	return domain.NewFieldReference(table, domain.Column{Name: column, Type: typ}), nil
}

func NewExprCmd(engine *expression.Engine, reporter *export.Reporter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expr",
		Short: "Preview date-intelligence expressions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "patterns",
		Short: "List wizard patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return reporter.Patterns(expression.Patterns())
		},
	})

	wf := &wizardFlags{}
	render := &cobra.Command{
		Use:   "render",
		Short: "Render the SQL a wizard selection would produce",
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := wf.params()
			if err != nil {
				return err
			}
			field, err := engine.Generate(params)
			if err != nil {
				return fmt.Errorf("failed to render expression: %w", err)
			}
			return reporter.Field(field)
		},
	}
	wf.bind(render)
	render.Flags().StringArrayVar(&wf.fields, "field", nil, "Available field as table.column:TYPE (repeatable)")
	cmd.AddCommand(render)

	return cmd
}
