package expression

import (
	"fmt"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/google/uuid"
)

// Engine renders calculated-field SQL from a wizard pattern and its parameters.
// The rendered SQL is not validated and referenced columns are not checked
// against the bound data source.
type Engine struct {
	now   func() time.Time
	newID func() string
}

type Option func(*Engine)

// WithClock sets the clock used to pick the current year for year-over-year growth.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ready reports whether Generate would produce a field for p.
func (e *Engine) Ready(p Params) bool {
	return e.check(p) == nil
}

func (e *Engine) check(p Params) error {
	switch p.Pattern {
	case PatternMonthExtraction:
		if p.DateField == "" {
			return fmt.Errorf("%w: date field is required", ErrIncompleteSelection)
		}
	case PatternDateParsing:
		if p.DateField == "" {
			return fmt.Errorf("%w: date field is required", ErrIncompleteSelection)
		}
		switch p.target() {
		case TargetYear, TargetQuarter, TargetAuto:
		default:
			return fmt.Errorf("%w: unknown extraction target %q", ErrIncompleteSelection, p.Target)
		}
	case PatternPeriodComparison:
		switch p.comparison() {
		case ComparisonYearOverYear:
			if !p.Months.Valid() {
				return fmt.Errorf("%w: invalid month range %d-%d", ErrIncompleteSelection, p.Months.Start, p.Months.End)
			}
		case ComparisonCustomPeriods:
		default:
			return fmt.Errorf("%w: unknown comparison mode %q", ErrIncompleteSelection, p.Comparison)
		}
	case PatternConditionalAggregation:
		if !p.Months.Valid() {
			return fmt.Errorf("%w: invalid month range %d-%d", ErrIncompleteSelection, p.Months.Start, p.Months.End)
		}
	case "":
		return fmt.Errorf("%w: no pattern selected", ErrIncompleteSelection)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPattern, p.Pattern)
	}
	return nil
}

// Render returns the expression text only, as shown in the preview pane.
func (e *Engine) Render(p Params) (string, error) {
	if err := e.check(p); err != nil {
		return "", err
	}

	switch p.Pattern {
	case PatternMonthExtraction:
		return renderMonthExtraction(p.DateField), nil
	case PatternPeriodComparison:
		if p.comparison() == ComparisonCustomPeriods {
			return renderCustomPeriods(), nil
		}
		return renderYearOverYear(e.now().Year(), p.Months, ValueField(p.Fields)), nil
	case PatternDateParsing:
		switch p.target() {
		case TargetYear:
			return renderYearExtraction(p.DateField), nil
		case TargetQuarter:
			return renderQuarterExtraction(p.DateField), nil
		default:
			return renderDateCast(p.DateField), nil
		}
	default:
		return renderConditionalAggregation(p.Months, ValueField(p.Fields)), nil
	}
}

// Generate renders p into a calculated-field descriptor ready to be appended to
// a report draft.
func (e *Engine) Generate(p Params) (domain.CalculatedField, error) {
	expr, err := e.Render(p)
	if err != nil {
		return domain.CalculatedField{}, err
	}

	field := domain.CalculatedField{
		ID:         e.newID(),
		Expression: expr,
		DataType:   domain.DataTypeNumeric,
		Provenance: domain.ProvenanceWizard,
		IsValid:    true,
	}

	switch p.Pattern {
	case PatternMonthExtraction:
		field.Name = "month_number"
		field.Label = "Month Number"
		field.Description = "Extracted month number (1-12) from date field"
	case PatternPeriodComparison:
		field.Name = "growth_percentage"
		field.Label = "Growth %"
		if p.comparison() == ComparisonYearOverYear {
			field.Description = "Year-over-year growth percentage"
		} else {
			field.Description = "Period growth percentage"
		}
	case PatternDateParsing:
		field.Description = "Parsed date component"
		switch p.target() {
		case TargetYear:
			field.Name = "year_parsed"
			field.Label = "Year"
		case TargetQuarter:
			field.Name = "quarter_parsed"
			field.Label = "Quarter"
		default:
			field.Name = "date_parsed"
			field.Label = "Parsed Date"
			field.DataType = domain.DataTypeDate
		}
	case PatternConditionalAggregation:
		field.Name = "period_total"
		field.Label = "Period Total"
		field.Description = fmt.Sprintf("Sum for %s to %s", p.Months.StartName(), p.Months.EndName())
	}

	return field, nil
}

func (p Params) target() ExtractionTarget {
	if p.Target == "" {
		return TargetAuto
	}
	return p.Target
}

func (p Params) comparison() ComparisonMode {
	if p.Comparison == "" {
		return ComparisonYearOverYear
	}
	return p.Comparison
}
