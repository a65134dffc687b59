package expression

import (
	"errors"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/domain"
)

var (
	// ErrIncompleteSelection is returned while the selections required by a
	// pattern are missing or malformed. Callers treat it as "not ready yet".
	ErrIncompleteSelection = errors.New("incomplete selection")
	ErrUnknownPattern      = errors.New("unknown pattern")
)

type Pattern string

const (
	PatternMonthExtraction        Pattern = "month_extraction"
	PatternPeriodComparison       Pattern = "period_comparison"
	PatternDateParsing            Pattern = "date_parsing"
	PatternConditionalAggregation Pattern = "conditional_aggregation"
)

type ComparisonMode string

const (
	ComparisonYearOverYear  ComparisonMode = "year_over_year"
	ComparisonCustomPeriods ComparisonMode = "custom_periods"
)

type ExtractionTarget string

const (
	TargetYear    ExtractionTarget = "year_extraction"
	TargetQuarter ExtractionTarget = "quarter_extraction"
	TargetAuto    ExtractionTarget = "auto"
)

// AggregationYear is the year literal the period-based aggregation is gated on.
const AggregationYear = 2024

const valueFieldPlaceholder = "value_field"

type PatternInfo struct {
	ID          Pattern
	Title       string
	Description string
}

var patterns = []PatternInfo{
	{
		ID:          PatternMonthExtraction,
		Title:       "Month Number Extraction",
		Description: "Extract month numbers (1-12) from various date formats",
	},
	{
		ID:          PatternPeriodComparison,
		Title:       "Period Comparison",
		Description: "Compare values between different time periods",
	},
	{
		ID:          PatternDateParsing,
		Title:       "Date Format Parsing",
		Description: "Handle multiple date formats and extract components",
	},
	{
		ID:          PatternConditionalAggregation,
		Title:       "Period-Based Aggregation",
		Description: "Sum/count values for specific date ranges",
	},
}

var monthNames = [12]string{
	time.January.String(), time.February.String(), time.March.String(),
	time.April.String(), time.May.String(), time.June.String(),
	time.July.String(), time.August.String(), time.September.String(),
	time.October.String(), time.November.String(), time.December.String(),
}

// MonthRange is an inclusive range of calendar months, 1-12.
type MonthRange struct {
	Start int
	End   int
}

// DefaultMonthRange matches the first half of the year.
func DefaultMonthRange() MonthRange {
	return MonthRange{Start: 1, End: 6}
}

func (r MonthRange) Valid() bool {
	return r.Start >= 1 && r.End <= 12 && r.Start <= r.End
}

func (r MonthRange) StartName() string {
	return monthNames[r.Start-1]
}

func (r MonthRange) EndName() string {
	return monthNames[r.End-1]
}

// Params carries the wizard selections. Only the members relevant to Pattern
// are consulted.
type Params struct {
	Pattern    Pattern
	DateField  string
	Target     ExtractionTarget
	Comparison ComparisonMode
	Months     MonthRange
	Fields     []domain.FieldReference
}

// Patterns lists the supported patterns in presentation order.
func Patterns() []PatternInfo {
	out := make([]PatternInfo, len(patterns))
	copy(out, patterns)
	return out
}

func LookupPattern(id Pattern) (PatternInfo, bool) {
	for _, p := range patterns {
		if p.ID == id {
			return p, true
		}
	}
	return PatternInfo{}, false
}

// DateFields returns the fields offered in the date field picker.
func DateFields(fields []domain.FieldReference) []domain.FieldReference {
	var out []domain.FieldReference
	for _, f := range fields {
		if f.IsDateLike() {
			out = append(out, f)
		}
	}
	return out
}

// ValueField returns the qualified name of the first numeric or currency field,
// or a placeholder the user has to bind later.
func ValueField(fields []domain.FieldReference) string {
	for _, f := range fields {
		if f.IsValueLike() {
			return f.Qualified()
		}
	}
	return valueFieldPlaceholder
}
