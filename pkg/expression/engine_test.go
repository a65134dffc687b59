package expression

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.March, 15, 10, 0, 0, 0, time.UTC)
	}
}

func salesFields() []domain.FieldReference {
	return []domain.FieldReference{
		domain.NewFieldReference("sales", domain.Column{Name: "sale_date", Type: "DATE"}),
		domain.NewFieldReference("sales", domain.Column{Name: "region", Type: "VARCHAR(50)"}),
		domain.NewFieldReference("sales", domain.Column{Name: "amount", Type: "NUMERIC(12,2)"}),
		domain.NewFieldReference("sales", domain.Column{Name: "units", Type: "INTEGER"}),
	}
}

func TestEngine_MonthExtraction_QuotesFieldInEveryBranch(t *testing.T) {
	e := NewEngine()

	expr, err := e.Render(Params{Pattern: PatternMonthExtraction, DateField: "sale_date"})
	require.NoError(t, err)

	var branches int
	for _, line := range strings.Split(expr, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "WHEN") {
			branches++
			assert.Contains(t, line, `"sale_date"`, "branch without quoted field: %s", line)
		}
	}
	assert.Equal(t, 14, branches)
	assert.Contains(t, expr, `SPLIT_PART("sale_date", '/', 1)::int`)
	assert.Contains(t, expr, `EXTRACT(MONTH FROM "sale_date"::date)`)
	assert.Contains(t, expr, `"sale_date" = 'May' THEN 5`)
	assert.Contains(t, expr, `('Sep','Sept','September') THEN 9`)
}

func TestEngine_MonthExtraction_Descriptor(t *testing.T) {
	e := NewEngine(WithIDGenerator(func() string { return "cf-1" }))

	field, err := e.Generate(Params{Pattern: PatternMonthExtraction, DateField: "sale_date"})
	require.NoError(t, err)

	assert.Equal(t, "cf-1", field.ID)
	assert.Equal(t, "month_number", field.Name)
	assert.Equal(t, "Month Number", field.Label)
	assert.Equal(t, domain.DataTypeNumeric, field.DataType)
	assert.Equal(t, domain.ProvenanceWizard, field.Provenance)
	assert.True(t, field.IsValid)
}

func TestEngine_YearOverYear_ReferencesBothYearsAndRange(t *testing.T) {
	e := NewEngine(WithClock(fixedClock(2025)))

	field, err := e.Generate(Params{
		Pattern:    PatternPeriodComparison,
		Comparison: ComparisonYearOverYear,
		Months:     MonthRange{Start: 3, End: 6},
		Fields:     salesFields(),
	})
	require.NoError(t, err)

	expr := field.Expression
	assert.Contains(t, expr, "year_field = 2025")
	assert.Contains(t, expr, "year_field = 2024")
	assert.Contains(t, expr, "BETWEEN 3 AND 6")
	assert.Contains(t, expr, "THEN sales.amount ELSE 0")
	assert.Contains(t, expr, "NULLIF(")
	assert.True(t, strings.HasPrefix(expr, "ROUND(\n"))
	assert.Equal(t, "growth_percentage", field.Name)
	assert.Equal(t, "Year-over-year growth percentage", field.Description)
}

func TestEngine_PeriodComparison_DefaultsToYearOverYear(t *testing.T) {
	e := NewEngine(WithClock(fixedClock(2030)))

	expr, err := e.Render(Params{Pattern: PatternPeriodComparison, Months: DefaultMonthRange()})
	require.NoError(t, err)

	assert.Contains(t, expr, "year_field = 2030")
	assert.Contains(t, expr, "THEN value_field ELSE 0")
}

func TestEngine_CustomPeriods(t *testing.T) {
	e := NewEngine()

	field, err := e.Generate(Params{Pattern: PatternPeriodComparison, Comparison: ComparisonCustomPeriods})
	require.NoError(t, err)

	assert.Contains(t, field.Expression, "current_period_value - previous_period_value")
	assert.Contains(t, field.Expression, "NULLIF(previous_period_value, 0)")
	assert.Equal(t, "Period growth percentage", field.Description)
}

func TestEngine_QuarterExtraction_BranchesPartitionTheYear(t *testing.T) {
	e := NewEngine()

	field, err := e.Generate(Params{Pattern: PatternDateParsing, DateField: "order_date", Target: TargetQuarter})
	require.NoError(t, err)

	re := regexp.MustCompile(`BETWEEN (\d+) AND (\d+) THEN (\d)`)
	matches := re.FindAllStringSubmatch(field.Expression, -1)
	require.Len(t, matches, 4)

	owner := map[int]int{}
	for _, m := range matches {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		quarter, _ := strconv.Atoi(m[3])
		for month := start; month <= end; month++ {
			_, dup := owner[month]
			assert.False(t, dup, "month %d covered twice", month)
			owner[month] = quarter
		}
	}
	for month := 1; month <= 12; month++ {
		assert.Equal(t, (month-1)/3+1, owner[month], "month %d", month)
	}

	assert.Equal(t, "quarter_parsed", field.Name)
	assert.Equal(t, domain.DataTypeNumeric, field.DataType)
}

func TestEngine_DateParsing_Targets(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name     string
		target   ExtractionTarget
		wantName string
		wantType domain.DataType
		contains string
	}{
		{"year", TargetYear, "year_parsed", domain.DataTypeNumeric, `SUBSTRING("period", LENGTH("period") - 3, 4)::int`},
		{"quarter", TargetQuarter, "quarter_parsed", domain.DataTypeNumeric, `ELSE NULL`},
		{"auto", TargetAuto, "date_parsed", domain.DataTypeDate, `"period"::date`},
		{"empty target normalizes", "", "date_parsed", domain.DataTypeDate, `"period"::date`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, err := e.Generate(Params{Pattern: PatternDateParsing, DateField: "period", Target: tt.target})
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, field.Name)
			assert.Equal(t, tt.wantType, field.DataType)
			assert.Contains(t, field.Expression, tt.contains)
			assert.Equal(t, "Parsed date component", field.Description)
		})
	}
}

func TestEngine_ConditionalAggregation_ElseZero(t *testing.T) {
	e := NewEngine()

	field, err := e.Generate(Params{
		Pattern: PatternConditionalAggregation,
		Months:  MonthRange{Start: 1, End: 6},
		Fields:  salesFields(),
	})
	require.NoError(t, err)

	assert.Contains(t, field.Expression, "ELSE 0")
	assert.NotContains(t, field.Expression, "ELSE NULL")
	assert.Contains(t, field.Expression, "year_field = 2024 AND month_field BETWEEN 1 AND 6 THEN sales.amount")
	assert.Equal(t, "period_total", field.Name)
	assert.Equal(t, "Sum for January to June", field.Description)
}

func TestEngine_IncompleteSelections(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name   string
		params Params
	}{
		{"no pattern", Params{}},
		{"month extraction without field", Params{Pattern: PatternMonthExtraction}},
		{"date parsing without field", Params{Pattern: PatternDateParsing, Target: TargetYear}},
		{"date parsing unknown target", Params{Pattern: PatternDateParsing, DateField: "d", Target: "week"}},
		{"aggregation reversed range", Params{Pattern: PatternConditionalAggregation, Months: MonthRange{Start: 6, End: 2}}},
		{"aggregation zero range", Params{Pattern: PatternConditionalAggregation}},
		{"yoy out of range", Params{Pattern: PatternPeriodComparison, Months: MonthRange{Start: 1, End: 13}}},
		{"unknown comparison", Params{Pattern: PatternPeriodComparison, Comparison: "rolling", Months: DefaultMonthRange()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, e.Ready(tt.params))
			_, err := e.Generate(tt.params)
			assert.ErrorIs(t, err, ErrIncompleteSelection)
		})
	}
}

func TestEngine_UnknownPattern(t *testing.T) {
	_, err := NewEngine().Render(Params{Pattern: "running_total"})
	assert.ErrorIs(t, err, ErrUnknownPattern)
}

func TestEngine_GeneratedFieldsAreReady(t *testing.T) {
	e := NewEngine()
	for _, p := range []Params{
		{Pattern: PatternMonthExtraction, DateField: "sale_date"},
		{Pattern: PatternPeriodComparison, Months: DefaultMonthRange()},
		{Pattern: PatternPeriodComparison, Comparison: ComparisonCustomPeriods},
		{Pattern: PatternDateParsing, DateField: "sale_date", Target: TargetYear},
		{Pattern: PatternConditionalAggregation, Months: MonthRange{Start: 7, End: 12}},
	} {
		field, err := e.Generate(p)
		require.NoError(t, err, p.Pattern)
		assert.True(t, field.Ready(), p.Pattern)
		assert.NotEmpty(t, field.ID)
	}
}

func TestQuoteIdent_EscapesEmbeddedQuotes(t *testing.T) {
	assert.Equal(t, `"odd""name"`, quoteIdent(`odd"name`))
}

func TestPickers(t *testing.T) {
	fields := salesFields()
	fields = append(fields, domain.NewFieldReference("sales", domain.Column{Name: "fiscal_month", Type: "TEXT"}))

	dates := DateFields(fields)
	require.Len(t, dates, 2)
	assert.Equal(t, "sale_date", dates[0].Name)
	assert.Equal(t, "fiscal_month", dates[1].Name)

	assert.Equal(t, "sales.amount", ValueField(fields))
	assert.Equal(t, "value_field", ValueField(dates))
}

func TestValueField_SkipsIntervalAndPoint(t *testing.T) {
	fields := []domain.FieldReference{
		domain.NewFieldReference("trips", domain.Column{Name: "duration", Type: "INTERVAL"}),
		domain.NewFieldReference("trips", domain.Column{Name: "pickup", Type: "point"}),
		domain.NewFieldReference("trips", domain.Column{Name: "fare", Type: "BIGINT"}),
	}
	assert.Equal(t, "trips.fare", ValueField(fields))
}

func TestPatterns(t *testing.T) {
	ps := Patterns()
	require.Len(t, ps, 4)
	assert.Equal(t, PatternMonthExtraction, ps[0].ID)

	info, ok := LookupPattern(PatternConditionalAggregation)
	assert.True(t, ok)
	assert.Equal(t, "Period-Based Aggregation", info.Title)

	_, ok = LookupPattern("nope")
	assert.False(t, ok)
}
