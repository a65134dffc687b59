package editor

import "github.com/de-tools/report-atlas/pkg/models/domain"

type FunctionCategory string

const (
	CategoryAggregation FunctionCategory = "aggregation"
	CategoryDate        FunctionCategory = "date"
	CategoryString      FunctionCategory = "string"
	CategoryMath        FunctionCategory = "math"
	CategoryConditional FunctionCategory = "conditional"
)

// Snippet is a piece of text the editor can append to the expression buffer.
type Snippet struct {
	Name        string
	Syntax      string
	Description string
}

type Template struct {
	Name        string
	Description string
	Expression  string
}

type Catalog struct {
	Categories []FunctionCategory
	Functions  map[FunctionCategory][]Snippet
	Operators  []Snippet
	Templates  []Template
}

var categories = []FunctionCategory{
	CategoryAggregation,
	CategoryDate,
	CategoryString,
	CategoryMath,
	CategoryConditional,
}

var functions = map[FunctionCategory][]Snippet{
	CategoryAggregation: {
		{"SUM", "SUM(field)", "Sum of values"},
		{"COUNT", "COUNT(field)", "Count of records"},
		{"AVG", "AVG(field)", "Average value"},
		{"MIN", "MIN(field)", "Minimum value"},
		{"MAX", "MAX(field)", "Maximum value"},
		{"COUNT(DISTINCT)", "COUNT(DISTINCT field)", "Count unique values"},
	},
	CategoryDate: {
		{"EXTRACT", "EXTRACT(YEAR FROM date_field)", "Extract date part"},
		{"DATE_PART", "DATE_PART('month', date_field)", "Get date component"},
		{"DATE_TRUNC", "DATE_TRUNC('month', date_field)", "Truncate to period"},
		{"CURRENT_DATE", "CURRENT_DATE", "Current date"},
		{"AGE", "AGE(date1, date2)", "Calculate age/difference"},
	},
	CategoryString: {
		{"CONCAT", "CONCAT(field1, field2)", "Concatenate strings"},
		{"UPPER", "UPPER(field)", "Convert to uppercase"},
		{"LOWER", "LOWER(field)", "Convert to lowercase"},
		{"SUBSTRING", "SUBSTRING(field, start, length)", "Extract substring"},
		{"SPLIT_PART", "SPLIT_PART(field, delimiter, position)", "Split and extract part"},
	},
	CategoryMath: {
		{"ROUND", "ROUND(field, decimals)", "Round to decimals"},
		{"ABS", "ABS(field)", "Absolute value"},
		{"COALESCE", "COALESCE(field1, field2, default)", "First non-null value"},
		{"NULLIF", "NULLIF(field, value)", "Return NULL if equal"},
	},
	CategoryConditional: {
		{"CASE WHEN", "CASE WHEN condition THEN value ELSE default END", "Conditional logic"},
		{"IF", "CASE WHEN condition THEN true_value ELSE false_value END", "Simple condition"},
	},
}

var operators = []Snippet{
	{"+", "+", "Addition"},
	{"-", "-", "Subtraction"},
	{"*", "*", "Multiplication"},
	{"/", "/", "Division"},
	{"=", "=", "Equals"},
	{"!=", "!=", "Not equals"},
	{">", ">", "Greater than"},
	{"<", "<", "Less than"},
	{">=", ">=", "Greater or equal"},
	{"<=", "<=", "Less or equal"},
	{"AND", "AND", "Logical AND"},
	{"OR", "OR", "Logical OR"},
	{"NOT", "NOT", "Logical NOT"},
	{"BETWEEN", "BETWEEN", "Range check"},
	{"IN", "IN", "Value in list"},
}

var templates = []Template{
	{
		Name:        "Year over Year Growth %",
		Description: "Calculate percentage growth between two periods",
		Expression: `ROUND(
  (current_period_value - previous_period_value) * 100.0 
  / NULLIF(previous_period_value, 0), 2
) AS growth_percent`,
	},
	{
		Name:        "Month Number from Date",
		Description: "Extract month number (1-12) from various date formats",
		Expression: `CASE
  WHEN date_field ~ '^[0-9]{1,2}/[0-9]{4}$' THEN SPLIT_PART(date_field, '/', 1)::int
  WHEN date_field IN ('Jan','January') THEN 1
  WHEN date_field IN ('Feb','February') THEN 2
  /* Add more months as needed */
  ELSE EXTRACT(MONTH FROM date_field::date)
END AS month_number`,
	},
	{
		Name:        "Period Range Filter",
		Description: "Filter data for specific month ranges (e.g., Jan-Jun)",
		Expression: `CASE 
  WHEN year_field = 2024 AND month_field BETWEEN 1 AND 6 THEN value_field 
  ELSE 0 
END AS period_value`,
	},
	{
		Name:        "Running Total",
		Description: "Calculate running sum over ordered data",
		Expression: `SUM(value_field) OVER (
  PARTITION BY group_field 
  ORDER BY date_field 
  ROWS UNBOUNDED PRECEDING
) AS running_total`,
	},
}

// DefaultCatalog returns the snippets offered by the editor side panel.
func DefaultCatalog() Catalog {
	fns := make(map[FunctionCategory][]Snippet, len(functions))
	for k, v := range functions {
		fns[k] = append([]Snippet(nil), v...)
	}
	return Catalog{
		Categories: append([]FunctionCategory(nil), categories...),
		Functions:  fns,
		Operators:  append([]Snippet(nil), operators...),
		Templates:  append([]Template(nil), templates...),
	}
}

// FieldSnippets turns the draft's available fields into insertable qualified names.
func FieldSnippets(fields []domain.FieldReference) []Snippet {
	out := make([]Snippet, 0, len(fields))
	for _, f := range fields {
		out = append(out, Snippet{
			Name:        f.Label,
			Syntax:      f.Qualified(),
			Description: f.RawType,
		})
	}
	return out
}
