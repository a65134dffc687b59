package expression

import (
	"fmt"
	"strings"
)

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func renderMonthExtraction(field string) string {
	f := quoteIdent(field)
	return fmt.Sprintf(`CASE
  WHEN %[1]s ~ '^[0-9]{1,2}/[0-9]{4}$' THEN SPLIT_PART(%[1]s, '/', 1)::int
  WHEN %[1]s IN ('Jan','January') THEN 1
  WHEN %[1]s IN ('Feb','February') THEN 2
  WHEN %[1]s IN ('Mar','March') THEN 3
  WHEN %[1]s IN ('Apr','April') THEN 4
  WHEN %[1]s = 'May' THEN 5
  WHEN %[1]s IN ('Jun','June') THEN 6
  WHEN %[1]s IN ('Jul','July') THEN 7
  WHEN %[1]s IN ('Aug','August') THEN 8
  WHEN %[1]s IN ('Sep','Sept','September') THEN 9
  WHEN %[1]s IN ('Oct','October') THEN 10
  WHEN %[1]s IN ('Nov','November') THEN 11
  WHEN %[1]s IN ('Dec','December') THEN 12
  ELSE
    CASE
      WHEN %[1]s::text ~ '^[0-9]{4}-[0-9]{1,2}' THEN EXTRACT(MONTH FROM %[1]s::date)
      ELSE NULL
    END
END`, f)
}

func periodSum(year int, months MonthRange, value string) string {
	return fmt.Sprintf(
		"SUM(CASE WHEN year_field = %d AND month_field BETWEEN %d AND %d THEN %s ELSE 0 END)",
		year, months.Start, months.End, value,
	)
}

func renderYearOverYear(currentYear int, months MonthRange, value string) string {
	current := periodSum(currentYear, months, value)
	previous := periodSum(currentYear-1, months, value)

	var b strings.Builder
	b.WriteString("ROUND(\n")
	fmt.Fprintf(&b, "  (%s - \n   %s) * 100.0 \n", current, previous)
	fmt.Fprintf(&b, "  / NULLIF(%s, 0), 2\n", previous)
	b.WriteString(")")
	return b.String()
}

func renderCustomPeriods() string {
	return `ROUND(
  (current_period_value - previous_period_value) * 100.0 
  / NULLIF(previous_period_value, 0), 2
)`
}

func renderYearExtraction(field string) string {
	f := quoteIdent(field)
	return fmt.Sprintf(`CASE
  WHEN %[1]s ~ '^[0-9]{4}' THEN SUBSTRING(%[1]s, 1, 4)::int
  WHEN %[1]s ~ '/[0-9]{4}$' THEN SUBSTRING(%[1]s, LENGTH(%[1]s) - 3, 4)::int
  ELSE EXTRACT(YEAR FROM %[1]s::date)
END`, f)
}

// quarterBuckets are exhaustive and mutually exclusive over months 1-12.
var quarterBuckets = [4]MonthRange{{1, 3}, {4, 6}, {7, 9}, {10, 12}}

func renderQuarterExtraction(field string) string {
	month := fmt.Sprintf("EXTRACT(MONTH FROM %s::date)", quoteIdent(field))

	var b strings.Builder
	b.WriteString("CASE\n")
	for i, q := range quarterBuckets {
		fmt.Fprintf(&b, "  WHEN %s BETWEEN %d AND %d THEN %d\n", month, q.Start, q.End, i+1)
	}
	b.WriteString("  ELSE NULL\nEND")
	return b.String()
}

func renderDateCast(field string) string {
	return quoteIdent(field) + "::date"
}

func renderConditionalAggregation(months MonthRange, value string) string {
	return fmt.Sprintf(`SUM(CASE 
  WHEN year_field = %d AND month_field BETWEEN %d AND %d THEN %s 
  ELSE 0 
END)`, AggregationYear, months.Start, months.End, value)
}
