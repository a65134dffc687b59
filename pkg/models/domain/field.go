package domain

import (
	"fmt"
	"strings"
)

type SemanticType string

const (
	SemanticTypeNumeric  SemanticType = "numeric"
	SemanticTypeText     SemanticType = "text"
	SemanticTypeDateTime SemanticType = "datetime"
	SemanticTypeCurrency SemanticType = "currency"
	SemanticTypeBoolean  SemanticType = "boolean"
)

// ClassifyType maps a raw column type reported by a data source (e.g. "INTEGER",
// "numeric(12,2)", "timestamp without time zone") to a SemanticType.
func ClassifyType(raw string) SemanticType {
	t := strings.ToLower(raw)
	switch {
	case strings.Contains(t, "money") || strings.Contains(t, "currency"):
		return SemanticTypeCurrency
	case strings.Contains(t, "bool"):
		return SemanticTypeBoolean
	case strings.Contains(t, "date") || strings.Contains(t, "time"):
		return SemanticTypeDateTime
	case isIntegerType(t),
		strings.Contains(t, "numeric"),
		strings.Contains(t, "decimal"),
		strings.Contains(t, "float"),
		strings.Contains(t, "double"),
		strings.Contains(t, "real"),
		strings.Contains(t, "number"):
		return SemanticTypeNumeric
	default:
		return SemanticTypeText
	}
}

var integerTypes = map[string]bool{
	"int": true, "integer": true, "bigint": true, "smallint": true, "tinyint": true,
	"mediumint": true, "hugeint": true, "ubigint": true, "uinteger": true,
	"usmallint": true, "utinyint": true, "int2": true, "int4": true, "int8": true,
	"int16": true, "int32": true, "int64": true, "serial": true, "bigserial": true,
}

// isIntegerType matches whole type tokens so that interval or point do not
// count as integers.
func isIntegerType(t string) bool {
	tokens := strings.FieldsFunc(t, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	for _, tok := range tokens {
		if integerTypes[tok] {
			return true
		}
	}
	return false
}

// FieldReference identifies a column of a selected table.
type FieldReference struct {
	Table   string
	Name    string
	Label   string
	RawType string
	Type    SemanticType
}

func NewFieldReference(table string, col Column) FieldReference {
	label := col.Label
	if label == "" {
		label = col.Name
	}
	return FieldReference{
		Table:   table,
		Name:    col.Name,
		Label:   label,
		RawType: col.Type,
		Type:    ClassifyType(col.Type),
	}
}

func (f FieldReference) ID() string {
	return f.Qualified()
}

func (f FieldReference) Qualified() string {
	if f.Table == "" {
		return f.Name
	}
	return fmt.Sprintf("%s.%s", f.Table, f.Name)
}

// IsDateLike reports whether the field can feed the date intelligence patterns.
// Columns stored as text but named like dates (sale_month, fiscal_year) count too.
func (f FieldReference) IsDateLike() bool {
	raw := strings.ToLower(f.RawType)
	name := strings.ToLower(f.Name)
	return strings.Contains(raw, "date") ||
		strings.Contains(raw, "time") ||
		strings.Contains(name, "date") ||
		strings.Contains(name, "month") ||
		strings.Contains(name, "year")
}

func (f FieldReference) IsValueLike() bool {
	return f.Type == SemanticTypeNumeric || f.Type == SemanticTypeCurrency
}

func (f FieldReference) String() string {
	return fmt.Sprintf("%s (%s)", f.Qualified(), f.RawType)
}
