package domain

type Provenance string

const (
	ProvenanceManual Provenance = "manual"
	ProvenanceWizard Provenance = "date_intelligence_wizard"
)

type DataType string

const (
	DataTypeNumeric DataType = "numeric"
	DataTypeText    DataType = "text"
	DataTypeDate    DataType = "date"
	DataTypeBoolean DataType = "boolean"
)

// CalculatedField is a derived report column defined by a SQL expression.
type CalculatedField struct {
	ID          string
	Name        string
	Label       string
	Expression  string
	DataType    DataType
	Description string
	Provenance  Provenance
	IsValid     bool
}

// Ready reports whether the field may be appended to a draft.
func (f CalculatedField) Ready() bool {
	return f.Name != "" && f.Expression != ""
}
