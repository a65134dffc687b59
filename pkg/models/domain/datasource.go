package domain

import "time"

type DataSource struct {
	ID               int64
	Name             string
	DBType           string
	Host             string
	Port             int
	Database         string
	Username         string
	ConnectionStatus string
	LastTested       *time.Time
	IsActive         bool
}

type ForeignKey struct {
	Name               string
	ConstrainedColumns []string
	ReferredTable      string
	ReferredColumns    []string
}

// Schema describes the tables of a data source as exposed by the schema service
// or by local inspection.
type Schema struct {
	Tables                 []string
	Views                  []string
	ColumnsByTable         map[string][]Column
	ForeignKeys            map[string][]ForeignKey
	SuggestedRelationships []Relationship
}

type ConnectionTest struct {
	Success bool
	Status  string
	Message string
}
