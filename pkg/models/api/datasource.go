package api

import "time"

type DataSource struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	DBType           string     `json:"db_type"`
	Host             string     `json:"host"`
	Port             int        `json:"port"`
	Database         string     `json:"database"`
	Username         string     `json:"username"`
	Password         string     `json:"password,omitempty"`
	ConnectionStatus string     `json:"connection_status,omitempty"`
	LastTested       *time.Time `json:"last_tested,omitempty"`
	IsActive         bool       `json:"is_active"`
}

type ConnectionTest struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Label      string `json:"label"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
}

type ForeignKey struct {
	ConstrainedColumns []string `json:"constrained_columns"`
	ReferredTable      string   `json:"referred_table"`
	ReferredColumns    []string `json:"referred_columns"`
	Name               string   `json:"name"`
}

type Relationship struct {
	SourceTable   string   `json:"source_table"`
	TargetTable   string   `json:"target_table"`
	SourceColumns []string `json:"source_columns"`
	TargetColumns []string `json:"target_columns"`
	JoinType      string   `json:"join_type"`
	Confidence    string   `json:"confidence,omitempty"`
	Reason        string   `json:"reason,omitempty"`
	Description   string   `json:"description,omitempty"`
}

type Schema struct {
	Tables                 []string                `json:"tables"`
	Views                  []string                `json:"views"`
	Procedures             []string                `json:"procedures"`
	ColumnsByTable         map[string][]Column     `json:"columns_by_table"`
	ForeignKeys            map[string][]ForeignKey `json:"foreign_keys"`
	SuggestedRelationships []Relationship          `json:"suggested_relationships"`
}
