package domain

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

type RelationshipReason string

const (
	ReasonForeignKey    RelationshipReason = "foreign_key"
	ReasonNamingPattern RelationshipReason = "naming_pattern"
)

const JoinTypeLeft = "LEFT JOIN"

// Relationship is a declared or suggested join between two selected tables.
type Relationship struct {
	SourceTable   string
	TargetTable   string
	SourceColumns []string
	TargetColumns []string
	JoinType      string
	Confidence    Confidence
	Reason        RelationshipReason
	Description   string
}
