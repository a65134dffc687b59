package schema

import (
	"testing"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cols(names ...string) []domain.Column {
	out := make([]domain.Column, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Column{Name: n, Label: n, Type: "integer"})
	}
	return out
}

func TestSuggestRelationships_ForeignKeysFirst(t *testing.T) {
	tables := []string{"customers", "orders"}
	columns := map[string][]domain.Column{
		"customers": cols("id", "name"),
		"orders":    cols("id", "customer_id", "total"),
	}
	fks := map[string][]domain.ForeignKey{
		"orders": {{Name: "orders_customer_fk", ConstrainedColumns: []string{"customer_id"}, ReferredTable: "customers", ReferredColumns: []string{"id"}}},
	}

	got := SuggestRelationships(tables, columns, fks)
	require.Len(t, got, 1)

	fk := got[0]
	assert.Equal(t, "orders", fk.SourceTable)
	assert.Equal(t, "customers", fk.TargetTable)
	assert.Equal(t, domain.ConfidenceHigh, fk.Confidence)
	assert.Equal(t, domain.ReasonForeignKey, fk.Reason)
	assert.Equal(t, "LEFT JOIN", fk.JoinType)
	assert.Equal(t, "Foreign key relationship: orders.customer_id → customers.id", fk.Description)
}

func TestSuggestRelationships_NamingPatterns(t *testing.T) {
	tables := []string{"customers", "orders"}
	columns := map[string][]domain.Column{
		"customers": cols("id", "name"),
		"orders":    cols("id", "customer_id", "total"),
	}

	got := SuggestRelationships(tables, columns, nil)
	require.Len(t, got, 1)
	assert.Equal(t, domain.Relationship{
		SourceTable:   "customers",
		TargetTable:   "orders",
		SourceColumns: []string{"id"},
		TargetColumns: []string{"customer_id"},
		JoinType:      "LEFT JOIN",
		Confidence:    domain.ConfidenceMedium,
		Reason:        domain.ReasonNamingPattern,
		Description:   "Suggested based on naming pattern: customers.id → orders.customer_id",
	}, got[0])
}

func TestSuggestRelationships_ReverseDirection(t *testing.T) {
	// t1 < t2 lexically, the key lives on t1
	tables := []string{"invoices", "vendors"}
	columns := map[string][]domain.Column{
		"invoices": cols("id", "vendor_id"),
		"vendors":  cols("id"),
	}

	got := SuggestRelationships(tables, columns, nil)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"vendor_id"}, got[0].SourceColumns)
	assert.Equal(t, []string{"id"}, got[0].TargetColumns)
}

func TestSuggestRelationships_IgnoresUnknownAndSelf(t *testing.T) {
	tables := []string{"orders"}
	columns := map[string][]domain.Column{"orders": cols("id", "orders_id")}
	fks := map[string][]domain.ForeignKey{
		"orders": {{ConstrainedColumns: []string{"customer_id"}, ReferredTable: "customers", ReferredColumns: []string{"id"}}},
	}

	assert.Empty(t, SuggestRelationships(tables, columns, fks))
}

func TestSuggestRelationships_NoDuplicateForPluralAndSingular(t *testing.T) {
	// "user" has no trailing s, so the plain and singular patterns coincide
	tables := []string{"profile", "user"}
	columns := map[string][]domain.Column{
		"profile": cols("id", "user_id"),
		"user":    cols("id", "profile_id"),
	}

	got := SuggestRelationships(tables, columns, nil)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"id"}, got[0].SourceColumns)
	assert.Equal(t, []string{"profile_id"}, got[0].TargetColumns)
	assert.Equal(t, []string{"user_id"}, got[1].SourceColumns)
	assert.Equal(t, []string{"id"}, got[1].TargetColumns)
}
