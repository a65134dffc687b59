package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Schema(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	err := r.Schema(&domain.Schema{
		Tables: []string{"orders"},
		Views:  []string{"monthly_sales"},
		ColumnsByTable: map[string][]domain.Column{
			"orders": {{Name: "id", Type: "integer", PrimaryKey: true}, {Name: "note", Type: "text", Nullable: true}},
		},
		ForeignKeys: map[string][]domain.ForeignKey{
			"orders": {{ConstrainedColumns: []string{"customer_id"}, ReferredTable: "customers", ReferredColumns: []string{"id"}}},
		},
		SuggestedRelationships: []domain.Relationship{{Confidence: domain.ConfidenceHigh, Description: "Foreign key relationship"}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Tables: 1, Views: 1")
	assert.Contains(t, out, "  id integer PK NOT NULL\n")
	assert.Contains(t, out, "  note text\n")
	assert.Contains(t, out, "FK customer_id -> customers(id)")
	assert.Contains(t, out, "Views: monthly_sales")
	assert.Contains(t, out, "[high] Foreign key relationship")
}

func TestReporter_Tables(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	updated := time.Date(2025, 3, 14, 9, 5, 0, 0, time.UTC)
	require.NoError(t, r.History([]*store.ExecutionRecord{{ExecutionID: 7, ReportID: 3, Status: "completed", UpdatedAt: updated}}))
	require.NoError(t, r.Users([]domain.User{{ID: 1, Username: "ana", Email: "ana@example.com", Role: "admin", IsActive: false}}))

	out := buf.String()
	assert.Contains(t, out, "#3 2025-03-14 09:05")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "ana <ana@example.com> admin")
	assert.Contains(t, out, "inactive")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a very ...", truncate("a very long name", 10))
}
