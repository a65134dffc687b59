package relationships

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		check      func(t *testing.T, got []api.Relationship)
	}{
		{
			name: "foreign key first",
			body: `{
				"tables": ["customers", "orders"],
				"columns_by_table": {
					"customers": [{"name": "id"}],
					"orders": [{"name": "id"}, {"name": "customer_id"}]
				},
				"foreign_keys": {
					"orders": [{"constrained_columns": ["customer_id"], "referred_table": "customers", "referred_columns": ["id"]}]
				}
			}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, got []api.Relationship) {
				require.NotEmpty(t, got)
				assert.Equal(t, "orders", got[0].SourceTable)
				assert.Equal(t, "customers", got[0].TargetTable)
				assert.Equal(t, "foreign_key", got[0].Reason)
				assert.Equal(t, "high", got[0].Confidence)
				assert.Equal(t, "LEFT JOIN", got[0].JoinType)
			},
		},
		{
			name:       "no tables",
			body:       `{"tables": []}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, got []api.Relationship) {
				assert.Empty(t, got)
			},
		},
		{
			name:       "malformed body",
			body:       `{"tables":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/relationships/suggest", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			NewHandler().Suggest(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.check == nil {
				return
			}
			var got []api.Relationship
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			tt.check(t, got)
		})
	}
}
