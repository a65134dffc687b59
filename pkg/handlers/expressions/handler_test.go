package expressions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/report-atlas/pkg/expression"
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler() *Handler {
	return NewHandler(expression.NewEngine(
		expression.WithClock(func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }),
		expression.WithIDGenerator(func() string { return "field-1" }),
	))
}

func TestListPatterns(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler().ListPatterns(rec, httptest.NewRequest(http.MethodGet, "/patterns", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var response []api.Pattern
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

	ids := make([]string, 0, len(response))
	for _, p := range response {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"month_extraction", "period_comparison", "date_parsing", "conditional_aggregation"}, ids)
}

func TestRender(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedName   string
		contains       []string
	}{
		{
			name:           "year extraction",
			body:           `{"pattern":"date_parsing","date_field":"orders.order_date","target":"year_extraction"}`,
			expectedStatus: http.StatusOK,
			expectedName:   "year_parsed",
			contains:       []string{"orders.order_date"},
		},
		{
			name:           "aggregation defaults to january through june",
			body:           `{"pattern":"conditional_aggregation","fields":[{"table":"sales","name":"amount","type":"DECIMAL"}]}`,
			expectedStatus: http.StatusOK,
			expectedName:   "period_total",
			contains:       []string{"sales.amount", "BETWEEN 1 AND 6", "2024"},
		},
		{
			name:           "invalid month range",
			body:           `{"pattern":"conditional_aggregation","months":{"start":9,"end":2}}`,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "unknown pattern",
			body:           `{"pattern":"forecast"}`,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "not json",
			body:           `pattern=month_extraction`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/expressions/render", bytes.NewBufferString(tt.body))
			newHandler().Render(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var response api.RenderResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
			assert.Equal(t, tt.expectedName, response.Field.Name)
			assert.Equal(t, "field-1", response.Field.ID)
			assert.Equal(t, response.Expression, response.Field.Expression)
			for _, s := range tt.contains {
				assert.Contains(t, response.Expression, s)
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler().Catalog(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var response api.Catalog
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Len(t, response.Functions, 5)
	assert.Len(t, response.Functions["aggregation"], 6)
	assert.Len(t, response.Operators, 15)
	assert.Equal(t, "Running Total", response.Templates[3].Name)
}
