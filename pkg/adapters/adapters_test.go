package adapters

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDraftToReportRequest_Defaults(t *testing.T) {
	req := MapDraftToReportRequest(&domain.ReportDraft{Name: "Monthly sales"})

	assert.Equal(t, "PDF", req.ReportFormat)
	assert.Equal(t, "business_standard", req.Template)
	assert.Equal(t, "table", req.Layout)

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	for _, key := range []string{"data_sources", "table_relationships", "fields", "calculated_fields", "cte_definitions", "filters"} {
		assert.Equal(t, []any{}, payload[key], key)
	}
}

func TestMapDraftToReportRequest_CamelCaseEntries(t *testing.T) {
	d := &domain.ReportDraft{
		Name: "Sales",
		DataSources: []domain.TableSelection{
			{DataSourceID: 3, TableName: "sales", Columns: []domain.Column{{Name: "amount", Type: "numeric"}}},
		},
		CalculatedFields: []domain.CalculatedField{
			{ID: "f1", Name: "month_number", Expression: "1", DataType: domain.DataTypeNumeric, Provenance: domain.ProvenanceWizard, IsValid: true},
		},
	}

	raw, err := json.Marshal(MapDraftToReportRequest(d))
	require.NoError(t, err)

	var payload struct {
		DataSources      []map[string]any `json:"data_sources"`
		CalculatedFields []map[string]any `json:"calculated_fields"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.Len(t, payload.DataSources, 1)
	assert.EqualValues(t, 3, payload.DataSources[0]["dataSourceId"])
	assert.Equal(t, "sales", payload.DataSources[0]["tableName"])
	assert.Equal(t, []any{}, payload.DataSources[0]["joins"])
	require.Len(t, payload.CalculatedFields, 1)
	assert.Equal(t, "numeric", payload.CalculatedFields[0]["dataType"])
	assert.Equal(t, "date_intelligence_wizard", payload.CalculatedFields[0]["generatedBy"])
	assert.Equal(t, true, payload.CalculatedFields[0]["isValid"])
}

func TestMapScheduleToRequest(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		settings    domain.ScheduleSettings
		wantWeekday *int
		wantMonth   *int
	}{
		{
			name:     "daily",
			settings: domain.ScheduleSettings{Frequency: domain.FrequencyDaily, DayOfWeek: "friday", DayOfMonth: 5},
		},
		{
			name:        "weekly",
			settings:    domain.ScheduleSettings{Frequency: domain.FrequencyWeekly, DayOfWeek: "Friday", DayOfMonth: 5},
			wantWeekday: intPtr(4),
		},
		{
			name:      "monthly without day",
			settings:  domain.ScheduleSettings{Frequency: domain.FrequencyMonthly},
			wantMonth: intPtr(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := MapScheduleToRequest(7, tt.settings, now)
			assert.Equal(t, int64(7), req.Report)
			assert.True(t, req.IsEnabled)
			assert.Equal(t, "09:00", req.Time)
			assert.Equal(t, "UTC", req.Timezone)
			assert.Equal(t, "2025-03-14", req.StartDate)
			assert.Equal(t, tt.wantWeekday, req.DayOfWeek)
			assert.Equal(t, tt.wantMonth, req.DayOfMonth)
		})
	}
}

func TestMapEmailToRequest_Defaults(t *testing.T) {
	req := MapEmailToRequest(1, domain.EmailSettings{
		Enabled:    true,
		Recipients: []domain.Recipient{{Name: "Ann", Email: "ann@example.com"}},
	})
	assert.Equal(t, "Report", req.SubjectTemplate)
	assert.Equal(t, "Attached is your requested report.", req.BodyTemplate)
	assert.Equal(t, "PDF", req.AttachFormat)
	assert.Len(t, req.Recipients, 1)
}

func TestDraftStoreRoundTrip(t *testing.T) {
	reportID := int64(42)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	d := &domain.ReportDraft{
		ID:        "d-1",
		Name:      "Sales",
		ReportID:  &reportID,
		CreatedAt: created,
		UpdatedAt: created,
		DataSources: []domain.TableSelection{
			{DataSourceID: 1, TableName: "sales", Columns: []domain.Column{{Name: "sale_date", Label: "sale_date", Type: "DATE"}}},
		},
		CalculatedFields: []domain.CalculatedField{{ID: "x", Name: "n", Expression: "1", DataType: domain.DataTypeNumeric, Provenance: domain.ProvenanceManual}},
		Schedule:         domain.ScheduleSettings{Enabled: true, Frequency: domain.FrequencyWeekly, DayOfWeek: "monday"},
	}

	row, err := MapDomainDraftToStore(d)
	require.NoError(t, err)
	back, err := MapStoreDraftToDomain(row)
	require.NoError(t, err)

	assert.Equal(t, d.ID, back.ID)
	assert.Equal(t, d.DataSources, back.DataSources)
	assert.Equal(t, d.CalculatedFields, back.CalculatedFields)
	assert.Equal(t, d.Schedule, back.Schedule)
	assert.Equal(t, &reportID, back.ReportID)
}

func intPtr(v int) *int { return &v }
