package execution

import (
	"context"
	"testing"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/de-tools/report-atlas/pkg/store/duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) Store {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	s, err := NewStore(db)
	require.NoError(t, err)
	return s
}

func TestNewStore_NilDB(t *testing.T) {
	s, err := NewStore(nil)
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestStore_RecordAndList(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	failure := "Report generation failed"

	records := []*store.ExecutionRecord{
		{ExecutionID: 1, ReportID: 10, Status: "running", StartedAt: base, UpdatedAt: base},
		{ExecutionID: 2, ReportID: 10, Status: "failed", Error: &failure, StartedAt: base, UpdatedAt: base.Add(time.Minute)},
		{ExecutionID: 3, ReportID: 11, Status: "completed", FileURL: "http://media/reports/3.pdf", StartedAt: base, UpdatedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range records {
		require.NoError(t, s.Record(ctx, r))
	}

	// a later poll replaces the running row
	require.NoError(t, s.Record(ctx, &store.ExecutionRecord{
		ExecutionID: 1, ReportID: 10, Status: "completed", FileURL: "#", StartedAt: base, UpdatedAt: base.Add(3 * time.Minute),
	}))

	t.Run("all", func(t *testing.T) {
		got, err := s.List(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, int64(1), got[0].ExecutionID)
		assert.Equal(t, "completed", got[0].Status)
	})

	t.Run("by report", func(t *testing.T) {
		reportID := int64(10)
		got, err := s.List(ctx, Filter{ReportID: &reportID})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("by status with limit", func(t *testing.T) {
		got, err := s.List(ctx, Filter{Statuses: []string{"completed"}, Limit: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].ExecutionID)
	})

	t.Run("error message", func(t *testing.T) {
		got, err := s.List(ctx, Filter{Statuses: []string{"failed"}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NotNil(t, got[0].Error)
		assert.Equal(t, failure, *got[0].Error)
	})
}

func TestStore_Get(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, &store.ExecutionRecord{
		ExecutionID: 7, ReportID: 3, Status: "completed", FileURL: "http://media/reports/7.csv", StartedAt: base, UpdatedAt: base,
	}))

	got, err := s.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ReportID)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, "http://media/reports/7.csv", got.FileURL)
	assert.Nil(t, got.Error)

	_, err = s.Get(ctx, 8)
	assert.ErrorIs(t, err, ErrExecutionNotFound)
}

func TestStore_RecordKeepsStartedAt(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	started := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	finished := started.Add(5 * time.Minute)

	require.NoError(t, s.Record(ctx, &store.ExecutionRecord{
		ExecutionID: 1, ReportID: 10, Status: "running", StartedAt: started, UpdatedAt: started,
	}))
	// the final poll carries no start time of its own and falls back to now
	require.NoError(t, s.Record(ctx, &store.ExecutionRecord{
		ExecutionID: 1, ReportID: 10, Status: "completed", FileURL: "#", StartedAt: finished, UpdatedAt: finished,
	}))

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.True(t, started.Equal(got.StartedAt), "started_at %s, want %s", got.StartedAt, started)
	assert.True(t, finished.Equal(got.UpdatedAt), "updated_at %s, want %s", got.UpdatedAt, finished)
}
