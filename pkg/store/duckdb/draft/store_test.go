package draft

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/de-tools/report-atlas/pkg/store/duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{db: db, store: s}
}

func newDraft(id string, updated time.Time) *store.Draft {
	return &store.Draft{
		ID:        id,
		Name:      "draft " + id,
		Payload:   []byte(`{"name":"draft ` + id + `"}`),
		CreatedAt: updated,
		UpdatedAt: updated,
	}
}

func TestNewStore(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		assert.NotNil(t, f.store)
	})

	t.Run("nil db", func(t *testing.T) {
		s, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestStore_CreateAndGet(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, f.store.Create(ctx, newDraft("a", now)))

	got, err := f.store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "draft a", got.Name)
	assert.JSONEq(t, `{"name":"draft a"}`, string(got.Payload))
	assert.Nil(t, got.ReportID)
	assert.True(t, now.Equal(got.UpdatedAt.UTC()))

	_, err = f.store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestStore_SaveAndList(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	base := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, f.store.Create(ctx, newDraft("old", base)))
	require.NoError(t, f.store.Create(ctx, newDraft("new", base.Add(time.Hour))))

	reportID := int64(17)
	updated := newDraft("old", base.Add(2*time.Hour))
	updated.Name = "renamed"
	updated.ReportID = &reportID
	require.NoError(t, f.store.Save(ctx, updated))

	drafts, err := f.store.List(ctx)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "old", drafts[0].ID)
	assert.Equal(t, "renamed", drafts[0].Name)
	require.NotNil(t, drafts[0].ReportID)
	assert.Equal(t, int64(17), *drafts[0].ReportID)

	err = f.store.Save(ctx, newDraft("ghost", base))
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestStore_Delete(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Create(ctx, newDraft("a", time.Now())))
	require.NoError(t, f.store.Delete(ctx, "a"))
	assert.ErrorIs(t, f.store.Delete(ctx, "a"), ErrDraftNotFound)

	drafts, err := f.store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}
