package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/de-tools/report-atlas/pkg/store/duckdb"
	"github.com/rs/zerolog"
)

var ErrDraftNotFound = errors.New("draft not found")

type Store interface {
	Create(ctx context.Context, draft *store.Draft) error
	Get(ctx context.Context, id string) (*store.Draft, error)
	List(ctx context.Context) ([]*store.Draft, error)
	Save(ctx context.Context, draft *store.Draft) error
	Delete(ctx context.Context, id string) error
}

type draftStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &draftStore{db: db}, nil
}

func (s *draftStore) Create(ctx context.Context, d *store.Draft) error {
	logger := zerolog.Ctx(ctx)
	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO report_drafts (id, name, payload, report_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, string(d.Payload), nullInt64(d.ReportID), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert draft %s: %w", d.ID, err)
	}
	logger.Debug().Str("draft", d.ID).Msg("draft created")
	return nil
}

func (s *draftStore) Get(ctx context.Context, id string) (*store.Draft, error) {
	row := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, name, CAST(payload AS VARCHAR), report_id, created_at, updated_at
		FROM report_drafts
		WHERE id = ?`, id)

	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft %s: %w", id, err)
	}
	return d, nil
}

func (s *draftStore) List(ctx context.Context) ([]*store.Draft, error) {
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT id, name, CAST(payload AS VARCHAR), report_id, created_at, updated_at
		FROM report_drafts
		ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*store.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

func (s *draftStore) Save(ctx context.Context, d *store.Draft) error {
	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `
		UPDATE report_drafts
		SET name = ?, payload = ?, report_id = ?, updated_at = ?
		WHERE id = ?`,
		d.Name, string(d.Payload), nullInt64(d.ReportID), d.UpdatedAt, d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft %s: %w", d.ID, err)
	}
	return requireAffected(res, d.ID)
}

func (s *draftStore) Delete(ctx context.Context, id string) error {
	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM report_drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	return requireAffected(res, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(row scanner) (*store.Draft, error) {
	var (
		d        store.Draft
		payload  sql.NullString
		reportID sql.NullInt64
	)
	if err := row.Scan(&d.ID, &d.Name, &payload, &reportID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if payload.Valid {
		d.Payload = []byte(payload.String)
	}
	if reportID.Valid {
		id := reportID.Int64
		d.ReportID = &id
	}
	return &d, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	return nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
