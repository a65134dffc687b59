package execution

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/de-tools/report-atlas/pkg/store/duckdb"
)

var ErrExecutionNotFound = errors.New("execution not found in history")

var historyColumns = []string{"execution_id", "report_id", "status", "file_url", "error", "started_at", "updated_at"}

// Store keeps a local history of report executions started or polled from this machine.
type Store interface {
	Record(ctx context.Context, record *store.ExecutionRecord) error
	Get(ctx context.Context, executionID int64) (*store.ExecutionRecord, error)
	List(ctx context.Context, filter Filter) ([]*store.ExecutionRecord, error)
}

type Filter struct {
	ReportID *int64
	Statuses []string
	Limit    uint64
}

type historyStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &historyStore{db: db}, nil
}

// Record upserts the latest snapshot of an execution. The earliest known
// started_at wins.
func (s *historyStore) Record(ctx context.Context, r *store.ExecutionRecord) error {
	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO execution_history
			(execution_id, report_id, status, file_url, error, started_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (execution_id) DO UPDATE SET
			report_id = excluded.report_id,
			status = excluded.status,
			file_url = excluded.file_url,
			error = excluded.error,
			started_at = LEAST(execution_history.started_at, excluded.started_at),
			updated_at = excluded.updated_at`,
		r.ExecutionID, r.ReportID, r.Status, r.FileURL, nullString(r.Error), r.StartedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record execution %d: %w", r.ExecutionID, err)
	}
	return nil
}

func (s *historyStore) Get(ctx context.Context, executionID int64) (*store.ExecutionRecord, error) {
	query, args, err := sq.Select(historyColumns...).
		From("execution_history").
		Where(sq.Eq{"execution_id": executionID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build history query: %w", err)
	}

	r, err := scanRecord(duckdb.Conn(ctx, s.db).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrExecutionNotFound, executionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get execution %d: %w", executionID, err)
	}
	return r, nil
}

func (s *historyStore) List(ctx context.Context, filter Filter) ([]*store.ExecutionRecord, error) {
	q := sq.Select(historyColumns...).
		From("execution_history").
		OrderBy("updated_at DESC", "execution_id DESC")
	if filter.ReportID != nil {
		q = q.Where(sq.Eq{"report_id": *filter.ReportID})
	}
	if len(filter.Statuses) > 0 {
		q = q.Where(sq.Eq{"status": filter.Statuses})
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build history query: %w", err)
	}

	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	defer rows.Close()

	var records []*store.ExecutionRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*store.ExecutionRecord, error) {
	var (
		r       store.ExecutionRecord
		fileURL sql.NullString
		errMsg  sql.NullString
	)
	if err := row.Scan(&r.ExecutionID, &r.ReportID, &r.Status, &fileURL, &errMsg, &r.StartedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.FileURL = fileURL.String
	if errMsg.Valid {
		msg := errMsg.String
		r.Error = &msg
	}
	return &r, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
