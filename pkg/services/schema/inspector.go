package schema

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Inspector reads the tables, columns and keys of one database schema.
type Inspector interface {
	Inspect(ctx context.Context) (*domain.Schema, error)
	Close() error
}

type sqlInspector struct {
	db      *sql.DB
	dialect Dialect
	builder sq.StatementBuilderType
}

func NewInspector(db *sql.DB, dialect Dialect) Inspector {
	placeholder := dialect.Placeholder
	if placeholder == nil {
		placeholder = sq.Question
	}
	return &sqlInspector{
		db:      db,
		dialect: dialect,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

func (i *sqlInspector) Inspect(ctx context.Context) (*domain.Schema, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("dialect", i.dialect.Name).
		Str("schema", i.dialect.Schema).
		Logger()

	tables, views, err := i.relations(ctx)
	if err != nil {
		return nil, err
	}

	columns, err := i.columns(ctx)
	if err != nil {
		return nil, err
	}

	foreignKeys := map[string][]domain.ForeignKey{}
	if i.dialect.Keys != KeysNone {
		if err := i.markPrimaryKeys(ctx, columns); err != nil {
			return nil, err
		}
		if foreignKeys, err = i.foreignKeys(ctx); err != nil {
			return nil, err
		}
	}

	logger.Debug().
		Int("tables", len(tables)).
		Int("views", len(views)).
		Msg("schema inspected")

	return &domain.Schema{
		Tables:                 tables,
		Views:                  views,
		ColumnsByTable:         columns,
		ForeignKeys:            foreignKeys,
		SuggestedRelationships: SuggestRelationships(tables, columns, foreignKeys),
	}, nil
}

func (i *sqlInspector) Close() error {
	return i.db.Close()
}

func (i *sqlInspector) relations(ctx context.Context) (tables, views []string, err error) {
	query := i.builder.
		Select("table_name", "table_type").
		From("information_schema.tables").
		Where(sq.Eq{"table_schema": i.dialect.Schema}).
		OrderBy("table_name")

	rows, err := i.query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, nil, fmt.Errorf("failed to scan table: %w", err)
		}
		if strings.Contains(strings.ToUpper(kind), "VIEW") {
			views = append(views, name)
		} else {
			tables = append(tables, name)
		}
	}
	return tables, views, rows.Err()
}

func (i *sqlInspector) columns(ctx context.Context) (map[string][]domain.Column, error) {
	query := i.builder.
		Select("table_name", "column_name", "data_type", "is_nullable").
		From("information_schema.columns").
		Where(sq.Eq{"table_schema": i.dialect.Schema}).
		OrderBy("table_name", "ordinal_position")

	rows, err := i.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer rows.Close()

	columns := map[string][]domain.Column{}
	for rows.Next() {
		var table, name, dataType, nullable string
		if err := rows.Scan(&table, &name, &dataType, &nullable); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns[table] = append(columns[table], domain.Column{
			Name:     name,
			Label:    name,
			Type:     dataType,
			Nullable: strings.EqualFold(nullable, "YES"),
		})
	}
	return columns, rows.Err()
}

func (i *sqlInspector) markPrimaryKeys(ctx context.Context, columns map[string][]domain.Column) error {
	query := i.builder.
		Select("kcu.table_name", "kcu.column_name").
		From("information_schema.table_constraints tc").
		Join("information_schema.key_column_usage kcu ON kcu.constraint_name = tc.constraint_name" +
			" AND kcu.table_schema = tc.table_schema AND kcu.table_name = tc.table_name").
		Where(sq.Eq{"tc.constraint_type": "PRIMARY KEY", "tc.table_schema": i.dialect.Schema})

	rows, err := i.query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to list primary keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return fmt.Errorf("failed to scan primary key: %w", err)
		}
		for n := range columns[table] {
			if columns[table][n].Name == column {
				columns[table][n].PrimaryKey = true
			}
		}
	}
	return rows.Err()
}

func (i *sqlInspector) foreignKeys(ctx context.Context) (map[string][]domain.ForeignKey, error) {
	var query sq.SelectBuilder
	switch i.dialect.Keys {
	case KeysReferencedColumns:
		query = i.builder.
			Select("constraint_name", "table_name", "column_name", "referenced_table_name", "referenced_column_name").
			From("information_schema.key_column_usage").
			Where(sq.And{
				sq.Eq{"table_schema": i.dialect.Schema},
				sq.NotEq{"referenced_table_name": nil},
			}).
			OrderBy("table_name", "constraint_name", "ordinal_position")
	default:
		query = i.builder.
			Select("tc.constraint_name", "kcu.table_name", "kcu.column_name", "ccu.table_name", "ccu.column_name").
			From("information_schema.table_constraints tc").
			Join("information_schema.key_column_usage kcu ON kcu.constraint_name = tc.constraint_name" +
				" AND kcu.table_schema = tc.table_schema").
			Join("information_schema.constraint_column_usage ccu ON ccu.constraint_name = tc.constraint_name" +
				" AND ccu.table_schema = tc.table_schema").
			Where(sq.Eq{"tc.constraint_type": "FOREIGN KEY", "tc.table_schema": i.dialect.Schema}).
			OrderBy("kcu.table_name", "tc.constraint_name", "kcu.ordinal_position")
	}

	rows, err := i.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list foreign keys: %w", err)
	}
	defer rows.Close()

	keys := map[string][]domain.ForeignKey{}
	for rows.Next() {
		var name, table, column, refTable, refColumn string
		if err := rows.Scan(&name, &table, &column, &refTable, &refColumn); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}

		fks := keys[table]
		if len(fks) == 0 || fks[len(fks)-1].Name != name {
			fks = append(fks, domain.ForeignKey{Name: name, ReferredTable: refTable})
		}
		fk := &fks[len(fks)-1]
		// composite keys repeat rows across the two usage views
		if !slices.Contains(fk.ConstrainedColumns, column) {
			fk.ConstrainedColumns = append(fk.ConstrainedColumns, column)
		}
		if !slices.Contains(fk.ReferredColumns, refColumn) {
			fk.ReferredColumns = append(fk.ReferredColumns, refColumn)
		}
		keys[table] = fks
	}
	return keys, rows.Err()
}

func (i *sqlInspector) query(ctx context.Context, b sq.SelectBuilder) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return i.db.QueryContext(ctx, query, args...)
}
