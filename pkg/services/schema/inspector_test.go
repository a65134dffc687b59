package schema

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspector_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT table_name, table_type FROM information_schema\.tables WHERE table_schema = \$1`).
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "table_type"}).
			AddRow("customers", "BASE TABLE").
			AddRow("orders", "BASE TABLE").
			AddRow("order_totals", "VIEW"))

	mock.ExpectQuery(`FROM information_schema\.columns WHERE table_schema = \$1 ORDER BY table_name, ordinal_position`).
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name", "data_type", "is_nullable"}).
			AddRow("customers", "id", "integer", "NO").
			AddRow("customers", "name", "text", "YES").
			AddRow("orders", "id", "integer", "NO").
			AddRow("orders", "customer_id", "integer", "YES").
			AddRow("orders", "sale_date", "date", "YES"))

	mock.ExpectQuery(`WHERE tc\.constraint_type = \$1 AND tc\.table_schema = \$2`).
		WithArgs("PRIMARY KEY", "public").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name"}).
			AddRow("customers", "id").
			AddRow("orders", "id"))

	mock.ExpectQuery(`JOIN information_schema\.constraint_column_usage ccu`).
		WithArgs("FOREIGN KEY", "public").
		WillReturnRows(sqlmock.NewRows([]string{"constraint_name", "table_name", "column_name", "ref_table", "ref_column"}).
			AddRow("orders_customer_id_fkey", "orders", "customer_id", "customers", "id"))

	inspector := NewInspector(db, Dialect{
		Name:        DialectPostgres,
		Schema:      "public",
		Placeholder: sq.Dollar,
		Keys:        KeysConstraintUsage,
	})

	schema, err := inspector.Inspect(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []string{"customers", "orders"}, schema.Tables)
	assert.Equal(t, []string{"order_totals"}, schema.Views)
	require.Len(t, schema.ColumnsByTable["orders"], 3)
	assert.True(t, schema.ColumnsByTable["orders"][0].PrimaryKey)
	assert.False(t, schema.ColumnsByTable["orders"][1].PrimaryKey)
	assert.True(t, schema.ColumnsByTable["orders"][1].Nullable)
	assert.Equal(t, []domain.ForeignKey{{
		Name:               "orders_customer_id_fkey",
		ConstrainedColumns: []string{"customer_id"},
		ReferredTable:      "customers",
		ReferredColumns:    []string{"id"},
	}}, schema.ForeignKeys["orders"])

	// the declared key and the naming pattern point in opposite directions
	require.Len(t, schema.SuggestedRelationships, 2)
	assert.Equal(t, domain.ReasonForeignKey, schema.SuggestedRelationships[0].Reason)
	assert.Equal(t, domain.ReasonNamingPattern, schema.SuggestedRelationships[1].Reason)
}

func TestInspector_MySQLReferencedColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM information_schema\.tables WHERE table_schema = \?`).
		WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "table_type"}).
			AddRow("lines", "BASE TABLE").
			AddRow("orders", "BASE TABLE"))
	mock.ExpectQuery(`FROM information_schema\.columns`).
		WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name", "data_type", "is_nullable"}).
			AddRow("lines", "order_id", "int", "NO").
			AddRow("lines", "order_rev", "int", "NO").
			AddRow("orders", "id", "int", "NO").
			AddRow("orders", "rev", "int", "NO"))
	mock.ExpectQuery(`PRIMARY KEY|constraint_type`).
		WithArgs("PRIMARY KEY", "shop").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name"}))
	mock.ExpectQuery(`referenced_table_name IS NOT NULL`).
		WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"constraint_name", "table_name", "column_name", "referenced_table_name", "referenced_column_name"}).
			AddRow("lines_order_fk", "lines", "order_id", "orders", "id").
			AddRow("lines_order_fk", "lines", "order_rev", "orders", "rev"))

	inspector := NewInspector(db, Dialect{Name: DialectMySQL, Schema: "shop", Keys: KeysReferencedColumns})

	schema, err := inspector.Inspect(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, schema.ForeignKeys["lines"], 1)
	fk := schema.ForeignKeys["lines"][0]
	assert.Equal(t, []string{"order_id", "order_rev"}, fk.ConstrainedColumns)
	assert.Equal(t, []string{"id", "rev"}, fk.ReferredColumns)
	require.NotEmpty(t, schema.SuggestedRelationships)
	assert.Equal(t, "Foreign key relationship: lines.order_id,order_rev → orders.id,rev",
		schema.SuggestedRelationships[0].Description)
}

func TestInspector_NoKeysSkipsConstraintQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM information_schema\.tables`).
		WithArgs("PUBLIC").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "table_type"}).AddRow("SALES", "BASE TABLE"))
	mock.ExpectQuery(`FROM information_schema\.columns`).
		WithArgs("PUBLIC").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name", "data_type", "is_nullable"}).
			AddRow("SALES", "AMOUNT", "NUMBER", "YES"))

	inspector := NewInspector(db, Dialect{Name: DialectSnowflake, Schema: "PUBLIC", Keys: KeysNone})

	schema, err := inspector.Inspect(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"SALES"}, schema.Tables)
	assert.Empty(t, schema.ForeignKeys)
	assert.Empty(t, schema.SuggestedRelationships)
}

func TestInspector_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("permission denied")
	mock.ExpectQuery(`FROM information_schema\.tables`).WillReturnError(boom)

	_, err = NewInspector(db, Dialect{Schema: "public"}).Inspect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to list tables")
}

func TestInspector_DuckDB(t *testing.T) {
	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE TABLE customers (id INTEGER PRIMARY KEY, name VARCHAR)`,
		`CREATE TABLE orders (id INTEGER, customer_id INTEGER, total DOUBLE)`,
		`CREATE VIEW big_orders AS SELECT * FROM orders WHERE total > 100`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	inspector := NewInspector(db, Dialect{Name: DialectDuckDB, Schema: "main", Keys: KeysNone})
	defer inspector.Close()

	schema, err := inspector.Inspect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"customers", "orders"}, schema.Tables)
	assert.Equal(t, []string{"big_orders"}, schema.Views)
	require.Len(t, schema.ColumnsByTable["orders"], 3)
	assert.Equal(t, "customer_id", schema.ColumnsByTable["orders"][1].Name)

	require.Len(t, schema.SuggestedRelationships, 1)
	assert.Equal(t, "Suggested based on naming pattern: customers.id → orders.customer_id",
		schema.SuggestedRelationships[0].Description)
}
