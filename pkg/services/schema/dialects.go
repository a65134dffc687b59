package schema

import (
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/databricks/databricks-sql-go"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb/v2"
	sf "github.com/snowflakedb/gosnowflake"
)

const (
	DialectPostgres   = "postgresql"
	DialectMySQL      = "mysql"
	DialectSnowflake  = "snowflake"
	DialectDatabricks = "databricks"
	DialectDuckDB     = "duckdb"
)

// KeyMode selects how primary and foreign keys are read for a dialect.
type KeyMode int

const (
	// KeysNone skips key discovery; relationships come from naming only.
	KeysNone KeyMode = iota
	// KeysConstraintUsage joins table_constraints with constraint_column_usage.
	KeysConstraintUsage
	// KeysReferencedColumns reads key_column_usage.referenced_* columns.
	KeysReferencedColumns
)

// Dialect captures the per-database differences the inspector cares about.
type Dialect struct {
	Name        string
	Schema      string
	Placeholder sq.PlaceholderFormat
	Keys        KeyMode
}

func PostgresFactory(profilePath string) (Inspector, error) {
	p, err := LoadProfile(profilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	port := p.Port
	if port == 0 {
		port = 5432
	}
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(port)),
		Path:   "/" + p.Database,
	}
	if p.SSLMode != "" {
		dsn.RawQuery = url.Values{"sslmode": {p.SSLMode}}.Encode()
	}

	db, err := sql.Open("pgx", dsn.String())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgresql: %w", err)
	}

	return NewInspector(db, Dialect{
		Name:        DialectPostgres,
		Schema:      orDefault(p.Schema, "public"),
		Placeholder: sq.Dollar,
		Keys:        KeysConstraintUsage,
	}), nil
}

func MySQLFactory(profilePath string) (Inspector, error) {
	p, err := LoadProfile(profilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	port := p.Port
	if port == 0 {
		port = 3306
	}
	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(p.Host, strconv.Itoa(port))
	cfg.DBName = p.Database

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}

	// mysql has no schemas below the database
	return NewInspector(db, Dialect{
		Name:        DialectMySQL,
		Schema:      orDefault(p.Schema, p.Database),
		Placeholder: sq.Question,
		Keys:        KeysReferencedColumns,
	}), nil
}

func SnowflakeFactory(profilePath string) (Inspector, error) {
	cfg, err := LoadSnowflakeConfig(profilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dsn, err := sf.DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create DSN: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	return NewInspector(db, Dialect{
		Name:        DialectSnowflake,
		Schema:      orDefault(cfg.Schema, "PUBLIC"),
		Placeholder: sq.Question,
		Keys:        KeysNone,
	}), nil
}

func DatabricksFactory(profilePath string) (Inspector, error) {
	cfg, err := LoadDatabricksProfile(profilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dsn := fmt.Sprintf("token:%s@%s%s", cfg.Token, cfg.Host, cfg.HTTPPath)
	params := url.Values{}
	if cfg.Catalog != "" {
		params.Set("catalog", cfg.Catalog)
	}
	if cfg.Schema != "" {
		params.Set("schema", cfg.Schema)
	}
	if qp := params.Encode(); qp != "" {
		dsn = dsn + "?" + qp
	}

	db, err := sql.Open("databricks", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Databricks: %w", err)
	}

	return NewInspector(db, Dialect{
		Name:        DialectDatabricks,
		Schema:      orDefault(cfg.Schema, "default"),
		Placeholder: sq.Question,
		Keys:        KeysNone,
	}), nil
}

func DuckDBFactory(profilePath string) (Inspector, error) {
	p, err := LoadProfile(profilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	db, err := sql.Open("duckdb", p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	return NewInspector(db, Dialect{
		Name:        DialectDuckDB,
		Schema:      orDefault(p.Schema, "main"),
		Placeholder: sq.Question,
		Keys:        KeysNone,
	}), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
