package app

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/report-atlas/pkg/expression"
	"github.com/de-tools/report-atlas/pkg/services/builder"
	"github.com/de-tools/report-atlas/pkg/services/config"
	"github.com/de-tools/report-atlas/pkg/services/execution"
	"github.com/de-tools/report-atlas/pkg/store/client"
	"github.com/de-tools/report-atlas/pkg/store/duckdb"
	"github.com/de-tools/report-atlas/pkg/store/duckdb/draft"
	history "github.com/de-tools/report-atlas/pkg/store/duckdb/execution"
	"github.com/rs/zerolog"
)

// Components are the long-lived collaborators shared by the CLI and the web API.
type Components struct {
	DB       *sql.DB
	Client   *client.Client
	Sessions *config.SessionStore
	Engine   *expression.Engine
	Builder  builder.Builder
	Runner   *execution.Runner
	History  history.Store
}

func New(cfg *config.App) (*Components, error) {
	sessions, err := config.NewSessionStore(cfg.SessionFile, cfg.Profile)
	if err != nil {
		return nil, err
	}

	c, err := client.New(client.Config{BaseURL: cfg.APIURL}, sessions)
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	if cfg.DraftsDB != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DraftsDB), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.DraftsDB})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	drafts, err := draft.NewStore(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create draft store: %w", err)
	}
	executions, err := history.NewStore(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create execution history store: %w", err)
	}

	runner, err := execution.NewRunner(c, cfg.MediaURL,
		execution.WithPollConfig(execution.PollConfig{
			InitialDelay: cfg.Poll.InitialDelay,
			MaxDelay:     cfg.Poll.MaxDelay,
			Multiplier:   cfg.Poll.Multiplier,
			MaxAttempts:  cfg.Poll.MaxAttempts,
			Timeout:      cfg.Poll.Timeout,
		}),
		execution.WithHistory(executions),
	)
	if err != nil {
		db.Close()
		return nil, err
	}

	engine := expression.NewEngine()
	b, err := builder.NewBuilder(db, drafts, builder.WithEngine(engine), builder.WithReports(c))
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Components{
		DB:       db,
		Client:   c,
		Sessions: sessions,
		Engine:   engine,
		Builder:  b,
		Runner:   runner,
		History:  executions,
	}, nil
}

func (c *Components) Close() error {
	return c.DB.Close()
}

// Logger builds the process logger at the configured level.
func Logger(cfg *config.App, console bool) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if console {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}
