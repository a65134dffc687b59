package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/services/builder"
	"github.com/de-tools/report-atlas/pkg/store/client"
	"github.com/de-tools/report-atlas/pkg/store/duckdb"
	"github.com/de-tools/report-atlas/pkg/store/duckdb/draft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, opts Options, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	opts.Output = &out
	root := NewCLI(opts).Root()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_ExprRender(t *testing.T) {
	out, err := run(t, Options{}, "expr", "render", "--pattern", "month_extraction", "--date-field", "sales.sale_date")
	require.NoError(t, err)
	assert.Contains(t, out, "month_number [numeric]")
	assert.Contains(t, out, "sales.sale_date")

	_, err = run(t, Options{}, "expr", "render", "--pattern", "month_extraction")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete selection")

	_, err = run(t, Options{}, "expr", "render", "--pattern", "conditional_aggregation", "--months", "june")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid month range")
}

func TestCLI_ExprPatterns(t *testing.T) {
	out, err := run(t, Options{}, "expr", "patterns")
	require.NoError(t, err)
	assert.Contains(t, out, "month_extraction")
	assert.Contains(t, out, "Period-Based Aggregation")
}

func TestCLI_ScheduleNext(t *testing.T) {
	opts := Options{Now: func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }}

	out, err := run(t, opts, "schedule", "next", "--frequency", "weekly", "--day-of-week", "monday", "--count", "2")
	require.NoError(t, err)
	assert.Equal(t, "Weekly on Mondays at 09:00 UTC\nMon 2025-03-17 09:00 UTC\nMon 2025-03-24 09:00 UTC\n", out)

	_, err = run(t, opts, "schedule", "next", "--frequency", "weekly")
	assert.Error(t, err)
}

func TestCLI_CommandsNeedClient(t *testing.T) {
	_, err := run(t, Options{}, "login", "--user", "ana")
	assert.Error(t, err, "login is only registered when a client is configured")
}

func TestCLI_DraftFlow(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/data-sources/1/schema/" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(api.Schema{
			Tables: []string{"customers", "orders"},
			ColumnsByTable: map[string][]api.Column{
				"customers": {{Name: "id", Type: "uuid", PrimaryKey: true}, {Name: "name", Type: "text"}},
				"orders":    {{Name: "id", Type: "uuid"}, {Name: "customer_id", Type: "uuid"}, {Name: "total", Type: "numeric"}},
			},
		})
	}))
	defer backend.Close()

	c, err := client.New(client.Config{BaseURL: backend.URL + "/api"}, client.NewMemoryTokenStore())
	require.NoError(t, err)

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	defer db.Close()
	drafts, err := draft.NewStore(db)
	require.NoError(t, err)

	var seq int
	b, err := builder.NewBuilder(db, drafts, builder.WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("draft-%d", seq)
	}))
	require.NoError(t, err)

	opts := Options{Client: c, Builder: b}

	out, err := run(t, opts, "draft", "new", "--name", "Orders", "--datasource", "1", "--table", "customers", "--table", "orders")
	require.NoError(t, err)
	assert.Equal(t, "Created draft draft-1\n", out)

	_, err = run(t, opts, "draft", "new", "--name", "Broken", "--datasource", "1", "--table", "invoices")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `table "invoices" not found`)

	out, err = run(t, opts, "draft", "wizard", "draft-1", "--pattern", "conditional_aggregation", "--months", "1-3")
	require.NoError(t, err)
	assert.Contains(t, out, "period_total")
	assert.Contains(t, out, "orders.total")
	assert.Contains(t, out, "BETWEEN 1 AND 3")

	out, err = run(t, opts, "draft", "settings", "draft-1", "--format", "csv",
		"--frequency", "monthly", "--day-of-month", "5", "--recipient", "Ana <ana@example.com>")
	require.NoError(t, err)
	assert.Contains(t, out, "Format: CSV")
	assert.Contains(t, out, "Schedule: Monthly on day 5 at 09:00 UTC")
	assert.Contains(t, out, "Email: 1 recipient(s)")

	out, err = run(t, opts, "draft", "show", "draft-1")
	require.NoError(t, err)
	assert.Contains(t, out, "customers (2 columns)")
	assert.Contains(t, out, "customers.id LEFT JOIN orders.customer_id")
	assert.Contains(t, out, "period_total [numeric] (date_intelligence_wizard)")

	out, err = run(t, opts, "draft", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Orders")

	_, err = run(t, opts, "draft", "publish", "draft-1")
	assert.ErrorIs(t, err, builder.ErrReportsUnwired)
}
