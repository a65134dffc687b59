package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	factory := func(string) (Inspector, error) { return nil, nil }

	require.NoError(t, r.Register("b", factory))
	require.NoError(t, r.Register("a", factory))
	assert.Error(t, r.Register("a", factory))
	assert.Error(t, r.Register("", factory))
	assert.Error(t, r.Register("c", nil))

	assert.Equal(t, []string{"a", "b"}, r.ListDialects())

	_, err := r.Create("oracle", "profile.yaml")
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestDefaultRegistry(t *testing.T) {
	assert.Equal(t,
		[]string{DialectDatabricks, DialectDuckDB, DialectMySQL, DialectPostgres, DialectSnowflake},
		DefaultRegistry().ListDialects())
}

func TestDefaultRegistry_DuckDBProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema: main\n"), 0o644))

	inspector, err := DefaultRegistry().Create(DialectDuckDB, path)
	require.NoError(t, err)
	defer inspector.Close()

	schema, err := inspector.Inspect(t.Context())
	require.NoError(t, err)
	assert.Empty(t, schema.Tables)
}
