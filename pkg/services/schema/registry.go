package schema

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var ErrUnsupportedDialect = errors.New("unsupported dialect")

// InspectorFactory opens an Inspector from a connection profile path.
type InspectorFactory func(profilePath string) (Inspector, error)

// Registry manages dialect inspector factories
type Registry interface {
	Register(dialect string, factory InspectorFactory) error
	// Create opens an inspector for dialect using the profile at profilePath
	Create(dialect, profilePath string) (Inspector, error)
	ListDialects() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]InspectorFactory
}

func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]InspectorFactory),
	}
}

// DefaultRegistry returns a registry with every built-in dialect registered.
func DefaultRegistry() Registry {
	r := NewRegistry()
	for name, factory := range map[string]InspectorFactory{
		DialectPostgres:   PostgresFactory,
		DialectMySQL:      MySQLFactory,
		DialectSnowflake:  SnowflakeFactory,
		DialectDatabricks: DatabricksFactory,
		DialectDuckDB:     DuckDBFactory,
	} {
		_ = r.Register(name, factory)
	}
	return r
}

func (r *registry) Register(dialect string, factory InspectorFactory) error {
	if dialect == "" {
		return fmt.Errorf("dialect name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[dialect]; exists {
		return fmt.Errorf("dialect %q is already registered", dialect)
	}

	r.factories[dialect] = factory
	return nil
}

func (r *registry) Create(dialect, profilePath string) (Inspector, error) {
	r.mu.RLock()
	factory, exists := r.factories[dialect]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
	}

	return factory(profilePath)
}

func (r *registry) ListDialects() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dialects := make([]string, 0, len(r.factories))
	for dialect := range r.factories {
		dialects = append(dialects, dialect)
	}
	slices.Sort(dialects)
	return dialects
}
