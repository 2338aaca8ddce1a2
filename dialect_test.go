package dbprocessor

import (
	"database/sql"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupDialect(t *testing.T) {
	tests := map[string]string{
		"postgres":   "postgres",
		"Postgres":   "postgres",
		"pg":         "postgres",
		"postgresql": "postgres",
		"sqlite":     "sqlite",
		"sqlite3":    "sqlite",
		" mysql ":    "mysql",
	}
	for in, want := range tests {
		d, err := LookupDialect(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d.Name(), in)
	}
}

func TestLookupDialect_Unknown(t *testing.T) {
	_, err := LookupDialect("oracle")
	require.Error(t, err)

	var unknown *UnknownDialectError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "oracle", unknown.Name)
	assert.Contains(t, unknown.Available, "postgres")
	assert.Contains(t, err.Error(), "db dialect 'oracle' not supported")
}

type stubDialect struct {
	sqliteDialect
}

func (stubDialect) Name() string { return "stub" }

func (stubDialect) Open(string, string, time.Duration) (*sql.DB, error) {
	return nil, errors.New("stub cannot connect")
}

func TestRegisterDialect(t *testing.T) {
	RegisterDialect(stubDialect{})
	t.Cleanup(func() {
		dialectsMu.Lock()
		delete(dialects, "stub")
		dialectsMu.Unlock()
	})

	d, err := LookupDialect("STUB")
	require.NoError(t, err)
	assert.Equal(t, "stub", d.Name())
	assert.Contains(t, Dialects(), "stub")

	_, err = Open(Config{Dialect: "stub"}, "", "")
	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, "stub", connErr.Dialect)
}

func TestDialects_Sorted(t *testing.T) {
	names := Dialects()
	assert.IsIncreasing(t, names)
	assert.Subset(t, names, []string{"mysql", "postgres", "sqlite"})
}

func TestRenderTemplate(t *testing.T) {
	out, err := renderTemplate(
		"select * from t where a = '{schema}' and b = '{table}' and c = '{schema}'",
		map[string]string{"schema": "app", "table": "O'Brien", "unused": "x"},
		EscapeForLiteral,
	)
	require.NoError(t, err)
	assert.Equal(t, "select * from t where a = 'app' and b = 'O''Brien' and c = 'app'", out)

	_, err = renderTemplate("select '{schema}', '{name}'", map[string]string{"schema": "app"}, EscapeForLiteral)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

// TestProbeTemplates_FullyBound renders every probe of every dialect to make
// sure each template's placeholders are bound for its kind.
func TestProbeTemplates_FullyBound(t *testing.T) {
	unsupported := map[string][]ProbeKind{
		"sqlite": {ProbeConstraint, ProbeSequence},
		"mysql":  {ProbeSequence},
	}
	ref := ObjectRef{Schema: "app", Table: "users", Name: "thing", Default: 1}

	for _, name := range []string{"postgres", "sqlite", "mysql"} {
		p, err := NewProcessor(Config{Dialect: name}, nil)
		require.NoError(t, err)

		for kind := ProbeSchema; kind <= ProbeDefaultValue; kind++ {
			query, err := p.ProbeSQL(kind, ref)
			if slices.Contains(unsupported[name], kind) {
				assert.ErrorIs(t, err, ErrUnsupportedProbe, "%s %s", name, kind)
				continue
			}
			require.NoError(t, err, "%s %s", name, kind)
			assert.NotContains(t, query, "{", "%s %s", name, kind)
			assert.Contains(t, query, "'app'", "%s %s", name, kind)
		}
	}
}
