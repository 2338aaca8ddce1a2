package dbprocessor_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomnes/dbprocessor"
	"github.com/bcomnes/dbprocessor/internal/testutil"
)

// openSQLite opens a processor on a SQLite file, closing it when the test ends.
func openSQLite(t *testing.T, path string, cfg dbprocessor.Config) *dbprocessor.Processor {
	t.Helper()
	cfg.Dialect = "sqlite"
	if cfg.Announcer == nil {
		cfg.Announcer = dbprocessor.NewSlogAnnouncer(testutil.NewTestLogger(t), true)
	}
	p, err := dbprocessor.Open(cfg, "", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

const usersDDL = `CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL DEFAULT 'anon',
	attempts INTEGER DEFAULT 3
);
CREATE INDEX idx_users_name ON users (name);`

func TestSQLite_Probes(t *testing.T) {
	ctx := context.Background()
	p := openSQLite(t, filepath.Join(t.TempDir(), "probes.db"), dbprocessor.Config{})
	require.NoError(t, p.Execute(ctx, usersDDL))

	check := func(want bool, probe func() (bool, error)) {
		t.Helper()
		got, err := probe()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	check(true, func() (bool, error) { return p.SchemaExists(ctx, "") })
	check(true, func() (bool, error) { return p.SchemaExists(ctx, "main") })
	check(false, func() (bool, error) { return p.SchemaExists(ctx, "reporting") })

	check(true, func() (bool, error) { return p.TableExists(ctx, "", "users") })
	check(true, func() (bool, error) { return p.TableExists(ctx, `"main"`, `"users"`) })
	check(false, func() (bool, error) { return p.TableExists(ctx, "", "accounts") })
	check(false, func() (bool, error) { return p.TableExists(ctx, "", "idx_users_name") })

	check(true, func() (bool, error) { return p.ColumnExists(ctx, "", "users", "name") })
	check(false, func() (bool, error) { return p.ColumnExists(ctx, "", "users", "email") })

	check(true, func() (bool, error) { return p.IndexExists(ctx, "", "users", "idx_users_name") })
	check(false, func() (bool, error) { return p.IndexExists(ctx, "", "users", "idx_users_email") })

	check(true, func() (bool, error) { return p.DefaultValueExists(ctx, "", "users", "name", "anon") })
	check(false, func() (bool, error) { return p.DefaultValueExists(ctx, "", "users", "name", "admin") })
	check(true, func() (bool, error) { return p.DefaultValueExists(ctx, "", "users", "attempts", 3) })

	// Names that would break out of the literal are just names that do not exist.
	check(false, func() (bool, error) { return p.TableExists(ctx, "", "users' OR '1'='1") })
}

func TestSQLite_EscapedLiteralRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := openSQLite(t, filepath.Join(t.TempDir(), "escape.db"), dbprocessor.Config{})

	for _, raw := range []string{"plain", "O'Brien", "''", "'; DROP TABLE users; --"} {
		ds, err := p.Read(ctx, "SELECT '%s' AS v", dbprocessor.EscapeForLiteral(raw))
		require.NoError(t, err, raw)
		v, ok := ds.Table(0).Value(0, "v")
		require.True(t, ok)
		assert.Equal(t, raw, v)
	}
}

func TestSQLite_PreviewOnly(t *testing.T) {
	ctx := context.Background()
	rec := &testutil.RecordingAnnouncer{}
	p := openSQLite(t, filepath.Join(t.TempDir(), "preview.db"), dbprocessor.Config{PreviewOnly: true, Announcer: rec})

	require.NoError(t, p.Execute(ctx, "CREATE TABLE users (id INTEGER)"))

	ok, err := p.TableExists(ctx, "", "users")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"CREATE TABLE users (id INTEGER)"}, rec.Statements)
}

func TestSQLite_TransactionalRollbackOnClose(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tx.db")

	p := openSQLite(t, path, dbprocessor.Config{Transactional: true})
	require.NoError(t, p.Execute(ctx, "CREATE TABLE users (id INTEGER)"))

	// The open transaction sees its own changes.
	ok, err := p.TableExists(ctx, "", "users")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, p.Close())

	again := openSQLite(t, path, dbprocessor.Config{})
	ok, err = again.TableExists(ctx, "", "users")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLite_TransactionalCommit(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "commit.db")

	p := openSQLite(t, path, dbprocessor.Config{Transactional: true})
	require.NoError(t, p.Execute(ctx, "CREATE TABLE users (id INTEGER)"))
	require.NoError(t, p.CommitTransaction())
	require.NoError(t, p.Close())

	again := openSQLite(t, path, dbprocessor.Config{})
	ok, err := again.TableExists(ctx, "", "users")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLite_TransactionOutlivesStatementContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctx.db")
	p := openSQLite(t, path, dbprocessor.Config{Transactional: true})

	first, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Execute(first, "CREATE TABLE a (id INTEGER)"))
	cancel()

	ctx := context.Background()
	require.NoError(t, p.Execute(ctx, "CREATE TABLE b (id INTEGER)"))
	require.NoError(t, p.CommitTransaction())
	require.NoError(t, p.Close())

	again := openSQLite(t, path, dbprocessor.Config{})
	for _, table := range []string{"a", "b"} {
		ok, err := again.TableExists(ctx, "", table)
		require.NoError(t, err)
		assert.True(t, ok, table)
	}
}

func TestSQLite_PerformAndRead(t *testing.T) {
	ctx := context.Background()
	p := openSQLite(t, filepath.Join(t.TempDir(), "perform.db"), dbprocessor.Config{})
	require.NoError(t, p.Execute(ctx, usersDDL))

	err := p.Perform(ctx, func(ctx context.Context, conn *sql.Conn, _ *sql.Tx) error {
		for _, name := range []string{"alice", "bob"} {
			if _, err := conn.ExecContext(ctx, "INSERT INTO users (name) VALUES (?)", name); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	ds, err := p.ReadTableData(ctx, "main", "users")
	require.NoError(t, err)
	table := ds.Table(0)
	require.Len(t, table.Rows, 2)
	name, _ := table.Value(1, "name")
	assert.Equal(t, "bob", name)
	attempts, _ := table.Value(0, "attempts")
	assert.EqualValues(t, 3, attempts)
}

func TestSQLite_ProcessScript(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "001.create-users.sql")
	require.NoError(t, os.WriteFile(path, []byte(usersDDL+"\r\nINSERT INTO users (name) VALUES ('carol');\r\n"), 0o644))

	script, err := dbprocessor.LoadScript(path, "LF")
	require.NoError(t, err)

	rec := &testutil.RecordingAnnouncer{}
	p := openSQLite(t, filepath.Join(dir, "script.db"), dbprocessor.Config{Announcer: rec})
	require.NoError(t, p.ProcessScript(ctx, script))

	ok, err := p.Exists(ctx, "SELECT 1 FROM users WHERE name = '%s'", dbprocessor.EscapeForLiteral("carol"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, rec.Messages, "001.create-users (md5 "+script.Md5+")")
}

func TestSQLite_PreviewScriptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	sf, err := dbprocessor.CreateScriptFile(filepath.Join(dir, "previews"), "create users", "int")
	require.NoError(t, err)

	p := openSQLite(t, filepath.Join(dir, "preview.db"), dbprocessor.Config{PreviewOnly: true, Announcer: sf})
	require.NoError(t, p.Execute(ctx, "CREATE TABLE users (id INTEGER)"))
	require.NoError(t, p.Execute(ctx, "CREATE INDEX idx_users_id ON users (id);"))
	require.NoError(t, sf.Close())

	content, err := os.ReadFile(sf.Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "CREATE TABLE users (id INTEGER);\nCREATE INDEX idx_users_id ON users (id);\n")
}
