package dbprocessor_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomnes/dbprocessor"
	"github.com/bcomnes/dbprocessor/internal/testutil"
)

const mysqlTestDB = "dbprocessor_test"

// newMySQLProcessor creates a scratch database on the server named by
// DBPROCESSOR_TEST_MYSQL_DSN and returns a processor using it as the
// current database.
func newMySQLProcessor(t *testing.T) *dbprocessor.Processor {
	t.Helper()
	dsn := os.Getenv("DBPROCESSOR_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("DBPROCESSOR_TEST_MYSQL_DSN not set")
	}

	admin, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = admin.Close() })
	require.NoError(t, admin.Ping(), "failed to ping mysql")

	_, _ = admin.Exec("DROP DATABASE IF EXISTS " + mysqlTestDB)
	_, err = admin.Exec("CREATE DATABASE " + mysqlTestDB)
	require.NoError(t, err)

	mc, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	mc.DBName = mysqlTestDB

	p, err := dbprocessor.Open(dbprocessor.Config{
		Dialect:   "mysql",
		Announcer: dbprocessor.NewSlogAnnouncer(testutil.NewTestLogger(t), true),
	}, "", mc.FormatDSN())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = p.Close()
		_, _ = admin.Exec("DROP DATABASE IF EXISTS " + mysqlTestDB)
	})
	return p
}

func TestMySQL_Probes(t *testing.T) {
	ctx := context.Background()
	p := newMySQLProcessor(t)

	require.NoError(t, p.Execute(ctx, "CREATE TABLE orders (id INT PRIMARY KEY, state VARCHAR(20) DEFAULT 'open', CONSTRAINT uq_state UNIQUE (state, id))"))
	require.NoError(t, p.Execute(ctx, "CREATE INDEX idx_orders_state ON orders (state)"))

	check := func(want bool, probe func() (bool, error)) {
		t.Helper()
		got, err := probe()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	check(true, func() (bool, error) { return p.SchemaExists(ctx, "") })
	check(true, func() (bool, error) { return p.SchemaExists(ctx, mysqlTestDB) })
	check(true, func() (bool, error) { return p.TableExists(ctx, "", "orders") })
	check(true, func() (bool, error) { return p.TableExists(ctx, "`"+mysqlTestDB+"`", "`orders`") })
	check(false, func() (bool, error) { return p.TableExists(ctx, "", "invoices") })
	check(true, func() (bool, error) { return p.ColumnExists(ctx, "", "orders", "state") })
	check(true, func() (bool, error) { return p.ConstraintExists(ctx, "", "orders", "uq_state") })
	check(true, func() (bool, error) { return p.IndexExists(ctx, "", "orders", "idx_orders_state") })
	check(true, func() (bool, error) { return p.DefaultValueExists(ctx, "", "orders", "state", "open") })
	check(false, func() (bool, error) { return p.ColumnExists(ctx, "", "orders", `st\ate`) })

	_, err := p.SequenceExists(ctx, "", "orders_seq")
	assert.ErrorIs(t, err, dbprocessor.ErrUnsupportedProbe)
}
