package dbprocessor

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// mysqlDialect reads information_schema. An empty schema means the
// connection's current database. MySQL has no sequences.
type mysqlDialect struct {
	quoter identQuoter
}

var mysqlProbes = map[ProbeKind]string{
	ProbeSchema:       "select * from information_schema.schemata where schema_name = coalesce(nullif('{schema}', ''), database())",
	ProbeTable:        "select * from information_schema.tables where table_schema = coalesce(nullif('{schema}', ''), database()) and table_name = '{table}'",
	ProbeColumn:       "select * from information_schema.columns where table_schema = coalesce(nullif('{schema}', ''), database()) and table_name = '{table}' and column_name = '{name}'",
	ProbeConstraint:   "select * from information_schema.table_constraints where table_schema = coalesce(nullif('{schema}', ''), database()) and table_name = '{table}' and constraint_name = '{name}'",
	ProbeIndex:        "select * from information_schema.statistics where table_schema = coalesce(nullif('{schema}', ''), database()) and table_name = '{table}' and index_name = '{name}'",
	ProbeDefaultValue: "select * from information_schema.columns where table_schema = coalesce(nullif('{schema}', ''), database()) and table_name = '{table}' and column_name = '{name}' and column_default like '{default}'",
}

func (mysqlDialect) Name() string       { return "mysql" }
func (mysqlDialect) DriverName() string { return "mysql" }

func (d mysqlDialect) Quoter() Quoter { return d.quoter }

// EscapeLiteral also doubles backslashes: the default sql_mode reads them as
// escapes inside string literals.
func (mysqlDialect) EscapeLiteral(raw string) string { return escapeBackslashLiteral(raw) }

func (mysqlDialect) ProbeTemplate(kind ProbeKind) (string, bool) {
	tmpl, ok := mysqlProbes[kind]
	return tmpl, ok
}

// Open sets the driver's dial timeout from timeout.
func (mysqlDialect) Open(driver, dsn string, timeout time.Duration) (*sql.DB, error) {
	if driver != "" && driver != "mysql" {
		return openDB(driver, dsn)
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mysql connection string: %w", err)
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}
	return sql.OpenDB(connector), nil
}
