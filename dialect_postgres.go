package dbprocessor

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// postgresDialect reads information_schema and pg_catalog.
type postgresDialect struct {
	quoter pgQuoter
}

var postgresProbes = map[ProbeKind]string{
	ProbeSchema:       "select * from information_schema.schemata where schema_name = '{schema}'",
	ProbeTable:        "select * from information_schema.tables where table_schema = '{schema}' and table_name = '{table}'",
	ProbeColumn:       "select * from information_schema.columns where table_schema = '{schema}' and table_name = '{table}' and column_name = '{name}'",
	ProbeConstraint:   "select * from information_schema.table_constraints where constraint_catalog = current_catalog and table_schema = '{schema}' and table_name = '{table}' and constraint_name = '{name}'",
	ProbeIndex:        "select * from pg_catalog.pg_indexes where schemaname='{schema}' and tablename = '{table}' and indexname = '{name}'",
	ProbeSequence:     "select * from information_schema.sequences where sequence_catalog = current_catalog and sequence_schema ='{schema}' and sequence_name = '{name}'",
	ProbeDefaultValue: "select * from information_schema.columns where table_schema = '{schema}' and table_name = '{table}' and column_name = '{name}' and column_default like '{default}'",
}

func (postgresDialect) Name() string       { return "postgres" }
func (postgresDialect) DriverName() string { return "pgx" }

func (d postgresDialect) Quoter() Quoter { return d.quoter }

func (postgresDialect) EscapeLiteral(raw string) string { return EscapeForLiteral(raw) }

func (postgresDialect) ProbeTemplate(kind ProbeKind) (string, bool) {
	tmpl, ok := postgresProbes[kind]
	return tmpl, ok
}

// Open uses pgx's own connector for the "pgx" driver so the timeout becomes
// the driver's connect timeout. Other drivers (lib/pq registers "postgres")
// go through database/sql as-is.
func (postgresDialect) Open(driver, dsn string, timeout time.Duration) (*sql.DB, error) {
	if driver != "" && driver != "pgx" {
		return openDB(driver, dsn)
	}
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres connection string: %w", err)
	}
	if timeout > 0 {
		connCfg.ConnectTimeout = timeout
	}
	return stdlib.OpenDB(*connCfg), nil
}
